// Command fero runs the quorum-signing service (§1) and its local
// provisioning tools. Subcommands follow spf13/cobra, the CLI framework
// the retrieved pack's own deployment tooling builds on.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/coreos/fero/errortypes"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "fero",
		Short: "quorum-authorized signing service",
	}

	root.AddCommand(
		serveCmd(),
		provisionCmd(),
		addUserCmd(),
		addSecretCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a startup failure to the process exit code spec §6
// promises: 1 for a configuration problem, 2 for an HSM the service
// could not open a session with, 3 for persistent-store corruption the
// startup reconciliation pass caught (a gap in the mirrored HSM log
// indices, surfaced by
// audit.Reconcile as an InternalError so the detail never reaches a
// network caller). Anything else — a bad config file, a database the
// service can't reach — falls back to 1.
func exitCode(err error) int {
	var hsmErr *errortypes.HsmError
	if errors.As(err, &hsmErr) {
		return 2
	}

	var internalErr *errortypes.InternalError
	if errors.As(err, &internalErr) {
		return 3
	}

	return 1
}
