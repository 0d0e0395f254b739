package main

import (
	"fmt"
	"os"

	"github.com/coreos/fero/config"
	"github.com/coreos/fero/store"
	"github.com/spf13/cobra"
)

// addSecretCmd registers a new secret (§4.5, AddSecret): the private
// key material goes straight into the HSM, never touching the store.
// --pgp-public-key is required for a PGP secret, since building the
// wire-format signature later needs the subkey's public certificate,
// not just its handle.
func addSecretCmd() *cobra.Command {
	var (
		name        string
		keyPath     string
		keyTypeFlag string
		pgpKeyPath  string
		threshold   int
	)

	cmd := &cobra.Command{
		Use:   "add-secret",
		Short: "register a new secret (local, not reachable over the network)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return addSecret(name, keyPath, keyTypeFlag, pgpKeyPath, threshold)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "secret's addressable name")
	cmd.Flags().StringVar(&keyPath, "key", "", "path to the PKCS#1 DER private key to import into the HSM")
	cmd.Flags().StringVar(&keyTypeFlag, "type", "pem", "key type: pem or pgp")
	cmd.Flags().StringVar(&pgpKeyPath, "pgp-public-key", "", "path to the subkey's binary PGP public key (required for --type pgp)")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "initial quorum threshold")

	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("key")

	return cmd
}

func addSecret(name, keyPath, keyTypeFlag, pgpKeyPath string, threshold int) error {
	if err := config.Init(); err != nil {
		return err
	}

	keyType := store.KeyType(keyTypeFlag)
	if keyType != store.KeyTypePEM && keyType != store.KeyTypePGP {
		return fmt.Errorf("fero: --type must be pem or pgp, got %q", keyTypeFlag)
	}

	keyMaterial, err := os.ReadFile(keyPath)
	if err != nil {
		return err
	}

	var pgpPublicKey []byte
	if keyType == store.KeyTypePGP {
		if pgpKeyPath == "" {
			return fmt.Errorf("fero: --pgp-public-key is required for --type pgp")
		}
		pgpPublicKey, err = os.ReadFile(pgpKeyPath)
		if err != nil {
			return err
		}
	}

	conn, err := connect()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Dispatcher.AddSecret(name, keyMaterial, keyType, pgpPublicKey, threshold); err != nil {
		return err
	}

	fmt.Printf("added secret %s\n", name)

	return nil
}
