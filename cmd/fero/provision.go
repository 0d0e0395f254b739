package main

import (
	"fmt"

	"github.com/coreos/fero/config"
	"github.com/coreos/fero/hsm"
	"github.com/coreos/fero/store"
	"github.com/spf13/cobra"
	"gopkg.in/mgo.v2/bson"
)

// provisionCmd is the supplemented bootstrap subcommand (SPEC_FULL.md):
// apply the database schema and root log row, open the application-credential
// session, and persist a freshly generated HSM password into the config
// file — adapted from the original fero-server's provisioning flow,
// which formats the device and creates the fero_admin/fero_app authkeys
// it operates under. This service's device transport is a software
// stand-in (§1: the vendor driver is out of scope), so there is no
// factory-reset step to perform; opening the first session is what
// establishes the application credential here.
func provisionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "apply the database schema and establish the HSM application credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			return provision()
		},
	}
}

func provision() error {
	if err := config.Init(); err != nil {
		return err
	}

	st, err := store.Open(config.Config.DatabaseUrl)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(); err != nil {
		return err
	}
	if err := st.Bootstrap(); err != nil {
		return err
	}

	password := bson.NewObjectId().Hex()

	transport := hsm.NewDevTransport()
	gw, err := hsm.Open(transport, config.Config.HsmAuthkeyId, password)
	if err != nil {
		return err
	}
	defer gw.Close()

	config.Config.HsmPassword = password
	if err := config.Save(); err != nil {
		return err
	}

	fmt.Printf("provisioned application authkey %d\n", config.Config.HsmAuthkeyId)
	fmt.Printf("hsm password written to %s\n", "fero.conf")

	return nil
}
