package main

import (
	"fmt"
	"os"

	"github.com/coreos/fero/config"
	"github.com/spf13/cobra"
)

func addUserCmd() *cobra.Command {
	var certPath string

	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "register a PGP principal (local, not reachable over the network)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return addUser(certPath)
		},
	}

	cmd.Flags().StringVar(&certPath, "cert", "", "path to the user's binary PGP certificate")
	cmd.MarkFlagRequired("cert")

	return cmd
}

func addUser(certPath string) error {
	if err := config.Init(); err != nil {
		return err
	}

	cert, err := os.ReadFile(certPath)
	if err != nil {
		return err
	}

	conn, err := connect()
	if err != nil {
		return err
	}
	defer conn.Close()

	fingerprint, err := conn.Dispatcher.AddUser(cert)
	if err != nil {
		return err
	}

	fmt.Printf("added user %s\n", fingerprint)

	return nil
}
