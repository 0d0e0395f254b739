package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sirupsen/logrus"
	"github.com/coreos/fero/audit"
	"github.com/coreos/fero/config"
	"github.com/coreos/fero/constants"
	"github.com/coreos/fero/internal/proto"
	"github.com/coreos/fero/logger"
	"github.com/coreos/fero/server"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the signing service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	if err := config.Init(); err != nil {
		return err
	}

	logger.Init()
	logger.SetLevel(config.Config.LogLevel)

	conn, err := connect()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := audit.Reconcile(conn.Gateway, conn.Store); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", config.Config.ListenAddress)
	if err != nil {
		return err
	}

	grpcServer := grpc.NewServer()
	proto.RegisterFeroServer(grpcServer, server.New(conn.Dispatcher, conn.Store))

	logrus.WithField("address", config.Config.ListenAddress).Info("main: Starting server")

	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			logrus.WithError(err).Error("main: Server stopped")
		}
	}()

	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	constants.Interrupt = true

	logrus.Info("main: Shutting down")
	grpcServer.GracefulStop()
	time.Sleep(300 * time.Millisecond)

	return nil
}
