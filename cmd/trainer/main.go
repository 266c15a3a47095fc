// Package main is the trainer server entrypoint.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/config"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/log"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/server"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/store"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

var (
	flagConfig   string
	flagAddr     string
	flagDatabase string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "trainer",
	Short: "Vocabulary trainer.",
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the trainer server.",
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return errors.Wrap(err, "load config failed")
	}
	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}
	if flagDatabase != "" {
		cfg.Database.Path = flagDatabase
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	log.SetLevel(cfg.Log.Level)

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return errors.Wrap(err, "open store failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.WithError(err).Error("store close failed")
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adminUser := os.Getenv("TRAINER_ADMIN_USER")
	if adminUser == "" {
		adminUser = "admin"
	}
	adminPass := os.Getenv("TRAINER_ADMIN_PASSWORD")
	if adminPass == "" {
		adminPass = "admin"
	}
	if err := server.EnsureAdmin(ctx, st, adminUser, adminPass); err != nil {
		return errors.Wrap(err, "ensure admin failed")
	}

	return errors.Wrap(server.New(cfg, st).Run(ctx), "run server failed")
}

func init() {
	serverCmd.Flags().StringVar(&flagConfig, "config", "", "path to JSON config file")
	serverCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
	serverCmd.Flags().StringVar(&flagDatabase, "db", "", "database path (overrides config)")
	serverCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level (overrides config)")
	rootCmd.AddCommand(serverCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
}
