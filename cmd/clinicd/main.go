package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinic-records/internal/config"
	"github.com/jwalitptl/clinic-records/pkg/logger"
)

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	var configPath string
	rootCmd := &cobra.Command{
		Use:           "clinicd",
		Short:         "Clinic records API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(migrateCmd(&configPath))
	rootCmd.AddCommand(tokenCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		logger.NewLogger(nil).Error(err, "command failed")
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		Format:     cfg.Log.Format,
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		Output:     os.Stdout,
	})
}
