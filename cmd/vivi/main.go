package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vivi-ai/vivi-planner/config"
	srv "github.com/vivi-ai/vivi-planner/internal/server"
)

func main() {
	// Local runs keep secrets in .env; missing file is fine.
	_ = godotenv.Load()

	var root = &cobra.Command{Use: "vivi"}

	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./config/config.json)")

	var serveAddr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(configPath)
			if serveAddr != "" {
				cfg.Server.Address = serveAddr
			}
			return srv.Run(cfg)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")

	var migDir string
	var direction string
	var steps int
	var migrate = &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(configPath)
			dsn := os.Getenv("DATABASE_URL")
			if dsn == "" && cfg.Storage.Postgres.Configured() {
				var err error
				dsn, err = cfg.Storage.Postgres.DSN()
				if err != nil {
					return err
				}
			}
			if dsn == "" {
				return fmt.Errorf("postgres not configured (DATABASE_URL or storage.postgres)")
			}
			return srv.Migrate(migDir, dsn, direction, steps)
		},
	}
	migrate.Flags().StringVar(&migDir, "dir", "file://migrations", "migrations source (file://migrations)")
	migrate.Flags().StringVar(&direction, "direction", "up", "up or down")
	migrate.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = all)")

	root.AddCommand(serve, migrate)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
