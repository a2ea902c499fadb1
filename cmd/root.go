package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/quranstudy-backend/internal/app"
	"github.com/yungbote/quranstudy-backend/internal/data/db"
	"github.com/yungbote/quranstudy-backend/internal/data/seed"
)

const configEnv = "QURAN_CONFIG"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quranstudy",
		Short:         "Quran recitation practice backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Path to a YAML config file (overrides "+configEnv+")")

	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd())
	return root
}

// loadConfig resolves the config path from --config, then QURAN_CONFIG. An empty
// path means defaults plus environment only.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv(configEnv)
	}
	return app.LoadConfig(path)
}

func newServeCmd() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if !skipMigrate {
				a.Log.Info("Running migrations...")
				if err := db.AutoMigrateAll(a.DB); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}
			return a.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not auto-migrate the schema before serving")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, gdb, err := app.OpenDB(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()
			if err := db.AutoMigrateAll(gdb); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("Migrations complete")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate, then upsert the surah, verse and qari catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, gdb, err := app.OpenDB(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()
			if err := db.AutoMigrateAll(gdb); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			res, err := seed.Run(cmd.Context(), gdb, log)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Info("Seed complete", "surahs", res.Surahs, "verses", res.Verses, "qaris", res.Qaris)
			return nil
		},
	}
}
