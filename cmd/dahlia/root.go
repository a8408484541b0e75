package main

import (
	"context"
	"log"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/config"
	"github.com/Ramsey-B/dahlia/internal/bootstrap"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "dahlia",
	Short:         "Operational tooling for the stylist/celebrity directory",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(verifyCmd)
}

// setup loads config, builds the logger and connects to the database for a
// command run.
func setup(ctx context.Context) (*config.Config, ectologger.Logger, database.DB, error) {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := bootstrap.NewLogger(&cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := bootstrap.ConnectDB(ctx, &cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	return &cfg, logger, db, nil
}
