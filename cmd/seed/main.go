package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/mehmetcc/nursery/internal/config"
	"github.com/mehmetcc/nursery/internal/content"
	"github.com/mehmetcc/nursery/internal/database"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var file string
	var envFile string

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Replace all site content with the contents of a data file",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), file, envFile)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed/nursery-data.json", "path to the JSON data file")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	return cmd
}

func run(ctx context.Context, file, envFile string) (err error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	defer func() { _ = logger.Sync() }()

	dbConfig, err := config.LoadDbConfig(logger, envFile)
	if err != nil {
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return errors.Wrap(err, "failed to open data file")
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	data, err := content.ReadSeedData(f)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	db, err := database.Init(ctx, dbConfig)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	database.SetMigrationLogger(logger)
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	return content.NewSeeder(db, logger).Replace(ctx, data)
}
