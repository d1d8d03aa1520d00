package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/climadash/climadash/internal/config"
	"github.com/climadash/climadash/internal/ingest"
	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/store"
	"github.com/climadash/climadash/internal/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type options struct {
	dir       string
	envFile   string
	config    string
	storeType string
	batchSize int
	clear     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "load_dataset",
		Short: "Aggregate device CSV exports by hour and load them into the reading store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "../Dataset", "directory holding the *.csv exports")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env.local", "dotenv file loaded before configuration")
	cmd.Flags().StringVar(&opts.config, "config", "", "path to configuration file")
	cmd.Flags().StringVar(&opts.storeType, "store", "mongo", "store backend (memory, redis, mongo); empty uses the configuration")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "insert batch size (default from ingest.batch_size)")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "remove existing dataset buckets first")

	return cmd
}

func run(ctx context.Context, opts *options) error {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			fmt.Fprintf(os.Stderr, "No %s file found. Falling back to OS environment variables.\n", opts.envFile)
		}
	}

	cfg, err := config.Load(opts.config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.storeType != "" {
		cfg.Store.Type = opts.storeType
		if err := cfg.Store.Validate(); err != nil {
			return fmt.Errorf("invalid store configuration: %w", err)
		}
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.SetGlobal(logger)

	connectCtx, cancel := context.WithTimeout(ctx, utils.StoreConnectTimeout)
	s, err := store.New(connectCtx, cfg.Store)
	cancel()
	if err != nil {
		logger.Error("Failed to connect to store", "type", cfg.Store.Type, "error", err)
		return err
	}
	defer func() { _ = s.Close() }()
	logger.Info("Connected to store", "type", cfg.Store.Type)

	batchSize := opts.batchSize
	if batchSize <= 0 {
		batchSize = cfg.Ingest.BatchSize
	}

	loader := ingest.NewLoader(s, ingest.LoaderConfig{
		BatchSize: batchSize,
		Clear:     opts.clear,
		Location:  cfg.Server.Location(),
	}, logger, nil)

	summary, err := loader.LoadDir(ctx, opts.dir)
	if err != nil {
		logger.Error("Error loading dataset", "error", err)
		return err
	}

	for _, f := range summary.Files {
		fmt.Printf("%-28s parsed %6d  skipped %4d  hourly %5d  (reduced by %d%%)  inserted %5d\n",
			f.File, f.Parsed, f.Skipped, f.Buckets, f.Reduction, f.Inserted)
	}
	fmt.Printf("\nTotal records inserted: %d\n", summary.Inserted)
	return nil
}
