package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	csvadapter "github.com/iho/txledger/internal/adapter/csv"
	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/infrastructure/config"
	"github.com/iho/txledger/internal/infrastructure/logger"
	"github.com/iho/txledger/internal/infrastructure/metrics"
	"github.com/iho/txledger/internal/usecase"
)

const inputBufferSize = 1 << 16

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ledger",
		Short:         "Batch transaction ledger",
		Long:          `Computes client balances from a CSV stream of deposits, withdrawals, disputes, resolves and chargebacks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newProcessCmd(cfg), newGenerateCmd())

	return rootCmd
}

func newProcessCmd(cfg *config.Config) *cobra.Command {
	opts := *cfg

	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Process a transactions CSV and print account balances",
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) == 0:
				return errors.New("no input file provided")
			case len(args) > 1:
				return errors.New("there should be only one input file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, &opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", cfg.Workers, "Number of shards (0 processes sequentially)")
	cmd.Flags().IntVar(&opts.MailboxSize, "mailbox-size", cfg.MailboxSize, "Queued records per shard")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", cfg.LogFormat, "Log format (console, json)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this file")

	return cmd
}

func runProcess(cmd *cobra.Command, cfg *config.Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.WithRunID(logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	}))

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return err
	}
	defer file.Close()

	m := metrics.New()
	processor, err := usecase.NewProcessor(usecase.ProcessorConfig{
		Workers:     cfg.Workers,
		MailboxSize: cfg.MailboxSize,
	}, m, log)
	if err != nil {
		return err
	}

	reader := csvadapter.NewReader(bufio.NewReaderSize(file, inputBufferSize), log)

	log.Info().Str("file", path).Int("workers", cfg.Workers).Msg("processing started")
	start := time.Now()

	snap, err := processor.Process(cmd.Context(), reader)
	if err != nil {
		log.Error().Err(err).Msg("processing failed")
		return err
	}

	elapsed := time.Since(start)
	m.ObserveRun(snap, reader.Skipped(), elapsed)

	if err := csvadapter.NewWriter(cmd.OutOrStdout()).WriteSnapshot(snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	log.Info().
		Int("accounts", len(snap)).
		Int("locked", snap.LockedCount()).
		Int("skipped_rows", reader.Skipped()).
		Dur("elapsed", elapsed).
		Msg("processing finished")

	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	return nil
}

func newGenerateCmd() *cobra.Command {
	var (
		rows    int
		clients int
		amount  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic deposit CSV for stress testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := domain.ParseMoney(amount)
			if err != nil {
				return err
			}

			return csvadapter.Generate(cmd.OutOrStdout(), csvadapter.GenerateOptions{
				Rows:    rows,
				Clients: clients,
				Amount:  value,
			})
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 1_000_000, "Number of deposit rows")
	cmd.Flags().IntVar(&clients, "clients", 1, "Number of clients to spread deposits over")
	cmd.Flags().StringVar(&amount, "amount", "10.001", "Amount of every deposit")

	return cmd
}
