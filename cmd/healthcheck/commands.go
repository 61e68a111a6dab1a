package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/spf13/cobra"

	"github.com/polkiloo/ffmarket/internal/pkg/auth"
)

type monitorEnv struct {
	ServerURL  string        `env:"SERVER_URL" envDefault:"http://localhost:5000"`
	Interval   time.Duration `env:"CHECK_INTERVAL" envDefault:"30s"`
	MaxRetries int           `env:"MAX_RETRIES" envDefault:"3"`
}

func newRootCmd(out io.Writer) *cobra.Command {
	defaults := monitorEnv{}
	if err := env.Parse(&defaults); err != nil {
		defaults = monitorEnv{ServerURL: "http://localhost:5000", Interval: 30 * time.Second, MaxRetries: 3}
	}

	var (
		opts Options
		once bool
	)

	cmd := &cobra.Command{
		Use:           "healthcheck",
		Short:         "Monitor the ffmarket payment server health endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(out, nil))
			monitor, err := NewMonitor(opts, logger)
			if err != nil {
				return err
			}
			if once {
				report, err := monitor.Probe(cmd.Context())
				if err != nil {
					return fmt.Errorf("health check failed: %w", err)
				}
				fmt.Fprintf(out, "healthy version=%s supabase=%s\n", report.Version, report.Supabase)
				return nil
			}
			monitor.Run(cmd.Context())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ServerURL, "url", defaults.ServerURL, "Base URL of the payment server")
	cmd.Flags().DurationVar(&opts.Interval, "interval", defaults.Interval, "Delay between checks")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 5*time.Second, "Per request timeout")
	cmd.Flags().IntVar(&opts.MaxRetries, "max-retries", defaults.MaxRetries, "Consecutive failures before alerting")
	cmd.Flags().BoolVar(&once, "once", false, "Probe a single time and exit with its result")

	cmd.AddCommand(newHashTokenCmd(out))
	return cmd
}

func newHashTokenCmd(out io.Writer) *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-token [token]",
		Short: "Print the bcrypt hash to use as OPERATOR_TOKEN_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return errors.New("token must not be empty")
			}
			hash, err := auth.NewBcryptHasher(cost).Hash(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost, default cost when zero")
	return cmd
}
