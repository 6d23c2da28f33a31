package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrenbrandao/bank-accounts/pkg/config"
	"github.com/andrenbrandao/bank-accounts/pkg/domain"
	"github.com/andrenbrandao/bank-accounts/pkg/logger"
	"github.com/andrenbrandao/bank-accounts/pkg/repositories"
	honeycomb "github.com/honeycombio/honeycomb-opentelemetry-go"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bank",
		Short:         "In-memory bank accounts with exact decimal balances",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newTransferCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the bank over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log, err := logger.New(os.Stdout, cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Telemetry {
		otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
			otelconfig.WithSpanProcessor(honeycomb.NewBaggageSpanProcessor()),
		)
		if err != nil {
			return fmt.Errorf("unable to configure telemetry: %w", err)
		}
		defer otelShutdown()
	}

	repo := repositories.NewAccountRepository(domain.NewBank(cfg.BankName), log)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newServer(repo, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("listening to requests", "addr", cfg.Addr, "bank", cfg.BankName)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newTransferCmd() *cobra.Command {
	var (
		bankName    string
		fromOwner   string
		fromBalance string
		toOwner     string
		toBalance   string
		amount      string
	)
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer between two ad-hoc accounts and print the balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values := make(map[string]decimal.Decimal, 3)
			for name, raw := range map[string]string{"from-balance": fromBalance, "to-balance": toBalance, "amount": amount} {
				d, err := decimal.NewFromString(raw)
				if err != nil {
					return fmt.Errorf("invalid --%s %q: %w", name, raw, err)
				}
				values[name] = d
			}

			from := domain.NewAccount(fromOwner, values["from-balance"])
			to := domain.NewAccount(toOwner, values["to-balance"])
			bank := domain.NewBank(bankName)
			bank.AddAccount(from)
			bank.AddAccount(to)

			if err := bank.Transfer(from, to, values["amount"]); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", bank.Name())
			for _, a := range bank.Accounts() {
				fmt.Fprintln(out, a)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&bankName, "bank", "IBK", "bank name")
	flags.StringVar(&fromOwner, "from", "Miguel", "owner of the debited account")
	flags.StringVar(&fromBalance, "from-balance", "1500.8989", "opening balance of the debited account")
	flags.StringVar(&toOwner, "to", "Jhon Doe", "owner of the credited account")
	flags.StringVar(&toBalance, "to-balance", "2500", "opening balance of the credited account")
	flags.StringVar(&amount, "amount", "500", "amount to transfer")
	return cmd
}
