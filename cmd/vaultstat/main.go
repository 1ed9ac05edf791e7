package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/vaultstat/internal/account"
	"github.com/mtlprog/vaultstat/internal/api"
	"github.com/mtlprog/vaultstat/internal/config"
	"github.com/mtlprog/vaultstat/internal/depositor"
	"github.com/mtlprog/vaultstat/internal/hyperliquid"
	"github.com/mtlprog/vaultstat/internal/logging"
	"github.com/mtlprog/vaultstat/internal/metrics"
	"github.com/mtlprog/vaultstat/internal/vault"
	"github.com/mtlprog/vaultstat/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	a := &application{}
	err := a.cli().RunContext(ctx, os.Args)
	stop()
	if err != nil {
		slog.Error("vaultstat failed", "error", err)
		os.Exit(1)
	}
}

type application struct {
	cfg       config.Config
	logCloser io.Closer
}

func (a *application) cli() *cli.App {
	return &cli.App{
		Name:  "vaultstat",
		Usage: "aggregate follower and leader performance of Hyperliquid vaults",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before reading the environment"},
		},
		Before: a.before,
		After:  a.after,
		Action: a.serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API and the vault poller",
				Action: a.serve,
			},
			{
				Name:  "depositors",
				Usage: "print the depositor table of a vault",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "vault", Required: true, Usage: "vault address"},
				},
				Action: a.depositors,
			},
			{
				Name:   "poll",
				Usage:  "run one refresh cycle over the vault registry and print the result",
				Action: a.poll,
			},
		},
	}
}

func (a *application) before(c *cli.Context) error {
	if err := godotenv.Load(c.String("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading env file: %w", err)
	}

	a.cfg = config.Load()

	closer, err := logging.Setup(logging.Options{Level: a.cfg.LogLevel, Format: a.cfg.LogFormat, File: a.cfg.LogFile})
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	a.logCloser = closer
	return nil
}

func (a *application) after(_ *cli.Context) error {
	if a.logCloser != nil {
		return a.logCloser.Close()
	}
	return nil
}

type services struct {
	recorder   *metrics.Recorder
	depositors *depositor.Service
	accounts   *account.Service
	vaults     *vault.Service
}

func (a *application) services(reg prometheus.Registerer) services {
	recorder := metrics.New(reg)
	client := hyperliquid.NewClient(a.cfg.HyperliquidURL,
		hyperliquid.WithTimeout(a.cfg.HyperliquidTimeout),
		hyperliquid.WithRateLimit(a.cfg.HyperliquidRPS, a.cfg.HyperliquidBurst),
		hyperliquid.WithObserver(recorder),
	)

	depositorSvc := depositor.NewService(client)
	accountSvc := account.NewService(client)
	return services{
		recorder:   recorder,
		depositors: depositorSvc,
		accounts:   accountSvc,
		vaults:     vault.NewService(accountSvc, depositorSvc, vault.WithRecorder(recorder)),
	}
}

func (a *application) serve(c *cli.Context) error {
	ctx := c.Context

	vaults, err := config.LoadVaults(a.cfg.VaultsFile)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	svc := a.services(reg)

	poller := worker.NewVaultPoller(svc.vaults, vaults, a.cfg.RefreshInterval,
		worker.WithCycleRecorder(svc.recorder),
		worker.WithLogger(slog.Default().With("component", "poller")),
	)
	if err := poller.Start(ctx); err != nil {
		return fmt.Errorf("starting poller: %w", err)
	}

	handler := api.NewHandler(svc.depositors, svc.accounts, poller)
	srv := api.NewServer(a.cfg.HTTPPort, handler, reg, a.cfg.AdminAPIKey)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", a.cfg.HTTPPort, "vaults", len(vaults))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down...")
	case err = <-serveErr:
		slog.Error("HTTP server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		slog.Error("HTTP server shutdown error", "error", shutdownErr)
	}
	if stopErr := poller.Stop(shutdownCtx); stopErr != nil {
		slog.Error("poller shutdown error", "error", stopErr)
	}

	slog.Info("Shutdown complete")
	return err
}

func (a *application) depositors(c *cli.Context) error {
	svc := a.services(prometheus.NewRegistry())
	result, err := svc.depositors.Aggregate(c.Context, c.String("vault"))
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, result)
}

func (a *application) poll(c *cli.Context) error {
	vaults, err := config.LoadVaults(a.cfg.VaultsFile)
	if err != nil {
		return err
	}

	svc := a.services(prometheus.NewRegistry())
	report, err := svc.vaults.Collect(c.Context, vaults)
	if err != nil {
		return err
	}
	if report.Failures != nil {
		slog.Warn("some vaults failed", "dropped", report.Dropped, "errors", report.Failures)
	}
	return printJSON(c.App.Writer, report.Vaults)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
