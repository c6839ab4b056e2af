package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"knapsack/internal/config"
	"knapsack/internal/logging"
	"knapsack/internal/metrics"
	"knapsack/internal/store"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath  string
	logLevel    string
	logJSON     bool
	storeKind   string
	dbPath      string
	metricsAddr string

	cfg     config.File
	logger  *slog.Logger
	store   store.Store
	metrics *metrics.Reporter
	closers []func() error
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut}
}

// execute runs one invocation and releases whatever setup opened, even when
// the command itself failed.
func (a *app) execute(args []string) error {
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.Execute()
	return errors.Join(err, a.teardown())
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "knapsack",
		Short:        "Solve 0/1 knapsack instances with a genetic algorithm or simulated annealing",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&a.logJSON, "log-json", false, "write logs as JSON")
	pf.StringVar(&a.storeKind, "store", "", "run store backend: memory or sqlite")
	pf.StringVar(&a.dbPath, "db", "", "SQLite database path for the sqlite store")
	pf.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running (e.g. :9090)")

	root.AddCommand(
		newGACmd(a),
		newSACmd(a),
		newGenerateCmd(a),
		newBenchCmd(a),
		newRunsCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = a.logJSON
	}
	if flags.Changed("store") {
		cfg.Store.Backend = a.storeKind
	}
	if flags.Changed("db") {
		cfg.Store.Path = a.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logger, closeLog, err := logging.New(cfg.Log, a.errOut)
	if err != nil {
		return err
	}
	a.logger = logger
	a.closers = append(a.closers, closeLog)

	st, err := store.NewStore(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return err
	}
	if err := st.Init(cmd.Context()); err != nil {
		return fmt.Errorf("init %s store: %w", cfg.Store.Backend, err)
	}
	a.store = st
	a.closers = append(a.closers, func() error { return store.CloseIfSupported(st) })

	if a.metricsAddr != "" {
		a.serveMetrics()
	}
	return nil
}

func (a *app) serveMetrics() {
	reg := prometheus.NewRegistry()
	a.metrics = metrics.NewReporter(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Addr: a.metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "addr", a.metricsAddr, "error", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", a.metricsAddr)

	a.closers = append(a.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})
}

// teardown closes everything setup opened. It is safe to call more than once.
func (a *app) teardown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
