package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/monolith/internal/config"
	"github.com/vango-dev/monolith/internal/errors"
	"github.com/vango-dev/monolith/pkg/middleware"
	"github.com/vango-dev/monolith/pkg/server"
)

type serveOptions struct {
	addr       string
	configPath string
	logLevel   string
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo todo application",
		Long: `Run the demo todo application.

The websocket endpoint is mounted on the configured path (default /ui).
Prometheus metrics are served on /metrics and a health check on /healthz.

Configuration is read from --config, or from monolith.yaml in the working
directory when present. Flags override the file.

Examples:
  monolith serve
  monolith serve --addr=127.0.0.1:9000
  monolith serve --config=deploy/monolith.yaml --log-level=debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "Address to listen on (default from config)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to "+config.ConfigFileName)
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	return cmd
}

// loadConfig resolves the configuration and applies flag overrides.
func loadConfig(opts serveOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case opts.configPath != "":
		cfg, err = config.LoadFile(opts.configPath)
	case config.Exists("."):
		cfg, err = config.Load(".")
	default:
		cfg = config.New()
	}
	if err != nil {
		return nil, err
	}

	if opts.addr != "" {
		cfg.Server.Address = opts.addr
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger. The auto format picks text when w
// is a terminal and JSON otherwise.
func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, errors.New("E140").Wrap(err)
	}
	opts := &slog.HandlerOptions{Level: level}

	format := lc.Format
	if format == "auto" {
		format = "json"
		if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			format = "text"
		}
	}

	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

// newServer wires a dispatcher, its metrics and the HTTP server from cfg.
// Metrics are registered with reg and exposed on /metrics.
func newServer(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*server.Server, *server.Dispatcher) {
	metrics := server.NewMetrics(server.WithRegistry(reg))
	d := server.NewDispatcher(cfg.ToDispatcherConfig(),
		server.WithLogger(logger),
		server.WithMetrics(metrics),
	)

	srv := server.New(cfg.ToServerConfig(), d, server.WithMiddleware(
		middleware.OpenTelemetry(),
		middleware.Prometheus(middleware.WithRegistry(reg)),
	))
	srv.Router().Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return srv, d
}

func runServe(ctx context.Context, opts serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	srv, d := newServer(cfg, logger, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)

	ln, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return errors.New("E120").
			WithDetail(cfg.Server.Address).
			Wrap(err).
			WithSuggestion("Pick another address with --addr")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	printBanner()
	if cfg.Path() == "" {
		warn("No %s found, using defaults", config.ConfigFileName)
	} else {
		success("Loaded %s", cfg.Path())
	}
	success("Listening on http://%s", ln.Addr())
	info("Websocket: %s", cfg.Server.Path)
	info("Metrics:   /metrics")
	info("Health:    /healthz")

	app := newTodoApp(d, logger)
	appErr := make(chan error, 1)
	go func() {
		appErr <- app.Run(ctx)
	}()

	if err := srv.Serve(ctx, ln); err != nil {
		return errors.New("E121").Wrap(err)
	}
	if err := <-appErr; err != nil {
		return errors.New("E121").Wrap(err)
	}

	success("Stopped")
	return nil
}
