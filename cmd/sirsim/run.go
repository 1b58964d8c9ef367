package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-sirs/pkg/config"
	"github.com/dd0wney/cluso-sirs/pkg/health"
	"github.com/dd0wney/cluso-sirs/pkg/logging"
	"github.com/dd0wney/cluso-sirs/pkg/metrics"
	"github.com/dd0wney/cluso-sirs/pkg/simulation"
)

type runOutput struct {
	json         bool
	perCommunity bool
	hold         bool
}

func newRunCmd() *cobra.Command {
	var (
		pf          paramFlags
		out         runOutput
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation without the terminal UI",
		Long: `Run the simulation to completion and print every timestep, starting
with the initial state at t=0.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := pf.load(cmd.Flags())
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				cfg.Metrics.Addr = metricsAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runHeadless(ctx, cfg, cfg.Logger(), cmd.OutOrStdout(), out)
		},
	}

	pf.register(cmd.Flags())
	cmd.Flags().BoolVarP(&out.json, "json", "j", false, "print each frame as a JSON object")
	cmd.Flags().BoolVar(&out.perCommunity, "communities", false, "print per-community counts under each timestep")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().BoolVar(&out.hold, "hold", false, "keep serving metrics after the run until interrupted")

	return cmd
}

// frameWriter prints frames as the engine emits them and keeps the first
// write error.
type frameWriter struct {
	out          io.Writer
	enc          *json.Encoder
	perCommunity bool
	err          error
}

func newFrameWriter(out io.Writer, o runOutput) *frameWriter {
	w := &frameWriter{out: out, perCommunity: o.perCommunity}
	if o.json {
		w.enc = json.NewEncoder(out)
	}
	return w
}

func (w *frameWriter) Observe(f simulation.Frame) {
	if w.err != nil {
		return
	}
	if w.enc != nil {
		w.err = w.enc.Encode(f)
		return
	}
	_, w.err = fmt.Fprintln(w.out, renderFrameLine(f, w.perCommunity))
}

func runHeadless(ctx context.Context, cfg *config.Config, logger logging.Logger, out io.Writer, o runOutput) error {
	writer := newFrameWriter(out, o)
	opts := append(cfg.Options(logger), simulation.WithObserver(writer))

	progress := health.NewProgress(cfg.Simulation.Iterations)
	opts = append(opts, simulation.WithObserver(simulation.ObserverFunc(func(f simulation.Frame) {
		progress.Advance(f.RunID, f.Global.Timestep)
	})))

	if cfg.Metrics.Addr != "" {
		reg := metrics.NewRegistry()
		opts = append(opts, simulation.WithMetrics(reg))
		srv := serveMetrics(cfg.Metrics.Addr, reg, progress, logger)
		defer shutdownServer(srv, logger)
	}

	engine, err := simulation.New(cfg.Params(), opts...)
	if err != nil {
		return err
	}

	for engine.Timestep() < cfg.Simulation.Iterations {
		if err := ctx.Err(); err != nil {
			logger.Warn("run interrupted", logging.Timestep(engine.Timestep()))
			return err
		}
		if _, err := engine.Step(); err != nil {
			progress.Fail(err)
			return err
		}
		if writer.err != nil {
			return fmt.Errorf("write frame: %w", writer.err)
		}
	}
	if writer.err != nil {
		return fmt.Errorf("write frame: %w", writer.err)
	}

	if o.hold && cfg.Metrics.Addr != "" {
		logger.Info("run complete, serving metrics until interrupted", logging.String("addr", cfg.Metrics.Addr))
		<-ctx.Done()
	}
	return nil
}

// newMux serves Prometheus metrics and the run's health endpoints.
func newMux(reg *metrics.Registry, progress *health.Progress) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.GetPrometheusRegistry(), promhttp.HandlerOpts{}))

	hc := health.NewHealthChecker()
	hc.RegisterLivenessCheck("engine", progress.EngineCheck())
	hc.RegisterReadinessCheck("initialized", progress.InitializedCheck())
	hc.Register(mux)
	return mux
}

func serveMetrics(addr string, reg *metrics.Registry, progress *health.Progress, logger logging.Logger) *http.Server {
	mux := newMux(reg, progress)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics server listening", logging.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", logging.Error(err))
		}
	}()
	return srv
}

func shutdownServer(srv *http.Server, logger logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("metrics server shutdown", logging.Error(err))
	}
}
