package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/internal/extensibility"
	"github.com/comalice/fsmx/internal/production"
)

func orderCmd() *cobra.Command {
	var (
		amount float64
		events []string
	)
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Walk an order through the order machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := extensibility.NewLoggingActionRunner(extensibility.NewRecoveringActionRunner(nil), logger)
			opts := append(cfg.EngineOptions(logger), fsmx.WithActionRunner(runner))
			m, err := orderMachine(opts...)
			if err != nil {
				return fmt.Errorf("build order machine: %w", err)
			}

			o := order{ID: uuid.NewString(), Amount: amount}
			state := orderNew
			for _, name := range events {
				next, err := m.FireEvent(state, orderEvent(name), o)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s: %v\n", state, name, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s -> %s\n", state, name, next)
				state = next
			}

			return saveReports(cmd.Context(), m)
		},
	}
	cmd.Flags().Float64Var(&amount, "amount", 250, "order amount used by the routing guards")
	cmd.Flags().StringSliceVar(&events, "events", []string{"Pay", "ConfirmPayment", "Process", "Ship"}, "events to fire in order")
	return cmd
}

func trafficCmd() *cobra.Command {
	var cycles int
	cmd := &cobra.Command{
		Use:   "traffic",
		Short: "Drive the traffic light from its state timeouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			records := make(chan fsmx.Envelope, max(cfg.PublishBuffer, 1))
			publisher := production.NewChannelPublisher(records)
			opts := append(cfg.EngineOptions(logger), fsmx.WithPublisher(publisher))
			m, err := trafficMachine(cfg.TickInterval, opts...)
			if err != nil {
				return fmt.Errorf("build traffic machine: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			tracker := extensibility.NewTracker(m, red, struct{}{}, extensibility.WithTrackerLogger(logger))
			done := make(chan error, 1)
			go func() { done <- tracker.Run(ctx, max(cfg.TickInterval/4, time.Millisecond)) }()

			for seen := 0; seen < cycles; {
				select {
				case env := <-records:
					seen++
					fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s -> %s (%s)\n", seen, env.From, env.To, env.ID)
				case <-ctx.Done():
					seen = cycles
				}
			}
			cancel()
			if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			_ = publisher.Close()

			return saveReports(cmd.Context(), m)
		},
	}
	cmd.Flags().IntVar(&cycles, "cycles", 6, "number of light changes to wait for")
	return cmd
}

func exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:       "export [orders|traffic]",
		Short:     "Print a machine as DOT, PlantUML, JSON or YAML",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"orders", "traffic"},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := buildExportable(args[0])
			if err != nil {
				return err
			}
			v := &production.DefaultVisualizer{}
			var out []byte
			switch strings.ToLower(format) {
			case "dot":
				out = []byte(m.ToDOT())
			case "plantuml", "puml":
				out = []byte(m.ToPlantUML())
			case "json":
				out, err = v.ExportJSON(m.Describe())
			case "yaml":
				out, err = v.ExportYAML(m.Describe())
			default:
				return fmt.Errorf("unknown format %q: want dot, plantuml, json or yaml", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, plantuml, json or yaml")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the traffic light and expose machine metrics for Prometheus",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := cfg.EngineOptions(logger)
			traffic, err := trafficMachine(cfg.TickInterval, append(opts, fsmx.WithID("traffic"))...)
			if err != nil {
				return fmt.Errorf("build traffic machine: %w", err)
			}
			orders, err := orderMachine(append(opts, fsmx.WithID("orders"))...)
			if err != nil {
				return fmt.Errorf("build order machine: %w", err)
			}

			registry := fsmx.NewRegistry()
			for _, m := range []fsmx.Machine{traffic, orders} {
				if err := registry.Register(m); err != nil {
					return err
				}
			}

			sources := make([]production.MetricsSource, 0, len(registry.IDs()))
			for _, m := range registry.Machines() {
				sources = append(sources, m)
			}
			reg := prometheus.NewRegistry()
			reg.MustRegister(production.NewCollector("fsmx", sources...))

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

			tracker := extensibility.NewTracker(traffic, red, struct{}{}, extensibility.WithTrackerLogger(logger))
			go func() { _ = tracker.Run(ctx, max(cfg.TickInterval/4, time.Millisecond)) }()

			errc := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", cfg.ListenAddr).Msg("serving metrics")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			for _, m := range registry.Machines() {
				if err := saveReports(shutdownCtx, m); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

type reporter interface {
	ID() string
	Report() production.Report
}

// saveReports writes m's report when FSM_REPORT_DIR is set.
func saveReports(ctx context.Context, m reporter) error {
	w, err := cfg.ReportWriter()
	if err != nil || w == nil {
		return err
	}
	if err := w.Save(ctx, m.Report()); err != nil {
		return fmt.Errorf("save %s report: %w", m.ID(), err)
	}
	logger.Info().Str("machine", m.ID()).Str("path", w.Path(m.ID())).Msg("report saved")
	return nil
}
