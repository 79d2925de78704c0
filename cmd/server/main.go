/*
main.go - Application entry point

PURPOSE:
  CLI for the recargo engine. Starts the HTTP server and offers one-off
  commands for classifying a shift and listing holidays.

COMMANDS:
  serve      Start the HTTP API (default config: config.yaml, .env, RECARGOS_*)
  compute    Classify one shift against the statutory calendar
  holidays   List the Colombian holidays of a year

STARTUP SEQUENCE (serve):
  1. Load configuration
  2. Initialize logger
  3. Initialize SQLite store
  4. Wire calendar provider, planilla service and API handler
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  ./server serve --config ./config.yaml
  RECARGOS_DATABASE_PATH=":memory:" ./server serve
  ./server compute --date 2025-07-20 --start 6 --end 18
  ./server holidays --year 2026

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration keys
*/
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/recargo-engine/api"
	"github.com/warp/recargo-engine/calendar"
	"github.com/warp/recargo-engine/config"
	"github.com/warp/recargo-engine/planilla"
	"github.com/warp/recargo-engine/recargo"
	"github.com/warp/recargo-engine/store/sqlite"
	"go.uber.org/zap"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "recargos",
		Short: "Colombian payroll surcharge engine",
		Long:  "Classify driver shifts into HED, HEN, HEFD, HEFN, RN and RD hours and keep monthly planillas",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default ./config.yaml if present)")

	rootCmd.AddCommand(serveCmd(), computeCmd(), holidaysCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return serve(cfg, logger)
		},
	}
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	cal := calendar.NewProvider(store, logger.Named("calendar"))
	svc := planilla.NewService(store, cal, logger.Named("planilla"))
	handler := api.NewHandler(svc, cal, store, logger.Named("api"))
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("database", cfg.Database.Path))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func computeCmd() *cobra.Command {
	var date string
	var start, end float64

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Classify one shift against the statutory calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("invalid --date (use YYYY-MM-DD): %w", err)
			}
			shift := recargo.NewShift(d.Year(), d.Month(), d.Day(), start, end)
			totals, err := recargo.ComputeShiftSurcharges(shift, calendar.ColombiaSet(d.Year(), d.Year()+1))
			if err != nil {
				return err
			}
			return printTotals(cmd.OutOrStdout(), shift, totals)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day the shift starts on (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&start, "start", 0, "Start hour, e.g. 8 or 8.5")
	cmd.Flags().Float64Var(&end, "end", 0, "End hour; lower than start crosses midnight")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func printTotals(out io.Writer, shift recargo.Shift, t recargo.Totals) error {
	fmt.Fprintf(out, "Turno %s (%s horas)\n", shift, t.TotalHours)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, b := range recargo.Buckets {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b, t.Get(b), b.Description())
	}
	return tw.Flush()
}

func holidaysCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List the Colombian holidays of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year < 1 || year > 9999 {
				return fmt.Errorf("invalid --year %d", year)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, h := range calendar.Colombia(year) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", h.Date.Format("2006-01-02"), h.Date.Weekday(), h.Name, h.Kind)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Calendar year")
	return cmd
}
