package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-sentiment/internal/analyzer/config"
	delivery "golang-stock-sentiment/internal/analyzer/delivery/http"
	_ "golang-stock-sentiment/internal/analyzer/docs"
	"golang-stock-sentiment/internal/analyzer/service"
	"golang-stock-sentiment/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the sentiment threshold search once and writes the reports",
	RunE:  runOnce,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Runs the sentiment threshold search on the configured cron schedule",
	RunE:  runSchedule,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API over persisted analysis runs",
	RunE:  runServe,
}

func bootstrap() (*application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Starting Stock Sentiment Analyzer",
		logger.StringField("name", cfg.App.Name),
		logger.StringField("source", cfg.Source.Kind),
		logger.FloatField("grid_lower_bound", cfg.Grid.LowerBound),
		logger.FloatField("grid_upper_bound", cfg.Grid.UpperBound),
		logger.FloatField("grid_step", cfg.Grid.Step),
	)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize application", logger.ErrorField(err))
		_ = appLogger.Sync()
		return nil, err
	}
	app.closers = append([]func(){func() { _ = appLogger.Sync() }}, app.closers...)
	return app, nil
}

func runOnce(cmd *cobra.Command, args []string) error {
	app, err := bootstrap()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := app.analysis.Run(ctx)
	if errors.Is(err, service.ErrNoViableResult) {
		return fmt.Errorf("no viable result: no threshold matched any trading day")
	}
	if err != nil {
		return err
	}

	ev := result.Report.Evaluation
	fmt.Fprintf(cmd.OutOrStdout(), "best threshold %.0f%%: accuracy %.2f%% over %d recommendations, score %.4f\n",
		ev.Threshold*100, ev.Accuracy*100, ev.MatchedRowCount, ev.Score)
	fmt.Fprintf(cmd.OutOrStdout(), "detail report: %s\nsummary report: %s\n", result.DetailPath, result.SummaryPath)
	return nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	app, err := bootstrap()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := app.cfg.Location()
	if err != nil {
		return err
	}
	scheduler, err := service.NewSchedulerService(app.analysis, app.cfg.Scheduler.Cron, loc, app.logger)
	if err != nil {
		return err
	}
	return scheduler.Start(ctx)
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := bootstrap()
	if err != nil {
		return err
	}
	defer app.Close()

	if app.runRepo == nil {
		return errors.New("serve requires database.enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cacheTTL, err := time.ParseDuration(app.cfg.API.CacheTTL)
	if err != nil || cacheTTL <= 0 {
		app.logger.Warn("Invalid api.cache_ttl, using 1m", logger.StringField("cache_ttl", app.cfg.API.CacheTTL))
		cacheTTL = time.Minute
	}

	runSvc := service.NewRunService(app.runRepo, app.analysis, app.logger)

	e := echo.New()
	e.HideBanner = true

	runHandler := delivery.NewRunHandler(runSvc, app.logger, cacheTTL)
	apiV1 := e.Group("/api/v1")
	runHandler.RegisterRoutes(apiV1.Group("/runs"))

	e.GET("/swagger/*", swagger.WrapHandler)

	go func() {
		addr := fmt.Sprintf("%s:%d", app.cfg.API.Host, app.cfg.API.Port)
		app.logger.Info("HTTP server starting", logger.StringField("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			app.logger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()
	app.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	app.logger.Info("Server exiting")
	return nil
}

// @title Stock Sentiment Backtest API
// @version 1.0
// @description Read access to sentiment threshold backtest runs.
// @BasePath /api/v1
func main() {
	log.SetFlags(0)
	rootCmd := &cobra.Command{
		Use:           "analysis-service",
		Short:         "Backtests community sentiment against next-session stock price direction",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-analyzer.yaml", "Path to the configuration file")

	rootCmd.AddCommand(runCmd, scheduleCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing analysis-service CLI: %s\n", err)
		os.Exit(1)
	}
}
