package main

import (
	"golang-stock-sentiment/internal/analyzer/config"
	"golang-stock-sentiment/internal/analyzer/repository"
	"golang-stock-sentiment/internal/analyzer/service"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/postgres"
	"golang-stock-sentiment/pkg/redis"
	"golang-stock-sentiment/pkg/telegram"
)

// application holds the services shared by every command.
type application struct {
	cfg      *config.Config
	logger   *logger.Logger
	analysis service.AnalysisService
	runRepo  repository.AnalysisRunRepository
	closers  []func()
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApplication(cfg *config.Config, appLogger *logger.Logger) (*application, error) {
	app := &application{cfg: cfg, logger: appLogger}
	deps := service.AnalysisDependencies{}

	if cfg.Database.Enabled {
		db, err := postgres.NewDB(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			app.Close()
			return nil, err
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			app.closers = append(app.closers, func() { _ = sqlDB.Close() })
		}
		app.runRepo = repository.NewAnalysisRunRepository(db.DB)
		deps.RunRepo = app.runRepo

		if cfg.Source.Kind == config.SourcePostgres {
			deps.Source = repository.NewPostgresSourceRepository(db.DB)
		}
	}

	if deps.Source == nil {
		source, err := repository.NewCSVSourceRepository(cfg.Source.CommunityFile, cfg.Source.PriceFile, cfg.Source.Encoding)
		if err != nil {
			app.Close()
			return nil, err
		}
		deps.Source = source
	}

	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = redisClient.Close() })
		deps.Publisher = repository.NewRedisResultPublisherRepository(redisClient.Client, cfg.Redis.StreamMaxLen)
	}

	if cfg.Telegram.Enabled {
		notifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxMessagePerMinute)
		if err != nil {
			app.Close()
			return nil, err
		}
		deps.Notifier = notifier
	}

	deps.Searcher = service.NewThresholdSearchService(cfg.Grid, appLogger)
	deps.Reporter = service.NewReportService(repository.NewCSVReportRepository(), cfg.Report.OverallLabel, appLogger)

	analysis, err := service.NewAnalysisService(cfg, appLogger, deps)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.analysis = analysis
	return app, nil
}
