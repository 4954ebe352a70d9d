package config

import (
	"fmt"
	"math"
	"time"
	_ "time/tzdata"

	"golang-stock-sentiment/pkg/config"
)

// Source kinds.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Source holds where and how the two raw input tables are read.
type Source struct {
	Kind           string `mapstructure:"kind"`
	CommunityFile  string `mapstructure:"community_file"`
	PriceFile      string `mapstructure:"price_file"`
	Encoding       string `mapstructure:"encoding"`
	PostDateLayout string `mapstructure:"post_date_layout"`
	Location       string `mapstructure:"location"`
}

// Grid holds the threshold search grid.
type Grid struct {
	LowerBound float64 `mapstructure:"lower_bound"`
	UpperBound float64 `mapstructure:"upper_bound"`
	Step       float64 `mapstructure:"step"`
	Workers    int     `mapstructure:"workers"`
}

// Report holds the output locations of the two report tables.
type Report struct {
	OutputDetailPath  string `mapstructure:"output_detail_path"`
	OutputSummaryPath string `mapstructure:"output_summary_path"`
	OverallLabel      string `mapstructure:"overall_label"`
	// DatedFiles suffixes report file names with the run time.
	DatedFiles bool `mapstructure:"dated_files"`
}

// Scheduler holds the cron expression used by the schedule command.
type Scheduler struct {
	Cron string `mapstructure:"cron"`
}

// Config holds the full configuration for the analysis service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Telegram  config.Telegram `mapstructure:"telegram"`
	Source    Source          `mapstructure:"source"`
	Grid      Grid            `mapstructure:"grid"`
	Report    Report          `mapstructure:"report"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
}

// Defaults are applied before the file and the environment.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.name":                        "stock-sentiment-analyzer",
		"app.env":                         "development",
		"logger.level":                    "info",
		"logger.encoding":                 "json",
		"source.kind":                     SourceCSV,
		"source.community_file":           "stock_community_labeled.csv",
		"source.price_file":               "stock_price_data_top80.csv",
		"source.encoding":                 "auto",
		"source.post_date_layout":         "2006.01.02 15:04",
		"source.location":                 "Asia/Seoul",
		"grid.lower_bound":                0.10,
		"grid.upper_bound":                0.90,
		"grid.step":                       0.05,
		"grid.workers":                    1,
		"report.output_detail_path":       "prediction_result_report.csv",
		"report.output_summary_path":      "accuracy_summary_report.csv",
		"report.overall_label":            "★전체 평균★",
		"report.dated_files":              false,
		"database.enabled":                false,
		"database.port":                   5432,
		"database.ssl_mode":               "disable",
		"redis.enabled":                   false,
		"redis.port":                      6379,
		"redis.stream_max_len":            1000,
		"telegram.enabled":                false,
		"telegram.max_message_per_minute": 20,
		"scheduler.cron":                  "30 16 * * 1-5",
		"api.port":                        8080,
		"api.cache_ttl":                   "1m",
	}
}

// Load loads the analysis configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, Defaults(), &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	g := c.Grid
	if g.Step <= 0 || math.IsNaN(g.Step) {
		return fmt.Errorf("grid.step must be positive, got %v", g.Step)
	}
	if g.LowerBound <= 0 || g.UpperBound >= 1 {
		return fmt.Errorf("grid bounds must lie in (0, 1), got [%v, %v]", g.LowerBound, g.UpperBound)
	}
	if g.LowerBound > g.UpperBound {
		return fmt.Errorf("grid.lower_bound %v is above grid.upper_bound %v", g.LowerBound, g.UpperBound)
	}
	switch c.Source.Kind {
	case SourceCSV:
		if c.Source.CommunityFile == "" || c.Source.PriceFile == "" {
			return fmt.Errorf("source.community_file and source.price_file are required for csv source")
		}
	case SourcePostgres:
		if !c.Database.Enabled {
			return fmt.Errorf("postgres source requires database.enabled")
		}
	default:
		return fmt.Errorf("unknown source.kind %q", c.Source.Kind)
	}
	if c.Report.OutputDetailPath == "" || c.Report.OutputSummaryPath == "" {
		return fmt.Errorf("report.output_detail_path and report.output_summary_path are required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves source.location, falling back to UTC when empty.
func (c *Config) Location() (*time.Location, error) {
	if c.Source.Location == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Source.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid source.location %q: %w", c.Source.Location, err)
	}
	return loc, nil
}
