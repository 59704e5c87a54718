// Package app builds the shared components a CLI command needs from the
// process configuration and the global flags.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llm-page-assistant/internal/common"
	"github.com/dtnitsch/llm-page-assistant/models"
	dbpkg "github.com/dtnitsch/llm-page-assistant/pkg/db"
	"github.com/dtnitsch/llm-page-assistant/pkg/dispatcher"
	"github.com/dtnitsch/llm-page-assistant/pkg/extractor"
	"github.com/dtnitsch/llm-page-assistant/pkg/fetcher"
	"github.com/dtnitsch/llm-page-assistant/pkg/llm"
	"github.com/dtnitsch/llm-page-assistant/pkg/session"
	"github.com/dtnitsch/llm-page-assistant/pkg/storage"
)

type App struct {
	Config     models.AppConfig
	Logger     *slog.Logger
	DB         *dbpkg.DB
	Source     *extractor.Source
	Dispatcher *dispatcher.Dispatcher
	Storage    *storage.Storage
	Format     string
}

// FromContext loads configuration, applies global flag overrides and opens
// the database. The caller must Close the result.
func FromContext(c *cli.Context) (*App, error) {
	cfg, err := common.LoadAppConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	applyFlags(c, &cfg)

	logger := common.NewLogger(cfg.LogLevel, c.Bool("quiet"))
	slog.SetDefault(logger)

	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return New(cfg, database, logger, c.String("format")), nil
}

func applyFlags(c *cli.Context, cfg *models.AppConfig) {
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("chrome-path") {
		cfg.ChromePath = c.String("chrome-path")
	}
	if c.IsSet("detect-language") {
		cfg.DetectLanguage = c.Bool("detect-language")
	}
	if c.IsSet("readability") {
		cfg.ReadabilityFallback = c.Bool("readability")
	}
}

// New wires the components around an open database.
func New(cfg models.AppConfig, database *dbpkg.DB, logger *slog.Logger, format string) *App {
	f := fetcher.NewFetcher(fetcher.Options{
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.FetchTimeout,
		ChromePath: cfg.ChromePath,
	})
	e := extractor.New(extractor.Options{
		DetectLanguage:      cfg.DetectLanguage,
		ReadabilityFallback: cfg.ReadabilityFallback,
	}, logger)

	// zero timeout leaves model calls unbounded
	client := llm.NewClient(&http.Client{Timeout: cfg.LLMTimeout})

	return &App{
		Config: cfg,
		Logger: logger,
		DB:     database,
		Source: extractor.NewSource(f, e, logger),
		Dispatcher: dispatcher.New(database, client,
			dispatcher.WithRecorder(database),
			dispatcher.WithLogger(logger),
		),
		Storage: &storage.Storage{},
		Format:  format,
	}
}

// NewSession starts a session whose notifications go to n. A nil n
// discards them.
func (a *App) NewSession(n session.Notifier) *session.Session {
	opts := []session.Option{session.WithLogger(a.Logger)}
	if n != nil {
		opts = append(opts, session.WithNotifier(n))
	}
	return session.New(a.Dispatcher, opts...)
}

// Print writes v to stdout in the selected output format.
func (a *App) Print(v interface{}) error {
	return common.Print(a.Format, v)
}

func (a *App) Close() error {
	return a.DB.Close()
}
