// Package commands implements the hydroctl subcommands.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/hydrovibe/hydrosearch/internal/config"
	logpkg "github.com/hydrovibe/hydrosearch/internal/logger"
	"github.com/hydrovibe/hydrosearch/internal/metrics"
	catalogrepo "github.com/hydrovibe/hydrosearch/internal/repository/catalog"
	"github.com/hydrovibe/hydrosearch/internal/transport/provider"
	stacTransport "github.com/hydrovibe/hydrosearch/internal/transport/stac"
	searchparamsuc "github.com/hydrovibe/hydrosearch/internal/usecase/searchparams"
	stacuc "github.com/hydrovibe/hydrosearch/internal/usecase/stac"
)

// AppContext holds the services a command needs.
type AppContext struct {
	Config config.Config
	Logger *zap.Logger
	Params *searchparamsuc.Service
	Stac   *stacuc.Service
}

// NewAppContext loads the .env file and configuration and wires the pipeline
// the same way the server does.
func NewAppContext(cmd *cli.Command) (*AppContext, error) {
	if err := loadDotEnv(cmd.String("dotenv")); err != nil {
		return nil, err
	}

	env := cmd.String("env")
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cmd.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	cat, err := catalogrepo.New(cfg.Catalog.Path).Load()
	if err != nil {
		return nil, err
	}

	chats, err := provider.New(cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	params := searchparamsuc.New(chats, cat, cfg.LLM.Model, logger).
		WithAllowedModels(cfg.LLM.AllowedModels).
		WithUnknownIDFilter(cfg.Catalog.FilterUnknownIDs).
		WithConcurrentStages(cfg.LLM.ConcurrentStages).
		WithFieldFailureRecorder(metrics.FieldFailures{})

	stacClient := stacTransport.NewClient(&stacTransport.Config{
		SearchURL: cfg.Stac.SearchURL,
		Timeout:   time.Duration(cfg.Stac.TimeoutSec) * time.Second,
	})

	return &AppContext{
		Config: cfg,
		Logger: logger,
		Params: params,
		Stac:   stacuc.New(stacClient, cfg.Stac.Limit, logger),
	}, nil
}

// Close flushes the logger.
func (a *AppContext) Close() {
	_ = a.Logger.Sync()
}

// loadDotEnv reads path if it exists. Variables already set are kept.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
