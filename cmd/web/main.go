package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/benbjohnson/clock"
	"github.com/joho/godotenv"
	"github.com/learnzy/learnzy/internal/ai"
	"github.com/learnzy/learnzy/internal/envstruct"
	"github.com/learnzy/learnzy/internal/errors"
	"github.com/learnzy/learnzy/internal/logging"
	"github.com/learnzy/learnzy/internal/models"
	"github.com/learnzy/learnzy/internal/pprofserver"
	"github.com/learnzy/learnzy/internal/sqlite"
	"github.com/learnzy/learnzy/internal/store"
)

// questionGenerator produces a validated question set for one session. It is an
// interface so tests can swap the OpenAI-backed client for a canned one.
type questionGenerator interface {
	GenerateQuestionSet(
		ctx context.Context,
		category models.Category,
		difficulty models.Difficulty,
		topic string,
	) (models.QuestionSet, error)
}

type application struct {
	logger         *slog.Logger
	generator      questionGenerator
	sessionManager *scs.SessionManager
	engines        *engineRegistry
}

type configuration struct {
	// Addr is the address the server listens on, e.g. "localhost:4000".
	// Use port 0 to let the OS pick a free port.
	Addr string `env:"LEARNZY_ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the SQLite database file or ":memory:".
	SqliteURL string `env:"LEARNZY_SQLITE_URL" envDefault:"./learnzy.sqlite"`
	// PprofAddr enables the loopback pprof server when non-empty.
	PprofAddr string `env:"LEARNZY_PPROF_ADDR" envDefault:""`
	// OpenAIKey authenticates the question generation calls.
	OpenAIKey string `env:"OPENAI_API_KEY" envDefault:""`
}

// run wires the application together. The generator parameter is nil in
// production and replaced with a fake in tests.
func run(
	ctx context.Context,
	logger *slog.Logger,
	lookupEnv func(string) (string, bool),
	generator questionGenerator,
) error {
	var cfg configuration
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "parse environment variables")
	}

	if cfg.PprofAddr != "" {
		pprofserver.Launch(cfg.PprofAddr, logger)
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to database")

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(db.ReadWrite, 24*time.Hour)
	// The session cookie stands in for the device identity, so it should
	// outlive any single quiz session by a wide margin.
	sessionManager.Lifetime = 365 * 24 * time.Hour

	if generator == nil {
		generator = ai.NewClient(cfg.OpenAIKey, logger)
	}

	app := application{
		logger:         logger,
		generator:      generator,
		sessionManager: sessionManager,
		engines:        newEngineRegistry(store.New(db, logger), clock.New(), logger),
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	// Missing .env is fine outside development.
	_ = godotenv.Load()

	if err := run(context.Background(), logger, os.LookupEnv, nil); err != nil {
		logger.Error(err.Error(), errors.SlogError(err))
		os.Exit(1)
	}
}
