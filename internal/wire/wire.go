// Package wire provides dependency injection for the driftwatch
// application. It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/example/driftwatch/internal/adapters/index"
	"github.com/example/driftwatch/internal/adapters/sqlite"
	"github.com/example/driftwatch/internal/app"
	"github.com/example/driftwatch/internal/config"
	"github.com/example/driftwatch/internal/db"
	"github.com/example/driftwatch/internal/ports/primary"
	"github.com/example/driftwatch/internal/ports/secondary"
	"github.com/example/driftwatch/internal/verifiers"
)

var (
	configDir     string
	mailboxClient secondary.MailboxClient

	cfg           *config.Config
	logger        *slog.Logger
	registry      *verifiers.Registry
	sweepService  primary.SweepService
	recordService primary.RecordService
	originService primary.OriginService
	once          sync.Once
)

// SetConfigDir overrides the configuration directory. Must be called
// before any service accessor.
func SetConfigDir(dir string) {
	configDir = dir
}

// SetMailboxClient installs the mailbox transport. When no client is
// set the mailbox verifier is not registered and mail records report
// verification errors instead of being checked.
func SetMailboxClient(client secondary.MailboxClient) {
	mailboxClient = client
}

// Config returns the loaded singleton configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the singleton structured logger.
func Logger() *slog.Logger {
	once.Do(initServices)
	return logger
}

// Registry returns the singleton verifier registry.
func Registry() *verifiers.Registry {
	once.Do(initServices)
	return registry
}

// SweepService returns the singleton SweepService instance.
func SweepService() primary.SweepService {
	once.Do(initServices)
	return sweepService
}

// RecordService returns the singleton RecordService instance.
func RecordService() primary.RecordService {
	once.Do(initServices)
	return recordService
}

// OriginService returns the singleton OriginService instance.
func OriginService() primary.OriginService {
	once.Do(initServices)
	return originService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load(configDir)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports)
	recordRepo := sqlite.NewRecordRepository(database)
	originRepo := sqlite.NewOriginRepository(database)

	// Register verifiers for the source types a transport exists for
	registry = verifiers.NewRegistry()
	ghVerifier, err := verifiers.NewGitHubVerifierFromConfig(cfg.GitHub.Token, cfg.GitHub.BaseURL, originRepo)
	if err != nil {
		log.Fatalf("failed to create github verifier: %v", err)
	}
	registry.Register(ghVerifier)
	if mailboxClient != nil {
		registry.Register(verifiers.NewMailboxVerifier(mailboxClient, originRepo))
	}

	var notifier secondary.IndexNotifier = index.NoopNotifier{}
	if cfg.Index.BaseURL != "" {
		notifier = index.NewHTTPNotifier(cfg.Index.BaseURL)
	}

	// Create services (primary ports implementation)
	sweepService = app.NewSweepService(recordRepo, registry, notifier, app.SweepConfig{
		BatchSize:         cfg.BatchSize,
		FailureThreshold:  cfg.FailureThreshold,
		MaxParallelGroups: cfg.MaxParallelGroups,
		PerGroupTimeout:   cfg.PerGroupTimeout,
		RecheckInterval:   cfg.RecheckInterval,
		SourceTypes:       cfg.SourceTypes,
		IndexCollection:   cfg.Index.Collection,
	}, logger)
	recordService = app.NewRecordService(recordRepo, cfg.RecheckInterval)
	originService = app.NewOriginService(originRepo)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
