package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ghkeep/ghkeep/internal/config"
	"github.com/ghkeep/ghkeep/internal/github"
	"github.com/ghkeep/ghkeep/internal/keeper"
	"github.com/ghkeep/ghkeep/internal/logger"
	"github.com/ghkeep/ghkeep/internal/redact"
)

// app holds the assembled components of one invocation.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	keeper *keeper.Service
}

// setup loads configuration, builds the redaction engine and the sanitizing
// logger, resolves credentials and assembles the keeper. The engine is
// frozen here, before anything can log concurrently.
func setup() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	engine, err := redact.New(redactOptions(cfg.Redact), zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("building redaction engine: %w", err)
	}

	loggerConfig := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File.Enabled {
		loggerConfig.File = &logger.FileConfig{
			Enabled: true,
			Path:    cfg.Logging.File.Path,
		}
	}

	log, err := logger.New(loggerConfig, engine)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	// The engine and logger are already frozen; a config change during a
	// long pass only takes effect on the next run.
	if err := config.Watch(func(*config.Config) {
		log.Info("configuration file changed, restart to apply")
	}); err != nil {
		log.Warn("config watch unavailable", zap.Error(err))
	}

	owner, token, err := config.Credentials()
	if err != nil {
		return nil, err
	}

	client := github.NewClient(cfg.GitHub, token, log.WithComponent("github").Logger)
	svc := keeper.New(client, owner, log.WithComponent("keeper").Logger)

	return &app{cfg: cfg, log: log, keeper: svc}, nil
}

func redactOptions(cfg config.RedactConfig) redact.Options {
	opts := redact.Options{
		Detectors:          cfg.Detectors,
		ExtraSensitiveKeys: cfg.SensitiveKeys,
	}
	for _, p := range cfg.Patterns {
		opts.ExtraPatterns = append(opts.ExtraPatterns, redact.ExtraPattern{
			Name:    p.Name,
			Pattern: p.Pattern,
		})
	}
	return opts
}
