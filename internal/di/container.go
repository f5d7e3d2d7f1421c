package di

import (
	"context"
	"fmt"
	"time"

	"pagekit/internal/application/port/output"
	"pagekit/internal/infrastructure/browser/playwright"
	"pagekit/internal/infrastructure/browser/poll"
	"pagekit/internal/infrastructure/browser/rod"
	"pagekit/internal/infrastructure/env"
	"pagekit/internal/infrastructure/evidence"
	"pagekit/internal/infrastructure/llm/openrouter"
	"pagekit/internal/infrastructure/logger"
	"pagekit/internal/page"

	"go.uber.org/zap/zapcore"
)

type Container struct {
	Driver   output.DriverPort
	Logger   output.LoggerPort
	Evidence output.EvidencePort
	// Judge is nil unless an OpenRouter key is configured.
	Judge    output.JudgePort
	Settings env.Settings
}

// DriverFactory lets tests swap the browser for an in-memory driver.
type DriverFactory func(ctx context.Context, s env.Settings) (output.DriverPort, error)

type Config struct {
	Settings env.Settings
	RunName  string
	Driver   DriverFactory
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	s := cfg.Settings

	logCfg := logger.DefaultConfig()
	logCfg.Dir = s.LogDir
	logCfg.Console = s.LogConsole
	if s.Debug {
		logCfg.Level = zapcore.DebugLevel
	}
	log, err := logger.NewLoggerAdapter(cfg.RunName, logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	factory := cfg.Driver
	if factory == nil {
		factory = NewDriver
	}
	driver, err := factory(ctx, s)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}
	log.Info("driver ready", "driver", s.Driver, "headless", s.Headless)

	c := &Container{
		Driver:   driver,
		Logger:   log,
		Settings: s,
	}

	if s.EvidenceDir != "" {
		evCfg := evidence.DefaultConfig()
		evCfg.Dir = s.EvidenceDir
		c.Evidence = evidence.NewRecorder(evCfg, log.Named("evidence"))
	}

	if s.OpenRouterAPIKey != "" {
		judgeCfg := openrouter.DefaultConfig(s.OpenRouterAPIKey, s.OpenRouterModel)
		judgeCfg.Logger = log.Named("judge")
		c.Judge = openrouter.NewVisualJudge(judgeCfg)
	}

	return c, nil
}

// NewDriver launches the browser selected by s.Driver.
func NewDriver(ctx context.Context, s env.Settings) (output.DriverPort, error) {
	switch s.Driver {
	case env.DriverPlaywright:
		cfg := playwright.DefaultConfig()
		cfg.Headless = s.Headless
		cfg.SlowMotion = s.SlowMotion
		cfg.Timeout = s.Timeout
		cfg.Install = true
		b, err := playwright.NewBrowserAdapter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		cfg := rod.DefaultConfig()
		cfg.Headless = s.Headless
		cfg.SlowMotion = s.SlowMotion
		cfg.Timeout = s.Timeout
		cfg.Bin = s.BrowserBin
		cfg.NoSandbox = true
		cfg.Poll = poll.DefaultConfig()
		b, err := rod.NewBrowserAdapter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

// PageOptions are the interactor options every page object gets.
func (c *Container) PageOptions() []page.Option {
	opts := []page.Option{
		page.WithLogger(c.Logger),
		page.WithTimeout(c.Timeout()),
	}
	if c.Evidence != nil {
		opts = append(opts, page.WithEvidence(c.Evidence))
	}
	return opts
}

func (c *Container) Timeout() time.Duration {
	if c.Settings.Timeout <= 0 {
		return page.DefaultTimeout
	}
	return c.Settings.Timeout
}

func (c *Container) Close() {
	if c.Driver != nil {
		c.Driver.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
