package env

import (
	"time"

	"pagekit/internal/application/port/output"
)

const (
	DriverRod        = "rod"
	DriverPlaywright = "playwright"
)

// Settings is everything the container needs, read from the environment.
type Settings struct {
	Driver      string
	Headless    bool
	Timeout     time.Duration
	SlowMotion  time.Duration
	BrowserBin  string
	EvidenceDir string
	LogDir      string
	LogConsole  bool
	Debug       bool
	TargetURL   string

	OpenRouterAPIKey string
	OpenRouterModel  string
}

func LoadSettings(cfg output.ConfigPort) Settings {
	driver := cfg.GetWithDefault("PAGEKIT_DRIVER", DriverRod)
	if driver != DriverPlaywright {
		driver = DriverRod
	}

	return Settings{
		Driver:      driver,
		Headless:    cfg.GetBool("PAGEKIT_HEADLESS", true),
		Timeout:     cfg.GetDuration("PAGEKIT_TIMEOUT", 10*time.Second),
		SlowMotion:  cfg.GetDuration("PAGEKIT_SLOW_MOTION", 0),
		BrowserBin:  cfg.Get("PAGEKIT_BROWSER_BIN"),
		EvidenceDir: cfg.Get("PAGEKIT_EVIDENCE_DIR"),
		LogDir:      cfg.GetWithDefault("PAGEKIT_LOG_DIR", "log"),
		LogConsole:  cfg.GetBool("PAGEKIT_LOG_CONSOLE", false),
		Debug:       cfg.GetBool("PAGEKIT_DEBUG", false),
		TargetURL:   cfg.Get("PAGECHECK_URL"),

		OpenRouterAPIKey: cfg.Get("OPENROUTER_API_KEY"),
		OpenRouterModel:  cfg.GetWithDefault("OPENROUTER_MODEL_NAME", "openai/gpt-4o-mini"),
	}
}
