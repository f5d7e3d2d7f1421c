package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"pagekit/internal/assertion"
	"pagekit/internal/di"
	"pagekit/internal/domain/testcontext"
	"pagekit/internal/infrastructure/env"
	"pagekit/internal/infrastructure/fixture"
	"pagekit/internal/pages/dashboard"
	"pagekit/internal/pages/login"
)

func main() {
	envService := env.NewEnvService("")
	settings := env.LoadSettings(envService)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	baseURL := settings.TargetURL
	if baseURL == "" {
		site, err := fixture.Start(fixture.DefaultConfig())
		if err != nil {
			log.Fatalf("fixture site: %v", err)
		}
		defer site.Close(context.Background())
		baseURL = site.URL()
	}

	container, err := di.NewContainer(ctx, di.Config{
		Settings: settings,
		RunName:  "pagecheck",
	})
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer container.Close()

	container.Logger.Info("pagecheck started", "url", baseURL, "driver", settings.Driver)

	if err := run(ctx, container, envService, baseURL); err != nil {
		container.Logger.Error("pagecheck failed", "error", err)
		fmt.Printf("\nFAILED: %v\n", err)
		container.Close()
		os.Exit(1)
	}

	container.Logger.Info("pagecheck passed")
	fmt.Println("\nPASSED")
}

func run(ctx context.Context, c *di.Container, cfg *env.EnvService, baseURL string) error {
	tc := testcontext.New()
	opts := c.PageOptions()

	lp := login.New(login.NewDefinition(c.Driver, tc), baseURL, opts...)
	if err := lp.Open(ctx); err != nil {
		return fmt.Errorf("open login: %w", err)
	}

	creds := login.Credentials{
		User:     cfg.GetWithDefault("PAGECHECK_USER", "alice"),
		Password: cfg.GetWithDefault("PAGECHECK_PASSWORD", "secret"),
		Role:     cfg.GetWithDefault("PAGECHECK_ROLE", "Editor"),
		Remember: cfg.GetBool("PAGECHECK_REMEMBER", true),
	}
	if err := lp.SignIn(ctx, creds); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	dp := dashboard.New(dashboard.NewDefinition(c.Driver, tc), opts...)
	if expectation := cfg.Get("PAGECHECK_EXPECT"); expectation != "" && c.Judge != nil {
		dp.AddAssert(assertion.LooksLike[dashboard.Definition](c.Judge, expectation, 0.6))
	}
	if err := dp.Load(ctx); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
