// Package playwright implements the driver port on playwright-go.
package playwright

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"strings"
	"time"

	"pagekit/internal/application/port/output"
	"pagekit/internal/domain/entity"
	"pagekit/internal/infrastructure/browser/poll"

	"github.com/playwright-community/playwright-go"
)

var _ output.DriverPort = (*BrowserAdapter)(nil)

const defaultTimeout = 10 * time.Second

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	// Install downloads the driver and browsers before launching.
	Install bool
	Poll    poll.Config
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless: true,
		Timeout:  defaultTimeout,
		Poll:     poll.DefaultConfig(),
	}
}

type BrowserAdapter struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	timeout time.Duration
	poll    poll.Config
	closed  bool
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.Install {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMotion.Milliseconds())),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(cfg.Timeout.Milliseconds()))

	return &BrowserAdapter{
		pw:      pw,
		browser: browser,
		page:    page,
		timeout: cfg.Timeout,
		poll:    cfg.Poll,
	}, nil
}

func (b *BrowserAdapter) Page() playwright.Page {
	return b.page
}

// live reports why no further playwright call should be made: a done ctx or
// a closed adapter. playwright-go calls take no context, so this is checked
// before each one.
func (b *BrowserAdapter) live(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.closed {
		return entity.ErrDriverClosed
	}
	return nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	if err := b.live(ctx); err != nil {
		return err
	}
	_, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(b.timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func selector(loc entity.Locator) string {
	if css, ok := loc.CSS(); ok {
		return css
	}
	return "xpath=" + loc.Value
}

func (b *BrowserAdapter) FindElement(ctx context.Context, loc entity.Locator) (output.ElementPort, error) {
	els, err := b.FindElements(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrNoSuchElement, loc)
	}
	return els[0], nil
}

func (b *BrowserAdapter) FindElements(ctx context.Context, loc entity.Locator) ([]output.ElementPort, error) {
	if err := b.live(ctx); err != nil {
		return nil, err
	}
	handles, err := b.page.QuerySelectorAll(selector(loc))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", loc, classify(err))
	}

	out := make([]output.ElementPort, 0, len(handles))
	for _, h := range handles {
		out = append(out, &Element{h: h})
	}
	return out, nil
}

func (b *BrowserAdapter) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	if err := b.live(ctx); err != nil {
		return nil, err
	}
	res, err := b.page.Evaluate(`(args) => (`+script+`)(...args)`, unwrapArgs(args))
	if err != nil {
		return nil, classify(err)
	}
	return res, nil
}

func (b *BrowserAdapter) WaitUntil(ctx context.Context, timeout time.Duration, cond output.Condition) error {
	return poll.Until(ctx, b.poll, timeout, func(ctx context.Context) (bool, error) {
		return cond(ctx, b)
	})
}

func (b *BrowserAdapter) Title(ctx context.Context) (string, error) {
	if err := b.live(ctx); err != nil {
		return "", err
	}
	return b.page.Title()
}

func (b *BrowserAdapter) CurrentURL() string {
	return b.page.URL()
}

func (b *BrowserAdapter) PageSource(ctx context.Context) (string, error) {
	if err := b.live(ctx); err != nil {
		return "", err
	}
	html, err := b.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	if err := b.live(ctx); err != nil {
		return nil, err
	}
	data, err := b.page.Screenshot()
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   data,
		Format: "png",
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

func (b *BrowserAdapter) Close() {
	if b.closed {
		return
	}
	b.closed = true
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.pw != nil {
		_ = b.pw.Stop()
	}
}

func unwrapArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if el, ok := a.(*Element); ok {
			out[i] = el.h
			continue
		}
		out[i] = a
	}
	return out
}

// classify maps detached-handle failures onto entity.ErrStaleElement.
func classify(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "not attached to the DOM") ||
		strings.Contains(msg, "Execution context was destroyed") ||
		strings.Contains(msg, "JSHandle is disposed") {
		return fmt.Errorf("%w: %w", entity.ErrStaleElement, err)
	}
	return err
}
