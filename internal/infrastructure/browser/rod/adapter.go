package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"net/url"
	"time"

	"pagekit/internal/application/port/output"
	"pagekit/internal/domain/entity"
	"pagekit/internal/infrastructure/browser/poll"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.DriverPort = (*BrowserAdapter)(nil)

var ErrInvalidURL = errors.New("invalid url")

const (
	defaultTimeout    = 10 * time.Second
	defaultSlowMotion = 0
)

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	poll     poll.Config
	closed   bool
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	// Timeout bounds navigation and page-level calls.
	Timeout   time.Duration
	NoSandbox bool
	DevTools  bool
	// Bin overrides the browser executable; empty lets rod download one.
	Bin  string
	Poll poll.Config
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   true,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
		Poll:       poll.DefaultConfig(),
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox)
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		Context(ctx).
		ControlURL(controlURL).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
		poll:     cfg.Poll,
	}, nil
}

func (b *BrowserAdapter) IsReady() bool {
	return !b.closed && b.page != nil
}

// Page exposes the underlying rod page for callers that need raw access.
func (b *BrowserAdapter) Page() *rod.Page {
	return b.page
}

func (b *BrowserAdapter) bounded(ctx context.Context) *rod.Page {
	return b.page.Context(ctx).Timeout(b.timeout)
}

func (b *BrowserAdapter) Navigate(ctx context.Context, rawURL string) error {
	if b.closed {
		return entity.ErrDriverClosed
	}
	if err := validateURL(rawURL); err != nil {
		return err
	}

	p := b.bounded(ctx)
	if err := p.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	return nil
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	switch u.Scheme {
	case "http", "https", "file", "about", "data":
		return nil
	default:
		return fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}
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
	if b.closed {
		return nil, entity.ErrDriverClosed
	}

	p := b.bounded(ctx)
	var (
		found rod.Elements
		err   error
	)
	if css, ok := loc.CSS(); ok {
		found, err = p.Elements(css)
	} else {
		found, err = p.ElementsX(loc.Value)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", loc, classify(err))
	}

	out := make([]output.ElementPort, 0, len(found))
	for _, el := range found {
		out = append(out, &Element{el: el, timeout: b.timeout})
	}
	return out, nil
}

func (b *BrowserAdapter) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	res, err := b.bounded(ctx).Eval(script, unwrapArgs(args)...)
	if err != nil {
		return nil, classify(err)
	}
	return res.Value.Val(), nil
}

func (b *BrowserAdapter) WaitUntil(ctx context.Context, timeout time.Duration, cond output.Condition) error {
	return poll.Until(ctx, b.poll, timeout, func(ctx context.Context) (bool, error) {
		return cond(ctx, b)
	})
}

func (b *BrowserAdapter) Title(ctx context.Context) (string, error) {
	info, err := b.bounded(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.Title, nil
}

// CurrentURL returns "" when the page cannot answer within the adapter timeout.
func (b *BrowserAdapter) CurrentURL() string {
	info, err := b.page.Timeout(b.timeout).Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *BrowserAdapter) PageSource(ctx context.Context) (string, error) {
	html, err := b.bounded(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := b.bounded(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   imgBytes,
		Format: "jpeg",
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
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

func unwrapArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if el, ok := a.(*Element); ok {
			out[i] = el.el.Object
			continue
		}
		out[i] = a
	}
	return out
}
