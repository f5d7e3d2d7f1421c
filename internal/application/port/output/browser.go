package output

import (
	"context"
	"time"

	"pagekit/internal/domain/entity"
)

// Condition is polled by DriverPort.WaitUntil until it reports true.
type Condition func(ctx context.Context, driver DriverPort) (bool, error)

type DriverPort interface {
	Navigate(ctx context.Context, url string) error

	// FindElement returns entity.ErrNoSuchElement when nothing matches.
	FindElement(ctx context.Context, loc entity.Locator) (ElementPort, error)
	// FindElements does not wait; an empty slice means no match.
	FindElements(ctx context.Context, loc entity.Locator) ([]ElementPort, error)

	ExecuteScript(ctx context.Context, script string, args ...any) (any, error)

	// WaitUntil polls cond until it returns true or timeout elapses, in which
	// case the error wraps entity.ErrWaitTimeout.
	WaitUntil(ctx context.Context, timeout time.Duration, cond Condition) error

	Title(ctx context.Context) (string, error)
	CurrentURL() string
	PageSource(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) (*entity.Screenshot, error)

	Close()
}

type ElementPort interface {
	Visible(ctx context.Context) (bool, error)
	Enabled(ctx context.Context) (bool, error)
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, bool, error)

	// ExecuteScript runs script as a function whose first argument is the
	// element, followed by args.
	ExecuteScript(ctx context.Context, script string, args ...any) (any, error)

	// Select picks options of a <select> element. Returns entity.ErrNoSuchOption
	// when nothing matches key.
	Select(ctx context.Context, by entity.SelectBy, key string) error
}
