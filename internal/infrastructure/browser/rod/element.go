package rod

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pagekit/internal/application/port/output"
	"pagekit/internal/domain/entity"
	"pagekit/internal/infrastructure/browser/js"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
)

var _ output.ElementPort = (*Element)(nil)

type Element struct {
	el      *rod.Element
	timeout time.Duration
}

// Rod returns the wrapped rod element.
func (e *Element) Rod() *rod.Element {
	return e.el
}

func (e *Element) bounded(ctx context.Context) *rod.Element {
	return e.el.Context(ctx).Timeout(e.timeout)
}

// call runs a js.* element script with the element bound as first argument.
func (e *Element) call(ctx context.Context, script string, args ...any) (any, error) {
	res, err := e.bounded(ctx).Eval(`function(...args) { return (`+script+`)(this, ...args) }`, unwrapArgs(args)...)
	if err != nil {
		return nil, classify(err)
	}
	return res.Value.Val(), nil
}

func (e *Element) connected(ctx context.Context) error {
	v, err := e.call(ctx, js.Connected)
	if err != nil {
		return err
	}
	if ok, _ := v.(bool); !ok {
		return entity.ErrStaleElement
	}
	return nil
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	if err := e.connected(ctx); err != nil {
		return false, err
	}
	visible, err := e.bounded(ctx).Visible()
	if err != nil {
		return false, classify(err)
	}
	return visible, nil
}

func (e *Element) Enabled(ctx context.Context) (bool, error) {
	if err := e.connected(ctx); err != nil {
		return false, err
	}
	v, err := e.call(ctx, js.Enabled)
	if err != nil {
		return false, err
	}
	enabled, _ := v.(bool)
	return enabled, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	text, err := e.bounded(ctx).Text()
	if err != nil {
		return "", classify(err)
	}
	return text, nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := e.bounded(ctx).Attribute(name)
	if err != nil {
		return "", false, classify(err)
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *Element) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	return e.call(ctx, script, args...)
}

func (e *Element) Select(ctx context.Context, by entity.SelectBy, key string) error {
	v, err := e.call(ctx, js.SelectOption, string(by), key)
	if err != nil {
		return err
	}

	switch v {
	case js.SelectOK:
		return nil
	case js.SelectNotSelect:
		return entity.ErrNotSelect
	case js.SelectNoOption:
		return fmt.Errorf("%w: %s %q", entity.ErrNoSuchOption, by, key)
	default:
		return fmt.Errorf("unexpected select result %v", v)
	}
}

// classify maps CDP "object is gone" failures onto entity.ErrStaleElement.
func classify(err error) error {
	var cdpErr *cdp.Error
	if errors.As(err, &cdpErr) {
		msg := cdpErr.Message
		if strings.Contains(msg, "Could not find node") ||
			strings.Contains(msg, "Could not find object") ||
			strings.Contains(msg, "Cannot find context") ||
			strings.Contains(msg, "context was destroyed") {
			return fmt.Errorf("%w: %w", entity.ErrStaleElement, err)
		}
	}
	return err
}
