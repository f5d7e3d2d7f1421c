package playwright

import (
	"context"
	"fmt"

	"pagekit/internal/application/port/output"
	"pagekit/internal/domain/entity"
	"pagekit/internal/infrastructure/browser/js"

	"github.com/playwright-community/playwright-go"
)

var _ output.ElementPort = (*Element)(nil)

type Element struct {
	h playwright.ElementHandle
}

func (e *Element) Handle() playwright.ElementHandle {
	return e.h
}

func (e *Element) call(ctx context.Context, script string, args ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := e.h.Evaluate(`(el, args) => (`+script+`)(el, ...args)`, unwrapArgs(args))
	if err != nil {
		return nil, classify(err)
	}
	return res, nil
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
	visible, err := e.h.IsVisible()
	if err != nil {
		return false, classify(err)
	}
	return visible, nil
}

func (e *Element) Enabled(ctx context.Context) (bool, error) {
	if err := e.connected(ctx); err != nil {
		return false, err
	}
	enabled, err := e.h.IsEnabled()
	if err != nil {
		return false, classify(err)
	}
	return enabled, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := e.h.InnerText()
	if err != nil {
		return "", classify(err)
	}
	return text, nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := e.call(ctx, `(el, name) => el.getAttribute(name)`, name)
	if err != nil {
		return "", false, err
	}
	s, ok := v.(string)
	return s, ok, nil
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
