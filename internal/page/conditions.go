package page

import (
	"context"
	"errors"
	"strings"

	"pagekit/internal/application/port/output"
	"pagekit/internal/domain/entity"
)

// InvisibilityOfElementLocated holds once the first element matching loc is
// gone, hidden or detached from the document.
func InvisibilityOfElementLocated(loc entity.Locator) output.Condition {
	return func(ctx context.Context, driver output.DriverPort) (bool, error) {
		els, err := driver.FindElements(ctx, loc)
		if err != nil {
			if errors.Is(err, entity.ErrNoSuchElement) || errors.Is(err, entity.ErrStaleElement) {
				return true, nil
			}
			return false, err
		}
		if len(els) == 0 {
			return true, nil
		}

		visible, err := els[0].Visible(ctx)
		if err != nil {
			if errors.Is(err, entity.ErrStaleElement) || errors.Is(err, entity.ErrNoSuchElement) {
				return true, nil
			}
			return false, err
		}
		return !visible, nil
	}
}

// ElementToBeClickable holds once el is visible and enabled. A handle that is
// already stale fails the wait at once with entity.ErrStaleElement; one that
// goes stale between the two checks keeps it polling.
func ElementToBeClickable(el output.ElementPort) output.Condition {
	return func(ctx context.Context, _ output.DriverPort) (bool, error) {
		visible, err := el.Visible(ctx)
		if err != nil {
			return false, err
		}
		if !visible {
			return false, nil
		}

		enabled, err := el.Enabled(ctx)
		if err != nil {
			if errors.Is(err, entity.ErrStaleElement) {
				return false, nil
			}
			return false, err
		}
		return enabled, nil
	}
}

// VisibilityOfElementLocated holds once an element matching loc is displayed.
// Elements are re-located on every poll, so a stale match is skipped.
func VisibilityOfElementLocated(loc entity.Locator) output.Condition {
	return func(ctx context.Context, driver output.DriverPort) (bool, error) {
		els, err := driver.FindElements(ctx, loc)
		if err != nil {
			if errors.Is(err, entity.ErrStaleElement) {
				return false, nil
			}
			return false, err
		}
		for _, el := range els {
			visible, err := el.Visible(ctx)
			if errors.Is(err, entity.ErrStaleElement) {
				continue
			}
			if err != nil {
				return false, err
			}
			if visible {
				return true, nil
			}
		}
		return false, nil
	}
}

// URLContains holds once the current URL contains fragment.
func URLContains(fragment string) output.Condition {
	return func(_ context.Context, driver output.DriverPort) (bool, error) {
		return strings.Contains(driver.CurrentURL(), fragment), nil
	}
}
