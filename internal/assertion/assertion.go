// Package assertion has ready-made page-load checks for page interactors.
package assertion

import (
	"context"
	"errors"
	"strings"
	"time"

	"pagekit/internal/application/port/output"
	"pagekit/internal/domain/entity"
	"pagekit/internal/page"
)

// ElementVisible passes once an element matching loc is displayed within timeout.
func ElementVisible[T page.Definition](loc entity.Locator, timeout time.Duration) page.AssertAction[T] {
	return page.AssertFunc[T](func(ctx context.Context, def T) error {
		err := def.Driver().WaitUntil(ctx, timeout, page.VisibilityOfElementLocated(loc))
		if errors.Is(err, entity.ErrWaitTimeout) {
			return entity.NewAssertionError("", "%s not visible after %s", loc, timeout)
		}
		return err
	})
}

// ElementHidden passes once loc is absent or hidden within timeout.
func ElementHidden[T page.Definition](loc entity.Locator, timeout time.Duration) page.AssertAction[T] {
	return page.AssertFunc[T](func(ctx context.Context, def T) error {
		err := def.Driver().WaitUntil(ctx, timeout, page.InvisibilityOfElementLocated(loc))
		if errors.Is(err, entity.ErrWaitTimeout) {
			return entity.NewAssertionError("", "%s still visible after %s", loc, timeout)
		}
		return err
	})
}

func TitleIs[T page.Definition](want string) page.AssertAction[T] {
	return page.AssertFunc[T](func(ctx context.Context, def T) error {
		got, err := def.Driver().Title(ctx)
		if err != nil {
			return err
		}
		if got != want {
			return entity.NewAssertionError("", "title is %q, want %q", got, want)
		}
		return nil
	})
}

func URLContains[T page.Definition](fragment string) page.AssertAction[T] {
	return page.AssertFunc[T](func(ctx context.Context, def T) error {
		if url := def.Driver().CurrentURL(); !strings.Contains(url, fragment) {
			return entity.NewAssertionError("", "url %q does not contain %q", url, fragment)
		}
		return nil
	})
}

func TextContains[T page.Definition](loc entity.Locator, want string) page.AssertAction[T] {
	return page.AssertFunc[T](func(ctx context.Context, def T) error {
		el, err := def.Driver().FindElement(ctx, loc)
		if err != nil {
			if errors.Is(err, entity.ErrNoSuchElement) {
				return entity.NewAssertionError("", "%s not found", loc)
			}
			return err
		}
		text, err := el.Text(ctx)
		if err != nil {
			return err
		}
		if !strings.Contains(text, want) {
			return entity.NewAssertionError("", "%s text %q does not contain %q", loc, text, want)
		}
		return nil
	})
}

// LooksLike asks judge whether a screenshot of the page meets expectation.
// Verdicts below minConfidence fail even when they pass.
func LooksLike[T page.Definition](judge output.JudgePort, expectation string, minConfidence float64) page.AssertAction[T] {
	return page.AssertFunc[T](func(ctx context.Context, def T) error {
		shot, err := def.Driver().Screenshot(ctx)
		if err != nil {
			return err
		}

		verdict, err := judge.Judge(ctx, entity.VisualCheck{
			Page:        def.Driver().CurrentURL(),
			Expectation: expectation,
			Screenshot:  shot,
		})
		if err != nil {
			return err
		}

		if !verdict.Pass {
			return entity.NewAssertionError("", "page does not look like %q: %s", expectation, verdict.Reason)
		}
		if verdict.Confidence < minConfidence {
			return entity.NewAssertionError("", "visual check %q passed with low confidence %.2f", expectation, verdict.Confidence)
		}
		return nil
	})
}
