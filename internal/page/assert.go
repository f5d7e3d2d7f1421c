package page

import "context"

// AssertAction is a check executed after the page bound to an interactor has
// loaded. A non-nil error fails the page load.
type AssertAction[T Definition] interface {
	OnPageLoad(ctx context.Context, def T) error
}

type AssertFunc[T Definition] func(ctx context.Context, def T) error

func (f AssertFunc[T]) OnPageLoad(ctx context.Context, def T) error {
	return f(ctx, def)
}
