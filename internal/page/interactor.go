// Package page provides the base layer page objects are built on: element
// helpers bound to a page definition and a list of checks run on page load.
package page

import (
	"context"
	"strconv"
	"time"

	"pagekit/internal/application/port/output"
	"pagekit/internal/domain/entity"
	"pagekit/internal/domain/testcontext"
	"pagekit/internal/infrastructure/logger"
)

// DefaultTimeout bounds every wait that is not given an explicit timeout.
const DefaultTimeout = 10 * time.Second

const pressScript = `(el) => el.click()`

type Option func(*options)

type options struct {
	logger   output.LoggerPort
	timeout  time.Duration
	evidence output.EvidencePort
}

func WithLogger(l output.LoggerPort) Option {
	return func(o *options) { o.logger = l }
}

// WithTimeout replaces DefaultTimeout for this interactor.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithEvidence captures a page snapshot whenever PageLoad fails.
func WithEvidence(e output.EvidencePort) Option {
	return func(o *options) { o.evidence = e }
}

type Interactor[T Definition] struct {
	def        T
	identifier string
	asserts    []AssertAction[T]

	logger   output.LoggerPort
	timeout  time.Duration
	evidence output.EvidencePort
}

func NewInteractor[T Definition](def T, identifier string, opts ...Option) *Interactor[T] {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.NewNop()
	}
	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}

	return &Interactor[T]{
		def:        def,
		identifier: identifier,
		logger:     o.logger.WithField("page", identifier),
		timeout:    o.timeout,
		evidence:   o.evidence,
	}
}

func (i *Interactor[T]) PageDefinition() T {
	return i.def
}

func (i *Interactor[T]) Driver() output.DriverPort {
	return i.def.Driver()
}

func (i *Interactor[T]) Context() *testcontext.Context {
	return i.def.Context()
}

func (i *Interactor[T]) Identifier() string {
	return i.identifier
}

func (i *Interactor[T]) Logger() output.LoggerPort {
	return i.logger
}

func (i *Interactor[T]) Timeout() time.Duration {
	return i.timeout
}

// Press clicks el from page script, bypassing the driver's interactability
// checks.
func (i *Interactor[T]) Press(ctx context.Context, el output.ElementPort) error {
	i.logger.Debug("press")
	_, err := el.ExecuteScript(ctx, pressScript)
	return err
}

func (i *Interactor[T]) WaitUntilElementHidden(ctx context.Context, loc entity.Locator) error {
	return i.WaitUntilElementHiddenWithin(ctx, loc, i.timeout)
}

func (i *Interactor[T]) WaitUntilElementHiddenWithin(ctx context.Context, loc entity.Locator, timeout time.Duration) error {
	i.logger.Debug("wait until hidden", "locator", loc.String(), "timeout", timeout.String())
	return i.Driver().WaitUntil(ctx, timeout, InvisibilityOfElementLocated(loc))
}

// WaitUntilElementClickable returns el itself once it is visible and enabled.
func (i *Interactor[T]) WaitUntilElementClickable(ctx context.Context, el output.ElementPort) (output.ElementPort, error) {
	if err := i.Driver().WaitUntil(ctx, i.timeout, ElementToBeClickable(el)); err != nil {
		return nil, err
	}
	return el, nil
}

func (i *Interactor[T]) SelectDropDown(ctx context.Context, dropDown output.ElementPort, text string) error {
	return i.selectOption(ctx, dropDown, entity.SelectByText, text)
}

func (i *Interactor[T]) SelectDropDownByIndex(ctx context.Context, dropDown output.ElementPort, index int) error {
	return i.selectOption(ctx, dropDown, entity.SelectByIndex, strconv.Itoa(index))
}

func (i *Interactor[T]) SelectDropDownByValue(ctx context.Context, dropDown output.ElementPort, value string) error {
	return i.selectOption(ctx, dropDown, entity.SelectByValue, value)
}

func (i *Interactor[T]) selectOption(ctx context.Context, dropDown output.ElementPort, by entity.SelectBy, key string) error {
	el, err := i.WaitUntilElementClickable(ctx, dropDown)
	if err != nil {
		return err
	}
	i.logger.Debug("select option", "by", string(by), "key", key)
	return el.Select(ctx, by, key)
}

// AddAssert registers a check for PageLoad. Checks run in the order added.
func (i *Interactor[T]) AddAssert(a AssertAction[T]) {
	i.asserts = append(i.asserts, a)
}

// AddAssertFunc is AddAssert for a plain function.
func (i *Interactor[T]) AddAssertFunc(f func(ctx context.Context, def T) error) {
	i.AddAssert(AssertFunc[T](f))
}

// Asserts returns a copy of the registered checks.
func (i *Interactor[T]) Asserts() []AssertAction[T] {
	out := make([]AssertAction[T], len(i.asserts))
	copy(out, i.asserts)
	return out
}

// PageLoad runs every registered check against the page definition and stops
// at the first failure, returning it unchanged.
func (i *Interactor[T]) PageLoad(ctx context.Context) error {
	i.logger.Debug("page load checks", "count", len(i.asserts))

	for n, a := range i.asserts {
		if err := a.OnPageLoad(ctx, i.def); err != nil {
			i.logger.Warn("page load check failed", "index", n, "error", err)
			i.captureEvidence(ctx)
			return err
		}
	}
	return nil
}

func (i *Interactor[T]) captureEvidence(ctx context.Context) {
	if i.evidence == nil {
		return
	}
	snap, err := i.evidence.Capture(ctx, i.identifier, i.Driver())
	if err != nil {
		i.logger.Error("evidence capture failed", "error", err)
		return
	}
	i.logger.Info("evidence captured", "url", snap.URL)
}
