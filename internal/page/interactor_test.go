package page

import (
	"context"
	"errors"
	"testing"
	"time"

	"pagekit/internal/application/port/output"
	"pagekit/internal/domain/entity"
	"pagekit/internal/domain/testcontext"
	"pagekit/internal/infrastructure/browser/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginDefinition struct {
	BaseDefinition
	Spinner entity.Locator
}

func newFixture() (*memory.Driver, *Interactor[loginDefinition]) {
	driver := memory.NewDriver()
	def := loginDefinition{
		BaseDefinition: NewBaseDefinition(driver, testcontext.New()),
		Spinner:        entity.ByCSS(".spinner"),
	}
	return driver, NewInteractor(def, "login", WithTimeout(200*time.Millisecond))
}

type recordingAssert struct {
	name  string
	calls *[]string
	err   error
}

func (a recordingAssert) OnPageLoad(ctx context.Context, def loginDefinition) error {
	*a.calls = append(*a.calls, a.name)
	return a.err
}

func TestNewInteractor_Defaults(t *testing.T) {
	driver := memory.NewDriver()
	tc := testcontext.New()
	def := NewBaseDefinition(driver, tc)

	i := NewInteractor(def, "home")

	assert.Equal(t, "home", i.Identifier())
	assert.Equal(t, DefaultTimeout, i.Timeout())
	assert.Same(t, driver, i.Driver())
	assert.Same(t, tc, i.Context())
	assert.Equal(t, def, i.PageDefinition())
	assert.NotNil(t, i.Logger())
}

func TestNewInteractor_NonPositiveTimeoutFallsBack(t *testing.T) {
	i := NewInteractor(NewBaseDefinition(memory.NewDriver(), nil), "x", WithTimeout(0))
	assert.Equal(t, 10*time.Second, i.Timeout())
}

func TestPageLoad_RunsInRegistrationOrder(t *testing.T) {
	_, i := newFixture()
	var calls []string

	i.AddAssert(recordingAssert{name: "A", calls: &calls})
	i.AddAssert(recordingAssert{name: "B", calls: &calls})
	i.AddAssert(recordingAssert{name: "A", calls: &calls})

	require.NoError(t, i.PageLoad(context.Background()))
	assert.Equal(t, []string{"A", "B", "A"}, calls)
}

func TestPageLoad_FailFast(t *testing.T) {
	_, i := newFixture()
	var calls []string
	failure := entity.NewAssertionError("login", "banner missing")

	i.AddAssert(recordingAssert{name: "A", calls: &calls})
	i.AddAssert(recordingAssert{name: "B", calls: &calls, err: failure})
	i.AddAssert(recordingAssert{name: "C", calls: &calls})

	err := i.PageLoad(context.Background())

	assert.Same(t, failure, err)
	assert.ErrorIs(t, err, entity.ErrAssertion)
	assert.Equal(t, []string{"A", "B"}, calls)
}

func TestPageLoad_AlwaysFailing(t *testing.T) {
	_, i := newFixture()
	i.AddAssertFunc(func(ctx context.Context, def loginDefinition) error {
		return entity.NewAssertionError("login", "never ok")
	})

	err := i.PageLoad(context.Background())
	require.Error(t, err)
	assert.EqualError(t, err, "assertion failed on login: never ok")
}

func TestPageLoad_RepeatedCallsRerunAll(t *testing.T) {
	_, i := newFixture()
	var calls []string
	i.AddAssert(recordingAssert{name: "A", calls: &calls})

	require.NoError(t, i.PageLoad(context.Background()))
	require.NoError(t, i.PageLoad(context.Background()))

	assert.Equal(t, []string{"A", "A"}, calls)
	assert.Len(t, i.Asserts(), 1)
}

func TestPageLoad_NoAsserts(t *testing.T) {
	_, i := newFixture()
	assert.NoError(t, i.PageLoad(context.Background()))
}

func TestPageLoad_ReceivesBoundDefinition(t *testing.T) {
	_, i := newFixture()
	var got loginDefinition
	i.AddAssertFunc(func(ctx context.Context, def loginDefinition) error {
		got = def
		return nil
	})

	require.NoError(t, i.PageLoad(context.Background()))
	assert.Equal(t, i.PageDefinition(), got)
}

type stubEvidence struct {
	pages []string
	err   error
}

func (s *stubEvidence) Capture(ctx context.Context, page string, driver output.DriverPort) (*entity.PageSnapshot, error) {
	s.pages = append(s.pages, page)
	if s.err != nil {
		return nil, s.err
	}
	return &entity.PageSnapshot{Page: page, URL: driver.CurrentURL()}, nil
}

func TestPageLoad_CapturesEvidenceWithoutChangingError(t *testing.T) {
	driver := memory.NewDriver()
	ev := &stubEvidence{err: errors.New("disk full")}
	i := NewInteractor(NewBaseDefinition(driver, nil), "cart", WithEvidence(ev))
	failure := errors.New("cart empty")
	i.AddAssertFunc(func(ctx context.Context, def BaseDefinition) error { return failure })

	err := i.PageLoad(context.Background())

	assert.Same(t, failure, err)
	assert.Equal(t, []string{"cart"}, ev.pages)
}

func TestPageLoad_NoEvidenceOnSuccess(t *testing.T) {
	ev := &stubEvidence{}
	i := NewInteractor(NewBaseDefinition(memory.NewDriver(), nil), "cart", WithEvidence(ev))
	i.AddAssertFunc(func(ctx context.Context, def BaseDefinition) error { return nil })

	require.NoError(t, i.PageLoad(context.Background()))
	assert.Empty(t, ev.pages)
}

func TestPress_UsesScriptClick(t *testing.T) {
	_, i := newFixture()
	btn := memory.NewElement("button", "Sign in")
	btn.SetVisible(false)

	require.NoError(t, i.Press(context.Background(), btn))

	assert.Equal(t, 1, btn.Clicks())
	assert.Equal(t, []string{pressScript}, btn.Scripts())
}

func TestPress_StaleElementPropagates(t *testing.T) {
	_, i := newFixture()
	btn := memory.NewElement("button", "Sign in")
	btn.SetStale(true)

	err := i.Press(context.Background(), btn)
	assert.ErrorIs(t, err, entity.ErrStaleElement)
}

func TestWaitUntilElementHidden_AlreadyHidden(t *testing.T) {
	driver, i := newFixture()
	spinner := memory.NewElement("div", "")
	spinner.SetVisible(false)
	driver.Add(i.PageDefinition().Spinner, spinner)

	start := time.Now()
	err := i.WaitUntilElementHiddenWithin(context.Background(), i.PageDefinition().Spinner, 5*time.Second)

	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitUntilElementHidden_Absent(t *testing.T) {
	_, i := newFixture()
	assert.NoError(t, i.WaitUntilElementHidden(context.Background(), entity.ByID("nothing")))
}

func TestWaitUntilElementHidden_BecomesHidden(t *testing.T) {
	driver, i := newFixture()
	spinner := memory.NewElement("div", "Loading")
	driver.Add(i.PageDefinition().Spinner, spinner)

	time.AfterFunc(30*time.Millisecond, func() { spinner.SetVisible(false) })

	assert.NoError(t, i.WaitUntilElementHiddenWithin(context.Background(), i.PageDefinition().Spinner, 2*time.Second))
}

func TestWaitUntilElementHidden_Removed(t *testing.T) {
	driver, i := newFixture()
	loc := i.PageDefinition().Spinner
	driver.Add(loc, memory.NewElement("div", "Loading"))

	time.AfterFunc(30*time.Millisecond, func() { driver.Remove(loc) })

	assert.NoError(t, i.WaitUntilElementHiddenWithin(context.Background(), loc, 2*time.Second))
}

func TestWaitUntilElementHidden_TimesOut(t *testing.T) {
	driver, i := newFixture()
	driver.Add(i.PageDefinition().Spinner, memory.NewElement("div", "Loading"))

	start := time.Now()
	err := i.WaitUntilElementHiddenWithin(context.Background(), i.PageDefinition().Spinner, 50*time.Millisecond)

	assert.ErrorIs(t, err, entity.ErrWaitTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestWaitUntilElementHidden_DefaultTimeout(t *testing.T) {
	driver, i := newFixture()
	driver.Add(i.PageDefinition().Spinner, memory.NewElement("div", "Loading"))

	err := i.WaitUntilElementHidden(context.Background(), i.PageDefinition().Spinner)
	assert.ErrorIs(t, err, entity.ErrWaitTimeout)
}

func TestWaitUntilElementClickable_ReturnsSameHandle(t *testing.T) {
	_, i := newFixture()
	btn := memory.NewElement("button", "Go")
	btn.SetEnabled(false)
	time.AfterFunc(20*time.Millisecond, func() { btn.SetEnabled(true) })

	got, err := i.WaitUntilElementClickable(context.Background(), btn)

	require.NoError(t, err)
	assert.Same(t, btn, got)
}

func TestWaitUntilElementClickable_TimesOut(t *testing.T) {
	_, i := newFixture()
	btn := memory.NewElement("button", "Go")
	btn.SetVisible(false)

	got, err := i.WaitUntilElementClickable(context.Background(), btn)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, entity.ErrWaitTimeout)
}

func TestWaitUntilElementClickable_StaleFailsFast(t *testing.T) {
	_, i := newFixture()
	btn := memory.NewElement("button", "Go")
	btn.SetStale(true)
	start := time.Now()

	got, err := i.WaitUntilElementClickable(context.Background(), btn)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, entity.ErrStaleElement)
	assert.NotErrorIs(t, err, entity.ErrWaitTimeout)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func roles() *memory.Element {
	return memory.NewSelect(
		memory.Option{Text: "Admin", Value: "admin"},
		memory.Option{Text: "Editor", Value: "editor"},
		memory.Option{Text: "Viewer", Value: "viewer"},
	)
}

func TestSelectDropDown(t *testing.T) {
	ctx := context.Background()
	_, i := newFixture()
	sel := roles()

	require.NoError(t, i.SelectDropDown(ctx, sel, "Editor"))
	assert.Equal(t, []string{"editor"}, sel.SelectedValues())

	require.NoError(t, i.SelectDropDownByIndex(ctx, sel, 2))
	assert.Equal(t, []string{"viewer"}, sel.SelectedValues())

	require.NoError(t, i.SelectDropDownByValue(ctx, sel, "admin"))
	assert.Equal(t, []string{"admin"}, sel.SelectedValues())
}

func TestSelectDropDown_MissingOption(t *testing.T) {
	ctx := context.Background()
	_, i := newFixture()
	sel := roles()

	assert.ErrorIs(t, i.SelectDropDown(ctx, sel, "Owner"), entity.ErrNoSuchOption)
	assert.ErrorIs(t, i.SelectDropDownByIndex(ctx, sel, 7), entity.ErrNoSuchOption)
	assert.ErrorIs(t, i.SelectDropDownByValue(ctx, sel, "owner"), entity.ErrNoSuchOption)
	assert.Empty(t, sel.SelectedValues())
}

func TestSelectDropDown_DetachedSelect(t *testing.T) {
	_, i := newFixture()
	sel := roles()
	sel.SetStale(true)

	assert.ErrorIs(t, i.SelectDropDownByValue(context.Background(), sel, "admin"), entity.ErrStaleElement)
}

func TestSelectDropDown_NeverClickable(t *testing.T) {
	_, i := newFixture()
	sel := roles()
	sel.SetEnabled(false)

	err := i.SelectDropDown(context.Background(), sel, "Editor")

	assert.ErrorIs(t, err, entity.ErrWaitTimeout)
	assert.Empty(t, sel.SelectedValues())
}
