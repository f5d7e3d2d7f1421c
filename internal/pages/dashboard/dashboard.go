// Package dashboard is the page object for the landing page after sign-in.
package dashboard

import (
	"context"

	"pagekit/internal/application/port/output"
	"pagekit/internal/assertion"
	"pagekit/internal/domain/entity"
	"pagekit/internal/domain/testcontext"
	"pagekit/internal/page"
	"pagekit/internal/pages/login"
)

const (
	Identifier = "dashboard"
	Path       = "/dashboard"
)

type Definition struct {
	page.BaseDefinition

	Heading entity.Locator
	Welcome entity.Locator
	Role    entity.Locator
	Logout  entity.Locator
}

func NewDefinition(driver output.DriverPort, tc *testcontext.Context) Definition {
	return Definition{
		BaseDefinition: page.NewBaseDefinition(driver, tc),
		Heading:        entity.ByID("heading"),
		Welcome:        entity.ByID("welcome"),
		Role:           entity.ByID("role"),
		Logout:         entity.ByCSS("a#logout"),
	}
}

type Page struct {
	*page.Interactor[Definition]
}

func New(def Definition, opts ...page.Option) *Page {
	p := &Page{Interactor: page.NewInteractor(def, Identifier, opts...)}
	p.AddAssert(assertion.URLContains[Definition](Path))
	p.AddAssert(assertion.ElementVisible[Definition](def.Heading, p.Timeout()))
	p.AddAssertFunc(welcomesSignedInUser)
	return p
}

// welcomesSignedInUser checks the greeting names the user stored by the
// login page in the shared test context.
func welcomesSignedInUser(ctx context.Context, def Definition) error {
	user := ""
	if tc := def.Context(); tc != nil {
		user = tc.GetString(login.ContextUser)
	}
	if user == "" {
		return entity.NewAssertionError(Identifier, "no signed-in user in test context")
	}
	return assertion.TextContains[Definition](def.Welcome, user).OnPageLoad(ctx, def)
}

// Load waits for the browser to land on the dashboard and runs its checks.
func (p *Page) Load(ctx context.Context) error {
	if err := p.Driver().WaitUntil(ctx, p.Timeout(), page.URLContains(Path)); err != nil {
		return err
	}
	return p.PageLoad(ctx)
}

// SignOut presses the logout link.
func (p *Page) SignOut(ctx context.Context) error {
	el, err := p.Driver().FindElement(ctx, p.PageDefinition().Logout)
	if err != nil {
		return err
	}
	return p.Press(ctx, el)
}
