// Package login is the page object for the sample site's sign-in form.
package login

import (
	"context"
	"fmt"
	"strings"

	"pagekit/internal/application/port/output"
	"pagekit/internal/assertion"
	"pagekit/internal/domain/entity"
	"pagekit/internal/domain/testcontext"
	"pagekit/internal/page"
)

const (
	Identifier = "login"
	Path       = "/login"

	// ContextUser is the test context key holding the signed-in user name.
	ContextUser = "login.user"
	ContextRole = "login.role"
)

const setValueScript = `(el, v) => {
	el.value = v;
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.dispatchEvent(new Event('change', { bubbles: true }));
}`

type Definition struct {
	page.BaseDefinition

	Spinner  entity.Locator
	Heading  entity.Locator
	Username entity.Locator
	Password entity.Locator
	Role     entity.Locator
	Remember entity.Locator
	Submit   entity.Locator
}

func NewDefinition(driver output.DriverPort, tc *testcontext.Context) Definition {
	return Definition{
		BaseDefinition: page.NewBaseDefinition(driver, tc),
		Spinner:        entity.ByID("spinner"),
		Heading:        entity.ByID("heading"),
		Username:       entity.ByID("username"),
		Password:       entity.ByID("password"),
		Role:           entity.ByID("role"),
		Remember:       entity.ByID("remember"),
		Submit:         entity.ByXPath("//form[@id='login-form']//button[@type='submit']"),
	}
}

type Credentials struct {
	User     string
	Password string
	// Role is the visible text of the role option; empty keeps the default.
	Role     string
	Remember bool
}

type Page struct {
	*page.Interactor[Definition]
	baseURL string
}

func New(def Definition, baseURL string, opts ...page.Option) *Page {
	p := &Page{
		Interactor: page.NewInteractor(def, Identifier, opts...),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	p.AddAssert(assertion.TitleIs[Definition]("Sign in"))
	p.AddAssert(assertion.ElementVisible[Definition](def.Username, p.Timeout()))
	return p
}

// Open navigates to the form, waits for the loading overlay to clear and
// runs the page-load checks.
func (p *Page) Open(ctx context.Context) error {
	if err := p.Driver().Navigate(ctx, p.baseURL+Path); err != nil {
		return err
	}
	if err := p.WaitUntilElementHidden(ctx, p.PageDefinition().Spinner); err != nil {
		return err
	}
	return p.PageLoad(ctx)
}

func (p *Page) SignIn(ctx context.Context, c Credentials) error {
	def := p.PageDefinition()
	p.Logger().Info("signing in", "user", c.User, "role", c.Role)

	if err := p.fill(ctx, def.Username, c.User); err != nil {
		return err
	}
	if err := p.fill(ctx, def.Password, c.Password); err != nil {
		return err
	}

	if c.Role != "" {
		role, err := p.Driver().FindElement(ctx, def.Role)
		if err != nil {
			return err
		}
		if err := p.SelectDropDown(ctx, role, c.Role); err != nil {
			return err
		}
	}

	if c.Remember {
		remember, err := p.Driver().FindElement(ctx, def.Remember)
		if err != nil {
			return err
		}
		if err := p.Press(ctx, remember); err != nil {
			return err
		}
	}

	submit, err := p.Driver().FindElement(ctx, def.Submit)
	if err != nil {
		return err
	}
	if _, err := p.WaitUntilElementClickable(ctx, submit); err != nil {
		return err
	}

	if tc := p.Context(); tc != nil {
		tc.Set(ContextUser, c.User)
		tc.Set(ContextRole, c.Role)
	}
	return p.Press(ctx, submit)
}

func (p *Page) fill(ctx context.Context, loc entity.Locator, value string) error {
	el, err := p.Driver().FindElement(ctx, loc)
	if err != nil {
		return err
	}
	if _, err := el.ExecuteScript(ctx, setValueScript, value); err != nil {
		return fmt.Errorf("fill %s: %w", loc, err)
	}
	return nil
}
