package login_test

import (
	"context"
	"testing"
	"time"

	"pagekit/internal/domain/entity"
	"pagekit/internal/domain/testcontext"
	"pagekit/internal/infrastructure/browser/memory"
	"pagekit/internal/page"
	"pagekit/internal/pages/dashboard"
	"pagekit/internal/pages/login"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "http://app.test"

type site struct {
	driver   *memory.Driver
	spinner  *memory.Element
	username *memory.Element
	role     *memory.Element
	remember *memory.Element
	submit   *memory.Element
	logout   *memory.Element
}

func newSite(t *testing.T) *site {
	s := &site{driver: memory.NewDriver()}
	def := login.NewDefinition(s.driver, nil)

	s.driver.Route(base+login.Path, func(d *memory.Driver) {
		d.SetPage(base+login.Path, "Sign in", "<html><head><title>Sign in</title></head></html>")

		s.spinner = memory.NewElement("div", "Loading...")
		time.AfterFunc(20*time.Millisecond, func() { s.spinner.SetVisible(false) })
		s.username = memory.NewElement("input", "")
		s.role = memory.NewSelect(
			memory.Option{Text: "Choose a role", Value: ""},
			memory.Option{Text: "Administrator", Value: "admin"},
			memory.Option{Text: "Editor", Value: "editor"},
		)
		s.remember = memory.NewElement("input", "")
		s.submit = memory.NewElement("button", "Sign in")
		s.submit.OnClick = func() {
			_ = d.Navigate(context.Background(), base+"/dashboard?user=alice")
		}

		d.Add(def.Spinner, s.spinner)
		d.Add(def.Heading, memory.NewElement("h1", "Sign in"))
		d.Add(def.Username, s.username)
		d.Add(def.Password, memory.NewElement("input", ""))
		d.Add(def.Role, s.role)
		d.Add(def.Remember, s.remember)
		d.Add(def.Submit, s.submit)
	})

	dash := dashboard.NewDefinition(s.driver, nil)
	s.driver.Route(base+"/dashboard?user=alice", func(d *memory.Driver) {
		for _, loc := range []entity.Locator{def.Spinner, def.Heading, def.Username, def.Password, def.Role, def.Remember, def.Submit} {
			d.Remove(loc)
		}
		d.SetPage(base+"/dashboard?user=alice", "Dashboard", "")
		d.Add(dash.Heading, memory.NewElement("h1", "Dashboard"))
		d.Add(dash.Welcome, memory.NewElement("p", "Welcome, alice"))
		s.logout = memory.NewElement("a", "Sign out")
		d.Add(dash.Logout, s.logout)
	})
	return s
}

func TestLoginFlow(t *testing.T) {
	ctx := context.Background()
	s := newSite(t)
	tc := testcontext.New()

	lp := login.New(login.NewDefinition(s.driver, tc), base+"/", page.WithTimeout(time.Second))
	require.NoError(t, lp.Open(ctx))
	assert.Equal(t, login.Identifier, lp.Identifier())

	err := lp.SignIn(ctx, login.Credentials{User: "alice", Password: "pw", Role: "Editor", Remember: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"editor"}, s.role.SelectedValues())
	assert.Equal(t, 1, s.remember.Clicks())
	assert.Equal(t, 1, s.submit.Clicks())
	assert.Len(t, s.username.Scripts(), 1)
	assert.Equal(t, "alice", tc.GetString(login.ContextUser))

	dp := dashboard.New(dashboard.NewDefinition(s.driver, tc), page.WithTimeout(time.Second))
	require.NoError(t, dp.Load(ctx))

	require.NoError(t, dp.SignOut(ctx))
	assert.Equal(t, 1, s.logout.Clicks())
}

func TestLoginFlow_UnknownRole(t *testing.T) {
	ctx := context.Background()
	s := newSite(t)

	lp := login.New(login.NewDefinition(s.driver, testcontext.New()), base, page.WithTimeout(time.Second))
	require.NoError(t, lp.Open(ctx))

	err := lp.SignIn(ctx, login.Credentials{User: "alice", Password: "pw", Role: "Owner"})
	assert.ErrorIs(t, err, entity.ErrNoSuchOption)
	assert.Zero(t, s.submit.Clicks())
}

func TestOpen_WrongPageFailsChecks(t *testing.T) {
	driver := memory.NewDriver()
	driver.Route(base+login.Path, func(d *memory.Driver) {
		d.SetPage(base+login.Path, "Maintenance", "")
	})

	lp := login.New(login.NewDefinition(driver, nil), base, page.WithTimeout(50*time.Millisecond))
	err := lp.Open(context.Background())

	assert.ErrorIs(t, err, entity.ErrAssertion)
	assert.Contains(t, err.Error(), "Maintenance")
}

func TestDashboard_RequiresSignedInUser(t *testing.T) {
	driver := memory.NewDriver()
	driver.SetPage(base+"/dashboard", "Dashboard", "")
	driver.Add(entity.ByID("heading"), memory.NewElement("h1", "Dashboard"))

	dp := dashboard.New(dashboard.NewDefinition(driver, testcontext.New()), page.WithTimeout(50*time.Millisecond))
	err := dp.PageLoad(context.Background())

	assert.ErrorIs(t, err, entity.ErrAssertion)
	assert.Contains(t, err.Error(), "no signed-in user")
}
