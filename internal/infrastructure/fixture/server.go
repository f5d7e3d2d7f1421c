// Package fixture serves a small sample site that the example page objects
// and browser tests drive.
package fixture

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

//go:embed pages/*.html
var pages embed.FS

var dashboardTmpl = template.Must(template.ParseFS(pages, "pages/dashboard.html"))

type Server struct {
	srv      *http.Server
	listener net.Listener
}

type Config struct {
	Addr string
	// Quiet disables request logging.
	Quiet bool
}

func DefaultConfig() Config {
	return Config{Addr: "127.0.0.1:0"}
}

func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if !cfg.Quiet {
		logger := httplog.NewLogger("pagekit-fixture", httplog.Options{JSON: true, Concise: true})
		r.Use(httplog.RequestLogger(logger))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})
	r.Get("/login", servePage("pages/login.html"))
	r.Post("/login", handleLogin)
	r.Get("/dashboard", handleDashboard)
	return r
}

func servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := pages.ReadFile(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	}
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user := r.PostForm.Get("username")
	if user == "" || r.PostForm.Get("password") == "" {
		http.Redirect(w, r, "/login?error=missing", http.StatusSeeOther)
		return
	}

	q := url.Values{}
	q.Set("user", user)
	q.Set("role", r.PostForm.Get("role"))
	http.Redirect(w, r, "/dashboard?"+q.Encode(), http.StatusSeeOther)
}

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := dashboardTmpl.Execute(w, struct {
		User string
		Role string
	}{
		User: r.URL.Query().Get("user"),
		Role: r.URL.Query().Get("role"),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Start listens on cfg.Addr and serves in the background.
func Start(cfg Config) (*Server, error) {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}

	s := &Server{
		srv: &http.Server{
			Handler:           NewRouter(cfg),
			ReadHeaderTimeout: 5 * time.Second,
		},
		listener: ln,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("fixture server stopped: %v\n", err)
		}
	}()
	return s, nil
}

func (s *Server) URL() string {
	return "http://" + s.listener.Addr().String()
}

func (s *Server) Close(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
