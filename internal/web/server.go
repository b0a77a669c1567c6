package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"portfolio/internal/contact"
	"portfolio/internal/content"
	"portfolio/internal/nav"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

//go:embed templates/*.html static/*.js static/*.css
var assetsFS embed.FS

type Config struct {
	Addr string
	// AllowAllOrigins opens the JSON API to any origin (dev mode).
	AllowAllOrigins bool
	// Theme is used when the visitor has no theme cookie: auto|light|dark.
	Theme     string
	ResumeURL string

	// Nav resolves the navigation config for a site's section ids. Nil means
	// every section is a nav item with default tuning.
	Nav func(sectionIDs []string) (nav.Config, error)

	// Contact is applied to every form the server runs. OnChange is ignored.
	Contact contact.Options
}

type Server struct {
	cfg    Config
	sender contact.Sender
	log    *zap.Logger
	tmpl   *template.Template
	router chi.Router

	mu   sync.RWMutex
	site *content.Site
	nav  nav.Config

	httpServer *http.Server
}

// New builds the server for site. A site whose sections don't match the nav
// configuration is rejected.
func New(cfg Config, site *content.Site, sender contact.Sender, log *zap.Logger) (*Server, error) {
	if site == nil {
		return nil, errors.New("web: site is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	cfg.ResumeURL = strings.TrimSpace(cfg.ResumeURL)
	if cfg.Contact.Logger == nil {
		cfg.Contact.Logger = log
	}
	cfg.Contact.OnChange = nil

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, sender: sender, log: log, tmpl: tmpl}
	if err := s.SetSite(site); err != nil {
		return nil, err
	}
	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) resolveNav(site *content.Site) (nav.Config, error) {
	ids := site.SectionIDs()
	if s.cfg.Nav == nil {
		return nav.DefaultConfig(ids...), nil
	}
	return s.cfg.Nav(ids)
}

// SetSite swaps the content served by subsequent requests. The previous site
// stays in place when the new one doesn't fit the nav configuration.
func (s *Server) SetSite(site *content.Site) error {
	if site == nil {
		return errors.New("web: site is nil")
	}
	nc, err := s.resolveNav(site)
	if err != nil {
		return err
	}
	if _, err := nav.New(nc); err != nil {
		return err
	}
	for _, id := range nc.Sections {
		if _, ok := site.Section(id); !ok {
			return &nav.InvalidSectionError{ID: id, Known: site.SectionIDs()}
		}
	}
	s.mu.Lock()
	s.site = site
	s.nav = nc
	s.mu.Unlock()
	return nil
}

func (s *Server) snapshot() (*content.Site, nav.Config) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site, s.nav
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleHome)
	r.Get("/resume", s.handleResume)
	r.Get("/static/app.css", s.handleStatic("static/app.css", "text/css; charset=utf-8"))
	r.Get("/static/app.js", s.handleStatic("static/app.js", "application/javascript; charset=utf-8"))
	r.Post("/contact", s.handleContactStream)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(corsOpts))
		r.Get("/sections", s.handleSections)
		r.Post("/contact", s.handleContactJSON)
	})
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.cfg.Addr == "" {
		return errors.New("web: addr is empty")
	}
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("portfolio server listening", zap.String("addr", s.cfg.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatic(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assetsFS.ReadFile(name)
		if err != nil || len(b) == 0 {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		s.log.Error("render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
