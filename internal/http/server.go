// Package http serves the public ledger page, the admin dashboard and
// the account routes.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"watchdog/internal/auth"
	"watchdog/internal/core"
	"watchdog/internal/ledger"
	applog "watchdog/internal/log"
	"watchdog/internal/middleware/ratelimit"
	"watchdog/internal/middleware/security"
	"watchdog/internal/middleware/trace"
	appweb "watchdog/web"
)

// sessionCookie carries the opaque session token for signed-in admins.
const sessionCookie = "watchdog_session"

// Identity performs sign-in, registration and password changes against
// the identity provider.
type Identity interface {
	SignIn(ctx context.Context, email, password string) (auth.User, error)
	SignUp(ctx context.Context, email, password, displayName string) (auth.User, error)
	ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error
}

// Summarizer produces a short summary for the article behind an entry.
type Summarizer interface {
	Summarize(ctx context.Context, articleURL string) (string, error)
}

// Options carries the server's collaborators. Sessions is passed in
// explicitly; handlers never reach for process-global state.
type Options struct {
	Addr       string
	Store      ledger.Store
	Sessions   *auth.Sessions
	Identity   Identity
	Summarizer Summarizer
	Logger     *applog.Logger
}

type Server struct {
	http.Server
	templates  *template.Template
	store      ledger.Store
	sessions   *auth.Sessions
	identity   Identity
	summarizer Summarizer

	limiter  *ratelimit.Limiter
	detector *security.Detector
	headers  *security.HeadersMiddleware
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	}

	detector := security.NewDetector()
	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: applog.Middleware(logger)(mux),
		},
		store:      opts.Store,
		sessions:   opts.Sessions,
		identity:   opts.Identity,
		summarizer: opts.Summarizer,
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:   detector,
		headers:    security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		tracer:     trace.NewMiddleware(detector.ExtractClientIP),
	}

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(template.FuncMap{
		"kes": core.FormatKES,
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets served from the embedded FS.
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.Handle("/", s.wrap(s.handleIndex))
	mux.Handle("/summary", s.wrap(s.handleSummary))
	mux.Handle("/login", s.wrap(s.postLimited(s.handleLogin)))
	mux.Handle("/register", s.wrap(s.postLimited(s.handleRegister)))
	mux.Handle("/logout", s.wrap(s.handleLogout))
	mux.Handle("/admin", s.wrap(s.postLimited(s.requireSession(s.handleAdmin))))
	mux.Handle("/settings", s.wrap(s.postLimited(s.requireSession(s.handleSettings))))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	return s
}

// wrap applies tracing and security headers to a handler.
func (s *Server) wrap(next http.HandlerFunc) http.Handler {
	return s.tracer.Middleware(s.headers.Middleware(next))
}

// postLimited rate-limits mutating requests per client IP. Reads pass
// through untouched.
func (s *Server) postLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			clientIP := s.detector.ExtractClientIP(r)
			if !s.limiter.Allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", clientIP, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}
		next(w, r)
	}
}

// requireSession redirects unauthenticated requests to the login page.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.currentSession(r); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (s *Server) currentSession(r *http.Request) (auth.Session, bool) {
	if s.sessions == nil {
		return auth.Session{}, false
	}
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return auth.Session{}, false
	}
	return s.sessions.Get(c.Value)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
	}
}

// Shutdown stops the rate limiter cleanup goroutine and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
