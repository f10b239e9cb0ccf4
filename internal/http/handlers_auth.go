package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"watchdog/internal/auth"
)

type authFormData struct {
	SignedIn bool
	Values   map[string]string
	Errors   map[string]string
	Banner   string
	Success  string

	DisplayName string
	Email       string
}

func newAuthFormData() authFormData {
	return authFormData{
		Values: map[string]string{},
		Errors: map[string]string{},
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	data := newAuthFormData()

	switch r.Method {
	case http.MethodGet:
		if _, ok := s.currentSession(r); ok {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		s.render(w, r, http.StatusOK, "login.html", data)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			data.Banner = "The submitted form could not be read."
			s.render(w, r, http.StatusBadRequest, "login.html", data)
			return
		}
		email := strings.TrimSpace(r.Form.Get("email"))
		password := r.Form.Get("password")
		data.Values["email"] = email

		user, err := s.identity.SignIn(r.Context(), email, password)
		if err != nil {
			data.Banner = authMessage(err)
			s.render(w, r, http.StatusUnauthorized, "login.html", data)
			return
		}

		sess := s.sessions.Start(user)
		s.setSessionCookie(w, sess)
		slog.InfoContext(r.Context(), "Admin signed in", "uid", user.UID)
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	data := newAuthFormData()

	switch r.Method {
	case http.MethodGet:
		s.render(w, r, http.StatusOK, "register.html", data)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			data.Banner = "The submitted form could not be read."
			s.render(w, r, http.StatusBadRequest, "register.html", data)
			return
		}
		name := sanitizeInput(r.Form.Get("name"))
		email := strings.TrimSpace(r.Form.Get("email"))
		password := r.Form.Get("password")
		data.Values["name"] = name
		data.Values["email"] = email

		user, err := s.identity.SignUp(r.Context(), email, password, name)
		if err != nil {
			data.Banner = authMessage(err)
			s.render(w, r, http.StatusUnprocessableEntity, "register.html", data)
			return
		}

		sess := s.sessions.Start(user)
		s.setSessionCookie(w, sess)
		slog.InfoContext(r.Context(), "Admin registered", "uid", user.UID)
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.End(c.Value)
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleSettings lets a signed-in admin change their password. The
// wrong-current-password and weak-new-password failures land on their
// respective fields.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.currentSession(r)

	data := newAuthFormData()
	data.SignedIn = true
	data.DisplayName = displayNameOf(sess.User.DisplayName, sess.User.Email)
	data.Email = sess.User.Email

	switch r.Method {
	case http.MethodGet:
		s.render(w, r, http.StatusOK, "settings.html", data)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			data.Banner = "The submitted form could not be read."
			s.render(w, r, http.StatusBadRequest, "settings.html", data)
			return
		}
		current := r.Form.Get("currentPassword")
		next := r.Form.Get("newPassword")

		if err := s.identity.ChangePassword(r.Context(), sess.User.Email, current, next); err != nil {
			var authErr *auth.Error
			if errors.As(err, &authErr) && authErr.Field != "" {
				data.Errors[authErr.Field] = authErr.Message
			} else {
				data.Banner = authMessage(err)
			}
			s.render(w, r, http.StatusUnprocessableEntity, "settings.html", data)
			return
		}

		slog.InfoContext(r.Context(), "Password changed", "uid", sess.User.UID)
		data.Success = "Password updated."
		s.render(w, r, http.StatusOK, "settings.html", data)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func authMessage(err error) string {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return "An unexpected error occurred. Please try again."
}
