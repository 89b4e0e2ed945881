package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	SessionName = "mealprep_session"

	keyAuthenticated = "authenticated"
	keyUsername      = "username"
)

// Session is the request-scoped view of the access gate state.
// Handlers receive it explicitly instead of reading a global flag.
type Session struct {
	Authenticated bool
	Username      string

	raw *sessions.Session
}

// NewStore creates the cookie store backing Session. Cookies carry no
// expiry beyond the browser session.
func NewStore(secret string) sessions.Store {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Load reads the session of the current request. A missing or undecodable
// cookie yields an unauthenticated session.
func Load(c echo.Context) *Session {
	raw, err := session.Get(SessionName, c)
	s := &Session{raw: raw}
	if err != nil || raw == nil {
		return s
	}
	s.Authenticated, _ = raw.Values[keyAuthenticated].(bool)
	s.Username, _ = raw.Values[keyUsername].(string)
	return s
}

// Login marks the session authenticated and persists it.
func (s *Session) Login(c echo.Context, username string) error {
	s.Authenticated = true
	s.Username = username
	return s.save(c)
}

// Clear drops the authenticated flag and persists the change.
func (s *Session) Clear(c echo.Context) error {
	s.Authenticated = false
	s.Username = ""
	return s.save(c)
}

func (s *Session) save(c echo.Context) error {
	if s.raw == nil {
		raw, err := session.Get(SessionName, c)
		if err != nil && raw == nil {
			return err
		}
		s.raw = raw
	}
	if s.Authenticated {
		s.raw.Values[keyAuthenticated] = true
		s.raw.Values[keyUsername] = s.Username
	} else {
		delete(s.raw.Values, keyAuthenticated)
		delete(s.raw.Values, keyUsername)
	}
	return s.raw.Save(c.Request(), c.Response())
}
