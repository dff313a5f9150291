package session

import (
	"crypto/sha256"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/campushq/portal/internal/config"
)

const (
	cookieName     = "portal_session"
	cookieLifetime = 7 * 24 * time.Hour
)

// Manager persists the bearer token in an authenticated, encrypted cookie —
// the browser-local store of the original portal.
type Manager struct {
	codec  *securecookie.SecureCookie
	secure bool
}

func NewManager(cfg *config.Config) *Manager {
	hash := sha256.Sum256([]byte(cfg.Session.Secret))
	sc := securecookie.New(hash[:], hash[:])
	sc.MaxAge(int(cookieLifetime.Seconds()))
	sc.SetSerializer(securecookie.JSONEncoder{})

	secure := true
	if base, err := url.Parse(cfg.BaseURL); err == nil && base.Scheme != "https" {
		secure = false
	}

	return &Manager{codec: sc, secure: secure}
}

// Issue stores the token under the well-known cookie name.
func (m *Manager) Issue(w http.ResponseWriter, token string) error {
	value := map[string]any{
		"token": token,
		"exp":   time.Now().Add(cookieLifetime).Unix(),
	}

	encoded, err := m.codec.Encode(cookieName, value)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded,
		Path:     "/",
		Expires:  time.Now().Add(cookieLifetime),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear removes the stored token. Logout is the only flow that calls this.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
	})
}

// Token extracts the persisted bearer token from the request, if present and
// unexpired.
func (m *Manager) Token(r *http.Request) (string, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return "", false
	}

	var value map[string]any
	if err := m.codec.Decode(cookieName, c.Value, &value); err != nil {
		return "", false
	}

	exp, ok := value["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return "", false
	}

	token, ok := value["token"].(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
