package session

import (
	"net/http"
	"strings"

	"github.com/campushq/portal/internal/upstream"
)

const loginPath = "/login"

// Gate resolves the session on every request and sends anonymous visitors to
// the login page. It runs before any page handler.
type Gate struct {
	manager  *Manager
	resolver *Resolver
}

func NewGate(manager *Manager, resolver *Resolver) *Gate {
	return &Gate{manager: manager, resolver: resolver}
}

// Middleware restores the session from the stored token, puts it (and the
// bearer token for outgoing calls) on the request context, and redirects to
// the login page when no valid session exists and the current location is not
// already the login page.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := Anonymous()
		if token, ok := g.manager.Token(r); ok {
			sess = g.resolver.Resolve(r.Context(), PendingFor(token))
		}

		ctx := WithSession(r.Context(), sess)
		ctx = upstream.WithToken(ctx, sess.Token)

		if !sess.LoggedIn() && !strings.HasPrefix(r.URL.Path, loginPath) {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
