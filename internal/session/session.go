// Package session owns the authenticated-user lifecycle. A session moves
// through three states: uninitialized (no cookie read yet), pending (a stored
// token exists but the identity behind it is unconfirmed), and resolved —
// either anonymous (empty token) or fully populated.
package session

import (
	"context"

	"github.com/campushq/portal/internal/queries"
	"github.com/campushq/portal/internal/upstream"
)

type Session struct {
	// Token is the bearer credential; empty means anonymous.
	Token     string
	ID        int
	Email     string
	FirstName string
	LastName  string
	// Pending is true only while the identity fetch for Token is unconfirmed.
	Pending bool
}

// Anonymous is the resolved not-logged-in session.
func Anonymous() Session {
	return Session{}
}

// PendingFor carries a stored token whose identity has not been confirmed yet.
func PendingFor(token string) Session {
	return Session{Token: token, Pending: true}
}

// LoggedIn reports whether the session is resolved and authenticated.
func (s Session) LoggedIn() bool {
	return s.Token != "" && !s.Pending
}

// Resolver confirms pending sessions against the upstream identity endpoint.
// Lookups go through the query cache so repeated navigations inside the
// freshness window reuse the confirmed identity.
type Resolver struct {
	client *upstream.Client
	cache  *queries.Cache
}

func NewResolver(client *upstream.Client, cache *queries.Cache) *Resolver {
	return &Resolver{client: client, cache: cache}
}

// Resolve turns a pending session into a resolved one. A response without an
// id is treated the same as a failed request: the session demotes to
// anonymous. The stored token itself is left alone either way; only logout
// removes it. No retry — one failed fetch is terminal for this resolution.
func (r *Resolver) Resolve(ctx context.Context, s Session) Session {
	if !s.Pending {
		return s
	}

	details, err := queries.Fetch(ctx, r.cache, queries.Key{"user", s.Token},
		func(ctx context.Context) (upstream.UserDetails, error) {
			return r.client.UserDetails(upstream.WithToken(ctx, s.Token))
		})
	if err != nil || details.ID == 0 {
		return Anonymous()
	}

	return Session{
		Token:     s.Token,
		ID:        details.ID,
		Email:     details.Email,
		FirstName: details.FirstName,
		LastName:  details.LastName,
	}
}

// Forget drops the cached identity for a token. Called on logout so a token
// reissued to the same value cannot revive a stale identity.
func (r *Resolver) Forget(token string) {
	r.cache.Invalidate("user", token)
}
