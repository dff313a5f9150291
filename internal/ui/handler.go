// Package ui serves the server-rendered pages of the portal: login and
// session handling, enrollment rounds, room reservation requests, and weekly
// course schedules.
package ui

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campushq/portal/internal/config"
	"github.com/campushq/portal/internal/http/csrf"
	"github.com/campushq/portal/internal/http/errors"
	"github.com/campushq/portal/internal/queries"
	"github.com/campushq/portal/internal/session"
	"github.com/campushq/portal/internal/ui/viewmodel"
	"github.com/campushq/portal/internal/upstream"
)

// Handler renders the portal's HTML pages.
type Handler struct {
	cfg       *config.Config
	client    *upstream.Client
	cache     *queries.Cache
	sessions  *session.Manager
	resolver  *session.Resolver
	templates map[string]*template.Template
}

func NewHandler(cfg *config.Config, client *upstream.Client, cache *queries.Cache, sessions *session.Manager, resolver *session.Resolver) *Handler {
	return &Handler{
		cfg:       cfg,
		client:    client,
		cache:     cache,
		sessions:  sessions,
		resolver:  resolver,
		templates: templates,
	}
}

// pageData seeds the template data every page shares: the resolved session,
// the CSRF token for forms, and flash parameters carried across redirects.
func (h *Handler) pageData(r *http.Request, title, activePage string) map[string]any {
	sess, _ := session.FromContext(r.Context())
	data := map[string]any{
		"Title":      title,
		"Session":    sess,
		"ActivePage": activePage,
	}

	q := r.URL.Query()
	if v := q.Get("error"); v != "" {
		data["FlashError"] = v
	}
	if v := q.Get("status"); v != "" {
		data["FlashMessage"] = v
	}
	if token := csrf.TokenFromContext(r.Context()); token != "" {
		data["CSRFToken"] = token
	}
	return data
}

// redirect sends the browser to a path with optional query parameters.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, path string, params map[string]string) {
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	location := path
	if encoded := q.Encode(); encoded != "" {
		location += "?" + encoded
	}

	code := http.StatusFound
	if r.Method != http.MethodGet {
		code = http.StatusSeeOther
	}
	http.Redirect(w, r, location, code)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	h.renderStatus(w, r, http.StatusOK, name, data)
}

func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tmpl, ok := h.templates[name]
	if !ok {
		errors.InternalError(w, r, fmt.Errorf("template %q not found", name), "template lookup failed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		errors.LogError(r, fmt.Sprintf("template render error for %q", name), err)
	}
}

// pathID parses a numeric route parameter.
func pathID(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("malformed %s %q", param, raw)
	}
	return id, nil
}

// Cached fetches, one per query key family.

func (h *Handler) enrollmentGroups(ctx context.Context) ([]upstream.EnrollmentGroup, error) {
	return queries.Fetch(ctx, h.cache, queries.Key{"group"}, h.client.EnrollmentGroups)
}

func (h *Handler) reservationForm(ctx context.Context) (upstream.ReservationFormData, error) {
	return queries.Fetch(ctx, h.cache, queries.Key{"reservationForm"}, h.client.ReservationForm)
}

func (h *Handler) applications(ctx context.Context) ([]upstream.Application, error) {
	return queries.Fetch(ctx, h.cache, queries.Key{"reservation"}, h.client.Applications)
}

func (h *Handler) application(ctx context.Context, id int) (upstream.Application, error) {
	return queries.Fetch(ctx, h.cache, queries.Key{"reservation", strconv.Itoa(id)},
		func(ctx context.Context) (upstream.Application, error) {
			return h.client.Application(ctx, id)
		})
}

func (h *Handler) schedules(ctx context.Context) ([]upstream.Schedule, error) {
	return queries.Fetch(ctx, h.cache, queries.Key{"schedules"}, h.client.Schedules)
}

// schedule is keyed per id but fetched from the aggregate endpoint; the
// upstream exposes no per-schedule resource.
func (h *Handler) schedule(ctx context.Context, id int) (upstream.Schedule, error) {
	return queries.Fetch(ctx, h.cache, queries.Key{"schedules", strconv.Itoa(id)},
		func(ctx context.Context) (upstream.Schedule, error) {
			all, err := h.client.Schedules(ctx)
			if err != nil {
				return upstream.Schedule{}, err
			}
			return viewmodel.ScheduleByID(all, id), nil
		})
}
