package ui

import (
	"net/http"
	"time"

	"github.com/campushq/portal/internal/http/errors"
	"github.com/campushq/portal/internal/ui/viewmodel"
)

// enrollmentRefreshSeconds drives the meta-refresh hint on rounds the viewer
// can act on, so an opening window shows up without a manual reload.
const enrollmentRefreshSeconds = 10

// Enrollment renders every enrollment group with per-round openness derived
// at render time.
func (h *Handler) Enrollment(w http.ResponseWriter, r *http.Request) {
	groups, err := h.enrollmentGroups(r.Context())
	if err != nil {
		errors.InternalError(w, r, err, "failed to load enrollment rounds")
		return
	}

	views := viewmodel.NewGroupViews(groups, time.Now())

	data := h.pageData(r, "Zapisy", "enrollment")
	data["Groups"] = views
	for _, g := range views {
		for _, round := range g.Rounds {
			if round.Round.HasRights {
				data["AutoRefresh"] = enrollmentRefreshSeconds
			}
		}
	}
	h.render(w, r, "enrollment.html", data)
}
