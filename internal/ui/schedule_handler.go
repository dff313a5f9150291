package ui

import (
	"net/http"

	"github.com/campushq/portal/internal/http/errors"
	"github.com/campushq/portal/internal/ui/viewmodel"
)

// ScheduleList shows every published weekly schedule.
func (h *Handler) ScheduleList(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.schedules(r.Context())
	if err != nil {
		errors.InternalError(w, r, err, "failed to load schedules")
		return
	}

	data := h.pageData(r, "Plany zajęć", "schedules")
	data["Schedules"] = schedules
	h.render(w, r, "schedule_list.html", data)
}

// ScheduleGrid renders one schedule's weekly grid. An unknown id renders the
// placeholder schedule as an empty grid rather than a not-found page.
func (h *Handler) ScheduleGrid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.NotFound(w, r)
		return
	}

	sched, err := h.schedule(r.Context(), id)
	if err != nil {
		errors.InternalError(w, r, err, "failed to load schedule")
		return
	}

	data := h.pageData(r, sched.Name, "schedules")
	data["Schedule"] = sched
	data["Blocks"] = viewmodel.Grid(sched.Courses)
	data["Hours"] = viewmodel.GridHours()
	h.render(w, r, "schedule_grid.html", data)
}

// ScheduleDetails shows one course slot, addressed by its position in the
// schedule's course list.
func (h *Handler) ScheduleDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.NotFound(w, r)
		return
	}
	index, err := pathID(r, "index")
	if err != nil {
		h.NotFound(w, r)
		return
	}

	sched, err := h.schedule(r.Context(), id)
	if err != nil {
		errors.InternalError(w, r, err, "failed to load schedule")
		return
	}
	if index < 0 || index >= len(sched.Courses) {
		h.NotFound(w, r)
		return
	}

	slot := sched.Courses[index]
	data := h.pageData(r, sched.Name, "schedules")
	data["Schedule"] = sched
	data["Slot"] = slot
	data["Weekday"] = viewmodel.WeekdayName(slot.Day)
	data["Duration"] = viewmodel.SlotDuration(slot)
	h.render(w, r, "schedule_details.html", data)
}

// NotFound is the catch-all page, also used for malformed route parameters.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderStatus(w, r, http.StatusNotFound, "not_found.html", h.pageData(r, "Nie znaleziono", ""))
}
