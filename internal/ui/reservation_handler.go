package ui

import (
	"net/http"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/campushq/portal/internal/http/errors"
	"github.com/campushq/portal/internal/ui/viewmodel"
	"github.com/campushq/portal/internal/upstream"
)

// ReservationForm renders the new-reservation form. The building select
// cascades into the room select through the buildingId query parameter; each
// change of building is a plain GET of the same page.
func (h *Handler) ReservationForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.reservationForm(r.Context())
	if err != nil {
		errors.InternalError(w, r, err, "failed to load reservation form data")
		return
	}

	buildingID := viewmodel.DefaultBuilding(form.Buildings)
	if raw := r.URL.Query().Get("buildingId"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			buildingID = id
		}
	}

	data := h.pageData(r, "Nowa rezerwacja", "reservations")
	data["Events"] = form.Events
	data["Buildings"] = viewmodel.BuildingOptions(form.Buildings)
	data["Rooms"] = viewmodel.RoomOptions(form.Buildings, buildingID)
	data["SelectedBuilding"] = buildingID
	h.render(w, r, "reservation_form.html", data)
}

type saveReservationForm struct {
	EventID      int
	Date         string
	StartTime    string
	EndTime      string
	Participants int
	BuildingID   int
	RoomID       int
	Description  string
}

func (f saveReservationForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.EventID, validation.Required),
		validation.Field(&f.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&f.StartTime, validation.Required),
		validation.Field(&f.EndTime, validation.Required),
		validation.Field(&f.Participants, validation.Required, validation.Min(1)),
		validation.Field(&f.BuildingID, validation.Required),
		validation.Field(&f.RoomID, validation.Required),
	)
}

// endsBeforeStart reports whether the requested window is inverted. Equal
// start and end also count as inverted; a zero-length reservation is useless.
func (f saveReservationForm) endsBeforeStart() bool {
	start, err := viewmodel.MinutesOfDay(f.StartTime)
	if err != nil {
		return false
	}
	end, err := viewmodel.MinutesOfDay(f.EndTime)
	if err != nil {
		return false
	}
	return end <= start
}

// SaveReservation submits a new application upstream. A successful save does
// not invalidate the reservation list; the pending list converges through the
// freshness window instead.
func (h *Handler) SaveReservation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errors.BadRequest(w, r, err, "malformed form")
		return
	}

	form := saveReservationForm{
		EventID:      formInt(r, "eventId"),
		Date:         r.PostFormValue("date"),
		StartTime:    r.PostFormValue("startTime"),
		EndTime:      r.PostFormValue("endTime"),
		Participants: formInt(r, "participants"),
		BuildingID:   formInt(r, "buildingId"),
		RoomID:       formInt(r, "roomId"),
		Description:  r.PostFormValue("description"),
	}

	if err := form.Validate(); err != nil {
		h.reservationFormFailed(w, r, form, err.Error())
		return
	}
	if form.endsBeforeStart() {
		h.reservationFormFailed(w, r, form, "Koniec wydarzenia przed początkiem")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", form.Date, time.UTC)
	if err != nil {
		h.reservationFormFailed(w, r, form, err.Error())
		return
	}

	req := upstream.SaveApplicationRequest{
		EventID:      form.EventID,
		Date:         date,
		StartTime:    form.StartTime,
		EndTime:      form.EndTime,
		Participants: form.Participants,
		BuildingID:   form.BuildingID,
		RoomID:       form.RoomID,
		Description:  form.Description,
	}
	if err := h.client.SaveApplication(r.Context(), req); err != nil {
		errors.LogError(r, "failed to save reservation", err)
		h.reservationFormFailed(w, r, form, err.Error())
		return
	}

	h.redirect(w, r, "/reservations", map[string]string{"status": "submitted"})
}

// reservationFormFailed re-renders the form with an error banner and the
// submitted values so the user can correct and resubmit.
func (h *Handler) reservationFormFailed(w http.ResponseWriter, r *http.Request, form saveReservationForm, message string) {
	ref, err := h.reservationForm(r.Context())
	if err != nil {
		errors.InternalError(w, r, err, "failed to load reservation form data")
		return
	}

	buildingID := form.BuildingID
	if buildingID == 0 {
		buildingID = viewmodel.DefaultBuilding(ref.Buildings)
	}

	data := h.pageData(r, "Nowa rezerwacja", "reservations")
	data["Events"] = ref.Events
	data["Buildings"] = viewmodel.BuildingOptions(ref.Buildings)
	data["Rooms"] = viewmodel.RoomOptions(ref.Buildings, buildingID)
	data["SelectedBuilding"] = buildingID
	data["Form"] = form
	data["FlashError"] = message
	h.renderStatus(w, r, http.StatusUnprocessableEntity, "reservation_form.html", data)
}

// ReservationList shows the applications still awaiting a decision.
func (h *Handler) ReservationList(w http.ResponseWriter, r *http.Request) {
	apps, err := h.applications(r.Context())
	if err != nil {
		errors.InternalError(w, r, err, "failed to load reservation list")
		return
	}

	pending := make([]upstream.Application, 0, len(apps))
	for _, a := range apps {
		if a.Pending() {
			pending = append(pending, a)
		}
	}

	data := h.pageData(r, "Lista rezerwacji", "reservation-list")
	data["Applications"] = pending
	h.render(w, r, "reservation_list.html", data)
}

// ReservationSuccess is the static confirmation shown after an accept.
func (h *Handler) ReservationSuccess(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "reservation_success.html", h.pageData(r, "Rezerwacja zaakceptowana", "reservation-list"))
}

// ReservationView renders one application. A conflicting application gets a
// warning banner and no accept control; the room-change flow is the only way
// to accept it.
func (h *Handler) ReservationView(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.NotFound(w, r)
		return
	}

	app, err := h.application(r.Context(), id)
	if err != nil {
		errors.InternalError(w, r, err, "failed to load reservation")
		return
	}

	data := h.pageData(r, "Rezerwacja", "reservation-list")
	data["Application"] = app
	h.render(w, r, "reservation_view.html", data)
}

// AcceptReservation accepts a pending application as proposed. Conflicting
// applications are refused outright, before any upstream call; the page never
// offers the button, so a request that arrives anyway is forged or stale.
func (h *Handler) AcceptReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.NotFound(w, r)
		return
	}

	app, err := h.application(r.Context(), id)
	if err != nil {
		errors.InternalError(w, r, err, "failed to load reservation")
		return
	}
	if app.HasConflict {
		http.Error(w, "rezerwacja koliduje z inną", http.StatusForbidden)
		return
	}

	if err := h.client.AcceptApplication(r.Context(), id); err != nil {
		errors.LogError(r, "failed to accept reservation", err)
		h.redirect(w, r, "/reservation-list/"+strconv.Itoa(id), map[string]string{"error": err.Error()})
		return
	}

	h.cache.Invalidate("reservation")
	h.redirect(w, r, "/reservation-list/success", nil)
}

// RejectPrompt renders the rejection confirmation page.
func (h *Handler) RejectPrompt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.NotFound(w, r)
		return
	}

	app, err := h.application(r.Context(), id)
	if err != nil {
		errors.InternalError(w, r, err, "failed to load reservation")
		return
	}

	data := h.pageData(r, "Odrzucenie rezerwacji", "reservation-list")
	data["Application"] = app
	h.render(w, r, "reservation_reject.html", data)
}

// RejectReservation rejects the application and re-renders the confirmation
// page in its completed state.
func (h *Handler) RejectReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.NotFound(w, r)
		return
	}

	if err := h.client.RejectApplication(r.Context(), id); err != nil {
		errors.LogError(r, "failed to reject reservation", err)
		h.redirect(w, r, "/reservation-list/"+strconv.Itoa(id)+"/reject", map[string]string{"error": err.Error()})
		return
	}

	h.cache.Invalidate("reservation")

	app, err := h.application(r.Context(), id)
	if err != nil {
		errors.InternalError(w, r, err, "failed to load reservation")
		return
	}

	data := h.pageData(r, "Odrzucenie rezerwacji", "reservation-list")
	data["Application"] = app
	data["Completed"] = true
	h.render(w, r, "reservation_reject.html", data)
}

// RoomChange renders the building/room cascade prefilled from the
// application's proposed building.
func (h *Handler) RoomChange(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.NotFound(w, r)
		return
	}

	app, err := h.application(r.Context(), id)
	if err != nil {
		errors.InternalError(w, r, err, "failed to load reservation")
		return
	}
	form, err := h.reservationForm(r.Context())
	if err != nil {
		errors.InternalError(w, r, err, "failed to load reservation form data")
		return
	}

	buildingID := app.Building.ID
	if raw := r.URL.Query().Get("buildingId"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			buildingID = parsed
		}
	}

	data := h.pageData(r, "Zmiana sali", "reservation-list")
	data["Application"] = app
	data["Buildings"] = viewmodel.BuildingOptions(form.Buildings)
	data["Rooms"] = viewmodel.RoomOptions(form.Buildings, buildingID)
	data["SelectedBuilding"] = buildingID
	h.render(w, r, "room_change.html", data)
}

// AmendAndAccept rewrites the proposed room and then accepts. The accept step
// runs only if the amend succeeded, so a failed amend leaves the application
// untouched and pending.
func (h *Handler) AmendAndAccept(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		errors.BadRequest(w, r, err, "malformed form")
		return
	}

	buildingID := formInt(r, "buildingId")
	roomID := formInt(r, "roomId")
	if buildingID == 0 || roomID == 0 {
		h.redirect(w, r, "/reservation-list/"+strconv.Itoa(id)+"/room",
			map[string]string{"error": "Wybierz budynek i salę"})
		return
	}

	if err := h.client.AmendApplication(r.Context(), id, buildingID, roomID); err != nil {
		errors.LogError(r, "failed to amend reservation", err)
		h.redirect(w, r, "/reservation-list/"+strconv.Itoa(id)+"/room", map[string]string{"error": err.Error()})
		return
	}
	if err := h.client.AcceptApplication(r.Context(), id); err != nil {
		errors.LogError(r, "failed to accept amended reservation", err)
		h.redirect(w, r, "/reservation-list/"+strconv.Itoa(id)+"/room", map[string]string{"error": err.Error()})
		return
	}

	h.cache.Invalidate("reservation")
	h.redirect(w, r, "/reservation-list/success", nil)
}

func formInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.PostFormValue(name))
	return v
}
