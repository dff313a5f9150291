package upstream

import "time"

// Application status names used by the upstream API.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

// NamedRef is an id/name pair (application status, event category).
type NamedRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NumberedRef is an id/number pair (buildings and rooms carry numbers, not names).
type NumberedRef struct {
	ID     int    `json:"id"`
	Number string `json:"number"`
}

type UserDetails struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type EnrollmentGroup struct {
	ID     int               `json:"id"`
	Name   string            `json:"name"`
	Rounds []EnrollmentRound `json:"rounds"`
}

// EnrollmentRound is a scheduled window during which specific students may
// enrol. Date is epoch milliseconds; StartTime and EndTime are times of day.
type EnrollmentRound struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Date      int64  `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	HasRights bool   `json:"hasRights"`
}

// ReservationFormData is the reference data backing the reservation form.
type ReservationFormData struct {
	Events    []NamedRef    `json:"events"`
	Buildings []RoomPairing `json:"buildings"`
}

// RoomPairing is one (building, room) pair from the flat upstream list.
type RoomPairing struct {
	ID       int         `json:"id"`
	Building NumberedRef `json:"building"`
	Room     NumberedRef `json:"room"`
}

type Requester struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Application struct {
	ID           int         `json:"id"`
	Status       NamedRef    `json:"applicationStatus"`
	Event        NamedRef    `json:"event"`
	User         Requester   `json:"user"`
	Date         int64       `json:"date"`
	StartTime    string      `json:"startTime"`
	EndTime      string      `json:"endTime"`
	Participants int         `json:"participants"`
	Building     NumberedRef `json:"building"`
	Room         NumberedRef `json:"room"`
	Description  string      `json:"description"`
	HasConflict  bool        `json:"hasConflict"`
}

// Pending reports whether the application still awaits a decision.
func (a Application) Pending() bool {
	return a.Status.Name == StatusPending
}

type SaveApplicationRequest struct {
	EventID      int       `json:"eventId"`
	Date         time.Time `json:"date"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	Participants int       `json:"participants"`
	BuildingID   int       `json:"buildingId"`
	RoomID       int       `json:"roomId"`
	Description  string    `json:"description"`
}

type Schedule struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	Courses []CourseSlot `json:"courses"`
}

// CourseSlot is one recurring class in a weekly schedule. Day is an upper-case
// weekday name (MONDAY through FRIDAY).
type CourseSlot struct {
	ID           int    `json:"id"`
	Teacher      string `json:"teacher"`
	Day          string `json:"day"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Participants int    `json:"participants"`
	Building     string `json:"building"`
	Room         string `json:"room"`
}
