package viewmodel

import (
	"time"

	"github.com/campushq/portal/internal/upstream"
)

// The grid shows five weekday lanes after an hour gutter, hours 07:00-23:00,
// at one pixel per minute.
const (
	gridColumns     = 6
	gridStartMinute = 7 * 60
	gridFirstHour   = 7
	gridLastHour    = 23
)

var weekdayLanes = map[string]int{
	"MONDAY":    0,
	"TUESDAY":   1,
	"WEDNESDAY": 2,
	"THURSDAY":  3,
	"FRIDAY":    4,
}

var weekdayNames = map[string]string{
	"MONDAY":    "poniedziałek",
	"TUESDAY":   "wtorek",
	"WEDNESDAY": "środa",
	"THURSDAY":  "czwartek",
	"FRIDAY":    "piątek",
}

// GridBlock is one course slot positioned on the weekly grid. Index is the
// slot's position in the schedule's course list, used as the detail-page path
// segment.
type GridBlock struct {
	Index       int
	Slot        upstream.CourseSlot
	LeftPercent float64
	TopPx       int
	HeightPx    int
}

// Grid lays out course slots on the weekly grid. Slots with malformed times
// are dropped rather than rendered at a bogus offset.
func Grid(courses []upstream.CourseSlot) []GridBlock {
	blocks := make([]GridBlock, 0, len(courses))
	for i, slot := range courses {
		start, err := MinutesOfDay(slot.StartTime)
		if err != nil {
			continue
		}
		end, err := MinutesOfDay(slot.EndTime)
		if err != nil {
			continue
		}

		// Unknown weekday falls into the Monday lane, as the original did.
		lane := weekdayLanes[slot.Day]

		blocks = append(blocks, GridBlock{
			Index:       i,
			Slot:        slot,
			LeftPercent: 100.0 * float64(lane+1) / gridColumns,
			TopPx:       start - gridStartMinute,
			HeightPx:    end - start,
		})
	}
	return blocks
}

// GridHours lists the hour labels of the grid's gutter column.
func GridHours() []int {
	hours := make([]int, 0, gridLastHour-gridFirstHour+1)
	for h := gridFirstHour; h <= gridLastHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// WeekdayName translates an upstream weekday constant for display. Unknown
// values pass through unchanged.
func WeekdayName(day string) string {
	if name, ok := weekdayNames[day]; ok {
		return name
	}
	return day
}

// ScheduleByID finds a schedule in the aggregate list. An unknown id yields
// the placeholder entity rendered as an empty state.
func ScheduleByID(schedules []upstream.Schedule, id int) upstream.Schedule {
	for _, s := range schedules {
		if s.ID == id {
			return s
		}
	}
	return upstream.Schedule{ID: -1, Name: "Nie znaleziono"}
}

// SlotDuration is exposed for the details page caption.
func SlotDuration(slot upstream.CourseSlot) time.Duration {
	start, err := MinutesOfDay(slot.StartTime)
	if err != nil {
		return 0
	}
	end, err := MinutesOfDay(slot.EndTime)
	if err != nil {
		return 0
	}
	return time.Duration(end-start) * time.Minute
}
