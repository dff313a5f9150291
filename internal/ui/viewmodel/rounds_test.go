package viewmodel

import (
	"testing"
	"time"

	"github.com/campushq/portal/internal/upstream"
)

// 2023-11-15 00:00:00 UTC in epoch milliseconds.
const testDateMillis = int64(1700006400000)

func testRound() upstream.EnrollmentRound {
	return upstream.EnrollmentRound{
		ID:        1,
		Name:      "Tura 1",
		Date:      testDateMillis,
		StartTime: "10:00",
		EndTime:   "12:00",
		HasRights: true,
	}
}

func at(hour, min, sec int) time.Time {
	return time.Date(2023, 11, 15, hour, min, sec, 0, time.UTC)
}

func TestRoundOpenness(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		wantOpen   bool
		wantBefore bool
		wantAfter  bool
	}{
		{name: "well before start", now: at(8, 0, 0), wantBefore: true},
		{name: "one second before start", now: at(9, 59, 59), wantBefore: true},
		{name: "exactly at start", now: at(10, 0, 0), wantOpen: true},
		{name: "mid window", now: at(11, 0, 0), wantOpen: true},
		{name: "exactly at end", now: at(12, 0, 0), wantOpen: true},
		{name: "one second after end", now: at(12, 0, 1), wantAfter: true},
		{name: "next day", now: at(10, 0, 0).Add(24 * time.Hour), wantAfter: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewRoundView(testRound(), tt.now)
			if view.Open != tt.wantOpen {
				t.Errorf("Open = %v, want %v", view.Open, tt.wantOpen)
			}
			if view.BeforeStart != tt.wantBefore {
				t.Errorf("BeforeStart = %v, want %v", view.BeforeStart, tt.wantBefore)
			}
			if view.AfterEnd != tt.wantAfter {
				t.Errorf("AfterEnd = %v, want %v", view.AfterEnd, tt.wantAfter)
			}
		})
	}
}

func TestRoundProgress(t *testing.T) {
	view := NewRoundView(testRound(), at(11, 0, 0))
	if view.Progress != 50 {
		t.Errorf("Progress = %v, want 50 at the window midpoint", view.Progress)
	}

	view = NewRoundView(testRound(), at(10, 30, 0))
	if view.Progress != 25 {
		t.Errorf("Progress = %v, want 25 a quarter in", view.Progress)
	}
}

func TestRoundWindowUsesUTCDatePart(t *testing.T) {
	start, end, err := RoundWindow(testRound())
	if err != nil {
		t.Fatalf("RoundWindow() returned error: %v", err)
	}
	if !start.Equal(at(10, 0, 0)) {
		t.Errorf("start = %v, want %v", start, at(10, 0, 0))
	}
	if !end.Equal(at(12, 0, 0)) {
		t.Errorf("end = %v, want %v", end, at(12, 0, 0))
	}
}

func TestRoundViewMalformedTimes(t *testing.T) {
	round := testRound()
	round.StartTime = "not-a-time"

	view := NewRoundView(round, at(11, 0, 0))
	if view.Open {
		t.Error("Open = true for a round with malformed times")
	}
	if !view.AfterEnd {
		t.Error("AfterEnd = false, want malformed round treated as closed")
	}
}

func TestMinutesOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "07:00", want: 420},
		{in: "10:30", want: 630},
		{in: "10:30:45", want: 630},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "10:60", wantErr: true},
		{in: "garbage", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := MinutesOfDay(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("MinutesOfDay(%q) = %d, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("MinutesOfDay(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("MinutesOfDay(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewGroupViewsSortsRoundsByID(t *testing.T) {
	group := upstream.EnrollmentGroup{
		ID:   1,
		Name: "Informatyka",
		Rounds: []upstream.EnrollmentRound{
			{ID: 3, Date: testDateMillis, StartTime: "10:00", EndTime: "11:00"},
			{ID: 1, Date: testDateMillis, StartTime: "08:00", EndTime: "09:00"},
			{ID: 2, Date: testDateMillis, StartTime: "09:00", EndTime: "10:00"},
		},
	}

	views := NewGroupViews([]upstream.EnrollmentGroup{group}, at(8, 0, 0))
	if len(views) != 1 {
		t.Fatalf("got %d group views, want 1", len(views))
	}

	var ids []int
	for _, r := range views[0].Rounds {
		ids = append(ids, r.Round.ID)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("round order = %v, want [1 2 3]", ids)
	}
}
