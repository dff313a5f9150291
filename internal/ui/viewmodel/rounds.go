// Package viewmodel holds the derived computations behind the rendered pages:
// enrollment round openness, the weekly schedule grid, and the building/room
// cascade. Everything here is pure and clock-injected so it can be tested
// without a server.
package viewmodel

import (
	"fmt"
	"sort"
	"time"

	"github.com/campushq/portal/internal/upstream"
)

// RoundView is one enrollment round with its openness derived for "now".
// Openness is inclusive at both boundaries.
type RoundView struct {
	Round         upstream.EnrollmentRound
	DateFormatted string
	Open          bool
	BeforeStart   bool
	AfterEnd      bool
	// Progress is the percentage of the window already elapsed. Only
	// meaningful while the round is open; the page suppresses it otherwise.
	Progress float64
}

type GroupView struct {
	Group  upstream.EnrollmentGroup
	Rounds []RoundView
}

// NewGroupViews derives per-round openness for every group, with rounds
// ordered by id within each group.
func NewGroupViews(groups []upstream.EnrollmentGroup, now time.Time) []GroupView {
	views := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		rounds := make([]upstream.EnrollmentRound, len(g.Rounds))
		copy(rounds, g.Rounds)
		sort.Slice(rounds, func(i, j int) bool { return rounds[i].ID < rounds[j].ID })

		gv := GroupView{Group: g, Rounds: make([]RoundView, 0, len(rounds))}
		for _, r := range rounds {
			gv.Rounds = append(gv.Rounds, NewRoundView(r, now))
		}
		views = append(views, gv)
	}
	return views
}

func NewRoundView(r upstream.EnrollmentRound, now time.Time) RoundView {
	view := RoundView{
		Round:         r,
		DateFormatted: time.UnixMilli(r.Date).UTC().Format("02.01.2006"),
	}

	start, end, err := RoundWindow(r)
	if err != nil {
		view.AfterEnd = true
		return view
	}

	view.BeforeStart = now.Before(start)
	view.AfterEnd = now.After(end)
	view.Open = !view.BeforeStart && !view.AfterEnd
	if end.After(start) {
		view.Progress = float64(now.Sub(start)) / float64(end.Sub(start)) * 100
	}
	return view
}

// RoundWindow builds the same-day start and end timestamps of a round from
// its date (epoch milliseconds, date part taken in UTC) and the time-of-day
// strings.
func RoundWindow(r upstream.EnrollmentRound) (start, end time.Time, err error) {
	year, month, day := time.UnixMilli(r.Date).UTC().Date()

	startMin, err := MinutesOfDay(r.StartTime)
	if err != nil {
		return start, end, err
	}
	endMin, err := MinutesOfDay(r.EndTime)
	if err != nil {
		return start, end, err
	}

	midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	start = midnight.Add(time.Duration(startMin) * time.Minute)
	end = midnight.Add(time.Duration(endMin) * time.Minute)
	return start, end, nil
}

// MinutesOfDay parses a "HH:MM" or "HH:MM:SS" time-of-day string into minutes
// since midnight. Seconds are ignored.
func MinutesOfDay(s string) (int, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("malformed time of day %q", s)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return h*60 + m, nil
}
