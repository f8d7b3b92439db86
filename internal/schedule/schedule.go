// Package schedule turns planning keywords into due dates and renders date labels.
// Everything here is pure: callers pass "today" in.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"gtd-web/internal/models"
)

// DateLayout is the wire format for due dates in forms and the JSON API.
const DateLayout = "2006-01-02"

// Plan is what a schedule keyword implies for a task.
type Plan struct {
	DueDate *time.Time
	State   models.State
}

// Derive computes the due date and state for a schedule keyword relative to today.
// A nil schedule behaves like "none".
func Derive(s *models.Schedule, today time.Time) Plan {
	today = models.DateOf(today)

	keyword := models.ScheduleNone
	if s != nil {
		keyword = *s
	}

	switch keyword {
	case models.ScheduleToday:
		return Plan{DueDate: &today, State: models.StateActive}
	case models.ScheduleWeek:
		due := Friday(today)
		return Plan{DueDate: &due, State: models.StateActive}
	case models.ScheduleMonth:
		due := EndOfMonth(today)
		return Plan{DueDate: &due, State: models.StateActive}
	case models.ScheduleMaybe:
		return Plan{State: models.StateMaybe}
	default:
		return Plan{State: models.StateInbox}
	}
}

// Friday returns the coming Friday, or day itself when it is a Friday.
// Saturday and Sunday roll forward to the next week's Friday.
func Friday(day time.Time) time.Time {
	day = models.DateOf(day)
	offset := (int(time.Friday) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}

// EndOfMonth returns the last calendar day of day's month.
func EndOfMonth(day time.Time) time.Time {
	y, m, _ := day.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
}

// ParseDate reads a YYYY-MM-DD date. Empty input returns nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return &t, nil
}

// ParseSchedule reads a schedule keyword. Empty input means "none".
func ParseSchedule(s string) (models.Schedule, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return models.ScheduleNone, nil
	}
	sched := models.Schedule(s)
	if !sched.Valid() {
		return "", fmt.Errorf("invalid schedule %q", s)
	}
	return sched, nil
}

// Tone is how urgent a date label should look.
type Tone string

const (
	ToneNone    Tone = ""
	ToneToday   Tone = "today"
	ToneOverdue Tone = "overdue"
	ToneSoon    Tone = "soon"
	ToneMuted   Tone = "muted"
)

// Label is the short text shown next to a task's due date.
type Label struct {
	Text string
	Tone Tone
}

// DateLabel describes a due date relative to today.
func DateLabel(due *time.Time, today time.Time) Label {
	if due == nil {
		return Label{}
	}
	d := models.DateOf(*due)
	t := models.DateOf(today)

	switch {
	case d.Equal(t):
		return Label{Text: "Today", Tone: ToneToday}
	case d.Before(t):
		return Label{Text: "Overdue", Tone: ToneOverdue}
	case d.Equal(t.AddDate(0, 0, 1)):
		return Label{Text: "Tomorrow", Tone: ToneSoon}
	default:
		return Label{Text: d.Format("Jan 02"), Tone: ToneMuted}
	}
}
