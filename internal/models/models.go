package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the urgency label of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Next cycles low -> medium -> high -> low
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Group is the bucket a task lives in
type Group string

const (
	GroupInbox Group = "inbox"
	GroupToday Group = "today"
)

// Valid reports whether g is one of the known groups
func (g Group) Valid() bool {
	return g == GroupInbox || g == GroupToday
}

// Other returns the opposite bucket
func (g Group) Other() Group {
	if g == GroupToday {
		return GroupInbox
	}
	return GroupToday
}

// Date is a calendar date without a time component
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Before reports whether d falls on an earlier day than other
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Task represents a single todo item
type Task struct {
	ID                 int64    `json:"id"`
	Text               string   `json:"text"`
	Completed          bool     `json:"completed"`
	Priority           Priority `json:"priority"`
	Group              Group    `json:"group"`
	DueDate            *Date    `json:"dueDate,omitempty"`
	Pomodoros          int      `json:"pomodoros"`
	CompletedPomodoros int      `json:"completedPomodoros"`
}

// Overdue reports whether the task is still open past its due date
func (t Task) Overdue(today Date) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(today)
}

// Settings holds the Pomodoro durations in minutes
type Settings struct {
	FocusDuration      int `json:"pomodoroDuration"`
	ShortBreakDuration int `json:"shortBreakDuration"`
	LongBreakDuration  int `json:"longBreakDuration"`
	LongBreakInterval  int `json:"longBreakInterval"` // focus sessions between long breaks
}

// DefaultSettings returns the conventional Pomodoro values
func DefaultSettings() Settings {
	return Settings{
		FocusDuration:      25,
		ShortBreakDuration: 5,
		LongBreakDuration:  15,
		LongBreakInterval:  4,
	}
}

// Theme is the color scheme preference
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Toggle flips between dark and light
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}
