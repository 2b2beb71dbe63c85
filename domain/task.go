package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Priority labels task urgency, P1 highest.
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
)

// Valid reports whether p is one of the known priority labels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3:
		return true
	}
	return false
}

// Marker returns the emoji used for the priority in Markdown exports.
func (p Priority) Marker() string {
	switch p {
	case PriorityP1:
		return "🔴"
	case PriorityP2:
		return "🟡"
	case PriorityP3:
		return "🟢"
	}
	return "⚪"
}

const (
	// DateLayout is the calendar date form used everywhere: YYYY-MM-DD.
	DateLayout = "2006-01-02"
	// TimeLayout is the wall-clock time-of-day form: HH:MM, 24-hour.
	TimeLayout = "15:04"
)

// Task represents a single time-boxed schedule entry.
//
// Conflicts is derived per query and never persisted: it lists the ids of
// other tasks whose [start,end) window overlaps this one on the same date.
type Task struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Priority    Priority `json:"priority"`
	Description string   `json:"description,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	Conflicts   []string `json:"conflicts,omitempty"`
}

// Draft carries user form input for a task to be created or checked.
type Draft struct {
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Priority    Priority `json:"priority"`
	Description string   `json:"description,omitempty"`
}

// Validate enforces the form input contract: non-empty name, well-formed
// date and times, a known priority and a strictly positive time range.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("name is required")
	}
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return fmt.Errorf("invalid date %q: want YYYY-MM-DD", d.Date)
	}
	if _, err := time.Parse(TimeLayout, d.StartTime); err != nil {
		return fmt.Errorf("invalid start time %q: want HH:MM", d.StartTime)
	}
	if _, err := time.Parse(TimeLayout, d.EndTime); err != nil {
		return fmt.Errorf("invalid end time %q: want HH:MM", d.EndTime)
	}
	if !d.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", d.Priority)
	}
	if d.EndTime <= d.StartTime {
		return errors.New("end time must be later than start time")
	}
	return nil
}

// Patch is a partial task update. Nil fields are left untouched.
type Patch struct {
	Name        *string   `json:"name,omitempty"`
	Date        *string   `json:"date,omitempty"`
	StartTime   *string   `json:"startTime,omitempty"`
	EndTime     *string   `json:"endTime,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Description *string   `json:"description,omitempty"`
}

// Apply merges the patch into a copy of t, leaving t unchanged.
func (p Patch) Apply(t Task) Task {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.StartTime != nil {
		t.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		t.EndTime = *p.EndTime
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	return t
}

// AsDraft re-expresses the task as form input, used to re-validate a task
// after a patch has been applied.
func (t Task) AsDraft() Draft {
	return Draft{
		Name:        t.Name,
		Date:        t.Date,
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
		Priority:    t.Priority,
		Description: t.Description,
	}
}
