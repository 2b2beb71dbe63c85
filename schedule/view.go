package schedule

import (
	"fmt"
	"time"

	"scheduler-api/domain"
)

// View names a filter over the task list.
type View string

const (
	ViewToday View = "today"
	ViewWeek  View = "week"
	ViewAll   View = "all"
)

// ParseView maps a query parameter to a View. The empty string defaults to
// the today view, matching the initial state of the scheduler UI.
func ParseView(s string) (View, error) {
	switch View(s) {
	case "":
		return ViewToday, nil
	case ViewToday, ViewWeek, ViewAll:
		return View(s), nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// ViewState is the explicit view selection passed through request handling
// instead of being held as controller globals. Date only narrows the all
// view, mirroring the original date picker behavior.
type ViewState struct {
	View View
	Date string
}

// ApplyView returns the tasks visible under the given view state at time
// now. The input is never mutated.
func ApplyView(tasks []domain.Task, state ViewState, now time.Time) []domain.Task {
	switch state.View {
	case ViewToday:
		return FilterToday(tasks, now)
	case ViewWeek:
		return FilterWeek(tasks, now)
	case ViewAll:
		if state.Date != "" {
			return FilterByDate(tasks, state.Date)
		}
	}
	kept := make([]domain.Task, len(tasks))
	copy(kept, tasks)
	return kept
}
