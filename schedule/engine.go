// Package schedule holds the conflict detection and view filtering logic.
// Every function is pure: inputs are never mutated and results are fresh
// slices, so callers can treat the store's task list as a snapshot.
package schedule

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"scheduler-api/domain"
)

// minutesOfDay converts an HH:MM string to minutes since midnight. Time
// strings are validated at input time, so malformed values map to zero.
func minutesOfDay(hhmm string) int {
	hh, mm, ok := strings.Cut(hhmm, ":")
	if !ok {
		return 0
	}
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	return h*60 + m
}

// Overlaps reports whether two tasks occupy overlapping time windows on the
// same date. Windows are half-open [start,end): a task ending exactly when
// another starts does not overlap it. Tasks on different dates never
// overlap, whatever their times.
func Overlaps(a, b domain.Task) bool {
	if a.Date != b.Date {
		return false
	}
	s1, e1 := minutesOfDay(a.StartTime), minutesOfDay(a.EndTime)
	s2, e2 := minutesOfDay(b.StartTime), minutesOfDay(b.EndTime)
	return !(e1 <= s2 || s1 >= e2)
}

// DetectConflicts returns a copy of tasks where every task carries the ids
// of the other tasks it overlaps with. Annotation is symmetric: if A lists
// B then B lists A. The pairwise scan is O(n²), which is fine for a single
// user's day or week of tasks.
func DetectConflicts(tasks []domain.Task) []domain.Task {
	annotated := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		t.Conflicts = []string{}
		annotated[i] = t
	}
	for i := 0; i < len(annotated); i++ {
		for j := i + 1; j < len(annotated); j++ {
			if Overlaps(annotated[i], annotated[j]) {
				annotated[i].Conflicts = append(annotated[i].Conflicts, annotated[j].ID)
				annotated[j].Conflicts = append(annotated[j].Conflicts, annotated[i].ID)
			}
		}
	}
	return annotated
}

// CheckConflicts returns the ids of existing tasks the candidate would
// overlap with. An existing task sharing the candidate's id is skipped, so
// editing a task never reports a conflict with itself.
func CheckConflicts(existing []domain.Task, candidate domain.Task) []string {
	conflicts := []string{}
	for _, t := range existing {
		if candidate.ID != "" && t.ID == candidate.ID {
			continue
		}
		if Overlaps(candidate, t) {
			conflicts = append(conflicts, t.ID)
		}
	}
	return conflicts
}

// SortTasks returns a new slice ordered by date then start time. The sort
// is stable: tasks sharing a date and start time keep their input order.
// Lexicographic comparison is chronological for the fixed-width forms.
func SortTasks(tasks []domain.Task) []domain.Task {
	sorted := make([]domain.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})
	return sorted
}

// FilterToday keeps tasks dated on now's local calendar date.
func FilterToday(tasks []domain.Task, now time.Time) []domain.Task {
	return FilterByDate(tasks, now.Format(domain.DateLayout))
}

// FilterWeek keeps tasks dated within now's local week, Sunday through
// Saturday inclusive.
func FilterWeek(tasks []domain.Task, now time.Time) []domain.Task {
	sunday := now.AddDate(0, 0, -int(now.Weekday()))
	saturday := sunday.AddDate(0, 0, 6)
	from := sunday.Format(domain.DateLayout)
	to := saturday.Format(domain.DateLayout)

	kept := []domain.Task{}
	for _, t := range tasks {
		if t.Date >= from && t.Date <= to {
			kept = append(kept, t)
		}
	}
	return kept
}

// FilterByDate keeps tasks whose date exactly equals the given date string,
// preserving input order.
func FilterByDate(tasks []domain.Task, date string) []domain.Task {
	kept := []domain.Task{}
	for _, t := range tasks {
		if t.Date == date {
			kept = append(kept, t)
		}
	}
	return kept
}

// ValidRange reports whether end is strictly later than start, both parsed
// as minutes since midnight.
func ValidRange(start, end string) bool {
	return minutesOfDay(end) > minutesOfDay(start)
}
