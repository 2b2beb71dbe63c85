// Package export renders the task list as downloadable documents: a pretty
// JSON dump and a Markdown schedule grouped by date.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"scheduler-api/domain"
	"scheduler-api/schedule"
)

var weekdays = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// JSON serializes the full task list, pretty-printed, including any
// transient conflict annotations present on the input.
func JSON(tasks []domain.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return sonic.ConfigStd.MarshalIndent(tasks, "", "  ")
}

// Markdown renders the schedule document: a title, the export timestamp,
// a total count, then one section per date in chronological order with a
// subsection per task. Tasks carrying conflicts get a warning badge.
func Markdown(tasks []domain.Task, now time.Time) string {
	sorted := schedule.SortTasks(tasks)

	var b strings.Builder
	b.WriteString("# 工作日程安排\n\n")
	fmt.Fprintf(&b, "导出时间: %s\n\n", longDate(now))
	fmt.Fprintf(&b, "总计: %d 个任务\n\n", len(tasks))
	b.WriteString("---\n\n")

	var currentDate string
	for _, task := range sorted {
		if task.Date != currentDate {
			if currentDate != "" {
				b.WriteString("---\n\n")
			}
			currentDate = task.Date
			fmt.Fprintf(&b, "## %s\n\n", formatDateHeading(task.Date))
		}

		badge := ""
		if len(task.Conflicts) > 0 {
			badge = " ⚠️ 冲突"
		}
		fmt.Fprintf(&b, "### %s %s%s\n\n", task.Priority.Marker(), task.Name, badge)
		fmt.Fprintf(&b, "- **时间**: %s - %s\n", task.StartTime, task.EndTime)
		fmt.Fprintf(&b, "- **优先级**: %s\n", task.Priority)
		if task.Description != "" {
			fmt.Fprintf(&b, "- **备注**: %s\n", task.Description)
		}
		b.WriteString("\n")
	}
	if currentDate != "" {
		b.WriteString("---\n\n")
	}
	return b.String()
}

// Filename builds the download name for an export: work-scheduler
// followed by a YYYYMMDD_HHMM stamp and the extension.
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("work-scheduler-%s.%s", now.Format("20060102_1504"), ext)
}

// formatDateHeading renders a stored date as a localized long date with
// weekday. Dates are validated at input time; anything unparseable falls
// back to the raw string.
func formatDateHeading(date string) string {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	return longDate(t)
}

func longDate(t time.Time) string {
	return fmt.Sprintf("%d年%02d月%02d日 %s", t.Year(), int(t.Month()), t.Day(), weekdays[int(t.Weekday())])
}
