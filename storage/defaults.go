package storage

import (
	"time"

	"scheduler-api/domain"
)

// defaultTasks builds the example tasks shown on first use, dated relative
// to now so a fresh install always has something on today's schedule.
func defaultTasks(now time.Time) []domain.Task {
	today := now.Format(domain.DateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(domain.DateLayout)
	created := now.UTC().Format(time.RFC3339)

	mk := func(name, date, start, end string, priority domain.Priority, description string) domain.Task {
		return domain.Task{
			ID:          newTaskID(),
			Name:        name,
			Date:        date,
			StartTime:   start,
			EndTime:     end,
			Priority:    priority,
			Description: description,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
	}

	return []domain.Task{
		mk("团队周会", today, "09:00", "10:00", domain.PriorityP1, "每周团队同步会议，讨论项目进展"),
		mk("代码审查", today, "14:00", "15:30", domain.PriorityP2, "Review 新功能 PR"),
		mk("项目规划", tomorrow, "10:00", "12:00", domain.PriorityP1, "制定下季度项目计划"),
	}
}
