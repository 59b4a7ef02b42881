package tasks

import (
	"math"
	"time"

	"github.com/WessleyAI/garage-mvp/engine/domain"
	"github.com/WessleyAI/garage-mvp/pkg/fn"
)

// DueKind classifies a task's position relative to the current day.
type DueKind string

const (
	Overdue  DueKind = "overdue"
	DueToday DueKind = "due_today"
	Upcoming DueKind = "upcoming"
)

// DueStatus reports how far a task is from its due day, in whole
// calendar days. Days is positive for both overdue and upcoming and
// zero for due-today.
type DueStatus struct {
	Kind DueKind `json:"kind"`
	Days int     `json:"days"`
}

// Grouped partitions tasks by lifecycle state.
type Grouped struct {
	Active    []domain.MaintenanceTask `json:"active"`
	Completed []domain.MaintenanceTask `json:"completed"`
}

// startOfDay truncates t to midnight in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// calendarDays returns the whole-day distance from a to b in loc.
// Rounding absorbs the 23h/25h days around DST transitions.
func calendarDays(from, to time.Time, loc *time.Location) int {
	delta := startOfDay(to, loc).Sub(startOfDay(from, loc))
	return int(math.Round(delta.Hours() / 24))
}

// Due computes the task's due status relative to now. Both timestamps
// are bucketed to calendar days in now's location.
func Due(task domain.MaintenanceTask, now time.Time) DueStatus {
	diff := calendarDays(now, task.Date, now.Location())
	switch {
	case diff < 0:
		return DueStatus{Kind: Overdue, Days: -diff}
	case diff == 0:
		return DueStatus{Kind: DueToday}
	default:
		return DueStatus{Kind: Upcoming, Days: diff}
	}
}

// OnDate returns tasks whose due date falls on the same calendar day as
// day, in day's location. A task one day before or after is excluded
// even when it is within 24 absolute hours.
func OnDate(all []domain.MaintenanceTask, day time.Time) []domain.MaintenanceTask {
	loc := day.Location()
	want := startOfDay(day, loc)
	return fn.Filter(all, func(t domain.MaintenanceTask) bool {
		return startOfDay(t.Date, loc).Equal(want)
	})
}

// GroupByStatus partitions tasks strictly on the status field; it
// performs no date logic.
func GroupByStatus(all []domain.MaintenanceTask) Grouped {
	buckets := fn.GroupBy(all, func(t domain.MaintenanceTask) domain.TaskStatus {
		return t.Status
	})
	return Grouped{
		Active:    buckets[domain.TaskActive],
		Completed: buckets[domain.TaskCompleted],
	}
}
