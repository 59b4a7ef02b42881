package tasks

import (
	"time"

	"github.com/WessleyAI/garage-mvp/engine/domain"
)

// Templates is the static catalog of recommended maintenance tasks used
// to pre-fill the creation form. It is configuration, not runtime state.
var Templates = []domain.TaskTemplate{
	{ID: "oil-change", Title: "Oil Change", Description: "Replace engine oil and filter", Category: domain.TaskRoutine},
	{ID: "tire-rotation", Title: "Tire Rotation", Description: "Rotate tires front to rear", Category: domain.TaskRoutine},
	{ID: "air-filter", Title: "Engine Air Filter", Description: "Inspect and replace engine air filter", Category: domain.TaskRoutine},
	{ID: "cabin-filter", Title: "Cabin Air Filter", Description: "Replace cabin air filter", Category: domain.TaskRoutine},
	{ID: "brake-inspection", Title: "Brake Inspection", Description: "Measure pad thickness and rotor condition", Category: domain.TaskImportant},
	{ID: "coolant-flush", Title: "Coolant Flush", Description: "Drain and refill engine coolant", Category: domain.TaskImportant},
	{ID: "battery-test", Title: "Battery Load Test", Description: "Test battery health and clean terminals", Category: domain.TaskImportant},
	{ID: "timing-belt", Title: "Timing Belt", Description: "Replace timing belt per service interval", Category: domain.TaskUrgent},
}

// SeedDrafts returns the default tasks created on first run, when the
// persisted store comes back empty.
func SeedDrafts(now time.Time) []Draft {
	return []Draft{
		{
			Title:       "Oil Change",
			Date:        now.AddDate(0, 0, 14),
			Category:    domain.TaskRoutine,
			Description: "Replace engine oil and filter",
		},
		{
			Title:       "Tire Rotation",
			Date:        now.AddDate(0, 1, 0),
			Category:    domain.TaskRoutine,
			Description: "Rotate tires front to rear",
		},
		{
			Title:       "Brake Inspection",
			Date:        now.AddDate(0, 2, 0),
			Category:    domain.TaskImportant,
			Description: "Measure pad thickness and rotor condition",
		},
	}
}
