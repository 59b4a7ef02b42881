// Package domain defines core domain types, constants, and validation for
// the Garage engine. It acts as the validation gate at API entry points.
package domain

import (
	"fmt"
	"time"
)

func formatLabel(year int, make, model string) string {
	return fmt.Sprintf("%d %s %s", year, make, model)
}

// Tier is the subscription level. It gates media richness of assistant
// replies and the number of vehicles a user may register.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Premium reports whether the tier unlocks media and extra vehicle slots.
func (t Tier) Premium() bool { return t == TierPremium }

// Vehicle represents a vehicle registered by a user.
type Vehicle struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Year        int       `json:"year"`
	VIN         string    `json:"vin,omitempty"`
	Mileage     int       `json:"mileage,omitempty"`
	LastService time.Time `json:"last_service,omitzero"`
	ImageURL    string    `json:"image_url,omitempty"`
}

// Label renders the vehicle as "YEAR MAKE MODEL", the form used in
// assistant replies.
func (v Vehicle) Label() string {
	return formatLabel(v.Year, v.Make, v.Model)
}

// TaskCategory classifies the urgency of a maintenance task.
type TaskCategory string

const (
	TaskRoutine   TaskCategory = "routine"
	TaskImportant TaskCategory = "important"
	TaskUrgent    TaskCategory = "urgent"
)

// ValidTaskCategories is the set of recognised task categories.
var ValidTaskCategories = map[TaskCategory]bool{
	TaskRoutine: true, TaskImportant: true, TaskUrgent: true,
}

// TaskStatus is the lifecycle state of a maintenance task.
type TaskStatus string

const (
	TaskActive    TaskStatus = "active"
	TaskCompleted TaskStatus = "completed"
)

// ValidTaskStatuses is the set of recognised task statuses.
var ValidTaskStatuses = map[TaskStatus]bool{
	TaskActive: true, TaskCompleted: true,
}

// MaintenanceTask is a scheduled maintenance action with a due date and
// completion status. The due date is fixed at creation; edits change
// content, not schedule.
type MaintenanceTask struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Date        time.Time    `json:"date"`
	VehicleID   string       `json:"vehicle_id,omitempty"`
	Category    TaskCategory `json:"category"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// TaskTemplate is a static catalog entry used to pre-fill task creation.
type TaskTemplate struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    TaskCategory `json:"category"`
}
