package services

import (
	"time"

	"edusphere-extension/app/models"
)

// CalculatePriority maps a due date and status to an urgency tier relative
// to the processing date. An "overdue" status is urgent no matter the date.
// The day boundaries are inclusive: exactly 3 days out is still urgent and
// exactly 7 days out is still a warning.
func CalculatePriority(dueDate time.Time, status string, today time.Time) string {
	if status == "overdue" {
		return models.PriorityUrgent
	}

	daysUntilDue := int(dueDate.Sub(today).Hours() / 24)

	if daysUntilDue < 0 {
		return models.PriorityUrgent
	}
	if daysUntilDue <= 3 {
		return models.PriorityUrgent
	}
	if daysUntilDue <= 7 {
		return models.PriorityWarning
	}
	return models.PrioritySafe
}
