package services

import (
	"math"
	"time"

	"edusphere-extension/app/models"
)

// CalculateStats derives summary counters from the final item list.
// Week windows are anchored at the processing date: this week is
// [today, today+7] inclusive, next week is (today+7, today+14]. Items with
// an unparsable due date are excluded from both windows.
func CalculateStats(items []models.Item, today time.Time) *models.DashboardStats {
	stats := &models.DashboardStats{}

	stats.TotalItems = len(items)
	for _, item := range items {
		if item.Priority == models.PriorityUrgent {
			stats.UrgentItems++
		}
		switch item.Status {
		case "pending":
			stats.PendingItems++
		case "completed":
			stats.CompletedItems++
		case "overdue":
			stats.OverdueItems++
		}
		switch item.Type {
		case models.TypeTask:
			stats.TasksCount++
		case models.TypeMeeting:
			stats.MeetingsCount++
		case models.TypeAnnouncement:
			stats.AnnouncementsCount++
		}
	}

	if stats.TotalItems > 0 {
		rate := float64(stats.CompletedItems) * 100.0 / float64(stats.TotalItems)
		// Round half up to two decimals.
		stats.CompletionRate = math.Floor(rate*100+0.5) / 100
	}

	weekEnd := today.AddDate(0, 0, 7)
	fortnightEnd := today.AddDate(0, 0, 14)
	for _, item := range items {
		dueDate, err := parseDate(item.DueDate)
		if err != nil {
			continue
		}
		if !dueDate.Before(today) && !dueDate.After(weekEnd) {
			stats.ThisWeekDue++
		}
		if dueDate.After(weekEnd) && !dueDate.After(fortnightEnd) {
			stats.NextWeekDue++
		}
	}

	return stats
}
