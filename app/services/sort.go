package services

import (
	"sort"

	"edusphere-extension/app/models"
)

// priorityRank orders tiers urgent < warning < safe; anything unrecognized
// sorts after all known tiers.
func priorityRank(priority string) int {
	switch priority {
	case models.PriorityUrgent:
		return 0
	case models.PriorityWarning:
		return 1
	case models.PrioritySafe:
		return 2
	default:
		return 3
	}
}

// lessByDueDate compares two items by ascending due date. A parse failure
// on either side makes the pair compare equal so a bad date never reorders
// or panics.
func lessByDueDate(a, b models.Item) bool {
	dateA, err := parseDate(a.DueDate)
	if err != nil {
		return false
	}
	dateB, err := parseDate(b.DueDate)
	if err != nil {
		return false
	}
	return dateA.Before(dateB)
}

// sortItems orders items by priority rank, then ascending due date. The
// sort is stable: ties keep their merge order.
func sortItems(items []models.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		rankA, rankB := priorityRank(a.Priority), priorityRank(b.Priority)
		if rankA != rankB {
			return rankA < rankB
		}
		return lessByDueDate(a, b)
	})
}

// sortItemsByDueDate orders items by ascending due date alone. Used for the
// urgent view, where every item shares the same tier.
func sortItemsByDueDate(items []models.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return lessByDueDate(items[i], items[j])
	})
}
