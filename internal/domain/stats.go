package domain

import "time"

// StatsWindow is the look-ahead for "expiring soon" and the look-back for
// "recently added".
const StatsWindow = 7 * 24 * time.Hour

// ComputeStats aggregates a snapshot over items. All window comparisons use
// the single now passed in. Expiry is compared by calendar day in now's
// location: expired means strictly before today, expiring means today
// through today+7.
func ComputeStats(items []*PantryItem, now time.Time) PantryStats {
	today := startOfDay(now)
	expiringLimit := today.AddDate(0, 0, 8)
	recentSince := now.Add(-StatsWindow)

	stats := PantryStats{TotalItems: len(items)}
	categories := make(map[string]struct{})
	for _, item := range items {
		stats.TotalQuantity += item.Quantity
		categories[item.Category] = struct{}{}

		if item.ExpiresAt != nil {
			exp := item.ExpiresAt.In(now.Location())
			switch {
			case exp.Before(today):
				stats.ExpiredItems++
			case exp.Before(expiringLimit):
				stats.ExpiringItems++
			}
		}

		if !item.AddedAt.Before(recentSince) {
			stats.RecentlyAdded++
		}
	}
	stats.Categories = len(categories)
	return stats
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
