package manifest

import (
	"time"

	"github.com/mirzapolat/visual-bereal-processor/internal/model"
)

// Filter keeps the moments whose capture date falls inside the closed
// interval [since, until]. A nil bound leaves that side open.
//
// Comparison uses the date component only, so a moment taken at any
// time of day on the boundary date is kept. Order is preserved and the
// number of dropped moments is returned.
func Filter(moments []model.Moment, since, until *time.Time) (kept []model.Moment, skipped int) {
	if since == nil && until == nil {
		return moments, 0
	}

	for _, m := range moments {
		day := truncateToDay(m.TakenAt)
		if since != nil && day.Before(truncateToDay(*since)) {
			skipped++
			continue
		}
		if until != nil && day.After(truncateToDay(*until)) {
			skipped++
			continue
		}
		kept = append(kept, m)
	}
	return kept, skipped
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
