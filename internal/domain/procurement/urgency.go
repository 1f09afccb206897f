package procurement

import (
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// Urgency classifies a required date against the current day
type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyToday    Urgency = "today"
	UrgencyTomorrow Urgency = "tomorrow"
	UrgencyUpcoming Urgency = "upcoming"
)

// ClassifyUrgency buckets requiredDate relative to today.
// Without tomorrowBucket, tomorrow falls into upcoming.
func ClassifyUrgency(requiredDate, today time.Time, tomorrowBucket bool) Urgency {
	required := shared.DateOnly(requiredDate)
	day := shared.DateOnly(today)

	switch {
	case required.Before(day):
		return UrgencyOverdue
	case required.Equal(day):
		return UrgencyToday
	case tomorrowBucket && required.Equal(day.AddDate(0, 0, 1)):
		return UrgencyTomorrow
	default:
		return UrgencyUpcoming
	}
}

// DaysBetween returns the whole calendar days from one date to another
func DaysBetween(from, to time.Time) int {
	return int(shared.DateOnly(to).Sub(shared.DateOnly(from)).Hours() / 24)
}
