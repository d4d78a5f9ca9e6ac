package services

import (
	"math"
	"time"
)

const dateLayout = "Jan 2, 2006"

// DaysLeft counts calendar days from now until end, comparing both at
// midnight in now's location. Past dates give negative numbers.
func DaysLeft(end, now time.Time) int {
	e := civilDay(end.In(now.Location()))
	n := civilDay(now)
	return int(math.Ceil(e.Sub(n).Hours() / 24))
}

// civilDay moves t's calendar date to UTC midnight so that day arithmetic
// is not bent by DST transitions.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t for tables, or "N/A" when t is unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(dateLayout)
}

var statusClasses = map[string]string{
	"active":    "status-active",
	"expired":   "status-expired",
	"cancelled": "status-cancelled",
	"Active":    "status-active",
	"Inactive":  "status-inactive",
}

// StatusClass maps a status to its badge style. Unknown statuses get "".
func StatusClass(status string) string {
	return statusClasses[status]
}
