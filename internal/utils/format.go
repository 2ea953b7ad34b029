package utils

import (
	"fmt"
	"time"
)

// FormatSessionWindow renders a booked slot for emails and SMS,
// e.g. "14 Mar 2026, 10:00-14:00".
func FormatSessionWindow(date time.Time, startHour, endHour int) string {
	return fmt.Sprintf("%s, %02d:00-%02d:00", date.Format("02 Jan 2006"), startHour, endHour)
}

// FormatCents renders a cent amount as dollars, e.g. "$120.00".
func FormatCents(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
