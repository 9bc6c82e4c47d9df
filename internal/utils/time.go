package utils

import "time"

// Display formats shared by filtering and export.
const (
	ISODateFormat  = "2006-01-02"
	LongDateFormat = "January 2, 2006"
	ClockFormat    = "03:04 PM"
	LabelFormat    = "Jan 2"
)

// LocalDate truncates a timestamp to midnight of its local calendar day.
func LocalDate(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
