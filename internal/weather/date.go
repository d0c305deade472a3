package weather

import (
	"fmt"
	"time"
)

// WindowDays is the forward horizon accepted by DateWindow.
const WindowDays = 365

// DateWindow bounds selectable dates to [Epoch, Epoch+WindowDays], inclusive,
// compared as UTC calendar days.
type DateWindow struct {
	Epoch time.Time
}

// NewDateWindow truncates epoch to its UTC calendar day.
func NewDateWindow(epoch time.Time) DateWindow {
	return DateWindow{Epoch: truncateDay(epoch)}
}

// Max returns the last selectable day.
func (w DateWindow) Max() time.Time {
	return w.Epoch.AddDate(0, 0, WindowDays)
}

// Validate returns the day-truncated date, or a MissingInput/DateOutOfRange error.
func (w DateWindow) Validate(date time.Time) (time.Time, error) {
	if date.IsZero() {
		return time.Time{}, NewError(KindMissingInput, "date", "Please select a date")
	}
	d := truncateDay(date)
	if d.Before(w.Epoch) || d.After(w.Max()) {
		return time.Time{}, NewError(KindDateOutOfRange, "date",
			fmt.Sprintf("%s outside [%s, %s]", FormatDate(d), FormatDate(w.Epoch), FormatDate(w.Max())))
	}
	return d, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
