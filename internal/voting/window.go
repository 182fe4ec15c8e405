// Package voting decides whether a moment falls inside the configured
// voting period. Boundary dates arrive as settings values; a missing or
// malformed boundary falls back to the default window rather than failing.
package voting

import (
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

// Default window boundaries (month/day), applied in the current year when
// configuration is absent or unparseable.
const (
	defaultStartMonth = time.March
	defaultStartDay   = 2
	defaultEndMonth   = time.March
	defaultEndDay     = 7
)

var (
	ErrNotStarted = errors.New("Voting Not Started")
	ErrEnded      = errors.New("Voting Ended")
)

// Window is an inclusive date range during which vote-casting is permitted.
// End is inclusive of its calendar day.
type Window struct {
	Start time.Time
	End   time.Time
}

// Resolve parses the configured boundary dates. If either is empty or does
// not parse, both are silently replaced by the default window for now's
// year. Boundaries are interpreted in now's location.
func Resolve(startStr, endStr string, now time.Time) Window {
	loc := now.Location()
	start, serr := time.ParseInLocation(dateLayout, startStr, loc)
	end, eerr := time.ParseInLocation(dateLayout, endStr, loc)
	if serr != nil || eerr != nil {
		return defaultWindow(now)
	}
	return Window{Start: start, End: end}
}

func defaultWindow(now time.Time) Window {
	year := now.Year()
	loc := now.Location()
	return Window{
		Start: time.Date(year, defaultStartMonth, defaultStartDay, 0, 0, 0, 0, loc),
		End:   time.Date(year, defaultEndMonth, defaultEndDay, 0, 0, 0, 0, loc),
	}
}

// EndExclusive is midnight of the day after End: the first moment at which
// voting is no longer permitted.
func (w Window) EndExclusive() time.Time {
	return time.Date(w.End.Year(), w.End.Month(), w.End.Day(), 0, 0, 0, 0, w.End.Location()).AddDate(0, 0, 1)
}

// Check returns ErrNotStarted before the window opens, ErrEnded from
// EndExclusive onward, and nil while voting is permitted.
func (w Window) Check(now time.Time) error {
	if now.Before(w.Start) {
		return ErrNotStarted
	}
	if !now.Before(w.EndExclusive()) {
		return ErrEnded
	}
	return nil
}

// Open reports whether now falls inside the window.
func (w Window) Open(now time.Time) bool {
	return w.Check(now) == nil
}
