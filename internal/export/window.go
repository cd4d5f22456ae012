package export

import "time"

// Window is the trailing completion window. Both ends are inclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns the window covering the last days days up to now. Start
// is midnight of the day days before now, in now's location. A negative
// days value is treated as 0.
func NewWindow(now time.Time, days int) Window {
	if days < 0 {
		days = 0
	}
	y, m, d := now.Date()
	return Window{
		Start: time.Date(y, m, d-days, 0, 0, 0, 0, now.Location()),
		End:   now,
	}
}

// Contains reports whether t lies within the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
