package clock

import "time"

// Clock gives handlers and the tracking rules their notion of "now".
// Production wiring uses Real; tests pin the date with Fixed.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Real returns a Clock backed by time.Now.
func Real() Clock { return realClock{} }

// Fixed always reports the same instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// Today is midnight UTC of the clock's current UTC calendar date.
func Today(c Clock) time.Time {
	return Date(c.Now())
}

// Date keeps only the UTC calendar date of t, expressed as midnight UTC, so
// values coming from different locations compare by day.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
