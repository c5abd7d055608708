// Package datewriter produces a representation of a date and hands it to a
// sink.Output. Today is the only writer the CLI wires; alternate writers vary
// the clock, the location or the format.
package datewriter

import (
	"time"

	"github.com/assurrussa/chicagotime/internal/sink"
)

// DateWriter writes a date to the output it was built with.
type DateWriter interface {
	WriteDate() error
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Formatter renders a calendar date.
type Formatter interface {
	Format(t time.Time) string
}

// ISO8601 renders dates as YYYY-MM-DD.
type ISO8601 struct{}

func (ISO8601) Format(t time.Time) string { return t.Format(time.DateOnly) }

// Today writes the current date in its location.
type Today struct {
	out      sink.Output
	clock    Clock
	location *time.Location
	format   Formatter
}

type Option func(*Today)

func WithClock(c Clock) Option {
	return func(w *Today) {
		if c != nil {
			w.clock = c
		}
	}
}

// WithLocation sets the location "today" is computed in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(w *Today) {
		if loc != nil {
			w.location = loc
		}
	}
}

// WithFormatter sets the date format. Defaults to ISO8601.
func WithFormatter(f Formatter) Option {
	return func(w *Today) {
		if f != nil {
			w.format = f
		}
	}
}

func NewToday(out sink.Output, opts ...Option) *Today {
	w := &Today{
		out:      out,
		clock:    SystemClock{},
		location: time.Local,
		format:   ISO8601{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Today) WriteDate() error {
	now := w.clock.Now().In(w.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, w.location)
	return w.out.Write(w.format.Format(today))
}
