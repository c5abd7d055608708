package app

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/assurrussa/chicagotime/di"
	"github.com/assurrussa/chicagotime/internal/datewriter"
)

type options struct {
	stdin    io.Reader
	stdout   io.Writer
	logger   zerolog.Logger
	observer di.Observer
	clock    datewriter.Clock
	getenv   func(string) string
}

type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		logger: zerolog.Nop(),
		getenv: os.Getenv,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithStdin(r io.Reader) Option {
	return func(o *options) { o.stdin = r }
}

func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithLogger sets the logger used by the registry and the log sink.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithObserver(observer di.Observer) Option {
	return func(o *options) { o.observer = observer }
}

// WithClock replaces the system clock registration.
func WithClock(c datewriter.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithGetenv sets the lookup used to detect the host locale.
func WithGetenv(getenv func(string) string) Option {
	return func(o *options) {
		if getenv != nil {
			o.getenv = getenv
		}
	}
}
