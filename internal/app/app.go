// Package app wires the date writer into a di registry and runs the
// "print today's date and wait for ENTER" flow.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/dig"
	"golang.org/x/text/language"

	"github.com/assurrussa/chicagotime/di"
	"github.com/assurrussa/chicagotime/internal/config"
	"github.com/assurrussa/chicagotime/internal/datewriter"
	"github.com/assurrussa/chicagotime/internal/locale"
	"github.com/assurrussa/chicagotime/internal/sink"
)

// Prompt is printed after the date when cfg.Prompt is set.
const Prompt = "Press <ENTER> when finished."

// Run writes today's date through a fresh scope, then prompts and waits for
// one line on stdin. The registry is closed before Run returns.
func Run(ctx context.Context, cfg config.Config, opts ...Option) (err error) {
	o := newOptions(opts)

	registry, err := newRegistry(cfg, o)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, registry.Close(ctx))
	}()

	if err := writeDate(ctx, registry); err != nil {
		return err
	}

	if !cfg.Prompt {
		return nil
	}
	if _, err := fmt.Fprintln(o.stdout, Prompt); err != nil {
		return fmt.Errorf("%w: %w", sink.ErrWriteFailed, err)
	}
	return waitForEnter(o.stdin)
}

// NewRegistry builds the registry Run uses.
func NewRegistry(cfg config.Config, opts ...Option) (*di.Registry, error) {
	return newRegistry(cfg, newOptions(opts))
}

func newRegistry(cfg config.Config, o options) (*di.Registry, error) {
	regs, err := registrations(cfg, o)
	if err != nil {
		return nil, err
	}

	builderOpts := []di.BuilderOption{
		di.WithRegistrations(regs),
		di.WithLogger(o.logger),
	}
	if o.observer != nil {
		builderOpts = append(builderOpts, di.WithObserver(o.observer))
	}

	builder, err := di.NewBuilder(builderOpts...)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	registry, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	return registry, nil
}

type todayParams struct {
	dig.In

	Out       sink.Output
	Clock     datewriter.Clock
	Formatter datewriter.Formatter
	Location  *time.Location `optional:"true"`
}

func registrations(cfg config.Config, o options) (di.Registrations, error) {
	loc, err := cfg.Location()
	if err != nil {
		return di.Registrations{}, err
	}
	formatter, err := formatterFor(cfg, o.getenv)
	if err != nil {
		return di.Registrations{}, err
	}

	regs := []di.Registration{
		outputRegistration(cfg, o),
		di.Bind[datewriter.Clock](func() datewriter.SystemClock {
			return datewriter.SystemClock{}
		}, di.Singleton(), di.WithKey("clock")),
		di.NewRegistration(func() *time.Location { return loc }, di.Singleton()),
		di.NewRegistration(func() datewriter.Formatter { return formatter }, di.Singleton()),
		di.Bind[datewriter.DateWriter](func(p todayParams) *datewriter.Today {
			return datewriter.NewToday(p.Out,
				datewriter.WithClock(p.Clock),
				datewriter.WithLocation(p.Location),
				datewriter.WithFormatter(p.Formatter),
			)
		}, di.WithKey("today")),
	}
	if o.clock != nil {
		clock := o.clock
		regs = append(regs, di.Replace(func() datewriter.Clock { return clock }, di.Singleton(), di.WithKey("clock")))
	}
	return di.Collect(regs...), nil
}

func outputRegistration(cfg config.Config, o options) di.Registration {
	return di.Bind[sink.Output](func() sink.Multi {
		outputs := make(sink.Multi, 0, len(cfg.Sinks))
		for _, name := range cfg.Sinks {
			switch name {
			case config.SinkConsole:
				outputs = append(outputs, sink.NewConsole(o.stdout))
			case config.SinkLog:
				outputs = append(outputs, sink.NewLog(o.logger))
			}
		}
		return outputs
	}, di.WithKey("output"))
}

func formatterFor(cfg config.Config, getenv func(string) string) (datewriter.Formatter, error) {
	if cfg.Format == config.FormatISO {
		return datewriter.ISO8601{}, nil
	}

	var tag language.Tag
	if cfg.Locale != "" {
		parsed, err := locale.ParsePOSIX(cfg.Locale)
		if err != nil {
			return nil, err
		}
		tag = parsed
	} else {
		tag = locale.Detect(getenv)
	}
	return locale.ShortDate(tag), nil
}

func writeDate(ctx context.Context, registry *di.Registry) (err error) {
	scope, err := registry.BeginScope()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, scope.Release(ctx))
	}()

	writer, err := di.Resolve[datewriter.DateWriter](scope)
	if err != nil {
		return err
	}
	return writer.WriteDate()
}

func waitForEnter(r io.Reader) error {
	if _, err := bufio.NewReader(r).ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}
