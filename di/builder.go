// Package di is a small composition root on top of go.uber.org/dig: register
// constructors against capabilities, build an immutable Registry and resolve
// instances inside short-lived scopes that release everything they created.
package di

import (
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
	"go.uber.org/dig"
)

type builderConfig struct {
	registrations []Registration
	matchings     []any
	logger        zerolog.Logger
	observer      Observer
}

// Builder collects registrations until Build is called.
type Builder struct {
	registrations []Registration
	matchings     []any
	logger        zerolog.Logger
	observer      Observer
	built         bool
}

func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	cfg := builderConfig{
		logger:   zerolog.Nop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &Builder{
		matchings: cfg.matchings,
		logger:    cfg.logger,
		observer:  cfg.observer,
	}

	if err := b.Register(cfg.registrations...); err != nil {
		return nil, err
	}

	return b, nil
}

// Register records registrations. A failed call leaves the builder unchanged.
func (b *Builder) Register(regs ...Registration) error {
	if b.built {
		return ErrRegisterAfterBuild
	}

	applied, err := applyMatchingsToList(regs, b.matchings)
	if err != nil {
		return err
	}

	next := append([]Registration(nil), b.registrations...)
	next = append(next, applied...)
	if _, err := resolveEntries(entriesFor(next)); err != nil {
		return err
	}

	b.registrations = next
	return nil
}

// Build finalizes the registrations into a Registry. Further Register and Build
// calls fail with ErrRegisterAfterBuild.
func (b *Builder) Build() (*Registry, error) {
	if b.built {
		return nil, ErrRegisterAfterBuild
	}

	res, err := resolveEntries(entriesFor(b.registrations))
	if err != nil {
		return nil, err
	}
	if err := validateResolved(res); err != nil {
		return nil, err
	}
	if err := verifyAcyclic(res); err != nil {
		return nil, err
	}

	registry, err := newRegistry(res, b.logger, b.observer)
	if err != nil {
		return nil, err
	}
	b.built = true

	for _, o := range DetectOverrides(Collect(b.registrations...)) {
		b.logger.Debug().
			Str("capability", o.Capability).
			Str("previous", o.Previous.Constructor).
			Str("next", o.Next.Constructor).
			Msg("registration replaced")
	}
	b.logger.Debug().
		Int("registrations", len(b.registrations)).
		Int("capabilities", len(res.slots)).
		Msg("registry built")

	return registry, nil
}

// verifyAcyclic provides every winner to a dry-run container; dig rejects cycles on Provide.
func verifyAcyclic(res resolvedSet) error {
	c := dig.New(dig.DryRun(true))
	if err := c.Provide(func() *Lifetime { return nil }); err != nil {
		return err
	}
	for _, winner := range res.winners {
		if err := c.Provide(winner.reg.constructor, provideOptions(winner, res)...); err != nil {
			if dig.IsCycleDetected(err) {
				return fmt.Errorf("%w: %w", ErrDependencyCycle, err)
			}
			return fmt.Errorf("%w: %w", ErrInvalidRegistration, err)
		}
	}
	return nil
}

// provideOptions binds a winner only to the capabilities it won.
func provideOptions(winner regEntry, res resolvedSet) []dig.ProvideOption {
	if len(winner.reg.capabilities) == 0 {
		return nil
	}

	options := make([]dig.ProvideOption, 0, len(winner.reg.capabilities))
	for _, t := range winner.reg.ExposedTypes() {
		if entry, ok := res.slots[t]; ok && entry.idx == winner.idx {
			options = append(options, dig.As(reflect.New(t).Interface()))
		}
	}
	return options
}
