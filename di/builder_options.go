package di

import "github.com/rs/zerolog"

type BuilderOption func(c *builderConfig)

// WithRegistrations adds registrations to the builder.
func WithRegistrations(r ...Registrations) BuilderOption {
	return func(c *builderConfig) {
		for i := range r {
			c.registrations = append(c.registrations, r[i].List()...)
		}
	}
}

// WithMatchings applies dig.As bindings automatically for registered constructors.
// Accepts pointers to interfaces or Matching instances.
func WithMatchings(matchings ...any) BuilderOption {
	return func(c *builderConfig) {
		c.matchings = append(c.matchings, matchings...)
	}
}

// WithLogger sets the logger used for build and scope diagnostics.
func WithLogger(logger zerolog.Logger) BuilderOption {
	return func(c *builderConfig) {
		c.logger = logger
	}
}

// WithObserver reports scope and resolution events to o.
func WithObserver(o Observer) BuilderOption {
	return func(c *builderConfig) {
		if o != nil {
			c.observer = o
		}
	}
}

// Observer receives scope and resolution events. Implementations must be safe
// for concurrent use when the registry is shared.
type Observer interface {
	ScopeBegun(id string)
	ScopeReleased(id string, err error)
	Resolved(capability string, err error)
}

type nopObserver struct{}

func (nopObserver) ScopeBegun(string)           {}
func (nopObserver) ScopeReleased(string, error) {}
func (nopObserver) Resolved(string, error)      {}
