package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/dig"
)

// Registry is the immutable result of Builder.Build. It may be shared by
// concurrent callers; each of them opens its own Scope.
type Registry struct {
	resolved   resolvedSet
	perScope   []regEntry
	singletons []regEntry
	logger     zerolog.Logger
	observer   Observer

	mu       sync.Mutex
	root     *dig.Container
	lifetime *Lifetime
	closed   bool
}

func newRegistry(res resolvedSet, logger zerolog.Logger, observer Observer) (*Registry, error) {
	r := &Registry{
		resolved: res,
		logger:   logger,
		observer: observer,
		root:     dig.New(dig.RecoverFromPanics()),
		lifetime: newLifetime(),
	}

	for _, winner := range res.winners {
		if winner.reg.lifestyle == LifestyleSingleton {
			r.singletons = append(r.singletons, winner)
			continue
		}
		r.perScope = append(r.perScope, winner)
	}

	if err := r.root.Provide(func() *Lifetime { return r.lifetime }); err != nil {
		return nil, err
	}
	for _, singleton := range r.singletons {
		ctor := trackedConstructor(singleton.reg.constructor, r.lifetime)
		if err := r.root.Provide(ctor, provideOptions(singleton, res)...); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRegistration, err)
		}
	}

	return r, nil
}

// Capabilities lists the bound capability types, sorted by name.
func (r *Registry) Capabilities() []string {
	types := sortedTypes(r.resolved.slots)
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	return names
}

func (r *Registry) provides(t reflect.Type) bool {
	if t == lifetimeType {
		return true
	}
	_, ok := r.resolved.slots[t]
	return ok
}

// BeginScope opens a new resolution scope. Per-scope registrations get fresh
// instances in every scope; singletons are shared through the registry.
func (r *Registry) BeginScope() (*Scope, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, ErrRegistryClosed
	}

	s := &Scope{
		id:       uuid.NewString(),
		registry: r,
		lifetime: newLifetime(),
	}
	s.logger = r.logger.With().Str("scope", s.id).Logger()

	c := dig.New(dig.RecoverFromPanics())
	if err := c.Provide(func() *Lifetime { return s.lifetime }); err != nil {
		return nil, err
	}
	for _, entry := range r.perScope {
		ctor := trackedConstructor(entry.reg.constructor, s.lifetime)
		if err := c.Provide(ctor, provideOptions(entry, r.resolved)...); err != nil {
			return nil, fmt.Errorf("begin scope: %w", err)
		}
	}
	for _, t := range sortedTypes(r.resolved.slots) {
		if r.resolved.slots[t].reg.lifestyle != LifestyleSingleton {
			continue
		}
		if err := c.Provide(r.singletonThunk(t)); err != nil {
			return nil, fmt.Errorf("begin scope: %w", err)
		}
	}
	s.container = c

	r.observer.ScopeBegun(s.id)
	s.logger.Debug().Msg("scope begun")
	return s, nil
}

// Close releases singletons. Open scopes stay usable until released, but no
// new scope can begin.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRegistryClosed
	}
	r.closed = true
	r.mu.Unlock()

	err := r.lifetime.release(ctx)
	r.logger.Debug().Err(err).Msg("registry closed")
	return err
}

// singletonThunk forwards resolution of t to the root container.
func (r *Registry) singletonThunk(t reflect.Type) any {
	fnType := reflect.FuncOf(nil, []reflect.Type{t, errorType}, false)
	fn := reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		v, err := r.resolveSingleton(t)
		if err != nil {
			return []reflect.Value{reflect.Zero(t), reflect.ValueOf(&err).Elem()}
		}
		return []reflect.Value{v, reflect.Zero(errorType)}
	})
	return fn.Interface()
}

func (r *Registry) resolveSingleton(t reflect.Type) (reflect.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return reflect.Value{}, ErrRegistryClosed
	}

	var v reflect.Value
	if err := r.root.Invoke(captureInvoke(t, &v)); err != nil {
		return reflect.Value{}, err
	}
	return v, nil
}

// captureInvoke builds func(t) that stores its argument in dst.
func captureInvoke(t reflect.Type, dst *reflect.Value) any {
	fnType := reflect.FuncOf([]reflect.Type{t}, nil, false)
	fn := reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		*dst = args[0]
		return nil
	})
	return fn.Interface()
}
