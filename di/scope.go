package di

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/dig"
)

// Scope is a bounded-lifetime resolution context: Open -> (Resolve|Invoke)* -> Released.
// A scope belongs to one unit of work and must be released exactly once,
// typically with defer right after BeginScope.
type Scope struct {
	id       string
	registry *Registry
	logger   zerolog.Logger
	lifetime *Lifetime

	mu        sync.Mutex
	container *dig.Container
	released  bool
}

func (s *Scope) ID() string {
	return s.id
}

// Resolve returns the instance bound to capability, given as a pointer to the
// capability type (e.g. new(io.Writer)).
func (s *Scope) Resolve(capability any) (any, error) {
	t := reflect.TypeOf(capability)
	if t == nil || t.Kind() != reflect.Pointer {
		return nil, fmt.Errorf("capability must be a pointer, got %T", capability)
	}

	v, err := s.resolve(t.Elem())
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Resolve returns the instance bound to capability T in scope s.
func Resolve[T any](s *Scope) (T, error) {
	var zero T
	v, err := s.resolve(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	out, _ := v.Interface().(T)
	return out, nil
}

func (s *Scope) resolve(t reflect.Type) (reflect.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return reflect.Value{}, fmt.Errorf("%w: resolve %s in scope %s", ErrScopeMisuse, t, s.id)
	}
	if !s.registry.provides(t) {
		err := fmt.Errorf("%w: %s", ErrCapabilityNotRegistered, t)
		s.registry.observer.Resolved(t.String(), err)
		return reflect.Value{}, err
	}

	var v reflect.Value
	err := s.container.Invoke(captureInvoke(t, &v))
	s.registry.observer.Resolved(t.String(), err)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("resolve %s: %w", t, err)
	}

	s.logger.Debug().Str("capability", t.String()).Msg("resolved")
	return v, nil
}

// Invoke calls fn with its parameters resolved from the scope. If fn's last
// result is an error it is returned. fn runs without the scope lock held, so it
// may resolve from or invoke on the same scope.
func (s *Scope) Invoke(fn any) error {
	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return fmt.Errorf("can't invoke non-function %v (type %T)", fn, fn)
	}

	s.mu.Lock()
	released := s.released
	s.mu.Unlock()
	if released {
		return fmt.Errorf("%w: invoke in scope %s", ErrScopeMisuse, s.id)
	}

	missing, err := missingRequirements(fnType, s.registry.provides)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRegistration, err)
	}
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, t := range missing {
			names = append(names, t.String())
		}
		return fmt.Errorf("%w: %s", ErrCapabilityNotRegistered, strings.Join(names, ", "))
	}

	args, err := s.arguments(fnType)
	if err != nil {
		return err
	}

	out := reflect.ValueOf(fn).Call(args)
	if n := fnType.NumOut(); n > 0 && fnType.Out(n-1) == errorType {
		if err, _ := out[n-1].Interface().(error); err != nil {
			return err
		}
	}
	return nil
}

// arguments resolves fn's fixed parameters one by one; dig.In objects are
// filled field by field and unbound optional fields stay zero. Variadic
// parameters are left empty.
func (s *Scope) arguments(fnType reflect.Type) ([]reflect.Value, error) {
	n := fnType.NumIn()
	if fnType.IsVariadic() {
		n--
	}

	args := make([]reflect.Value, 0, n)
	for i := range n {
		in := fnType.In(i)
		if !isParamObject(in) {
			v, err := s.resolve(in)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
			continue
		}

		obj := reflect.New(in).Elem()
		for j := range in.NumField() {
			field := in.Field(j)
			if field.Anonymous && field.Type == digInType || field.PkgPath != "" {
				continue
			}
			if field.Tag.Get("optional") == "true" && !s.registry.provides(field.Type) {
				continue
			}
			v, err := s.resolve(field.Type)
			if err != nil {
				return nil, err
			}
			obj.Field(j).Set(v)
		}
		args = append(args, obj)
	}
	return args, nil
}

// Release runs the release hooks of every instance created in the scope, in
// reverse creation order, and makes the scope unusable. A second call returns
// ErrScopeMisuse without touching the instances again.
func (s *Scope) Release(ctx context.Context) error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return fmt.Errorf("%w: release scope %s", ErrScopeMisuse, s.id)
	}
	s.released = true
	s.container = nil
	s.mu.Unlock()

	err := s.lifetime.release(ctx)
	s.registry.observer.ScopeReleased(s.id, err)
	s.logger.Debug().Err(err).Msg("scope released")
	return err
}
