package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"
)

type Hook struct {
	Name      string
	OnRelease func(context.Context) error
}

// Lifetime collects release hooks for instances created in one scope (or in the
// registry, for singletons). Constructors may request *Lifetime to register
// their own cleanup; instances implementing io.Closer are tracked automatically.
type Lifetime struct {
	mu       sync.Mutex
	hooks    []Hook
	released bool
}

func newLifetime() *Lifetime {
	return &Lifetime{}
}

// OnRelease appends a hook. Hooks added after release are dropped.
func (l *Lifetime) OnRelease(h Hook) {
	if h.OnRelease == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return
	}
	l.hooks = append(l.hooks, h)
}

// Len returns the number of pending hooks.
func (l *Lifetime) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hooks)
}

// release runs hooks in reverse order exactly once.
func (l *Lifetime) release(ctx context.Context) error {
	l.mu.Lock()
	if l.released {
		l.mu.Unlock()
		return nil
	}
	l.released = true
	hooks := l.hooks
	l.hooks = nil
	l.mu.Unlock()

	var releaseErr error
	for i := len(hooks) - 1; i >= 0; i-- {
		hook := hooks[i]
		if err := hook.OnRelease(ctx); err != nil {
			releaseErr = errors.Join(releaseErr, fmt.Errorf("release %s: %w", hook.Name, err))
		}
	}
	return releaseErr
}

func (l *Lifetime) track(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return
		}
	}

	closer, ok := v.Interface().(io.Closer)
	if !ok {
		return
	}
	l.OnRelease(Hook{
		Name:      v.Type().String(),
		OnRelease: func(context.Context) error { return closer.Close() },
	})
}

// trackedConstructor wraps constructor so every instance it returns is tracked by l.
func trackedConstructor(constructor any, l *Lifetime) any {
	fn := reflect.ValueOf(constructor)
	fnType := fn.Type()

	wrapped := reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		var out []reflect.Value
		if fnType.IsVariadic() {
			out = fn.CallSlice(args)
		} else {
			out = fn.Call(args)
		}
		if len(out) == 2 && !out[1].IsNil() {
			return out
		}
		l.track(out[0])
		return out
	})
	return wrapped.Interface()
}
