package di_test

import (
	"context"
	"errors"
	"sync"
)

type greeter interface{ Greet() string }

type namer interface{ Name() string }

type english struct{ name string }

func (e *english) Greet() string { return "hello " + e.name }
func (e *english) Name() string  { return e.name }

type spanish struct{}

func (spanish) Greet() string { return "hola" }

type polite struct{ g greeter }

func (p *polite) Greet() string { return p.g.Greet() + ", please" }

// releaseLog records Close calls in order.
type releaseLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *releaseLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *releaseLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type resource struct {
	name string
	log  *releaseLog
	err  error
}

func (r *resource) Close() error {
	r.log.add(r.name)
	return r.err
}

type recordingObserver struct {
	mu        sync.Mutex
	begun     int
	released  int
	resolved  map[string]int
	failed    map[string]int
	lastScope string
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{resolved: map[string]int{}, failed: map[string]int{}}
}

func (o *recordingObserver) ScopeBegun(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.begun++
	o.lastScope = id
}

func (o *recordingObserver) ScopeReleased(string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.released++
}

func (o *recordingObserver) Resolved(capability string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.failed[capability]++
		return
	}
	o.resolved[capability]++
}

var errBoom = errors.New("boom")

func mustRelease(ctx context.Context, s interface{ Release(context.Context) error }) func() {
	return func() { _ = s.Release(ctx) }
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
