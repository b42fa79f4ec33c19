package mocks

import (
	"context"
	"stayledger/infras/otel"
	"sync"
)

// Recorder is an in-memory otel.Otel. Every scope it opens is kept so tests can inspect
// span names, attributes and recorded errors.
type Recorder struct {
	mu     sync.Mutex
	scopes []*Scope
}

func NewOtel() *Recorder {
	return &Recorder{}
}

// NewScope implements otel.Otel.
func (r *Recorder) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, otel.Scope) {
	scope := newScope(scopeName, spanName)

	r.mu.Lock()
	r.scopes = append(r.scopes, scope)
	r.mu.Unlock()

	return ctx, scope
}

// Scopes returns the scopes opened so far, oldest first.
func (r *Recorder) Scopes() []*Scope {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*Scope(nil), r.scopes...)
}

// Find returns the first scope with the given span name.
func (r *Recorder) Find(spanName string) (*Scope, bool) {
	for _, scope := range r.Scopes() {
		if scope.SpanName == spanName {
			return scope, true
		}
	}

	return nil, false
}
