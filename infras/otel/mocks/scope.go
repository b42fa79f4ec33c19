package mocks

import "sync"

type Scope struct {
	ScopeName string
	SpanName  string

	mu         sync.Mutex
	attributes map[string]any
	events     []string
	errors     []error
	ended      bool
}

func newScope(scopeName, spanName string) *Scope {
	return &Scope{ScopeName: scopeName, SpanName: spanName, attributes: map[string]any{}}
}

func (s *Scope) End() {
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()
}

func (s *Scope) TraceError(err error) {
	s.mu.Lock()
	s.errors = append(s.errors, err)
	s.mu.Unlock()
}

func (s *Scope) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func (s *Scope) AddEvent(name string) {
	s.mu.Lock()
	s.events = append(s.events, name)
	s.mu.Unlock()
}

func (s *Scope) SetAttribute(key string, value any) {
	s.mu.Lock()
	s.attributes[key] = value
	s.mu.Unlock()
}

func (s *Scope) SetAttributes(attributes map[string]any) {
	for key, value := range attributes {
		s.SetAttribute(key, value)
	}
}

func (s *Scope) Attribute(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.attributes[key]

	return value, ok
}

func (s *Scope) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]error(nil), s.errors...)
}

func (s *Scope) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.events...)
}

func (s *Scope) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ended
}
