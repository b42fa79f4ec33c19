package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/jmoiron/sqlx"
)

// Transactor runs fn directly with a nil transaction and records the requested isolation levels.
type Transactor struct {
	mu         sync.Mutex
	isolations []sql.IsolationLevel
}

func NewTransactor() *Transactor {
	return &Transactor{}
}

// WithTx implements postgres.Transactor.
func (t *Transactor) WithTx(_ context.Context, isolation sql.IsolationLevel, fn func(tx *sqlx.Tx) error) error {
	t.mu.Lock()
	t.isolations = append(t.isolations, isolation)
	t.mu.Unlock()

	return fn(nil)
}

func (t *Transactor) Isolations() []sql.IsolationLevel {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]sql.IsolationLevel(nil), t.isolations...)
}
