// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces; the Postgres implementation
// lives in infrastructure/storage/postgres.
package tx

import (
	"context"
	"sync"
)

// Manager runs a unit of work inside a database transaction.
//
// The transaction travels in the ctx handed to fn; repositories called with
// that ctx join it. Calls made with the outer ctx do not.
type Manager interface {
	// RunInTransaction commits when fn returns nil and rolls back otherwise.
	// Nested calls reuse the transaction already present in ctx.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction, giving fn a consistent snapshot.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

type hooksKey struct{}

// CommitHooks collects callbacks to run once the enclosing transaction commits.
type CommitHooks struct {
	mu    sync.Mutex
	funcs []func(ctx context.Context)
}

// WithCommitHooks returns a ctx that AfterCommit can register into.
// Managers call it when they open a top-level transaction.
func WithCommitHooks(ctx context.Context) (context.Context, *CommitHooks) {
	h := &CommitHooks{}
	return context.WithValue(ctx, hooksKey{}, h), h
}

// Run calls the registered hooks in registration order.
func (h *CommitHooks) Run(ctx context.Context) {
	h.mu.Lock()
	funcs := h.funcs
	h.funcs = nil
	h.mu.Unlock()

	for _, fn := range funcs {
		fn(ctx)
	}
}

// AfterCommit schedules fn to run after the transaction in ctx commits.
// Outside a transaction there is nothing to wait for and fn runs immediately.
// Hooks are dropped when the transaction rolls back.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	h, ok := ctx.Value(hooksKey{}).(*CommitHooks)
	if !ok {
		fn(ctx)
		return
	}
	h.mu.Lock()
	h.funcs = append(h.funcs, fn)
	h.mu.Unlock()
}
