package mocks

import (
	"context"

	"github.com/phrazzld/taskboard-api/internal/store"
)

// Transactor implements store.Transactor by running the callback directly
// against Stores. BeginErr, when set, is returned without calling the callback.
type Transactor struct {
	Stores   store.Stores
	BeginErr error

	// Calls counts RunInTx invocations.
	Calls int
}

var _ store.Transactor = (*Transactor)(nil)

// RunInTx implements store.Transactor.
func (t *Transactor) RunInTx(ctx context.Context, fn func(ctx context.Context, stores store.Stores) error) error {
	t.Calls++
	if t.BeginErr != nil {
		return t.BeginErr
	}
	return fn(ctx, t.Stores)
}
