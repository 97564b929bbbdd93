package unlock

import (
	"context"
	"fmt"
	"sync"
)

// Store persists the set of unlocked character IDs for one user.
type Store interface {
	Unlocked(ctx context.Context) (map[string]bool, error)
	Add(ctx context.Context, id string) error
	Reset(ctx context.Context) error
}

// Ledger applies unlock rules over a Store. It never deducts currency;
// callers that keep a spendable balance must debit it themselves.
type Ledger struct {
	store Store
	mu    sync.Mutex
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// IsUnlocked reports whether c is free or already unlocked.
func (l *Ledger) IsUnlocked(ctx context.Context, c Character) (bool, error) {
	if c.Free() {
		return true, nil
	}
	set, err := l.store.Unlocked(ctx)
	if err != nil {
		return false, fmt.Errorf("loading unlocked characters: %w", err)
	}
	return set[c.ID], nil
}

// Unlock returns true without changes if c is already unlocked, false without
// changes if available is below c's cost, and otherwise records c and returns true.
func (l *Ledger) Unlock(ctx context.Context, c Character, available int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ok, err := l.IsUnlocked(ctx, c)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	if available < c.UnlockCost {
		return false, nil
	}
	if err := l.store.Add(ctx, c.ID); err != nil {
		return false, fmt.Errorf("unlocking %s: %w", c.ID, err)
	}
	return true, nil
}

// UnlockAll records every paid character in catalog regardless of currency.
func (l *Ledger) UnlockAll(ctx context.Context, catalog Catalog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range catalog {
		if c.Free() {
			continue
		}
		if err := l.store.Add(ctx, c.ID); err != nil {
			return fmt.Errorf("unlocking %s: %w", c.ID, err)
		}
	}
	return nil
}

// Reset forgets every unlock.
func (l *Ledger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.Reset(ctx); err != nil {
		return fmt.Errorf("resetting unlocks: %w", err)
	}
	return nil
}

// Status pairs a character with whether it is usable.
type Status struct {
	Character
	Unlocked bool `json:"unlocked"`
}

// List reports the unlock status of every character in catalog.
func (l *Ledger) List(ctx context.Context, catalog Catalog) ([]Status, error) {
	set, err := l.store.Unlocked(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading unlocked characters: %w", err)
	}
	out := make([]Status, 0, len(catalog))
	for _, c := range catalog {
		out = append(out, Status{Character: c, Unlocked: c.Free() || set[c.ID]})
	}
	return out, nil
}
