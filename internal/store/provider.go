package store

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/vitalitypact/vitalitypact/pkg/config"
	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/progression"
	"github.com/vitalitypact/vitalitypact/pkg/settings"
	"github.com/vitalitypact/vitalitypact/pkg/unlock"
)

var (
	_ History           = (*HistoryStore)(nil)
	_ progression.Store = (*AttributeStore)(nil)
	_ unlock.Store      = (*UnlockStore)(nil)
	_ settings.Store    = (*SettingsStore)(nil)
	_ Backend           = (*Provider)(nil)
)

// History is a history store with the maintenance operations services need.
type History interface {
	health.HistoryStore
	HasToday(ctx context.Context) (bool, error)
	Clear(ctx context.Context) error
}

// Stores bundles one user's persistence collaborators.
type Stores struct {
	History    History
	Attributes progression.Store
	Unlocks    unlock.Store
	Settings   settings.Store
}

// Backend hands out the stores for a user.
type Backend interface {
	ForUser(userID string) *Stores
}

// lockStripes bounds the number of user locks a Provider holds.
const lockStripes = 64

// userLocks serializes load-then-save sequences on one user's documents.
type userLocks struct {
	history    sync.Mutex
	partners   sync.Mutex
	characters sync.Mutex
}

// Provider hands out per-user Stores over a shared BlobStore. Stores are
// built on each call; users hashing to the same stripe share locks, so
// load-then-save sequences never interleave within one process.
type Provider struct {
	blobs     BlobStore
	retention int
	now       func() time.Time

	locks [lockStripes]userLocks
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithRetentionDays overrides the history retention window.
func WithRetentionDays(days int) ProviderOption {
	return func(p *Provider) { p.retention = days }
}

// WithClock sets the time source used for pruning and windows.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *Provider) { p.now = now }
}

// NewProvider creates a Provider over blobs.
func NewProvider(blobs BlobStore, opts ...ProviderOption) *Provider {
	p := &Provider{
		blobs:     blobs,
		retention: health.RetentionDays,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) locksFor(key string) *userLocks {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &p.locks[h.Sum32()%lockStripes]
}

// ForUser returns the stores for userID.
func (p *Provider) ForUser(userID string) *Stores {
	key := config.UserKey(userID)
	locks := p.locksFor(key)
	doc := func(kind string) document {
		return document{blobs: p.blobs, userID: key, kind: kind}
	}
	return &Stores{
		History: &HistoryStore{
			doc:       doc(kindHistory),
			retention: p.retention,
			now:       p.now,
			mu:        &locks.history,
		},
		Attributes: &AttributeStore{doc: doc(kindPartners), mu: &locks.partners},
		Unlocks:    &UnlockStore{doc: doc(kindCharacters), mu: &locks.characters},
		Settings:   &SettingsStore{doc: doc(kindSettings)},
	}
}
