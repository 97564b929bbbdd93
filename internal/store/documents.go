package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/progression"
	"github.com/vitalitypact/vitalitypact/pkg/settings"
)

// Document locations within a user's namespace.
const (
	kindHistory    = "history"
	kindPartners   = "partners"
	kindCharacters = "characters"
	kindSettings   = "settings"
	docName        = "current"
)

// document is one JSON value stored under (userID, kind).
type document struct {
	blobs  BlobStore
	userID string
	kind   string
}

// load decodes the document into v. found is false if it does not exist.
func (d document) load(ctx context.Context, v any) (bool, error) {
	data, err := d.blobs.Get(ctx, d.userID, d.kind, docName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", d.kind, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", d.kind, err)
	}
	return true, nil
}

func (d document) save(ctx context.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", d.kind, err)
	}
	if err := d.blobs.Put(ctx, d.userID, d.kind, docName, data); err != nil {
		return fmt.Errorf("writing %s: %w", d.kind, err)
	}
	return nil
}

func (d document) remove(ctx context.Context) error {
	if err := d.blobs.Delete(ctx, d.userID, d.kind, docName); err != nil {
		return fmt.Errorf("deleting %s: %w", d.kind, err)
	}
	return nil
}

// HistoryStore keeps a user's daily records in one document.
// It implements health.HistoryStore.
type HistoryStore struct {
	doc       document
	retention int
	now       func() time.Time
	mu        *sync.Mutex
}

// Record replaces any record on the same calendar day and prunes records
// older than the retention window.
func (s *HistoryStore) Record(ctx context.Context, rec health.DailyHealthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []health.DailyHealthRecord
	if _, err := s.doc.load(ctx, &records); err != nil {
		return err
	}

	cutoff := health.Cutoff(s.now(), s.retention)
	kept := make([]health.DailyHealthRecord, 0, len(records)+1)
	for _, r := range records {
		if !health.SameDay(r.Date, rec.Date) && !r.Date.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	if !rec.Date.Before(cutoff) {
		kept = append(kept, rec)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Date.Before(kept[j].Date) })

	return s.doc.save(ctx, kept)
}

// RecentRecords returns records dated on or after now minus days, newest first.
func (s *HistoryStore) RecentRecords(ctx context.Context, days int) ([]health.DailyHealthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []health.DailyHealthRecord
	if _, err := s.doc.load(ctx, &records); err != nil {
		return nil, err
	}

	cutoff := health.Cutoff(s.now(), days)
	var out []health.DailyHealthRecord
	for _, r := range records {
		if !r.Date.Before(cutoff) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// HasToday reports whether a record exists for the current day.
func (s *HistoryStore) HasToday(ctx context.Context) (bool, error) {
	recent, err := s.RecentRecords(ctx, 1)
	if err != nil {
		return false, err
	}
	now := s.now()
	for _, r := range recent {
		if health.SameDay(r.Date, now) {
			return true, nil
		}
	}
	return false, nil
}

// Clear deletes all history.
func (s *HistoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.remove(ctx)
}

// AttributeStore keeps every partner's attributes in one document keyed by
// partner ID. It implements progression.Store.
type AttributeStore struct {
	doc document
	mu  *sync.Mutex
}

func (s *AttributeStore) loadAll(ctx context.Context) (map[string]progression.PartnerAttributes, error) {
	all := make(map[string]progression.PartnerAttributes)
	if _, err := s.doc.load(ctx, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *AttributeStore) Get(ctx context.Context, partnerID string) (progression.PartnerAttributes, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.loadAll(ctx)
	if err != nil {
		return progression.PartnerAttributes{}, false, err
	}
	a, ok := all[partnerID]
	return a, ok, nil
}

func (s *AttributeStore) Save(ctx context.Context, attrs progression.PartnerAttributes) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.loadAll(ctx)
	if err != nil {
		return err
	}
	all[attrs.PartnerID] = attrs
	return s.doc.save(ctx, all)
}

func (s *AttributeStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.remove(ctx)
}

// UnlockStore keeps the unlocked character IDs as a sorted list.
// It implements unlock.Store.
type UnlockStore struct {
	doc document
	mu  *sync.Mutex
}

func (s *UnlockStore) Unlocked(ctx context.Context) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	if _, err := s.doc.load(ctx, &ids); err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *UnlockStore) Add(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	if _, err := s.doc.load(ctx, &ids); err != nil {
		return err
	}
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	ids = append(ids, id)
	sort.Strings(ids)
	return s.doc.save(ctx, ids)
}

func (s *UnlockStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.remove(ctx)
}

// SettingsStore keeps a user's settings. It implements settings.Store.
type SettingsStore struct {
	doc document
}

func (s *SettingsStore) Load(ctx context.Context) (settings.Settings, bool, error) {
	var out settings.Settings
	found, err := s.doc.load(ctx, &out)
	return out, found, err
}

func (s *SettingsStore) Save(ctx context.Context, v settings.Settings) error {
	return s.doc.save(ctx, v)
}
