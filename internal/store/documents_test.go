package store

import (
	"context"
	"testing"
	"time"

	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/progression"
	"github.com/vitalitypact/vitalitypact/pkg/settings"
	"github.com/vitalitypact/vitalitypact/pkg/unlock"
)

func newTestProvider(t *testing.T, now time.Time) *Provider {
	t.Helper()
	return NewProvider(NewLocalStorage(t.TempDir()), WithClock(func() time.Time { return now }))
}

func TestHistorySameDayReplaces(t *testing.T) {
	now := time.Date(2026, 4, 10, 20, 0, 0, 0, time.UTC)
	h := newTestProvider(t, now).ForUser("u1").History
	ctx := context.Background()

	morning := health.NewRecord("a", now.Add(-10*time.Hour), health.DailyMetrics{Steps: 2000}, 20)
	evening := health.NewRecord("b", now, health.DailyMetrics{Steps: 9000}, 70)
	if err := h.Record(ctx, morning); err != nil {
		t.Fatal(err)
	}
	if err := h.Record(ctx, evening); err != nil {
		t.Fatal(err)
	}

	recs, err := h.RecentRecords(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record for the day, got %d", len(recs))
	}
	if recs[0].ID != "b" || recs[0].Steps != 9000 {
		t.Errorf("expected last write to win, got %+v", recs[0])
	}

	ok, err := h.HasToday(ctx)
	if err != nil || !ok {
		t.Errorf("HasToday = %v, %v", ok, err)
	}
}

func TestHistoryPrunesAndOrders(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	h := newTestProvider(t, now).ForUser("u1").History
	ctx := context.Background()

	for _, daysBack := range []int{120, 91, 3, 1, 2} {
		rec := health.NewRecord("", now.AddDate(0, 0, -daysBack), health.DailyMetrics{Steps: daysBack}, 0)
		if err := h.Record(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	all, err := h.RecentRecords(ctx, 365)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected records past retention to be pruned, got %d", len(all))
	}
	for i, want := range []int{1, 2, 3} {
		if all[i].Steps != want {
			t.Errorf("record %d: steps %d, want %d (newest first)", i, all[i].Steps, want)
		}
	}

	ok, err := h.HasToday(ctx)
	if err != nil || ok {
		t.Errorf("HasToday = %v, %v; want false", ok, err)
	}

	if err := h.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	all, _ = h.RecentRecords(ctx, 365)
	if len(all) != 0 {
		t.Errorf("expected empty history after Clear, got %d", len(all))
	}
}

func TestAttributeStoreWithEngine(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	stores := newTestProvider(t, now).ForUser("u1")
	ctx := context.Background()

	engine := progression.NewEngine(stores.Attributes, progression.WithClock(func() time.Time { return now }))
	if _, err := engine.ApplyDailyRewards(ctx, "fox", health.DailyMetrics{Steps: 10000, SleepHours: 8, ExerciseMinutes: 60}); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Attributes(ctx, "owl"); err != nil {
		t.Fatal(err)
	}

	fox, found, err := stores.Attributes.Get(ctx, "fox")
	if err != nil || !found {
		t.Fatalf("Get(fox) = %v, %v", found, err)
	}
	if fox.Experience != 110 || fox.TotalDaysActive != 1 {
		t.Errorf("unexpected fox record %+v", fox)
	}
	owl, found, _ := stores.Attributes.Get(ctx, "owl")
	if !found || owl.Experience != 0 {
		t.Errorf("expected fresh owl record, got %+v (found=%v)", owl, found)
	}

	if err := engine.ResetAll(ctx); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := stores.Attributes.Get(ctx, "fox"); found {
		t.Error("expected fox to be gone after reset")
	}
}

func TestUnlockStoreWithLedger(t *testing.T) {
	stores := newTestProvider(t, time.Now()).ForUser("u1")
	ctx := context.Background()
	ledger := unlock.NewLedger(stores.Unlocks)
	fox, _ := unlock.DefaultCatalog().Find("fox")

	ok, err := ledger.Unlock(ctx, fox, 600)
	if err != nil || !ok {
		t.Fatalf("Unlock = %v, %v", ok, err)
	}
	if err := stores.Unlocks.Add(ctx, "fox"); err != nil {
		t.Fatal(err)
	}
	set, err := stores.Unlocks.Unlocked(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 1 || !set["fox"] {
		t.Errorf("unexpected unlocked set %v", set)
	}
}

func TestSettingsStore(t *testing.T) {
	stores := newTestProvider(t, time.Now()).ForUser("u1")
	ctx := context.Background()

	s, err := settings.Load(ctx, stores.Settings)
	if err != nil {
		t.Fatal(err)
	}
	s.Style = "sage"
	if err := stores.Settings.Save(ctx, s); err != nil {
		t.Fatal(err)
	}

	got, found, err := stores.Settings.Load(ctx)
	if err != nil || !found {
		t.Fatalf("Load = %v, %v", found, err)
	}
	if got.Style != "sage" {
		t.Errorf("expected style sage, got %q", got.Style)
	}
}

func TestProviderSharesLocksPerUser(t *testing.T) {
	p := newTestProvider(t, time.Now())
	a1 := p.ForUser("a").History.(*HistoryStore)
	a2 := p.ForUser("a").History.(*HistoryStore)
	if a1.mu != a2.mu {
		t.Error("expected repeated lookups to share the user's lock")
	}
	if a1.doc.userID != a2.doc.userID {
		t.Errorf("namespaces differ: %q vs %q", a1.doc.userID, a2.doc.userID)
	}
	if p.ForUser("a").History.(*HistoryStore).doc.userID == p.ForUser("b").History.(*HistoryStore).doc.userID {
		t.Error("expected distinct namespaces per user")
	}
}
