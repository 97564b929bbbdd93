// Package pgstore persists VitalityPact state in Postgres. Every row is
// scoped to a user ID, so one database serves many users.
package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitalitypact/vitalitypact/internal/store"
	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/progression"
	"github.com/vitalitypact/vitalitypact/pkg/settings"
)

const dayLayout = "2006-01-02"

// Service hands out per-user stores backed by Postgres.
type Service struct {
	db        *sql.DB
	retention int
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRetentionDays overrides the history retention window.
func WithRetentionDays(days int) Option {
	return func(s *Service) { s.retention = days }
}

// WithClock sets the time source used for pruning and windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Service. Call platform.AutoMigrate on db first.
func NewService(db *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:        db,
		retention: health.RetentionDays,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping verifies the database connection.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// ForUser returns the stores for userID. They hold no state beyond the
// shared connection pool, so they are built on each call.
func (s *Service) ForUser(userID string) *store.Stores {
	return &store.Stores{
		History:    &HistoryStore{db: s.db, userID: userID, retention: s.retention, now: s.now},
		Attributes: &AttributeStore{db: s.db, userID: userID},
		Unlocks:    &UnlockStore{db: s.db, userID: userID},
		Settings:   &SettingsStore{db: s.db, userID: userID},
	}
}

// HistoryStore stores daily records in daily_records.
type HistoryStore struct {
	db        *sql.DB
	userID    string
	retention int
	now       func() time.Time
}

// Record upserts rec on its calendar day and prunes rows past retention.
func (h *HistoryStore) Record(ctx context.Context, rec health.DailyHealthRecord) error {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		id = uuid.New()
	}
	cutoff := health.Cutoff(h.now(), h.retention)

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record: %w", err)
	}
	defer tx.Rollback()

	if !rec.Date.Before(cutoff) {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO daily_records (id, user_id, day, recorded_for, steps, sleep_hours, exercise_minutes, overall_score)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (user_id, day) DO UPDATE
			   SET id = EXCLUDED.id,
			       recorded_for = EXCLUDED.recorded_for,
			       steps = EXCLUDED.steps,
			       sleep_hours = EXCLUDED.sleep_hours,
			       exercise_minutes = EXCLUDED.exercise_minutes,
			       overall_score = EXCLUDED.overall_score`,
			id, h.userID, rec.Date.Format(dayLayout), rec.Date,
			rec.Steps, rec.SleepHours, rec.ExerciseMinutes, rec.OverallScore,
		)
		if err != nil {
			return fmt.Errorf("upsert daily record: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM daily_records WHERE user_id = $1 AND recorded_for < $2`,
		h.userID, cutoff,
	); err != nil {
		return fmt.Errorf("prune daily records: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

// RecentRecords returns records dated on or after now minus days, newest first.
func (h *HistoryStore) RecentRecords(ctx context.Context, days int) ([]health.DailyHealthRecord, error) {
	now := h.now()
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, recorded_for, steps, sleep_hours, exercise_minutes, overall_score
		 FROM daily_records
		 WHERE user_id = $1 AND recorded_for >= $2
		 ORDER BY recorded_for DESC`,
		h.userID, health.Cutoff(now, days),
	)
	if err != nil {
		return nil, fmt.Errorf("list daily records: %w", err)
	}
	defer rows.Close()

	var out []health.DailyHealthRecord
	for rows.Next() {
		var r health.DailyHealthRecord
		if err := rows.Scan(&r.ID, &r.Date, &r.Steps, &r.SleepHours, &r.ExerciseMinutes, &r.OverallScore); err != nil {
			return nil, fmt.Errorf("scan daily record: %w", err)
		}
		r.Date = r.Date.In(now.Location())
		out = append(out, r)
	}
	return out, rows.Err()
}

// HasToday reports whether a record exists for the current day.
func (h *HistoryStore) HasToday(ctx context.Context) (bool, error) {
	var exists bool
	err := h.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM daily_records WHERE user_id = $1 AND day = $2)`,
		h.userID, h.now().Format(dayLayout),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check today's record: %w", err)
	}
	return exists, nil
}

// Clear deletes all of the user's history.
func (h *HistoryStore) Clear(ctx context.Context) error {
	if _, err := h.db.ExecContext(ctx, `DELETE FROM daily_records WHERE user_id = $1`, h.userID); err != nil {
		return fmt.Errorf("clear daily records: %w", err)
	}
	return nil
}

// AttributeStore stores partner attributes in partner_attributes.
type AttributeStore struct {
	db     *sql.DB
	userID string
}

func (a *AttributeStore) Get(ctx context.Context, partnerID string) (progression.PartnerAttributes, bool, error) {
	p := progression.PartnerAttributes{PartnerID: partnerID}
	err := a.db.QueryRowContext(ctx,
		`SELECT level, experience, strength, vitality, agility, wisdom, total_days_active, last_active_at, created_at
		 FROM partner_attributes WHERE user_id = $1 AND partner_id = $2`,
		a.userID, partnerID,
	).Scan(&p.Level, &p.Experience, &p.Strength, &p.Vitality, &p.Agility, &p.Wisdom,
		&p.TotalDaysActive, &p.LastActiveDate, &p.CreatedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return progression.PartnerAttributes{}, false, nil
	}
	if err != nil {
		return progression.PartnerAttributes{}, false, fmt.Errorf("get partner %s: %w", partnerID, err)
	}
	return p, true, nil
}

func (a *AttributeStore) Save(ctx context.Context, p progression.PartnerAttributes) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO partner_attributes
		   (user_id, partner_id, level, experience, strength, vitality, agility, wisdom, total_days_active, last_active_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (user_id, partner_id) DO UPDATE
		   SET level = EXCLUDED.level,
		       experience = EXCLUDED.experience,
		       strength = EXCLUDED.strength,
		       vitality = EXCLUDED.vitality,
		       agility = EXCLUDED.agility,
		       wisdom = EXCLUDED.wisdom,
		       total_days_active = EXCLUDED.total_days_active,
		       last_active_at = EXCLUDED.last_active_at`,
		a.userID, p.PartnerID, p.Level, p.Experience, p.Strength, p.Vitality, p.Agility, p.Wisdom,
		p.TotalDaysActive, p.LastActiveDate, p.CreatedDate,
	)
	if err != nil {
		return fmt.Errorf("save partner %s: %w", p.PartnerID, err)
	}
	return nil
}

func (a *AttributeStore) DeleteAll(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM partner_attributes WHERE user_id = $1`, a.userID); err != nil {
		return fmt.Errorf("delete partners: %w", err)
	}
	return nil
}

// UnlockStore stores unlocked character IDs in unlocked_characters.
type UnlockStore struct {
	db     *sql.DB
	userID string
}

func (u *UnlockStore) Unlocked(ctx context.Context) (map[string]bool, error) {
	rows, err := u.db.QueryContext(ctx,
		`SELECT character_id FROM unlocked_characters WHERE user_id = $1`, u.userID)
	if err != nil {
		return nil, fmt.Errorf("list unlocked characters: %w", err)
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan unlocked character: %w", err)
		}
		set[id] = true
	}
	return set, rows.Err()
}

func (u *UnlockStore) Add(ctx context.Context, id string) error {
	_, err := u.db.ExecContext(ctx,
		`INSERT INTO unlocked_characters (user_id, character_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, character_id) DO NOTHING`,
		u.userID, id,
	)
	if err != nil {
		return fmt.Errorf("unlock character %s: %w", id, err)
	}
	return nil
}

func (u *UnlockStore) Reset(ctx context.Context) error {
	if _, err := u.db.ExecContext(ctx, `DELETE FROM unlocked_characters WHERE user_id = $1`, u.userID); err != nil {
		return fmt.Errorf("reset unlocked characters: %w", err)
	}
	return nil
}

// SettingsStore stores settings as JSONB in user_settings.
type SettingsStore struct {
	db     *sql.DB
	userID string
}

func (s *SettingsStore) Load(ctx context.Context) (settings.Settings, bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT settings FROM user_settings WHERE user_id = $1`, s.userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Settings{}, false, nil
	}
	if err != nil {
		return settings.Settings{}, false, fmt.Errorf("load settings: %w", err)
	}

	var out settings.Settings
	if err := json.Unmarshal(raw, &out); err != nil {
		return settings.Settings{}, false, fmt.Errorf("decode settings: %w", err)
	}
	return out, true, nil
}

func (s *SettingsStore) Save(ctx context.Context, v settings.Settings) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_settings (user_id, settings, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET settings = EXCLUDED.settings, updated_at = now()`,
		s.userID, raw,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
