package store

import (
	"context"
	"errors"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CalibrationStore struct {
	db *pgxpool.Pool
}

func NewCalibrationStore(db *pgxpool.Pool) *CalibrationStore {
	return &CalibrationStore{db: db}
}

func (s *CalibrationStore) GetState(ctx context.Context, userID uuid.UUID) (*domain.StabilityState, error) {
	st := &domain.StabilityState{}
	err := s.db.QueryRow(ctx,
		`SELECT user_id, consecutive_stable_days, previous_stable_days, evaluated_on::text, updated_at
		 FROM stability_states WHERE user_id = $1`,
		userID,
	).Scan(&st.UserID, &st.ConsecutiveStableDays, &st.PreviousStableDays, &st.EvaluatedOn, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

func (s *CalibrationStore) SaveState(ctx context.Context, st *domain.StabilityState) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO stability_states (user_id, consecutive_stable_days, previous_stable_days, evaluated_on)
		 VALUES ($1, $2, $3, $4::date)
		 ON CONFLICT (user_id) DO UPDATE SET
			consecutive_stable_days = EXCLUDED.consecutive_stable_days,
			previous_stable_days = EXCLUDED.previous_stable_days,
			evaluated_on = EXCLUDED.evaluated_on,
			updated_at = NOW()
		 RETURNING updated_at`,
		st.UserID, st.ConsecutiveStableDays, st.PreviousStableDays, st.EvaluatedOn,
	).Scan(&st.UpdatedAt)
}

func (s *CalibrationStore) GetPreference(ctx context.Context, userID uuid.UUID) (*domain.AssessmentPreference, error) {
	p := &domain.AssessmentPreference{}
	err := s.db.QueryRow(ctx,
		`SELECT user_id, daily_frequency, daily_frequency_reason, weekly_frequency, last_frequency_change
		 FROM assessment_preferences WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.DailyFrequency, &p.DailyReason, &p.WeeklyFrequency, &p.LastFrequencyChange)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// UpsertDailyPreference sets the daily cadence and leaves the weekly one
// untouched.
func (s *CalibrationStore) UpsertDailyPreference(ctx context.Context, p *domain.AssessmentPreference) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO assessment_preferences (user_id, daily_frequency, daily_frequency_reason, last_frequency_change)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET
			daily_frequency = EXCLUDED.daily_frequency,
			daily_frequency_reason = EXCLUDED.daily_frequency_reason,
			last_frequency_change = EXCLUDED.last_frequency_change
		 RETURNING weekly_frequency`,
		p.UserID, p.DailyFrequency, p.DailyReason, p.LastFrequencyChange,
	).Scan(&p.WeeklyFrequency)
}
