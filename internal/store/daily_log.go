package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DailyLogStore struct {
	db *pgxpool.Pool
}

func NewDailyLogStore(db *pgxpool.Pool) *DailyLogStore {
	return &DailyLogStore{db: db}
}

const dailyLogColumns = `id, user_id, log_date, sleep_duration_minutes, sleep_quality,
	exercise_duration_minutes, mood_status, stress_level, notes, created_at`

func (s *DailyLogStore) Create(ctx context.Context, l *domain.DailyLog) error {
	var quality, mood *string
	if l.SleepQuality != nil {
		q := string(*l.SleepQuality)
		quality = &q
	}
	if l.MoodStatus != nil {
		m := string(*l.MoodStatus)
		mood = &m
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO daily_logs (user_id, log_date, sleep_duration_minutes, sleep_quality,
			exercise_duration_minutes, mood_status, stress_level, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		l.UserID, l.LogDate, l.SleepDurationMinutes, quality,
		l.ExerciseDurationMinutes, mood, l.StressLevel, l.Notes,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func scanDailyLog(row pgx.Row) (*domain.DailyLog, error) {
	var (
		l             domain.DailyLog
		quality, mood *string
	)
	err := row.Scan(&l.ID, &l.UserID, &l.LogDate, &l.SleepDurationMinutes, &quality,
		&l.ExerciseDurationMinutes, &mood, &l.StressLevel, &l.Notes, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	if quality != nil {
		q := domain.SleepQuality(*quality)
		l.SleepQuality = &q
	}
	if mood != nil {
		m := domain.MoodStatus(*mood)
		l.MoodStatus = &m
	}
	return &l, nil
}

// ListSince returns logs dated on or after since, oldest first.
func (s *DailyLogStore) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DailyLog, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+dailyLogColumns+` FROM daily_logs
		 WHERE user_id = $1 AND log_date >= $2
		 ORDER BY log_date ASC`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.DailyLog{}
	for rows.Next() {
		l, err := scanDailyLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily log: %w", err)
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

func (s *DailyLogStore) GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DailyLog, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+dailyLogColumns+` FROM daily_logs WHERE user_id = $1 AND log_date = $2`,
		userID, date,
	)
	l, err := scanDailyLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}
