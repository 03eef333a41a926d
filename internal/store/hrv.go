package store

import (
	"context"
	"errors"
	"time"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HRVStore struct {
	db *pgxpool.Pool
}

func NewHRVStore(db *pgxpool.Pool) *HRVStore {
	return &HRVStore{db: db}
}

func (s *HRVStore) Create(ctx context.Context, h *domain.HRVSnapshot) error {
	if h.Timestamp.IsZero() {
		h.Timestamp = time.Now().UTC()
	}
	return s.db.QueryRow(ctx,
		`INSERT INTO hrv_snapshots (user_id, source, rmssd, sdnn, lf_hf_ratio, measured_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		h.UserID, h.Source, h.RMSSD, h.SDNN, h.LFHFRatio, h.Timestamp,
	).Scan(&h.ID, &h.CreatedAt)
}

// Latest returns the most recent snapshot measured at or after since.
func (s *HRVStore) Latest(ctx context.Context, userID uuid.UUID, since time.Time) (*domain.HRVSnapshot, error) {
	h := &domain.HRVSnapshot{}
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, source, rmssd, sdnn, lf_hf_ratio, measured_at, created_at
		 FROM hrv_snapshots
		 WHERE user_id = $1 AND measured_at >= $2
		 ORDER BY measured_at DESC
		 LIMIT 1`,
		userID, since,
	).Scan(&h.ID, &h.UserID, &h.Source, &h.RMSSD, &h.SDNN, &h.LFHFRatio, &h.Timestamp, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return h, nil
}
