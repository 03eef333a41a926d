package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BeliefSessionStore struct {
	db *pgxpool.Pool
}

func NewBeliefSessionStore(db *pgxpool.Pool) *BeliefSessionStore {
	return &BeliefSessionStore{db: db}
}

const beliefColumns = `id, user_id, kind, parent_id, belief_text, belief_context,
	prior, likelihood, evidence, posterior, exaggeration_factor,
	hrv, papers, evidence_stack, action_type, created_at`

func (s *BeliefSessionStore) Create(ctx context.Context, b *domain.BeliefSession) error {
	var hrvJSON []byte
	if b.HRV != nil {
		var err error
		hrvJSON, err = json.Marshal(b.HRV)
		if err != nil {
			return fmt.Errorf("marshal hrv: %w", err)
		}
	}

	papers := b.Papers
	if papers == nil {
		papers = []domain.Paper{}
	}
	papersJSON, err := json.Marshal(papers)
	if err != nil {
		return fmt.Errorf("marshal papers: %w", err)
	}

	stackJSON, err := domain.EncodeEvidenceStack(b.EvidenceStack)
	if err != nil {
		return fmt.Errorf("marshal evidence_stack: %w", err)
	}

	if b.Kind == "" {
		b.Kind = domain.SessionReframe
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO belief_sessions (user_id, kind, parent_id, belief_text, belief_context,
			prior, likelihood, evidence, posterior, exaggeration_factor,
			hrv, papers, evidence_stack, action_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id, created_at`,
		b.UserID, b.Kind, b.ParentID, b.BeliefText, string(b.BeliefContext),
		b.Prior, b.Likelihood, b.Evidence, b.Posterior, b.ExaggerationFactor,
		hrvJSON, papersJSON, stackJSON, b.ActionType,
	).Scan(&b.ID, &b.CreatedAt)
}

func scanBeliefSession(row pgx.Row) (*domain.BeliefSession, error) {
	var (
		b                              domain.BeliefSession
		beliefContext                  string
		hrvJSON, papersJSON, stackJSON []byte
	)
	err := row.Scan(
		&b.ID, &b.UserID, &b.Kind, &b.ParentID, &b.BeliefText, &beliefContext,
		&b.Prior, &b.Likelihood, &b.Evidence, &b.Posterior, &b.ExaggerationFactor,
		&hrvJSON, &papersJSON, &stackJSON, &b.ActionType, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.BeliefContext = domain.BeliefContext(beliefContext)

	if len(hrvJSON) > 0 {
		b.HRV = &domain.HRVData{}
		if err := json.Unmarshal(hrvJSON, b.HRV); err != nil {
			return nil, fmt.Errorf("unmarshal hrv: %w", err)
		}
	}
	if len(papersJSON) > 0 {
		if err := json.Unmarshal(papersJSON, &b.Papers); err != nil {
			return nil, fmt.Errorf("unmarshal papers: %w", err)
		}
	}
	if len(stackJSON) > 0 {
		stack, err := domain.DecodeEvidenceStack(stackJSON)
		if err != nil {
			return nil, fmt.Errorf("belief session %s: %w", b.ID, err)
		}
		b.EvidenceStack = stack
	}
	return &b, nil
}

func (s *BeliefSessionStore) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.BeliefSession, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+beliefColumns+` FROM belief_sessions WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	b, err := scanBeliefSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *BeliefSessionStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.BeliefSession, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+beliefColumns+` FROM belief_sessions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list belief sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.BeliefSession{}
	for rows.Next() {
		b, err := scanBeliefSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan belief session: %w", err)
		}
		sessions = append(sessions, *b)
	}
	return sessions, rows.Err()
}
