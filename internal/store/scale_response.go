package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScaleResponseStore struct {
	db *pgxpool.Pool
}

func NewScaleResponseStore(db *pgxpool.Pool) *ScaleResponseStore {
	return &ScaleResponseStore{db: db}
}

// CreateBatch writes all responses in one transaction.
func (s *ScaleResponseStore) CreateBatch(ctx context.Context, responses []domain.ScaleResponse) error {
	if len(responses) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		rows := make([][]any, len(responses))
		for i, r := range responses {
			rows[i] = []any{r.ID, r.UserID, string(r.Source), r.QuestionID, r.AnswerValue, r.AnswerText, r.CreatedAt}
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"scale_responses"},
			[]string{"id", "user_id", "source", "question_id", "answer_value", "answer_text", "created_at"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy scale responses: %w", err)
		}
		return nil
	})
}

func (s *ScaleResponseStore) ListSince(ctx context.Context, userID uuid.UUID, source domain.ResponseSource, since time.Time) ([]domain.ScaleResponse, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, source, question_id, answer_value, answer_text, created_at
		 FROM scale_responses
		 WHERE user_id = $1 AND source = $2 AND created_at >= $3
		 ORDER BY created_at ASC`,
		userID, string(source), since,
	)
	if err != nil {
		return nil, fmt.Errorf("list scale responses: %w", err)
	}
	defer rows.Close()

	out := []domain.ScaleResponse{}
	for rows.Next() {
		var r domain.ScaleResponse
		var src string
		if err := rows.Scan(&r.ID, &r.UserID, &src, &r.QuestionID, &r.AnswerValue, &r.AnswerText, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan scale response: %w", err)
		}
		r.Source = domain.ResponseSource(src)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ScaleResponseStore) ListActiveUserIDs(ctx context.Context, source domain.ResponseSource, since time.Time) ([]uuid.UUID, error) {
	rows, err := s.db.Query(ctx,
		`SELECT DISTINCT user_id FROM scale_responses
		 WHERE source = $1 AND created_at >= $2`,
		string(source), since,
	)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}
