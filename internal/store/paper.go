package store

import (
	"context"
	"fmt"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaperStore struct {
	db *pgxpool.Pool
}

func NewPaperStore(db *pgxpool.Pool) *PaperStore {
	return &PaperStore{db: db}
}

// Upsert inserts or refreshes papers keyed by their external id and
// returns how many rows were written.
func (s *PaperStore) Upsert(ctx context.Context, papers []domain.Paper) (int, error) {
	if len(papers) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, p := range papers {
		batch.Queue(
			`INSERT INTO papers (paper_id, title, abstract, url, context, citation_count, relevance_score)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (paper_id) DO UPDATE SET
				title = EXCLUDED.title,
				abstract = EXCLUDED.abstract,
				url = EXCLUDED.url,
				context = EXCLUDED.context,
				citation_count = EXCLUDED.citation_count,
				relevance_score = EXCLUDED.relevance_score,
				updated_at = NOW()`,
			p.ID, p.Title, p.Abstract, p.URL, string(p.Context), p.CitationCount, p.RelevanceScore,
		)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for range papers {
		tag, err := results.Exec()
		if err != nil {
			return written, fmt.Errorf("upsert paper: %w", err)
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}

const paperColumns = `paper_id, title, abstract, url, context, citation_count, relevance_score, updated_at`

func scanPapers(rows pgx.Rows) ([]domain.Paper, error) {
	defer rows.Close()

	papers := []domain.Paper{}
	for rows.Next() {
		var p domain.Paper
		var beliefContext string
		if err := rows.Scan(&p.ID, &p.Title, &p.Abstract, &p.URL, &beliefContext,
			&p.CitationCount, &p.RelevanceScore, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan paper: %w", err)
		}
		p.Context = domain.BeliefContext(beliefContext)
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

func (s *PaperStore) GetByIDs(ctx context.Context, ids []string) ([]domain.Paper, error) {
	if len(ids) == 0 {
		return []domain.Paper{}, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT `+paperColumns+` FROM papers WHERE paper_id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("get papers: %w", err)
	}
	return scanPapers(rows)
}

func (s *PaperStore) ListByContext(ctx context.Context, beliefContext domain.BeliefContext, minCitations int, limit int) ([]domain.Paper, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+paperColumns+` FROM papers
		 WHERE context = $1 AND citation_count >= $2
		 ORDER BY relevance_score DESC, citation_count DESC
		 LIMIT $3`,
		string(beliefContext), minCitations, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list papers by context: %w", err)
	}
	return scanPapers(rows)
}
