package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserStore interface {
	Create(ctx context.Context, u *User) error
	GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*User, error)
}

type BeliefSessionStore interface {
	Create(ctx context.Context, s *BeliefSession) error
	GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*BeliefSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]BeliefSession, error)
}

type HRVStore interface {
	Create(ctx context.Context, s *HRVSnapshot) error
	Latest(ctx context.Context, userID uuid.UUID, since time.Time) (*HRVSnapshot, error)
}

type PaperStore interface {
	Upsert(ctx context.Context, papers []Paper) (int, error)
	GetByIDs(ctx context.Context, ids []string) ([]Paper, error)
	ListByContext(ctx context.Context, beliefContext BeliefContext, minCitations int, limit int) ([]Paper, error)
}

// PaperCache keeps literature lookups per belief context for a bounded time.
type PaperCache interface {
	Get(ctx context.Context, beliefContext BeliefContext) ([]Paper, bool, error)
	Set(ctx context.Context, beliefContext BeliefContext, papers []Paper, ttl time.Duration) error
	Invalidate(ctx context.Context, contexts ...BeliefContext) error
}

type DailyLogStore interface {
	Create(ctx context.Context, l *DailyLog) error
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]DailyLog, error)
	GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*DailyLog, error)
}

type ScaleResponseStore interface {
	CreateBatch(ctx context.Context, responses []ScaleResponse) error
	ListSince(ctx context.Context, userID uuid.UUID, source ResponseSource, since time.Time) ([]ScaleResponse, error)
	ListActiveUserIDs(ctx context.Context, source ResponseSource, since time.Time) ([]uuid.UUID, error)
}

type CalibrationStore interface {
	GetState(ctx context.Context, userID uuid.UUID) (*StabilityState, error)
	SaveState(ctx context.Context, s *StabilityState) error
	GetPreference(ctx context.Context, userID uuid.UUID) (*AssessmentPreference, error)
	UpsertDailyPreference(ctx context.Context, p *AssessmentPreference) error
}
