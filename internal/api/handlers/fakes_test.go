package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/store"
)

type memUsers struct {
	mu    sync.Mutex
	users []domain.User
}

func (m *memUsers) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = uuid.New()
	m.users = append(m.users, *u)
	return nil
}

func (m *memUsers) GetByAPIKeyHash(ctx context.Context, hash string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.APIKeyHash == hash {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

type memSessions struct {
	sessions []domain.BeliefSession
}

func (m *memSessions) Create(ctx context.Context, s *domain.BeliefSession) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	m.sessions = append(m.sessions, *s)
	return nil
}

func (m *memSessions) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.BeliefSession, error) {
	for _, s := range m.sessions {
		if s.ID == id && s.UserID == userID {
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memSessions) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.BeliefSession, error) {
	out := []domain.BeliefSession{}
	for i := len(m.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		if m.sessions[i].UserID == userID {
			out = append(out, m.sessions[i])
		}
	}
	return out, nil
}

type memHRV struct {
	snapshots []domain.HRVSnapshot
}

func (m *memHRV) Create(ctx context.Context, s *domain.HRVSnapshot) error {
	s.ID = uuid.New()
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	m.snapshots = append(m.snapshots, *s)
	return nil
}

func (m *memHRV) Latest(ctx context.Context, userID uuid.UUID, since time.Time) (*domain.HRVSnapshot, error) {
	for i := len(m.snapshots) - 1; i >= 0; i-- {
		if s := m.snapshots[i]; s.UserID == userID && !s.Timestamp.Before(since) {
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

type memPapers struct {
	papers map[string]domain.Paper
}

func (m *memPapers) Upsert(ctx context.Context, papers []domain.Paper) (int, error) {
	for _, p := range papers {
		m.papers[p.ID] = p
	}
	return len(papers), nil
}

func (m *memPapers) GetByIDs(ctx context.Context, ids []string) ([]domain.Paper, error) {
	var out []domain.Paper
	for _, id := range ids {
		if p, ok := m.papers[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPapers) ListByContext(ctx context.Context, c domain.BeliefContext, minCitations, limit int) ([]domain.Paper, error) {
	var out []domain.Paper
	for _, p := range m.papers {
		if p.Context == c && p.CitationCount >= minCitations && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

type memLogs struct {
	logs []domain.DailyLog
}

func (m *memLogs) Create(ctx context.Context, l *domain.DailyLog) error {
	for _, existing := range m.logs {
		if existing.UserID == l.UserID && existing.LogDate.Equal(l.LogDate) {
			return store.ErrConflict
		}
	}
	l.ID = uuid.New()
	m.logs = append(m.logs, *l)
	return nil
}

func (m *memLogs) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DailyLog, error) {
	out := []domain.DailyLog{}
	for _, l := range m.logs {
		if l.UserID == userID && !l.LogDate.Before(since) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLogs) GetByDate(ctx context.Context, userID uuid.UUID, d time.Time) (*domain.DailyLog, error) {
	for _, l := range m.logs {
		if l.UserID == userID && l.LogDate.Equal(d) {
			return &l, nil
		}
	}
	return nil, store.ErrNotFound
}

type memResponses struct {
	responses []domain.ScaleResponse
}

func (m *memResponses) CreateBatch(ctx context.Context, responses []domain.ScaleResponse) error {
	m.responses = append(m.responses, responses...)
	return nil
}

func (m *memResponses) ListSince(ctx context.Context, userID uuid.UUID, source domain.ResponseSource, since time.Time) ([]domain.ScaleResponse, error) {
	var out []domain.ScaleResponse
	for _, r := range m.responses {
		if r.UserID == userID && r.Source == source && !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memResponses) ListActiveUserIDs(ctx context.Context, source domain.ResponseSource, since time.Time) ([]uuid.UUID, error) {
	return nil, nil
}

type memCalibration struct {
	states      map[uuid.UUID]domain.StabilityState
	preferences map[uuid.UUID]domain.AssessmentPreference
}

func (m *memCalibration) GetState(ctx context.Context, userID uuid.UUID) (*domain.StabilityState, error) {
	s, ok := m.states[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (m *memCalibration) SaveState(ctx context.Context, s *domain.StabilityState) error {
	m.states[s.UserID] = *s
	return nil
}

func (m *memCalibration) GetPreference(ctx context.Context, userID uuid.UUID) (*domain.AssessmentPreference, error) {
	p, ok := m.preferences[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *memCalibration) UpsertDailyPreference(ctx context.Context, p *domain.AssessmentPreference) error {
	if p.WeeklyFrequency == "" {
		p.WeeklyFrequency = string(domain.RecommendWeekly)
	}
	m.preferences[p.UserID] = *p
	return nil
}
