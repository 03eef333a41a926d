package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/store"
	"github.com/google/uuid"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// fakeSessionStore implements domain.BeliefSessionStore in memory.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions []domain.BeliefSession
	err      error
}

func (f *fakeSessionStore) Create(ctx context.Context, s *domain.BeliefSession) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	f.sessions = append(f.sessions, *s)
	return nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.BeliefSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID == id && s.UserID == userID {
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeSessionStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.BeliefSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.BeliefSession
	for i := len(f.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		if f.sessions[i].UserID == userID {
			out = append(out, f.sessions[i])
		}
	}
	return out, nil
}

// fakeHRVStore implements domain.HRVStore in memory.
type fakeHRVStore struct {
	snapshots []domain.HRVSnapshot
}

func (f *fakeHRVStore) Create(ctx context.Context, s *domain.HRVSnapshot) error {
	s.ID = uuid.New()
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	f.snapshots = append(f.snapshots, *s)
	return nil
}

func (f *fakeHRVStore) Latest(ctx context.Context, userID uuid.UUID, since time.Time) (*domain.HRVSnapshot, error) {
	var best *domain.HRVSnapshot
	for i := range f.snapshots {
		s := &f.snapshots[i]
		if s.UserID != userID || s.Timestamp.Before(since) {
			continue
		}
		if best == nil || s.Timestamp.After(best.Timestamp) {
			best = s
		}
	}
	if best == nil {
		return nil, store.ErrNotFound
	}
	return best, nil
}

// fakePaperStore implements domain.PaperStore in memory.
type fakePaperStore struct {
	papers    map[string]domain.Paper
	err       error
	listCalls int
}

func newFakePaperStore(papers ...domain.Paper) *fakePaperStore {
	f := &fakePaperStore{papers: make(map[string]domain.Paper)}
	for _, p := range papers {
		f.papers[p.ID] = p
	}
	return f
}

func (f *fakePaperStore) Upsert(ctx context.Context, papers []domain.Paper) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	for _, p := range papers {
		f.papers[p.ID] = p
	}
	return len(papers), nil
}

func (f *fakePaperStore) GetByIDs(ctx context.Context, ids []string) ([]domain.Paper, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Paper
	for _, id := range ids {
		if p, ok := f.papers[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaperStore) ListByContext(ctx context.Context, c domain.BeliefContext, minCitations, limit int) ([]domain.Paper, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Paper
	for _, p := range f.papers {
		if p.Context == c && p.CitationCount >= minCitations {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RelevanceScore > out[j].RelevanceScore })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakePaperCache implements domain.PaperCache in memory.
type fakePaperCache struct {
	entries     map[domain.BeliefContext][]domain.Paper
	invalidated []domain.BeliefContext
	getErr      error
}

func newFakePaperCache() *fakePaperCache {
	return &fakePaperCache{entries: make(map[domain.BeliefContext][]domain.Paper)}
}

func (f *fakePaperCache) Get(ctx context.Context, c domain.BeliefContext) ([]domain.Paper, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	p, ok := f.entries[c]
	return p, ok, nil
}

func (f *fakePaperCache) Set(ctx context.Context, c domain.BeliefContext, papers []domain.Paper, ttl time.Duration) error {
	f.entries[c] = papers
	return nil
}

func (f *fakePaperCache) Invalidate(ctx context.Context, contexts ...domain.BeliefContext) error {
	for _, c := range contexts {
		delete(f.entries, c)
		f.invalidated = append(f.invalidated, c)
	}
	return nil
}

// fakeDailyLogStore implements domain.DailyLogStore in memory.
type fakeDailyLogStore struct {
	logs []domain.DailyLog
}

func (f *fakeDailyLogStore) Create(ctx context.Context, l *domain.DailyLog) error {
	for _, existing := range f.logs {
		if existing.UserID == l.UserID && existing.LogDate.Equal(l.LogDate) {
			return store.ErrConflict
		}
	}
	l.ID = uuid.New()
	f.logs = append(f.logs, *l)
	return nil
}

func (f *fakeDailyLogStore) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.DailyLog, error) {
	var out []domain.DailyLog
	for _, l := range f.logs {
		if l.UserID == userID && !l.LogDate.Before(since) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeDailyLogStore) GetByDate(ctx context.Context, userID uuid.UUID, d time.Time) (*domain.DailyLog, error) {
	for _, l := range f.logs {
		if l.UserID == userID && l.LogDate.Equal(d) {
			return &l, nil
		}
	}
	return nil, store.ErrNotFound
}

// fakeResponseStore implements domain.ScaleResponseStore in memory.
type fakeResponseStore struct {
	responses []domain.ScaleResponse
}

func (f *fakeResponseStore) CreateBatch(ctx context.Context, responses []domain.ScaleResponse) error {
	f.responses = append(f.responses, responses...)
	return nil
}

func (f *fakeResponseStore) ListSince(ctx context.Context, userID uuid.UUID, source domain.ResponseSource, since time.Time) ([]domain.ScaleResponse, error) {
	var out []domain.ScaleResponse
	for _, r := range f.responses {
		if r.UserID == userID && r.Source == source && !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResponseStore) ListActiveUserIDs(ctx context.Context, source domain.ResponseSource, since time.Time) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, r := range f.responses {
		if r.Source == source && !r.CreatedAt.Before(since) && !seen[r.UserID] {
			seen[r.UserID] = true
			out = append(out, r.UserID)
		}
	}
	return out, nil
}

// fakeCalibrationStore implements domain.CalibrationStore in memory.
type fakeCalibrationStore struct {
	states      map[uuid.UUID]domain.StabilityState
	preferences map[uuid.UUID]domain.AssessmentPreference
}

func newFakeCalibrationStore() *fakeCalibrationStore {
	return &fakeCalibrationStore{
		states:      make(map[uuid.UUID]domain.StabilityState),
		preferences: make(map[uuid.UUID]domain.AssessmentPreference),
	}
}

func (f *fakeCalibrationStore) GetState(ctx context.Context, userID uuid.UUID) (*domain.StabilityState, error) {
	s, ok := f.states[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (f *fakeCalibrationStore) SaveState(ctx context.Context, s *domain.StabilityState) error {
	f.states[s.UserID] = *s
	return nil
}

func (f *fakeCalibrationStore) GetPreference(ctx context.Context, userID uuid.UUID) (*domain.AssessmentPreference, error) {
	p, ok := f.preferences[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *fakeCalibrationStore) UpsertDailyPreference(ctx context.Context, p *domain.AssessmentPreference) error {
	existing := f.preferences[p.UserID]
	existing.UserID = p.UserID
	existing.DailyFrequency = p.DailyFrequency
	existing.DailyReason = p.DailyReason
	existing.LastFrequencyChange = p.LastFrequencyChange
	if existing.WeeklyFrequency == "" {
		existing.WeeklyFrequency = string(domain.RecommendWeekly)
	}
	p.WeeklyFrequency = existing.WeeklyFrequency
	f.preferences[p.UserID] = existing
	return nil
}
