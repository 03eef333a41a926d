package service

import (
	"context"
	"testing"
	"time"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockHRVStore struct {
	mock.Mock
}

func (m *mockHRVStore) Create(ctx context.Context, s *domain.HRVSnapshot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockHRVStore) Latest(ctx context.Context, userID uuid.UUID, since time.Time) (*domain.HRVSnapshot, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HRVSnapshot), args.Error(1)
}

func TestNudgeCorrection(t *testing.T) {
	tests := []struct {
		action   string
		duration int
		want     int
	}{
		{"breathing_exercise", 5, -5},
		{"meditation", 10, -8},
		{"meditation", 15, -12},
		{"exercise", 30, -15},
		{"sleep_improvement", 0, -7},
		{"hydration", 60, -5},
		{"journaling", 5, -2},
		{"journaling", 20, -3},
	}

	for _, tt := range tests {
		got := NudgeCorrection(tt.action, tt.duration)
		assert.Equal(t, tt.want, got, "%s/%d", tt.action, tt.duration)
		assert.GreaterOrEqual(t, got, -20)
		assert.LessOrEqual(t, got, -1)
	}
}

func TestCalculateBelief_Overrides(t *testing.T) {
	l, e := 0.4, 0.8
	out := CalculateBelief(BeliefParams{Prior: 75, Likelihood: &l, Evidence: &e})

	assert.Equal(t, 75, out.Prior)
	assert.Equal(t, 38, out.Posterior)
	require.NotNil(t, out.ExaggerationFactor)
	assert.Equal(t, 2.0, *out.ExaggerationFactor)
	assert.NotNil(t, out.Papers)
	assert.Empty(t, out.Papers)
	require.Len(t, out.Steps, 4)
	assert.Equal(t, 38.0, out.Steps[3].Value)
}

func TestCalculateBelief_Derived(t *testing.T) {
	hrv := &domain.HRVData{RMSSD: floatPtr(60)}
	papers := []domain.Paper{{ID: "p1", Title: "One", CitationCount: 500, RelevanceScore: 1}}

	out := CalculateBelief(BeliefParams{Prior: 80, HRV: hrv, Papers: papers})
	assert.InDelta(t, 0.5, out.Likelihood, 1e-9)
	assert.InDelta(t, 0.9, out.Evidence, 1e-9)
	assert.Equal(t, 44, out.Posterior)

	require.Len(t, out.EvidenceStack, 2)
	assert.Equal(t, domain.EvidenceBio, out.EvidenceStack[0].Type)
	assert.Equal(t, domain.EvidenceScience, out.EvidenceStack[1].Type)
	assert.Equal(t, "p1", out.EvidenceStack[1].SourceID)
}

func newTestBeliefService(t *testing.T, hrv domain.HRVStore, papers *fakePaperStore) (*BeliefService, *fakeSessionStore) {
	t.Helper()
	sessions := &fakeSessionStore{}
	evidence := NewEvidenceService(papers, newFakePaperCache(), zaptest.NewLogger(t))
	return NewBeliefService(sessions, hrv, papers, evidence, zaptest.NewLogger(t)), sessions
}

func TestBeliefService_ReframeUsesLatestHRVAndContextPapers(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	hrv := new(mockHRVStore)
	hrv.On("Latest", mock.Anything, userID, mock.AnythingOfType("time.Time")).
		Return(&domain.HRVSnapshot{UserID: userID, HRVData: domain.HRVData{RMSSD: floatPtr(100)}}, nil)

	s, sessions := newTestBeliefService(t, hrv, newFakePaperStore(scholarPapers()...))

	out, err := s.Reframe(ctx, userID, domain.BeliefInput{
		Prior:         70,
		BeliefText:    "my heart is failing",
		BeliefContext: domain.ContextCardiacEvent,
	})
	require.NoError(t, err)
	require.NotNil(t, out.SessionID)

	assert.InDelta(t, MinLikelihood, out.Likelihood, 1e-9)
	assert.Len(t, out.Papers, 2)
	assert.Equal(t, 1, out.Posterior)

	require.Len(t, sessions.sessions, 1)
	stored := sessions.sessions[0]
	assert.Equal(t, domain.SessionReframe, stored.Kind)
	assert.Equal(t, *out.SessionID, stored.ID)
	require.NotNil(t, stored.HRV)
	assert.Equal(t, 100.0, *stored.HRV.RMSSD)

	hrv.AssertExpectations(t)
}

func TestBeliefService_ReframeWithoutHRV(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	hrv := new(mockHRVStore)
	hrv.On("Latest", mock.Anything, userID, mock.Anything).Return(nil, store.ErrNotFound)

	s, _ := newTestBeliefService(t, hrv, newFakePaperStore())
	out, err := s.Reframe(ctx, userID, domain.BeliefInput{Prior: 60, BeliefContext: domain.ContextCustom})
	require.NoError(t, err)

	assert.Equal(t, DefaultLikelihood, out.Likelihood)
	assert.Len(t, out.Papers, len(FallbackPapers))
}

func TestBeliefService_ResolveExplicitInputs(t *testing.T) {
	ctx := context.Background()
	hrv := new(mockHRVStore)
	s, _ := newTestBeliefService(t, hrv, newFakePaperStore(scholarPapers()...))

	explicit := &domain.HRVData{LFHFRatio: floatPtr(2)}
	params, err := s.Resolve(ctx, uuid.New(), domain.BeliefInput{
		Prior:         50,
		HRV:           explicit,
		PaperIDs:      []string{"p2", "missing"},
		BeliefContext: domain.ContextSocialRejection,
	})
	require.NoError(t, err)
	assert.Same(t, explicit, params.HRV)
	require.Len(t, params.Papers, 1)
	assert.Equal(t, "p2", params.Papers[0].ID)

	hrv.AssertNotCalled(t, "Latest", mock.Anything, mock.Anything, mock.Anything)
}

func TestBeliefService_Nudge(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	hrv := new(mockHRVStore)
	hrv.On("Latest", mock.Anything, userID, mock.Anything).Return(nil, store.ErrNotFound)
	s, sessions := newTestBeliefService(t, hrv, newFakePaperStore())

	parentOut, err := s.Reframe(ctx, userID, domain.BeliefInput{Prior: 50, BeliefContext: domain.ContextCustom})
	require.NoError(t, err)

	parent := sessions.sessions[0]
	child, err := s.Nudge(ctx, userID, *parentOut.SessionID, "meditation", 15)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionNudge, child.Kind)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)
	assert.Equal(t, parent.Posterior, child.Prior)
	assert.Equal(t, max(parent.Posterior-12, 0), child.Posterior)
	require.Len(t, child.EvidenceStack, 1)
	assert.Equal(t, domain.EvidenceAction, child.EvidenceStack[0].Type)

	assert.Len(t, sessions.sessions, 2)
	assert.Equal(t, parent, sessions.sessions[0], "parent session must be unchanged")
}

func TestBeliefService_NudgeClampsAtZero(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	s, sessions := newTestBeliefService(t, new(mockHRVStore), newFakePaperStore())

	require.NoError(t, sessions.Create(ctx, &domain.BeliefSession{UserID: userID, Kind: domain.SessionReframe, Prior: 10, Posterior: 3}))
	child, err := s.Nudge(ctx, userID, sessions.sessions[0].ID, "exercise", 45)
	require.NoError(t, err)
	assert.Equal(t, 0, child.Posterior)
	assert.Nil(t, child.ExaggerationFactor)
}

func TestBeliefService_GetScopedToUser(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	s, sessions := newTestBeliefService(t, new(mockHRVStore), newFakePaperStore())
	require.NoError(t, sessions.Create(ctx, &domain.BeliefSession{UserID: owner, Prior: 40, Posterior: 20}))
	id := sessions.sessions[0].ID

	_, err := s.Get(ctx, id, owner)
	require.NoError(t, err)

	_, err = s.Get(ctx, id, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = s.Nudge(ctx, uuid.New(), id, "meditation", 5)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestBeliefService_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	s, sessions := newTestBeliefService(t, new(mockHRVStore), newFakePaperStore())
	for i := range 3 {
		require.NoError(t, sessions.Create(ctx, &domain.BeliefSession{UserID: userID, Prior: 50 + i}))
	}
	require.NoError(t, sessions.Create(ctx, &domain.BeliefSession{UserID: uuid.New(), Prior: 99}))

	list, err := s.List(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 52, list[0].Prior)

	list, err = s.List(ctx, userID, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
