package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Bronc-X/antianxiety/internal/domain"
)

type fakeUsers struct {
	byHash map[string]*domain.User
}

func (f *fakeUsers) Create(context.Context, *domain.User) error { return nil }

func (f *fakeUsers) GetByAPIKeyHash(_ context.Context, hash string) (*domain.User, error) {
	u, ok := f.byHash[hash]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func TestAPIKeyAuth(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Name: "sam"}
	users := &fakeUsers{byHash: map[string]*domain.User{HashAPIKey("ak_good"): user}}

	var seen *domain.User
	h := APIKeyAuth(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic ak_good", http.StatusUnauthorized},
		{"empty key", "Bearer ", http.StatusUnauthorized},
		{"unknown key", "Bearer ak_bad", http.StatusUnauthorized},
		{"valid key", "Bearer ak_good", http.StatusNoContent},
		{"case-insensitive scheme", "bearer ak_good", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/v1/beliefs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				require.NotNil(t, seen)
				assert.Equal(t, user.ID, seen.ID)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestGenerateAPIKey(t *testing.T) {
	a, err := GenerateAPIKey()
	require.NoError(t, err)
	b, err := GenerateAPIKey()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, len("ak_")+64)
	assert.Len(t, HashAPIKey(a), 64)
}

func TestLoggingIncludesUserResolvedDownstream(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	user := &domain.User{ID: uuid.New()}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = WithUser(r.Context(), user)
		w.WriteHeader(http.StatusTeapot)
	})
	h := RequestID(Logging(logger)(inner))

	req := httptest.NewRequest(http.MethodGet, "/v1/logs", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, user.ID.String(), fields["user_id"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	var fromCtx string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	got := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, got)
	assert.Equal(t, got, fromCtx)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.Header.Set("X-Real-IP", "10.0.0.2")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, 10)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(5 * time.Minute)
	rl.Allow("b")
	now = now.Add(6 * time.Minute)

	assert.Equal(t, 1, rl.Cleanup(10*time.Minute))
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "b")
}

func TestMetricsCounts(t *testing.T) {
	var c Counters
	status := http.StatusOK
	h := Metrics(&c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	for _, s := range []int{http.StatusOK, http.StatusNotFound, http.StatusInternalServerError, http.StatusBadRequest} {
		status = s
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	assert.EqualValues(t, 4, c.Requests.Load())
	assert.EqualValues(t, 2, c.ClientErrors.Load())
	assert.EqualValues(t, 1, c.ServerErrors.Load())
	assert.EqualValues(t, 3, c.Errors())
}
