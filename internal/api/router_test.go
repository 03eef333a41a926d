package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name   string
		deps   map[string]pinger
		status int
		want   string
	}{
		{
			name:   "all healthy",
			deps:   map[string]pinger{"database": fakePinger{}, "redis": fakePinger{}},
			status: http.StatusOK,
			want:   "ok",
		},
		{
			name:   "redis down",
			deps:   map[string]pinger{"database": fakePinger{}, "redis": fakePinger{err: errors.New("connection refused")}},
			status: http.StatusServiceUnavailable,
			want:   "error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			checkHealth(tt.deps)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, rec.Code)
			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
				Build  map[string]string `json:"build"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.want, body.Status)
			assert.Len(t, body.Checks, len(tt.deps))
			assert.Equal(t, "dev", body.Build["version"])
		})
	}
}
