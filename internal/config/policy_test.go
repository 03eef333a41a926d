package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bronc-X/antianxiety/internal/domain"
)

func writePolicy(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadStabilityPolicy_EmptyPathReturnsDefaults(t *testing.T) {
	p, err := LoadStabilityPolicy("")
	require.NoError(t, err)
	if diff := cmp.Diff(domain.DefaultStabilityPolicy(), p); diff != "" {
		t.Errorf("policy mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadStabilityPolicy_OverridesOnlyGivenKeys(t *testing.T) {
	path := writePolicy(t, `
debounce_days: 5
gad2_red_flag: 4
safety_keywords: ["hopeless"]
`)
	p, err := LoadStabilityPolicy(path)
	require.NoError(t, err)

	want := domain.DefaultStabilityPolicy()
	want.DebounceDays = 5
	want.GAD2RedFlag = 4
	want.SafetyKeywords = []string{"hopeless"}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("policy mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadStabilityPolicy_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "window_days: [1, 2"},
		{"zero window", "window_days: 0"},
		{"completion above one", "min_completion_rate: 1.5"},
		{"zero debounce", "debounce_days: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadStabilityPolicy(writePolicy(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadStabilityPolicy_MissingFile(t *testing.T) {
	_, err := LoadStabilityPolicy(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDurationDefaults(t *testing.T) {
	t.Setenv("CALIBRATION_INTERVAL", "")
	t.Setenv("EVIDENCE_CACHE_TTL", "not-a-duration")
	assert.Equal(t, 24*60*60, int(CalibrationInterval().Seconds()))
	assert.Equal(t, 7*24*60*60, int(EvidenceCacheTTL().Seconds()))

	t.Setenv("CALIBRATION_INTERVAL", "90m")
	assert.Equal(t, 90*60, int(CalibrationInterval().Seconds()))
}
