package service

import (
	"testing"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEvidenceWeight(t *testing.T) {
	tests := []struct {
		name string
		e    domain.Evidence
		want bool
	}{
		{"bio in range", domain.Evidence{Type: domain.EvidenceBio, Weight: 0.3}, true},
		{"bio too high", domain.Evidence{Type: domain.EvidenceBio, Weight: 0.5}, false},
		{"science lower bound", domain.Evidence{Type: domain.EvidenceScience, Weight: 0.3}, true},
		{"action too low", domain.Evidence{Type: domain.EvidenceAction, Weight: 0.01}, false},
		{"unknown type", domain.Evidence{Type: "gut_feeling", Weight: 0.3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEvidenceWeight(tt.e))
		})
	}
}

func TestEvidenceConstructorsStayInBounds(t *testing.T) {
	for _, q := range []float64{-1, 0, 0.5, 1, 2} {
		assert.True(t, ValidateEvidenceWeight(NewBioEvidence("hrv", q, nil)))
		assert.True(t, ValidateEvidenceWeight(NewScienceEvidence("paper", "p1", q)))
	}
	for _, a := range []string{"meditation", "exercise", "hydration", "unknown"} {
		assert.True(t, ValidateEvidenceWeight(NewActionEvidence(a, a, nil)), a)
	}
}

func TestNormalizeWeights(t *testing.T) {
	stack := []domain.Evidence{
		{Type: domain.EvidenceBio, Weight: 0.3},
		{Type: domain.EvidenceScience, Weight: 0.5},
		{Type: domain.EvidenceAction, Weight: 0.2},
	}
	out := NormalizeWeights(stack)
	assert.True(t, IsNormalized(out, 1e-9))
	assert.InDelta(t, 0.5, out[1].Weight, 1e-9)
	assert.Equal(t, 0.3, stack[0].Weight, "input must not be modified")

	zero := NormalizeWeights([]domain.Evidence{{Weight: 0}, {Weight: 0}})
	assert.InDelta(t, 0.5, zero[0].Weight, 1e-9)
	assert.InDelta(t, 0.5, zero[1].Weight, 1e-9)

	assert.Empty(t, NormalizeWeights(nil))
	assert.True(t, IsNormalized(nil, 1e-9))
}

func TestStackPosterior(t *testing.T) {
	assert.Equal(t, 60, StackPosterior(60, nil))
	assert.Equal(t, 100, StackPosterior(150, nil))

	full := 1.0
	stack := []domain.Evidence{{Type: domain.EvidenceScience, Weight: 1, Consensus: &full}}
	// strength 0.8, likelihood 1
	assert.Equal(t, 50, StackPosterior(40, stack))

	low := 0.2
	calming := []domain.Evidence{{Type: domain.EvidenceScience, Weight: 1, Consensus: &low}}
	assert.Less(t, StackPosterior(60, calming), 60)

	for _, prior := range []int{0, 25, 50, 100} {
		p := StackPosterior(prior, stack)
		assert.GreaterOrEqual(t, p, 0)
		assert.LessOrEqual(t, p, 100)
	}
}

func TestEvaluateStack(t *testing.T) {
	stack := []domain.Evidence{
		NewBioEvidence("hrv", 1, nil),
		NewScienceEvidence("paper", "p1", 0.5),
	}
	res := EvaluateStack(80, stack)
	assert.Equal(t, 80, res.Prior)
	assert.True(t, IsNormalized(res.EvidenceStack, 1e-9))
	require.NotNil(t, res.ExaggerationFactor)
	assert.LessOrEqual(t, res.Posterior, 100)
	assert.True(t, res.WeightsInBounds)

	heavy := EvaluateStack(80, []domain.Evidence{{Type: domain.EvidenceAction, Weight: 0.9}})
	assert.False(t, heavy.WeightsInBounds)
	assert.InDelta(t, 1, heavy.EvidenceStack[0].Weight, 1e-9)
}

func TestValidateEvidenceStack(t *testing.T) {
	assert.True(t, ValidateEvidenceStack(nil))
	assert.True(t, ValidateEvidenceStack([]domain.Evidence{
		NewBioEvidence("hrv", 0.5, nil),
		NewActionEvidence("meditation", "meditation", nil),
	}))
	assert.False(t, ValidateEvidenceStack([]domain.Evidence{
		NewBioEvidence("hrv", 0.5, nil),
		{Type: domain.EvidenceScience, Weight: 0.1},
	}))
	assert.False(t, ValidateEvidenceStack([]domain.Evidence{{Type: "vibes", Weight: 0.3}}))
}
