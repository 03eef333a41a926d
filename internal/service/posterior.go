package service

import (
	"math"

	"github.com/Bronc-X/antianxiety/internal/domain"
)

const (
	MinEvidenceWeight     = 0.1
	MaxEvidenceWeight     = 0.9
	DefaultEvidenceWeight = 0.5

	MinLikelihood     = 0.01
	MaxLikelihood     = 0.99
	DefaultLikelihood = 0.5

	MinPrior = 0
	MaxPrior = 100

	// physiological RMSSD range in milliseconds
	rmssdFloor = 20.0
	rmssdCeil  = 100.0

	// LF/HF ratio range mapped onto the arousal signal
	lfhfFloor = 0.5
	lfhfCeil  = 3.0
)

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// CalculatePosterior returns round(prior × likelihood / evidence) clamped
// to [0,100]. Inputs are clamped into their ranges rather than rejected.
func CalculatePosterior(prior, likelihood, evidence float64) int {
	if math.IsNaN(prior) {
		prior = MinPrior
	}
	if math.IsNaN(likelihood) {
		likelihood = DefaultLikelihood
	}
	if math.IsNaN(evidence) {
		evidence = DefaultEvidenceWeight
	}

	prior = clamp(prior, MinPrior, MaxPrior)
	likelihood = clamp(likelihood, 0, 1)
	evidence = clamp(evidence, MinEvidenceWeight, MaxEvidenceWeight)

	posterior := math.Round(prior * likelihood / evidence)
	return int(clamp(posterior, MinPrior, MaxPrior))
}

// CalculateEvidenceWeight maps the mean paper relevance into [0.1, 0.9].
// No papers yields the neutral weight 0.5.
func CalculateEvidenceWeight(papers []domain.Paper) float64 {
	var sum float64
	var n int
	for _, p := range papers {
		if math.IsNaN(p.RelevanceScore) {
			continue
		}
		sum += p.RelevanceScore
		n++
	}
	if n == 0 {
		return DefaultEvidenceWeight
	}

	avg := sum / float64(n)
	if math.IsNaN(avg) {
		return DefaultEvidenceWeight
	}
	weight := MinEvidenceWeight + avg*(MaxEvidenceWeight-MinEvidenceWeight)
	return clamp(weight, MinEvidenceWeight, MaxEvidenceWeight)
}

// CalculateLikelihood turns HRV into an anxiety likelihood in [0.01, 0.99].
// Higher RMSSD reads as calmer; a higher LF/HF ratio reads as more aroused.
func CalculateLikelihood(hrv *domain.HRVData) float64 {
	if hrv == nil {
		return DefaultLikelihood
	}

	var signals []float64
	if hrv.RMSSD != nil && !math.IsNaN(*hrv.RMSSD) {
		normalized := clamp((*hrv.RMSSD-rmssdFloor)/(rmssdCeil-rmssdFloor), 0, 1)
		signals = append(signals, 1-normalized)
	}
	if hrv.LFHFRatio != nil && !math.IsNaN(*hrv.LFHFRatio) {
		signals = append(signals, clamp((*hrv.LFHFRatio-lfhfFloor)/(lfhfCeil-lfhfFloor), 0, 1))
	}
	if len(signals) == 0 {
		return DefaultLikelihood
	}

	var sum float64
	for _, s := range signals {
		sum += s
	}
	return clamp(sum/float64(len(signals)), MinLikelihood, MaxLikelihood)
}

// ExaggerationFactor is prior/posterior rounded to one decimal. It is nil
// when the posterior is zero and the ratio is unbounded.
func ExaggerationFactor(prior, posterior int) *float64 {
	if posterior <= 0 {
		return nil
	}
	f := math.Round(float64(prior)/float64(posterior)*10) / 10
	return &f
}
