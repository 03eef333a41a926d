package service

import (
	"math"

	"github.com/Bronc-X/antianxiety/internal/domain"
)

const (
	DefaultStackWeight    = 0.1
	DefaultStackConsensus = 0.7

	bioConsensus    = 0.8
	actionConsensus = 0.6
)

// EvidenceWeightBounds are the accepted weights per evidence type.
var EvidenceWeightBounds = map[domain.EvidenceType]domain.WeightBounds{
	domain.EvidenceBio:     {Min: 0.2, Max: 0.4},
	domain.EvidenceScience: {Min: 0.3, Max: 0.6},
	domain.EvidenceAction:  {Min: 0.05, Max: 0.2},
}

var actionWeights = map[string]float64{
	"breathing_exercise": 0.15,
	"meditation":         0.18,
	"exercise":           0.2,
	"sleep_improvement":  0.15,
	"hydration":          0.08,
}

func ValidateEvidenceWeight(e domain.Evidence) bool {
	b, ok := EvidenceWeightBounds[e.Type]
	if !ok {
		return false
	}
	return e.Weight >= b.Min && e.Weight <= b.Max
}

func ValidateEvidenceStack(stack []domain.Evidence) bool {
	for _, e := range stack {
		if !ValidateEvidenceWeight(e) {
			return false
		}
	}
	return true
}

// ClampWeight pulls a weight into its type's bounds. Unknown types pass
// through unchanged.
func ClampWeight(t domain.EvidenceType, weight float64) float64 {
	b, ok := EvidenceWeightBounds[t]
	if !ok {
		return weight
	}
	return clamp(weight, b.Min, b.Max)
}

func boundedWeight(t domain.EvidenceType, score float64) float64 {
	b := EvidenceWeightBounds[t]
	return b.Min + (b.Max-b.Min)*clamp(score, 0, 1)
}

func BioWeight(dataQuality float64) float64 {
	return boundedWeight(domain.EvidenceBio, dataQuality)
}

func ScienceWeight(consensus float64) float64 {
	return boundedWeight(domain.EvidenceScience, consensus)
}

func ActionWeight(actionType string) float64 {
	w, ok := actionWeights[actionType]
	if !ok {
		w = DefaultStackWeight
	}
	return ClampWeight(domain.EvidenceAction, w)
}

func NewBioEvidence(value string, dataQuality float64, raw map[string]any) domain.Evidence {
	c := bioConsensus
	return domain.Evidence{
		Type:      domain.EvidenceBio,
		Value:     value,
		Weight:    BioWeight(dataQuality),
		Consensus: &c,
		RawData:   raw,
	}
}

func NewScienceEvidence(title, sourceID string, consensus float64) domain.Evidence {
	c := consensus
	return domain.Evidence{
		Type:      domain.EvidenceScience,
		Value:     title,
		Weight:    ScienceWeight(consensus),
		SourceID:  sourceID,
		Consensus: &c,
	}
}

func NewActionEvidence(actionType, value string, raw map[string]any) domain.Evidence {
	c := actionConsensus
	return domain.Evidence{
		Type:      domain.EvidenceAction,
		Value:     value,
		Weight:    ActionWeight(actionType),
		Consensus: &c,
		RawData:   raw,
	}
}

// NormalizeWeights rescales weights to sum to 1. A stack whose weights are
// all zero is split evenly.
func NormalizeWeights(stack []domain.Evidence) []domain.Evidence {
	if len(stack) == 0 {
		return []domain.Evidence{}
	}

	var total float64
	for _, e := range stack {
		total += e.Weight
	}

	out := make([]domain.Evidence, len(stack))
	copy(out, stack)
	for i := range out {
		if total == 0 {
			out[i].Weight = 1 / float64(len(out))
		} else {
			out[i].Weight = out[i].Weight / total
		}
	}
	return out
}

func IsNormalized(stack []domain.Evidence, tolerance float64) bool {
	if len(stack) == 0 {
		return true
	}
	var total float64
	for _, e := range stack {
		total += e.Weight
	}
	return math.Abs(total-1) < tolerance
}

// StackPosterior folds an evidence stack into a posterior score. The
// likelihood is the weight-normalised mean consensus; the stack's total
// weight sets the evidence strength.
func StackPosterior(prior int, stack []domain.Evidence) int {
	prior = int(clamp(float64(prior), MinPrior, MaxPrior))
	if len(stack) == 0 {
		return prior
	}

	var total float64
	for _, e := range stack {
		total += stackWeight(e)
	}
	if total == 0 {
		return prior
	}

	var likelihood float64
	for _, e := range stack {
		consensus := DefaultStackConsensus
		if e.Consensus != nil {
			consensus = *e.Consensus
		}
		likelihood += stackWeight(e) / total * consensus
	}

	strength := 0.5 + math.Min(total, 1)*0.3
	posterior := likelihood * (float64(prior) / 100) / strength * 100
	return int(math.Round(clamp(posterior, MinPrior, MaxPrior)))
}

func stackWeight(e domain.Evidence) float64 {
	if e.Weight == 0 {
		return DefaultStackWeight
	}
	return e.Weight
}

// EvaluateStack normalises the stack and computes posterior and
// exaggeration factor. WeightsInBounds reports whether the submitted
// weights respected their type bounds before normalisation.
func EvaluateStack(prior int, stack []domain.Evidence) domain.StackResult {
	normalized := NormalizeWeights(stack)
	posterior := StackPosterior(prior, normalized)
	return domain.StackResult{
		Prior:              prior,
		Posterior:          posterior,
		EvidenceStack:      normalized,
		ExaggerationFactor: ExaggerationFactor(prior, posterior),
		WeightsInBounds:    ValidateEvidenceStack(stack),
	}
}
