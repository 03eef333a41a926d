package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var ErrInvalidEvidenceStack = errors.New("invalid evidence stack")

// EvidenceType classifies an item on the evidence stack.
type EvidenceType string

const (
	EvidenceBio     EvidenceType = "bio"
	EvidenceScience EvidenceType = "science"
	EvidenceAction  EvidenceType = "action"
)

func (t EvidenceType) Valid() bool {
	switch t {
	case EvidenceBio, EvidenceScience, EvidenceAction:
		return true
	}
	return false
}

// WeightBounds is the inclusive weight range for one evidence type.
type WeightBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Evidence is a single physiological, literature or behavioural item.
type Evidence struct {
	Type      EvidenceType   `json:"type"`
	Value     string         `json:"value"`
	Weight    float64        `json:"weight"`
	SourceID  string         `json:"source_id,omitempty"`
	Consensus *float64       `json:"consensus,omitempty"`
	RawData   map[string]any `json:"raw_data,omitempty"`
}

// StackResult is the outcome of evaluating an evidence stack.
type StackResult struct {
	Prior              int        `json:"prior"`
	Posterior          int        `json:"posterior"`
	EvidenceStack      []Evidence `json:"evidence_stack"`
	ExaggerationFactor *float64   `json:"exaggeration_factor"`
	WeightsInBounds    bool       `json:"weights_in_bounds"`
}

// EncodeEvidenceStack marshals a stack for a jsonb column. A nil stack is
// stored as an empty array.
func EncodeEvidenceStack(stack []Evidence) ([]byte, error) {
	if stack == nil {
		stack = []Evidence{}
	}
	return json.Marshal(stack)
}

// DecodeEvidenceStack parses a stack and rejects unknown types and weights
// outside [0,1].
func DecodeEvidenceStack(data []byte) ([]Evidence, error) {
	var stack []Evidence
	if err := json.Unmarshal(data, &stack); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvidenceStack, err)
	}
	if stack == nil {
		return nil, fmt.Errorf("%w: must be an array", ErrInvalidEvidenceStack)
	}
	for i, e := range stack {
		if !e.Type.Valid() {
			return nil, fmt.Errorf("%w: item %d has type %q", ErrInvalidEvidenceStack, i, e.Type)
		}
		if e.Weight < 0 || e.Weight > 1 || math.IsNaN(e.Weight) {
			return nil, fmt.Errorf("%w: item %d has weight %v", ErrInvalidEvidenceStack, i, e.Weight)
		}
	}
	return stack, nil
}
