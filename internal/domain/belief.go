package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionKind distinguishes a user-initiated reframing from a passive nudge.
type SessionKind string

const (
	SessionReframe SessionKind = "reframe"
	SessionNudge   SessionKind = "nudge"
)

// BeliefSession records a single belief update. Sessions are never mutated
// once stored; a nudge creates a new session pointing at its parent.
type BeliefSession struct {
	ID                 uuid.UUID     `json:"id"`
	UserID             uuid.UUID     `json:"user_id"`
	Kind               SessionKind   `json:"kind"`
	ParentID           *uuid.UUID    `json:"parent_id,omitempty"`
	BeliefText         string        `json:"belief_text,omitempty"`
	BeliefContext      BeliefContext `json:"belief_context,omitempty"`
	Prior              int           `json:"prior"`
	Likelihood         float64       `json:"likelihood"`
	Evidence           float64       `json:"evidence"`
	Posterior          int           `json:"posterior"`
	ExaggerationFactor *float64      `json:"exaggeration_factor"`
	HRV                *HRVData      `json:"hrv,omitempty"`
	Papers             []Paper       `json:"papers"`
	EvidenceStack      []Evidence    `json:"evidence_stack,omitempty"`
	ActionType         string        `json:"action_type,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
}

// BeliefInput is everything the calculators need for one update.
type BeliefInput struct {
	Prior         float64
	BeliefText    string
	BeliefContext BeliefContext
	HRV           *HRVData
	PaperIDs      []string
}

// CalculationStep is one line of the ritual's worked calculation.
type CalculationStep struct {
	Step        int     `json:"step"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
}

// BeliefOutput is returned to the caller after a reframing.
type BeliefOutput struct {
	SessionID          *uuid.UUID        `json:"session_id,omitempty"`
	Prior              int               `json:"prior"`
	Likelihood         float64           `json:"likelihood"`
	Evidence           float64           `json:"evidence"`
	Posterior          int               `json:"posterior"`
	ExaggerationFactor *float64          `json:"exaggeration_factor"`
	Papers             []Paper           `json:"papers"`
	EvidenceStack      []Evidence        `json:"evidence_stack,omitempty"`
	Steps              []CalculationStep `json:"steps"`
}
