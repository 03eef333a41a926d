package domain

import "time"

// BeliefContext selects which body of literature backs a reframing.
type BeliefContext string

const (
	ContextMetabolicCrash  BeliefContext = "metabolic_crash"
	ContextCardiacEvent    BeliefContext = "cardiac_event"
	ContextSocialRejection BeliefContext = "social_rejection"
	ContextCustom          BeliefContext = "custom"
)

func (c BeliefContext) Valid() bool {
	switch c {
	case ContextMetabolicCrash, ContextCardiacEvent, ContextSocialRejection, ContextCustom:
		return true
	}
	return false
}

// Paper is a literature record used to compute evidence weight.
type Paper struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Abstract       string        `json:"abstract,omitempty"`
	URL            string        `json:"url"`
	Context        BeliefContext `json:"belief_context,omitempty"`
	CitationCount  int           `json:"citation_count"`
	RelevanceScore float64       `json:"relevance_score"`
	UpdatedAt      time.Time     `json:"updated_at,omitzero"`
}

// ScholarResult is the literature found for a belief context.
type ScholarResult struct {
	Papers    []Paper    `json:"papers"`
	Evidence  []Evidence `json:"evidence"`
	FromCache bool       `json:"from_cache"`
	Fallback  bool       `json:"fallback"`
}
