package service

import (
	"context"
	"math"
	"time"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"go.uber.org/zap"
)

const (
	MinCitationCount     = 50
	DefaultPaperLimit    = 5
	MaxPaperLimit        = 20
	DefaultPaperCacheTTL = 7 * 24 * time.Hour

	minConsensus = 0.3
	maxConsensus = 0.95
)

// FallbackPapers back a reframing when no cached or stored literature
// qualifies.
var FallbackPapers = []domain.Paper{
	{
		ID:             "fallback_1",
		Title:          "Cognitive Behavioral Therapy for Anxiety Disorders: A Meta-Analysis",
		Abstract:       "CBT shows significant efficacy in reducing anxiety symptoms across multiple disorders.",
		URL:            "https://www.semanticscholar.org/paper/fallback_1",
		CitationCount:  1500,
		RelevanceScore: 0.8,
	},
	{
		ID:             "fallback_2",
		Title:          "The Overestimation of Fear: A Review of Anxiety and Probability Judgment",
		Abstract:       "Anxious individuals consistently overestimate the probability of negative outcomes.",
		URL:            "https://www.semanticscholar.org/paper/fallback_2",
		CitationCount:  800,
		RelevanceScore: 0.75,
	},
}

// ConsensusScore maps a citation count onto [0.3, 0.95] on a log scale:
// roughly 0.5 at 50 citations, 0.8 at 500 and 0.95 at 5000 and beyond.
func ConsensusScore(citations int) float64 {
	if citations <= 0 {
		return minConsensus
	}
	logScore := math.Log10(float64(citations)) / math.Log10(10000)
	return clamp(minConsensus+logScore*0.65, minConsensus, maxConsensus)
}

func HasEnoughCitations(p domain.Paper) bool {
	return p.CitationCount > MinCitationCount
}

// FilterByCitations keeps papers above the citation floor, dropping
// duplicate ids.
func FilterByCitations(papers []domain.Paper) []domain.Paper {
	seen := make(map[string]struct{}, len(papers))
	out := make([]domain.Paper, 0, len(papers))
	for _, p := range papers {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		if HasEnoughCitations(p) {
			out = append(out, p)
		}
	}
	return out
}

func PapersToEvidence(papers []domain.Paper) []domain.Evidence {
	out := make([]domain.Evidence, 0, len(papers))
	for _, p := range papers {
		out = append(out, NewScienceEvidence(p.Title, p.ID, ConsensusScore(p.CitationCount)))
	}
	return out
}

type EvidenceService struct {
	papers domain.PaperStore
	cache  domain.PaperCache
	logger *zap.Logger

	ttl time.Duration
}

func NewEvidenceService(papers domain.PaperStore, cache domain.PaperCache, logger *zap.Logger) *EvidenceService {
	return &EvidenceService{
		papers: papers,
		cache:  cache,
		logger: logger,
		ttl:    DefaultPaperCacheTTL,
	}
}

func (s *EvidenceService) SetCacheTTL(d time.Duration) {
	if d > 0 {
		s.ttl = d
	}
}

// Search returns literature for a belief context: cache first, then the
// paper store, then the fallback set. Store and cache failures degrade to
// the next source instead of failing the request. The cache holds the
// full qualifying list; limit only trims what is returned.
func (s *EvidenceService) Search(ctx context.Context, beliefContext domain.BeliefContext, limit int) *domain.ScholarResult {
	if limit <= 0 {
		limit = DefaultPaperLimit
	}
	if limit > MaxPaperLimit {
		limit = MaxPaperLimit
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, beliefContext)
		if err != nil {
			s.logger.Warn("evidence cache read failed",
				zap.String("belief_context", string(beliefContext)),
				zap.Error(err))
		} else if ok && len(cached) > 0 {
			cached = topPapers(cached, limit)
			return &domain.ScholarResult{
				Papers:    cached,
				Evidence:  PapersToEvidence(cached),
				FromCache: true,
			}
		}
	}

	papers, err := s.papers.ListByContext(ctx, beliefContext, MinCitationCount+1, MaxPaperLimit*2)
	if err != nil {
		s.logger.Error("paper lookup failed",
			zap.String("belief_context", string(beliefContext)),
			zap.Error(err))
		return fallbackResult()
	}

	papers = topPapers(FilterByCitations(papers), MaxPaperLimit)
	if len(papers) == 0 {
		s.logger.Info("no qualifying papers, using fallback",
			zap.String("belief_context", string(beliefContext)))
		return fallbackResult()
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, beliefContext, papers, s.ttl); err != nil {
			s.logger.Warn("evidence cache write failed",
				zap.String("belief_context", string(beliefContext)),
				zap.Error(err))
		}
	}

	papers = topPapers(papers, limit)
	return &domain.ScholarResult{
		Papers:   papers,
		Evidence: PapersToEvidence(papers),
	}
}

func topPapers(papers []domain.Paper, limit int) []domain.Paper {
	if len(papers) > limit {
		return papers[:limit]
	}
	return papers
}

// Ingest stores literature found by the external search workers.
func (s *EvidenceService) Ingest(ctx context.Context, papers []domain.Paper) (int, error) {
	n, err := s.papers.Upsert(ctx, papers)
	if err != nil {
		return 0, err
	}
	s.logger.Info("papers ingested", zap.Int("count", n))

	if s.cache != nil {
		seen := make(map[domain.BeliefContext]bool)
		var contexts []domain.BeliefContext
		for _, p := range papers {
			if !seen[p.Context] {
				seen[p.Context] = true
				contexts = append(contexts, p.Context)
			}
		}
		if err := s.cache.Invalidate(ctx, contexts...); err != nil {
			s.logger.Warn("evidence cache invalidation failed", zap.Error(err))
		}
	}
	return n, nil
}

func fallbackResult() *domain.ScholarResult {
	papers := make([]domain.Paper, len(FallbackPapers))
	copy(papers, FallbackPapers)
	return &domain.ScholarResult{
		Papers:   papers,
		Evidence: PapersToEvidence(papers),
		Fallback: true,
	}
}
