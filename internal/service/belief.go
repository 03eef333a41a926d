package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultHRVMaxAge      = 24 * time.Hour
	defaultSessionListMax = 50

	maxNudgeCorrection = -20
	minNudgeCorrection = -1
	nudgeDurationBoost = 1.5
	nudgeBoostAfterMin = 10
)

var (
	ErrSessionNotFound = errors.New("belief session not found")
)

var nudgeCorrections = map[string]float64{
	"breathing_exercise": -5,
	"meditation":         -8,
	"exercise":           -10,
	"sleep_improvement":  -7,
	"hydration":          -3,
}

// NudgeCorrection is the posterior shift a completed habit earns. It is
// always an integer in [-20, -1]; sessions longer than ten minutes earn
// half again as much.
func NudgeCorrection(actionType string, durationMinutes int) int {
	c, ok := nudgeCorrections[actionType]
	if !ok {
		c = -2
	}
	// scaled then clamped: a long session earns 1.5x its base, it is not
	// pinned to the -20 floor
	if durationMinutes > nudgeBoostAfterMin {
		c *= nudgeDurationBoost
	}
	return int(clamp(math.Round(c), maxNudgeCorrection, minNudgeCorrection))
}

// BeliefParams are resolved inputs for one belief calculation. Likelihood
// and Evidence override the HRV and literature derived values when set.
type BeliefParams struct {
	Prior      float64
	HRV        *domain.HRVData
	Papers     []domain.Paper
	Likelihood *float64
	Evidence   *float64
}

// CalculateBelief runs the three calculators and records the worked steps.
func CalculateBelief(p BeliefParams) domain.BeliefOutput {
	likelihood := CalculateLikelihood(p.HRV)
	if p.Likelihood != nil {
		likelihood = clamp(*p.Likelihood, 0, 1)
	}
	evidence := CalculateEvidenceWeight(p.Papers)
	if p.Evidence != nil {
		evidence = clamp(*p.Evidence, MinEvidenceWeight, MaxEvidenceWeight)
	}

	prior := int(math.Round(clamp(p.Prior, MinPrior, MaxPrior)))
	posterior := CalculatePosterior(float64(prior), likelihood, evidence)

	papers := p.Papers
	if papers == nil {
		papers = []domain.Paper{}
	}

	stack := PapersToEvidence(papers)
	if p.HRV.HasSignal() {
		stack = append([]domain.Evidence{NewBioEvidence("HRV snapshot", p.HRV.Quality(), nil)}, stack...)
	}

	return domain.BeliefOutput{
		Prior:              prior,
		Likelihood:         likelihood,
		Evidence:           evidence,
		Posterior:          posterior,
		ExaggerationFactor: ExaggerationFactor(prior, posterior),
		Papers:             papers,
		EvidenceStack:      stack,
		Steps: []domain.CalculationStep{
			{Step: 1, Description: "prior belief", Value: float64(prior)},
			{Step: 2, Description: "physiological likelihood", Value: likelihood},
			{Step: 3, Description: "literature evidence weight", Value: evidence},
			{Step: 4, Description: "posterior belief", Value: float64(posterior)},
		},
	}
}

type BeliefService struct {
	sessions domain.BeliefSessionStore
	hrv      domain.HRVStore
	papers   domain.PaperStore
	evidence *EvidenceService
	logger   *zap.Logger

	hrvMaxAge time.Duration
	now       func() time.Time
}

func NewBeliefService(sessions domain.BeliefSessionStore, hrv domain.HRVStore, papers domain.PaperStore, evidence *EvidenceService, logger *zap.Logger) *BeliefService {
	return &BeliefService{
		sessions:  sessions,
		hrv:       hrv,
		papers:    papers,
		evidence:  evidence,
		logger:    logger,
		hrvMaxAge: defaultHRVMaxAge,
		now:       time.Now,
	}
}

// Resolve fills in HRV and literature for a belief input. HRV falls back
// to the user's most recent snapshot; papers come from explicit ids or
// from the belief context's literature.
func (s *BeliefService) Resolve(ctx context.Context, userID uuid.UUID, in domain.BeliefInput) (BeliefParams, error) {
	params := BeliefParams{Prior: in.Prior, HRV: in.HRV}

	g, gctx := errgroup.WithContext(ctx)

	if params.HRV == nil && userID != uuid.Nil {
		g.Go(func() error {
			snap, err := s.hrv.Latest(gctx, userID, s.now().Add(-s.hrvMaxAge))
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return nil
				}
				return fmt.Errorf("latest hrv: %w", err)
			}
			data := snap.HRVData
			params.HRV = &data
			return nil
		})
	}

	switch {
	case len(in.PaperIDs) > 0:
		g.Go(func() error {
			papers, err := s.papers.GetByIDs(gctx, in.PaperIDs)
			if err != nil {
				return fmt.Errorf("papers by id: %w", err)
			}
			params.Papers = papers
			return nil
		})
	case in.BeliefContext != "" && s.evidence != nil:
		g.Go(func() error {
			params.Papers = s.evidence.Search(gctx, in.BeliefContext, DefaultPaperLimit).Papers
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return BeliefParams{}, err
	}
	return params, nil
}

// Reframe computes a belief update and stores it as an immutable session.
func (s *BeliefService) Reframe(ctx context.Context, userID uuid.UUID, in domain.BeliefInput) (*domain.BeliefOutput, error) {
	params, err := s.Resolve(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	out := CalculateBelief(params)

	session := &domain.BeliefSession{
		UserID:             userID,
		Kind:               domain.SessionReframe,
		BeliefText:         in.BeliefText,
		BeliefContext:      in.BeliefContext,
		Prior:              out.Prior,
		Likelihood:         out.Likelihood,
		Evidence:           out.Evidence,
		Posterior:          out.Posterior,
		ExaggerationFactor: out.ExaggerationFactor,
		HRV:                params.HRV,
		Papers:             out.Papers,
		EvidenceStack:      out.EvidenceStack,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store belief session: %w", err)
	}

	s.logger.Info("belief reframed",
		zap.String("session_id", session.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("prior", out.Prior),
		zap.Int("posterior", out.Posterior),
		zap.Float64("likelihood", out.Likelihood),
		zap.Float64("evidence", out.Evidence),
		zap.Int("papers", len(out.Papers)))

	out.SessionID = &session.ID
	return &out, nil
}

// Nudge records a completed habit against an earlier session. The parent
// is left untouched; the shifted belief becomes a new session.
func (s *BeliefService) Nudge(ctx context.Context, userID, parentID uuid.UUID, actionType string, durationMinutes int) (*domain.BeliefSession, error) {
	parent, err := s.Get(ctx, parentID, userID)
	if err != nil {
		return nil, err
	}

	correction := NudgeCorrection(actionType, durationMinutes)
	posterior := int(clamp(float64(parent.Posterior+correction), MinPrior, MaxPrior))

	session := &domain.BeliefSession{
		UserID:             userID,
		Kind:               domain.SessionNudge,
		ParentID:           &parent.ID,
		BeliefText:         parent.BeliefText,
		BeliefContext:      parent.BeliefContext,
		Prior:              parent.Posterior,
		Likelihood:         parent.Likelihood,
		Evidence:           parent.Evidence,
		Posterior:          posterior,
		ExaggerationFactor: ExaggerationFactor(parent.Posterior, posterior),
		Papers:             []domain.Paper{},
		EvidenceStack: []domain.Evidence{
			NewActionEvidence(actionType, actionType, map[string]any{"duration_minutes": durationMinutes}),
		},
		ActionType: actionType,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store nudge session: %w", err)
	}

	s.logger.Debug("belief nudged",
		zap.String("session_id", session.ID.String()),
		zap.String("parent_id", parent.ID.String()),
		zap.String("action_type", actionType),
		zap.Int("correction", correction))

	return session, nil
}

func (s *BeliefService) Get(ctx context.Context, id, userID uuid.UUID) (*domain.BeliefSession, error) {
	session, err := s.sessions.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *BeliefService) List(ctx context.Context, userID uuid.UUID, limit int) ([]domain.BeliefSession, error) {
	if limit <= 0 || limit > defaultSessionListMax {
		limit = defaultSessionListMax
	}
	return s.sessions.ListByUser(ctx, userID, limit)
}
