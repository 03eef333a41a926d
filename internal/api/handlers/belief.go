package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Bronc-X/antianxiety/internal/api/middleware"
	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/service"
)

type BeliefHandler struct {
	svc *service.BeliefService
}

func NewBeliefHandler(svc *service.BeliefService) *BeliefHandler {
	return &BeliefHandler{svc: svc}
}

type hrvRequest struct {
	RMSSD     *float64  `json:"rmssd" validate:"omitempty,gte=0,lte=500"`
	SDNN      *float64  `json:"sdnn" validate:"omitempty,gte=0,lte=500"`
	LFHFRatio *float64  `json:"lf_hf_ratio" validate:"omitempty,gte=0,lte=50"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *hrvRequest) toDomain() *domain.HRVData {
	if h == nil {
		return nil
	}
	return &domain.HRVData{RMSSD: h.RMSSD, SDNN: h.SDNN, LFHFRatio: h.LFHFRatio, Timestamp: h.Timestamp}
}

type paperRequest struct {
	ID             string  `json:"id" validate:"required,max=200"`
	Title          string  `json:"title" validate:"required,max=1000"`
	Abstract       string  `json:"abstract" validate:"max=20000"`
	URL            string  `json:"url" validate:"omitempty,url"`
	BeliefContext  string  `json:"belief_context" validate:"omitempty,belief_context"`
	CitationCount  int     `json:"citation_count" validate:"gte=0"`
	RelevanceScore float64 `json:"relevance_score" validate:"gte=0,lte=1"`
}

func (p paperRequest) toDomain() domain.Paper {
	return domain.Paper{
		ID:             p.ID,
		Title:          p.Title,
		Abstract:       p.Abstract,
		URL:            p.URL,
		Context:        domain.BeliefContext(p.BeliefContext),
		CitationCount:  p.CitationCount,
		RelevanceScore: p.RelevanceScore,
	}
}

type calculateRequest struct {
	Prior      *float64       `json:"prior" validate:"required,gte=0,lte=100"`
	Likelihood *float64       `json:"likelihood" validate:"omitempty,gte=0,lte=1"`
	Evidence   *float64       `json:"evidence" validate:"omitempty,gte=0,lte=1"`
	HRV        *hrvRequest    `json:"hrv"`
	Papers     []paperRequest `json:"papers" validate:"max=50,dive"`
}

// Calculate runs the posterior calculation without storing anything.
func (h *BeliefHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	papers := make([]domain.Paper, len(req.Papers))
	for i, p := range req.Papers {
		papers[i] = p.toDomain()
	}

	out := service.CalculateBelief(service.BeliefParams{
		Prior:      *req.Prior,
		HRV:        req.HRV.toDomain(),
		Papers:     papers,
		Likelihood: req.Likelihood,
		Evidence:   req.Evidence,
	})
	writeJSON(w, http.StatusOK, out)
}

type reframeRequest struct {
	Prior         *float64    `json:"prior" validate:"required,gte=0,lte=100"`
	BeliefText    string      `json:"belief_text" validate:"required,max=2000"`
	BeliefContext string      `json:"belief_context" validate:"required,belief_context"`
	HRV           *hrvRequest `json:"hrv"`
	PaperIDs      []string    `json:"paper_ids" validate:"max=20,dive,required"`
}

// Create runs the reframing ritual and stores the resulting session.
func (h *BeliefHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req reframeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.svc.Reframe(r.Context(), user.ID, domain.BeliefInput{
		Prior:         *req.Prior,
		BeliefText:    req.BeliefText,
		BeliefContext: domain.BeliefContext(req.BeliefContext),
		HRV:           req.HRV.toDomain(),
		PaperIDs:      req.PaperIDs,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reframe belief")
		return
	}

	writeJSON(w, http.StatusCreated, out)
}

func (h *BeliefHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, ok := queryInt(r, "limit", 20)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	sessions, err := h.svc.List(r.Context(), user.ID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list belief sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (h *BeliefHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	session, err := h.svc.Get(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get belief session")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type nudgeRequest struct {
	ActionType      string `json:"action_type" validate:"required,max=100"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0,lte=1440"`
}

// Nudge applies a completed habit to an earlier session.
func (h *BeliefHandler) Nudge(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	parentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req nudgeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.svc.Nudge(r.Context(), user.ID, parentID, req.ActionType, req.DurationMinutes)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to apply nudge")
		return
	}
	writeJSON(w, http.StatusCreated, session)
}
