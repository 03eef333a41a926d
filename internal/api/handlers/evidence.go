package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/service"
)

type EvidenceHandler struct {
	svc *service.EvidenceService
}

func NewEvidenceHandler(svc *service.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{svc: svc}
}

// Search returns literature and science evidence for a belief context.
func (h *EvidenceHandler) Search(w http.ResponseWriter, r *http.Request) {
	beliefContext := domain.BeliefContext(chi.URLParam(r, "context"))
	if !beliefContext.Valid() {
		writeError(w, http.StatusBadRequest, "unknown belief context")
		return
	}

	limit, ok := queryInt(r, "limit", service.DefaultPaperLimit)
	if !ok || limit > service.MaxPaperLimit {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and 20")
		return
	}

	writeJSON(w, http.StatusOK, h.svc.Search(r.Context(), beliefContext, limit))
}

type stackRequest struct {
	Prior         *int            `json:"prior" validate:"required,gte=0,lte=100"`
	EvidenceStack json.RawMessage `json:"evidence_stack" validate:"required"`
}

// Stack normalises an evidence stack and computes its posterior.
func (h *EvidenceHandler) Stack(w http.ResponseWriter, r *http.Request) {
	var req stackRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	stack, err := domain.DecodeEvidenceStack(req.EvidenceStack)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEvidenceStack) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read evidence stack")
		return
	}

	writeJSON(w, http.StatusOK, service.EvaluateStack(*req.Prior, stack))
}

type ingestPapersRequest struct {
	Papers []paperRequest `json:"papers" validate:"required,min=1,max=500,dive"`
}

// Ingest upserts literature produced by the offline search jobs.
func (h *EvidenceHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestPapersRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	papers := make([]domain.Paper, len(req.Papers))
	for i, p := range req.Papers {
		if p.BeliefContext == "" {
			writeError(w, http.StatusBadRequest, "belief_context is required for every paper")
			return
		}
		papers[i] = p.toDomain()
	}

	n, err := h.svc.Ingest(r.Context(), papers)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store papers")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"upserted": n})
}
