package handlers

import (
	"net/http"

	"github.com/Bronc-X/antianxiety/internal/api/middleware"
	"github.com/Bronc-X/antianxiety/internal/domain"
)

type HRVHandler struct {
	store domain.HRVStore
}

func NewHRVHandler(store domain.HRVStore) *HRVHandler {
	return &HRVHandler{store: store}
}

type createHRVRequest struct {
	hrvRequest
	Source string `json:"source" validate:"max=100"`
}

func (h *HRVHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createHRVRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	data := req.hrvRequest.toDomain()
	if !data.HasSignal() {
		writeError(w, http.StatusBadRequest, "at least one of rmssd, sdnn or lf_hf_ratio is required")
		return
	}

	snap := &domain.HRVSnapshot{UserID: user.ID, Source: req.Source, HRVData: *data}
	if err := h.store.Create(r.Context(), snap); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store hrv snapshot")
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}
