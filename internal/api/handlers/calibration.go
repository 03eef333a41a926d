package handlers

import (
	"errors"
	"net/http"

	"github.com/Bronc-X/antianxiety/internal/api/middleware"
	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/service"
)

type CalibrationHandler struct {
	svc *service.CalibrationService
}

func NewCalibrationHandler(svc *service.CalibrationService) *CalibrationHandler {
	return &CalibrationHandler{svc: svc}
}

type answerRequest struct {
	QuestionID  string `json:"question_id" validate:"required,max=100"`
	AnswerValue int    `json:"answer_value" validate:"gte=0"`
	AnswerText  string `json:"answer_text" validate:"max=2000"`
}

type submitResponsesRequest struct {
	Source    string          `json:"source" validate:"required,oneof=daily weekly"`
	Responses []answerRequest `json:"responses" validate:"required,min=1,max=50,dive"`
}

func (h *CalibrationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req submitResponsesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	answers := make([]domain.ScaleResponse, len(req.Responses))
	for i, a := range req.Responses {
		answers[i] = domain.ScaleResponse{QuestionID: a.QuestionID, AnswerValue: a.AnswerValue, AnswerText: a.AnswerText}
	}

	stored, err := h.svc.Submit(r.Context(), user.ID, domain.ResponseSource(req.Source), answers)
	if err != nil {
		if errors.Is(err, service.ErrUnknownQuestion) || errors.Is(err, service.ErrAnswerOutOfRange) || errors.Is(err, service.ErrNoResponses) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to store responses")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"responses": stored})
}

// PreviewDaily evaluates daily stability without touching the stored streak.
func (h *CalibrationHandler) PreviewDaily(w http.ResponseWriter, r *http.Request) {
	h.daily(w, r, false)
}

// EvaluateDaily evaluates daily stability and persists the outcome.
func (h *CalibrationHandler) EvaluateDaily(w http.ResponseWriter, r *http.Request) {
	h.daily(w, r, true)
}

func (h *CalibrationHandler) daily(w http.ResponseWriter, r *http.Request, persist bool) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	eval, err := h.svc.EvaluateDaily(r.Context(), user.ID, persist)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to evaluate daily stability")
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

func (h *CalibrationHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := h.svc.EvaluateWeekly(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to evaluate weekly stability")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CalibrationHandler) Preference(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	pref, err := h.svc.Preference(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get assessment preference")
		return
	}
	writeJSON(w, http.StatusOK, pref)
}
