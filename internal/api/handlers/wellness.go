package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Bronc-X/antianxiety/internal/api/middleware"
	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/service"
)

type WellnessHandler struct {
	svc *service.WellnessService
}

func NewWellnessHandler(svc *service.WellnessService) *WellnessHandler {
	return &WellnessHandler{svc: svc}
}

type createLogRequest struct {
	LogDate                 string  `json:"log_date" validate:"omitempty,calendar_date"`
	SleepDurationMinutes    *int    `json:"sleep_duration_minutes" validate:"omitempty,gte=0,lte=1440"`
	SleepQuality            *string `json:"sleep_quality" validate:"omitempty,sleep_quality"`
	ExerciseDurationMinutes *int    `json:"exercise_duration_minutes" validate:"omitempty,gte=0,lte=1440"`
	MoodStatus              *string `json:"mood_status" validate:"omitempty,mood_status"`
	StressLevel             *int    `json:"stress_level" validate:"omitempty,min=1,max=10"`
	Notes                   string  `json:"notes" validate:"max=2000"`
}

func (req createLogRequest) toDomain(userID uuid.UUID) *domain.DailyLog {
	l := &domain.DailyLog{
		UserID:                  userID,
		SleepDurationMinutes:    req.SleepDurationMinutes,
		ExerciseDurationMinutes: req.ExerciseDurationMinutes,
		StressLevel:             req.StressLevel,
		Notes:                   req.Notes,
	}
	if req.LogDate != "" {
		// validated by calendar_date
		l.LogDate, _ = time.Parse(domain.DateLayout, req.LogDate)
	}
	if req.SleepQuality != nil {
		q := domain.SleepQuality(*req.SleepQuality)
		l.SleepQuality = &q
	}
	if req.MoodStatus != nil {
		if m, ok := domain.ParseMoodStatus(*req.MoodStatus); ok {
			l.MoodStatus = &m
		}
	}
	return l
}

func (h *WellnessHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createLogRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	l := req.toDomain(user.ID)
	if err := h.svc.CreateLog(r.Context(), l); err != nil {
		if errors.Is(err, service.ErrLogConflict) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create daily log")
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *WellnessHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	days, ok := queryInt(r, "days", service.DefaultLogDays)
	if !ok {
		writeError(w, http.StatusBadRequest, "days must be a positive integer")
		return
	}

	logs, err := h.svc.ListLogs(r.Context(), user.ID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list daily logs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

func (h *WellnessHandler) Trends(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	days, ok := queryInt(r, "days", service.DefaultLogDays)
	if !ok {
		writeError(w, http.StatusBadRequest, "days must be a positive integer")
		return
	}

	analysis, err := h.svc.Trends(r.Context(), user.ID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to analyze trends")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (h *WellnessHandler) Confidence(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	days, ok := queryInt(r, "days", service.DefaultConfidenceDays)
	if !ok {
		writeError(w, http.StatusBadRequest, "days must be a positive integer")
		return
	}

	weeks, err := h.svc.Confidence(r.Context(), user.ID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute confidence")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"weeks": weeks})
}

func (h *WellnessHandler) Rings(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var date time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
			return
		}
		date = d
	}

	rings, err := h.svc.Rings(r.Context(), user.ID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute rings")
		return
	}
	writeJSON(w, http.StatusOK, rings)
}
