package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrLogConflict = errors.New("a log for this date already exists")

const (
	DefaultLogDays        = 30
	DefaultConfidenceDays = 28
	MaxLogDays            = 365
)

// WellnessService owns daily logs and everything derived from them.
type WellnessService struct {
	logs   domain.DailyLogStore
	logger *zap.Logger
	now    func() time.Time
}

func NewWellnessService(ls domain.DailyLogStore, logger *zap.Logger) *WellnessService {
	return &WellnessService{logs: ls, logger: logger, now: time.Now}
}

func (s *WellnessService) today() time.Time {
	t := s.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func clampDays(days, def int) int {
	if days <= 0 {
		return def
	}
	return min(days, MaxLogDays)
}

// CreateLog stores one log per user per day. A zero LogDate means today.
func (s *WellnessService) CreateLog(ctx context.Context, l *domain.DailyLog) error {
	if l.LogDate.IsZero() {
		l.LogDate = s.today()
	} else {
		d := l.LogDate.UTC()
		l.LogDate = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}

	if err := s.logs.Create(ctx, l); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrLogConflict
		}
		return err
	}
	return nil
}

func (s *WellnessService) ListLogs(ctx context.Context, userID uuid.UUID, days int) ([]domain.DailyLog, error) {
	since := s.today().AddDate(0, 0, -(clampDays(days, DefaultLogDays) - 1))
	logs, err := s.logs.ListSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	return logs, nil
}

func (s *WellnessService) Trends(ctx context.Context, userID uuid.UUID, days int) (domain.TrendAnalysis, error) {
	logs, err := s.ListLogs(ctx, userID, days)
	if err != nil {
		return domain.TrendAnalysis{}, err
	}
	return AnalyzeHealthTrends(logs), nil
}

func (s *WellnessService) Confidence(ctx context.Context, userID uuid.UUID, days int) ([]domain.WeeklyConfidence, error) {
	logs, err := s.ListLogs(ctx, userID, clampDays(days, DefaultConfidenceDays))
	if err != nil {
		return nil, err
	}
	weeks := WeeklyBayesianConfidence(logs)
	if weeks == nil {
		weeks = []domain.WeeklyConfidence{}
	}
	return weeks, nil
}

// Rings returns the ring percentages for date, or today when date is zero.
// A day without a log gives empty rings.
func (s *WellnessService) Rings(ctx context.Context, userID uuid.UUID, date time.Time) (domain.RingPercentages, error) {
	if date.IsZero() {
		date = s.today()
	}
	l, err := s.logs.GetByDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return CalculateRingPercentages(nil), nil
		}
		return domain.RingPercentages{}, fmt.Errorf("get daily log: %w", err)
	}
	return CalculateRingPercentages(l), nil
}
