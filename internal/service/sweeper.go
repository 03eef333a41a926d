package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bronc-X/antianxiety/internal/domain"
)

const defaultSweepInterval = 24 * time.Hour

type dailyEvaluator interface {
	ActiveUserIDs(ctx context.Context) ([]uuid.UUID, error)
	EvaluateDaily(ctx context.Context, userID uuid.UUID, persist bool) (*domain.DailyEvaluation, error)
}

// CalibrationSweeper re-evaluates daily stability for every active user so
// streaks advance even on days a user does not open the app.
type CalibrationSweeper struct {
	calibration dailyEvaluator
	logger      *zap.Logger

	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewCalibrationSweeper(c dailyEvaluator, logger *zap.Logger) *CalibrationSweeper {
	return &CalibrationSweeper{
		calibration: c,
		logger:      logger,
		interval:    defaultSweepInterval,
		timeout:     5 * time.Minute,
		stopCh:      make(chan struct{}),
	}
}

func (s *CalibrationSweeper) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// Start runs the sweep on a periodic schedule in a background goroutine.
func (s *CalibrationSweeper) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("calibration sweeper started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
				s.run(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("calibration sweeper stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweeper. Safe to call more than once.
func (s *CalibrationSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// run evaluates every active user and returns how many were persisted.
func (s *CalibrationSweeper) run(ctx context.Context) int {
	userIDs, err := s.calibration.ActiveUserIDs(ctx)
	if err != nil {
		s.logger.Error("failed to list users for calibration sweep", zap.Error(err))
		return 0
	}

	done := 0
	for _, id := range userIDs {
		if ctx.Err() != nil {
			s.logger.Warn("calibration sweep interrupted", zap.Int("evaluated", done), zap.Error(ctx.Err()))
			return done
		}
		eval, err := s.calibration.EvaluateDaily(ctx, id, true)
		if err != nil {
			s.logger.Warn("failed to evaluate daily stability",
				zap.String("user_id", id.String()),
				zap.Error(err))
			continue
		}
		done++
		if eval.Result.HasRedFlag {
			s.logger.Info("red flag during calibration sweep",
				zap.String("user_id", id.String()),
				zap.Strings("reasons", eval.Result.RedFlagReasons))
		}
	}

	if done > 0 {
		s.logger.Info("calibration sweep complete", zap.Int("users", done))
	}
	return done
}
