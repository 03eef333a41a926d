package service

import "github.com/Bronc-X/antianxiety/internal/domain"

const (
	exerciseGoalMinutes = 30
	sleepGoalMinutes    = 480
)

// CalculateRingPercentages maps one day's log onto the three activity
// rings. A nil log yields empty rings.
func CalculateRingPercentages(log *domain.DailyLog) domain.RingPercentages {
	if log == nil {
		return domain.RingPercentages{}
	}

	var rings domain.RingPercentages
	if log.ExerciseDurationMinutes != nil {
		rings.Exercise = clamp(float64(*log.ExerciseDurationMinutes)/exerciseGoalMinutes*100, 0, 100)
	}
	if log.SleepDurationMinutes != nil {
		rings.Movement = clamp(float64(*log.SleepDurationMinutes)/sleepGoalMinutes*100, 0, 100)
	}
	if log.StressLevel != nil {
		rings.Standing = clamp(float64(10-*log.StressLevel)/9*100, 0, 100)
	}
	return rings
}
