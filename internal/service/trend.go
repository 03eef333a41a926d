package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/Bronc-X/antianxiety/internal/domain"
)

const minTrendPoints = 3

// direction thresholds on the per-day OLS slope
const (
	qualitySlopeThreshold  = 0.1
	exerciseSlopeThreshold = 1.0
	stressSlopeThreshold   = 0.2
	moodSlopeThreshold     = 0.1
)

// LinearRegression fits y = a + b·x over x = 0..n-1 and returns the slope
// and R². Fewer than two points, or a flat series, yields zero.
func LinearRegression(values []float64) (slope, rSquared float64) {
	n := float64(len(values))
	if len(values) < 2 {
		return 0, 0
	}

	sumX := n * (n - 1) / 2
	sumXX := n * (n - 1) * (2*n - 1) / 6
	var sumY, sumXY float64
	for i, y := range values {
		sumY += y
		sumXY += float64(i) * y
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0, 0
	}

	intercept := (sumY - slope*sumX) / n
	mean := sumY / n
	var ssTot, ssRes float64
	for i, y := range values {
		ssTot += (y - mean) * (y - mean)
		pred := slope*float64(i) + intercept
		ssRes += (y - pred) * (y - pred)
	}
	if ssTot > 0 {
		rSquared = math.Max(0, 1-ssRes/ssTot)
	}
	return slope, rSquared
}

// PercentageChange compares the mean of the first ceil(n/2) values with
// the mean of the last n-floor(n/2) values.
func PercentageChange(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	first := mean(values[:(n+1)/2])
	second := mean(values[n/2:])
	if first == 0 {
		return 0
	}
	return (second - first) / first * 100
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func confidenceFor(n int) domain.ConfidenceLabel {
	switch {
	case n >= 7:
		return domain.ConfidenceHigh
	case n >= 5:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

func classify(slope, threshold float64) domain.Direction {
	switch {
	case slope > threshold:
		return domain.DirectionImproving
	case slope < -threshold:
		return domain.DirectionDeclining
	default:
		return domain.DirectionStable
	}
}

func describe(d domain.Direction, subject, up, down string, change float64) string {
	pct := math.Round(math.Abs(change))
	switch d {
	case domain.DirectionImproving:
		return fmt.Sprintf("%s %s by %.0f%%", subject, up, pct)
	case domain.DirectionDeclining:
		return fmt.Sprintf("%s %s by %.0f%%", subject, down, pct)
	default:
		return subject + " is holding steady"
	}
}

func analyzeSleep(logs []domain.DailyLog) *domain.HealthTrend {
	var hours, quality []float64
	for _, l := range logs {
		if l.SleepDurationMinutes == nil || *l.SleepDurationMinutes <= 0 || l.SleepQuality == nil || *l.SleepQuality == "" {
			continue
		}
		hours = append(hours, float64(*l.SleepDurationMinutes)/60)
		quality = append(quality, l.SleepQuality.Score())
	}
	if len(hours) < minTrendPoints {
		return nil
	}

	qualitySlope, _ := LinearRegression(quality)
	qualityChange := PercentageChange(quality)
	hoursSlope, _ := LinearRegression(hours)
	hoursChange := PercentageChange(hours)

	if math.Abs(qualityChange) > math.Abs(hoursChange) {
		d := classify(qualitySlope, qualitySlopeThreshold)
		avg := mean(quality)
		insight := "Focus on improving sleep quality"
		switch {
		case avg >= 4:
			insight = "Keep up your good sleep habits"
		case avg >= 3:
			insight = "Try tuning your bedtime environment and schedule"
		}
		return &domain.HealthTrend{
			Type:        domain.TrendSleep,
			Direction:   d,
			Percentage:  math.Abs(qualityChange),
			Slope:       qualitySlope,
			Description: describe(d, "Sleep quality", "improved", "dropped", qualityChange),
			Insight:     insight,
			Confidence:  confidenceFor(len(quality)),
		}
	}

	d := classify(hoursSlope, qualitySlopeThreshold)
	avg := mean(hours)
	insight := "Sleep is running long; check how rested you feel"
	switch {
	case avg >= 7 && avg <= 9:
		insight = "Sleep duration is in the ideal range"
	case avg < 7:
		insight = "Aim for 7-9 hours of sleep"
	}
	return &domain.HealthTrend{
		Type:        domain.TrendSleep,
		Direction:   d,
		Percentage:  math.Abs(hoursChange),
		Slope:       hoursSlope,
		Description: describe(d, "Sleep duration", "increased", "decreased", hoursChange),
		Insight:     insight,
		Confidence:  confidenceFor(len(hours)),
	}
}

func analyzeExercise(logs []domain.DailyLog) *domain.HealthTrend {
	minutes := make([]float64, 0, len(logs))
	for _, l := range logs {
		m := 0
		if l.ExerciseDurationMinutes != nil {
			m = *l.ExerciseDurationMinutes
		}
		minutes = append(minutes, float64(m))
	}
	if len(minutes) < minTrendPoints {
		return nil
	}

	slope, _ := LinearRegression(minutes)
	change := PercentageChange(minutes)
	d := classify(slope, exerciseSlopeThreshold)
	avg := mean(minutes)

	insight := "Build up to at least 30 minutes of movement a day"
	switch {
	case avg >= 30:
		insight = "Exercise is at a healthy level, keep it going"
	case avg >= 15:
		insight = "Consider adding a little more duration or intensity"
	}
	return &domain.HealthTrend{
		Type:        domain.TrendExercise,
		Direction:   d,
		Percentage:  math.Abs(change),
		Slope:       slope,
		Description: describe(d, "Exercise", "increased", "decreased", change),
		Insight:     insight,
		Confidence:  confidenceFor(len(minutes)),
	}
}

func analyzeStress(logs []domain.DailyLog) *domain.HealthTrend {
	var levels []float64
	for _, l := range logs {
		if l.StressLevel != nil && *l.StressLevel > 0 {
			levels = append(levels, float64(*l.StressLevel))
		}
	}
	if len(levels) < minTrendPoints {
		return nil
	}

	slope, _ := LinearRegression(levels)
	change := PercentageChange(levels)
	// falling stress is the improvement
	d := classify(-slope, stressSlopeThreshold)
	avg := mean(levels)

	var insight string
	switch {
	case avg <= 3:
		insight = "Stress is well managed"
	case avg <= 5:
		insight = "Stress is manageable; leave room to unwind"
	case avg <= 7:
		insight = "Stress is elevated; add some decompression time"
	default:
		insight = "Stress is heavy; consider professional support or changing your pace"
	}
	return &domain.HealthTrend{
		Type:        domain.TrendStress,
		Direction:   d,
		Percentage:  math.Abs(change),
		Slope:       slope,
		Description: describe(d, "Stress", "eased", "rose", change),
		Insight:     insight,
		Confidence:  confidenceFor(len(levels)),
	}
}

func analyzeMood(logs []domain.DailyLog) *domain.HealthTrend {
	var scores []float64
	for _, l := range logs {
		if l.MoodStatus == nil {
			continue
		}
		if s, ok := l.MoodStatus.Score(); ok {
			scores = append(scores, s)
		}
	}
	if len(scores) < minTrendPoints {
		return nil
	}

	slope, _ := LinearRegression(scores)
	change := PercentageChange(scores)
	d := classify(slope, moodSlopeThreshold)
	avg := mean(scores)

	insight := "Make room for rest and things that calm you"
	switch {
	case avg >= 4:
		insight = "Mood is good, keep the momentum"
	case avg >= 3:
		insight = "Mood is steady; add a few enjoyable activities"
	}
	return &domain.HealthTrend{
		Type:        domain.TrendMood,
		Direction:   d,
		Percentage:  math.Abs(change),
		Slope:       slope,
		Description: describe(d, "Mood", "improved", "slipped", change),
		Insight:     insight,
		Confidence:  confidenceFor(len(scores)),
	}
}

func directionRank(d domain.Direction) int {
	switch d {
	case domain.DirectionImproving:
		return 0
	case domain.DirectionDeclining:
		return 1
	default:
		return 2
	}
}

// AnalyzeHealthTrends summarises daily logs into a primary and an optional
// secondary trend. Logs are fitted in date order, oldest first.
func AnalyzeHealthTrends(logs []domain.DailyLog) domain.TrendAnalysis {
	if len(logs) < minTrendPoints {
		return domain.TrendAnalysis{
			Primary: domain.HealthTrend{
				Type:        domain.TrendOverall,
				Direction:   domain.DirectionStable,
				Description: "Collecting data",
				Insight:     fmt.Sprintf("Log %d more day(s) to see your trends", minTrendPoints-len(logs)),
				Confidence:  domain.ConfidenceLow,
			},
			DataPoints: len(logs),
		}
	}

	sorted := make([]domain.DailyLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LogDate.Before(sorted[j].LogDate)
	})

	var trends []domain.HealthTrend
	for _, t := range []*domain.HealthTrend{
		analyzeSleep(sorted),
		analyzeExercise(sorted),
		analyzeStress(sorted),
		analyzeMood(sorted),
	} {
		if t != nil {
			trends = append(trends, *t)
		}
	}

	if len(trends) == 0 {
		return domain.TrendAnalysis{
			Primary: domain.HealthTrend{
				Type:        domain.TrendOverall,
				Direction:   domain.DirectionStable,
				Description: "No clear trend yet",
				Insight:     "Keep logging for a more accurate picture",
				Confidence:  domain.ConfidenceLow,
			},
			HasEnoughData: true,
			DataPoints:    len(logs),
		}
	}

	sort.SliceStable(trends, func(i, j int) bool {
		ri, rj := directionRank(trends[i].Direction), directionRank(trends[j].Direction)
		if ri != rj {
			return ri < rj
		}
		return trends[i].Percentage > trends[j].Percentage
	})

	analysis := domain.TrendAnalysis{
		Primary:       trends[0],
		HasEnoughData: true,
		DataPoints:    len(logs),
	}

	rest := trends[1:]
	if len(rest) > 0 {
		best := rest[0]
		for _, t := range rest[1:] {
			if t.Percentage > best.Percentage {
				best = t
			}
		}
		analysis.Secondary = &best
	}
	return analysis
}
