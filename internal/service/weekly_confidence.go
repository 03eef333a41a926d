package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Bronc-X/antianxiety/internal/domain"
)

// WeekID formats the ISO week containing t, e.g. "2024-W47".
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// weekStart returns the Monday of t's ISO week at midnight.
func weekStart(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// DataCompleteness is the share of tracked fields filled across logs.
func DataCompleteness(logs []domain.DailyLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	filled := 0
	for _, l := range logs {
		filled += l.FilledFields()
	}
	return float64(filled) / float64(domain.TrackedFields*len(logs))
}

func coefficientOfVariation(xs []float64) float64 {
	m := mean(xs)
	if m == 0 {
		return math.Inf(1)
	}
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss/float64(len(xs))) / m
}

// Consistency scores how steady sleep duration and stress were.
func Consistency(logs []domain.DailyLog) float64 {
	if len(logs) < 3 {
		return 0.3
	}

	var sleep, stress []float64
	for _, l := range logs {
		if l.SleepDurationMinutes != nil {
			sleep = append(sleep, float64(*l.SleepDurationMinutes))
		}
		if l.StressLevel != nil {
			stress = append(stress, float64(*l.StressLevel))
		}
	}

	var score float64
	metrics := 0
	if len(sleep) >= 3 {
		score += math.Max(0, 1-coefficientOfVariation(sleep)/0.3)
		metrics++
	}
	if len(stress) >= 3 {
		score += math.Max(0, 1-coefficientOfVariation(stress)/0.5)
		metrics++
	}
	if metrics == 0 {
		return 0.5
	}
	return score / float64(metrics)
}

// TrendStability rewards well-fitted sleep quality and exercise trends.
func TrendStability(logs []domain.DailyLog) float64 {
	if len(logs) < 5 {
		return 0.4
	}

	sorted := make([]domain.DailyLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LogDate.Before(sorted[j].LogDate)
	})

	var quality, exercise []float64
	for _, l := range sorted {
		if l.SleepQuality != nil {
			quality = append(quality, l.SleepQuality.Score())
		}
		if l.ExerciseDurationMinutes != nil {
			exercise = append(exercise, float64(*l.ExerciseDurationMinutes))
		}
	}

	var score float64
	metrics := 0
	if len(quality) >= 4 {
		slope, r2 := LinearRegression(quality)
		score += r2 * (1 + math.Min(math.Abs(slope), 0.5))
		metrics++
	}
	if len(exercise) >= 4 {
		_, r2 := LinearRegression(exercise)
		score += r2
		metrics++
	}
	if metrics == 0 {
		return 0.5
	}
	return score / float64(metrics)
}

// SampleSizePrior maps the number of logged days to a prior confidence.
func SampleSizePrior(n int) float64 {
	switch {
	case n >= 21:
		return 0.9
	case n >= 14:
		return 0.8
	case n >= 7:
		return 0.7
	default:
		return 0.5
	}
}

// BayesianConfidence updates the sample-size prior with a data quality
// likelihood and bounds the result to [0.05, 0.95].
func BayesianConfidence(completeness, consistency, trendStability float64, sampleSize int) float64 {
	prior := SampleSizePrior(sampleSize)
	likelihood := completeness*0.4 + consistency*0.3 + trendStability*0.3
	evidence := prior*likelihood + (1-prior)*(1-likelihood)
	if evidence <= 0 {
		return 0.05
	}
	return clamp(prior*likelihood/evidence, 0.05, 0.95)
}

func reliabilityFor(overall float64) domain.ReliabilityLevel {
	switch {
	case overall >= 0.8:
		return domain.ReliabilityVeryHigh
	case overall >= 0.65:
		return domain.ReliabilityHigh
	case overall >= 0.45:
		return domain.ReliabilityMedium
	default:
		return domain.ReliabilityLow
	}
}

func confidenceInsights(m domain.ConfidenceMetrics) []string {
	insights := make([]string, 0, 4)
	switch {
	case m.Overall >= 0.8:
		insights = append(insights, "Data quality is excellent; results are highly reliable")
	case m.Overall >= 0.65:
		insights = append(insights, "Data quality is good; trends are fairly reliable")
	case m.Overall >= 0.45:
		insights = append(insights, "Data quality is moderate; log more often")
	default:
		insights = append(insights, "Not enough data yet; keep logging to sharpen the analysis")
	}
	if m.DataCompleteness < 0.6 {
		insights = append(insights, "Fill in every field for a more accurate analysis")
	}
	if m.Consistency < 0.5 {
		insights = append(insights, "Your data swings a lot, which may reflect a change in routine")
	}
	switch {
	case m.SampleSize >= 21:
		insights = append(insights, "Plenty of history for a deep trend analysis")
	case m.SampleSize >= 7:
		insights = append(insights, "A full week is in; trends are starting to show")
	}
	return insights
}

// WeeklyBayesianConfidence groups logs by ISO week and scores how much
// each week's data can be trusted. Newest week first.
func WeeklyBayesianConfidence(logs []domain.DailyLog) []domain.WeeklyConfidence {
	if len(logs) == 0 {
		return nil
	}

	groups := make(map[string][]domain.DailyLog)
	starts := make(map[string]time.Time)
	for _, l := range logs {
		id := WeekID(l.LogDate)
		groups[id] = append(groups[id], l)
		if _, ok := starts[id]; !ok {
			starts[id] = weekStart(l.LogDate)
		}
	}

	out := make([]domain.WeeklyConfidence, 0, len(groups))
	for id, weekLogs := range groups {
		completeness := DataCompleteness(weekLogs)
		consistency := Consistency(weekLogs)
		stability := TrendStability(weekLogs)
		overall := BayesianConfidence(completeness, consistency, stability, len(weekLogs))

		metrics := domain.ConfidenceMetrics{
			Overall:          overall,
			DataCompleteness: completeness,
			Consistency:      consistency,
			WeeklyTrend:      stability,
			SampleSize:       len(weekLogs),
			ReliabilityLevel: reliabilityFor(overall),
		}
		start := starts[id]
		out = append(out, domain.WeeklyConfidence{
			Week:       id,
			StartDate:  start.Format(domain.DateLayout),
			EndDate:    start.AddDate(0, 0, 6).Format(domain.DateLayout),
			Confidence: metrics,
			Insights:   confidenceInsights(metrics),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Week > out[j].Week })
	return out
}
