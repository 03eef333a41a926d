package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Bronc-X/antianxiety/internal/domain"
)

// SleepDurationScore maps hours slept onto the 0..2 daily index component.
func SleepDurationScore(hours float64) int {
	switch {
	case hours < 6:
		return 2
	case hours < 7:
		return 1
	case hours <= 9:
		return 0
	default:
		return 1
	}
}

// DailyIndex sums the daily check-in components. GAD-2 is 0..6, stress and
// sleep quality are 0..2, so the index ranges over 0..12.
func DailyIndex(gad2, stress, sleepQuality int, sleepHours float64) int {
	return gad2 + stress + sleepQuality + SleepDurationScore(sleepHours)
}

func byDate(responses []domain.DailyResponse) []domain.DailyResponse {
	sorted := make([]domain.DailyResponse, len(responses))
	copy(sorted, responses)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	return sorted
}

func containsSafetyKeyword(text string, keywords []string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return k, true
		}
	}
	return "", false
}

// CheckRedFlags returns the reasons, if any, that the window needs closer
// follow-up. An empty result means no red flag.
func CheckRedFlags(responses []domain.DailyResponse, policy domain.StabilityPolicy) []string {
	var reasons []string
	sorted := byDate(responses)

	highGAD2, highPHQ2, highStress := 0, 0, 0
	for _, r := range sorted {
		if r.GAD2Score >= policy.GAD2RedFlag {
			highGAD2++
		}
		if r.PHQ2Score != nil && *r.PHQ2Score >= policy.PHQ2RedFlag {
			highPHQ2++
		}
		if r.StressLevel == policy.HighStressLevel {
			highStress++
		}
	}
	if highGAD2 > 0 {
		reasons = append(reasons, fmt.Sprintf("GAD-2 >= %d on %d day(s)", policy.GAD2RedFlag, highGAD2))
	}
	if highPHQ2 > 0 {
		reasons = append(reasons, fmt.Sprintf("PHQ-2 >= %d on %d day(s)", policy.PHQ2RedFlag, highPHQ2))
	}

	run := 0
	for _, r := range sorted {
		if r.SleepDuration >= policy.LowSleepHours {
			run = 0
			continue
		}
		run++
		if run >= policy.LowSleepConsecutive {
			reasons = append(reasons, fmt.Sprintf("Sleep < %gh for %d consecutive days", policy.LowSleepHours, run))
			break
		}
	}

	if highStress >= policy.HighStressDays {
		reasons = append(reasons, fmt.Sprintf("High stress on %d days", highStress))
	}

	for _, r := range sorted {
		if _, ok := containsSafetyKeyword(r.Notes, policy.SafetyKeywords); ok {
			reasons = append(reasons, "Safety keyword on "+r.Date)
		}
	}
	return reasons
}

// EvaluateDailyStability decides whether the daily check-in can be relaxed.
// previousStreak is the number of consecutive stable evaluations so far.
func EvaluateDailyStability(responses []domain.DailyResponse, previousStreak int, policy domain.StabilityPolicy) domain.StabilityResult {
	sorted := byDate(responses)

	window := policy.WindowDays
	if window <= 0 {
		window = 7
	}
	completion := math.Min(float64(len(sorted))/float64(window), 1)

	scores := make([]float64, len(sorted))
	maxDay := 0
	for i, r := range sorted {
		scores[i] = float64(r.DailyIndex)
		if i == 0 || r.DailyIndex > maxDay {
			maxDay = r.DailyIndex
		}
	}
	avg := mean(scores)
	slope, _ := LinearRegression(scores)

	reasons := CheckRedFlags(sorted, policy)
	hasRedFlag := len(reasons) > 0

	stable := completion >= policy.MinCompletionRate &&
		avg <= policy.MaxAverageIndex &&
		maxDay <= policy.MaxSingleDayIndex &&
		math.Abs(slope) <= policy.MaxSlope &&
		!hasRedFlag

	streak := 0
	if stable {
		streak = max(previousStreak, 0) + 1
	}
	canReduce := streak >= policy.DebounceDays

	rec := domain.RecommendDaily
	switch {
	case hasRedFlag:
		rec = domain.RecommendIncreaseToDaily
	case canReduce:
		rec = domain.RecommendEveryOtherDay
	}

	if reasons == nil {
		reasons = []string{}
	}
	return domain.StabilityResult{
		IsStable:              stable,
		CompletionRate:        completion,
		AverageScore:          avg,
		MaxSingleDay:          maxDay,
		Slope:                 slope,
		HasRedFlag:            hasRedFlag,
		RedFlagReasons:        reasons,
		CanReduceFrequency:    canReduce,
		ConsecutiveStableDays: streak,
		Recommendation:        rec,
	}
}

// EvaluateWeeklyStability decides whether the weekly PSS-4 check-in can
// move to every other week.
func EvaluateWeeklyStability(scores []float64, completedWeeks int, policy domain.StabilityPolicy) domain.WeeklyStabilityResult {
	window := policy.WeeksWindow
	if window <= 0 {
		window = 4
	}
	completion := math.Min(float64(completedWeeks)/float64(window), 1)
	avg := mean(scores)

	var variance float64
	if len(scores) > 1 {
		for _, s := range scores {
			variance += (s - avg) * (s - avg)
		}
		variance /= float64(len(scores))
	}

	stable := completion >= policy.MinWeeklyCompletion && variance <= policy.MaxWeeklyVariance
	rec := domain.RecommendWeekly
	if stable {
		rec = domain.RecommendBiweekly
	}
	return domain.WeeklyStabilityResult{
		IsStable:           stable,
		CompletionRate:     completion,
		AverageScore:       avg,
		ScoreVariance:      variance,
		CanReduceFrequency: stable,
		Recommendation:     rec,
	}
}
