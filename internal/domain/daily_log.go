package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day format used for log and response dates.
const DateLayout = "2006-01-02"

type SleepQuality string

const (
	SleepExcellent SleepQuality = "excellent"
	SleepGood      SleepQuality = "good"
	SleepAverage   SleepQuality = "average"
	SleepPoor      SleepQuality = "poor"
	SleepVeryPoor  SleepQuality = "very_poor"
)

var sleepQualityScores = map[SleepQuality]float64{
	SleepExcellent: 5,
	SleepGood:      4,
	SleepAverage:   3,
	SleepPoor:      2,
	SleepVeryPoor:  1,
}

func (q SleepQuality) Valid() bool {
	_, ok := sleepQualityScores[q]
	return ok
}

// Score maps quality onto 1..5. Unknown values score as average.
func (q SleepQuality) Score() float64 {
	if s, ok := sleepQualityScores[q]; ok {
		return s
	}
	return 3
}

type MoodStatus string

const (
	MoodFocused  MoodStatus = "focused_calm"
	MoodRelaxed  MoodStatus = "relaxed_happy"
	MoodTired    MoodStatus = "slightly_tired"
	MoodAnxious  MoodStatus = "anxious_tense"
	MoodLow      MoodStatus = "low"
	MoodAgitated MoodStatus = "agitated"
)

var moodScores = map[MoodStatus]float64{
	MoodFocused:  5,
	MoodRelaxed:  5,
	MoodTired:    3,
	MoodAnxious:  2,
	MoodLow:      1,
	MoodAgitated: 2,
}

// legacy check-in labels written by the first mobile client
var moodAliases = map[string]MoodStatus{
	"专注平稳": MoodFocused,
	"轻松愉悦": MoodRelaxed,
	"略感疲惫": MoodTired,
	"焦虑紧绷": MoodAnxious,
	"情绪低落": MoodLow,
	"亢奋躁动": MoodAgitated,
}

// ParseMoodStatus accepts both the canonical keys and the legacy labels.
func ParseMoodStatus(s string) (MoodStatus, bool) {
	s = strings.TrimSpace(s)
	if m, ok := moodAliases[s]; ok {
		return m, true
	}
	m := MoodStatus(s)
	_, ok := moodScores[m]
	return m, ok
}

// Score returns the 1..5 mood score and false for unknown moods.
func (m MoodStatus) Score() (float64, bool) {
	if mapped, ok := ParseMoodStatus(string(m)); ok {
		return moodScores[mapped], true
	}
	return 0, false
}

// DailyLog is one wellness check-in per user per day.
type DailyLog struct {
	ID                      uuid.UUID     `json:"id"`
	UserID                  uuid.UUID     `json:"user_id"`
	LogDate                 time.Time     `json:"log_date"`
	SleepDurationMinutes    *int          `json:"sleep_duration_minutes,omitempty" yaml:"sleep_duration_minutes"`
	SleepQuality            *SleepQuality `json:"sleep_quality,omitempty" yaml:"sleep_quality"`
	ExerciseDurationMinutes *int          `json:"exercise_duration_minutes,omitempty" yaml:"exercise_duration_minutes"`
	MoodStatus              *MoodStatus   `json:"mood_status,omitempty" yaml:"mood_status"`
	StressLevel             *int          `json:"stress_level,omitempty" yaml:"stress_level"`
	Notes                   string        `json:"notes,omitempty"`
	CreatedAt               time.Time     `json:"created_at"`
}

// FilledFields counts how many of the five tracked fields are present.
func (l DailyLog) FilledFields() int {
	n := 0
	if l.SleepDurationMinutes != nil {
		n++
	}
	if l.SleepQuality != nil {
		n++
	}
	if l.ExerciseDurationMinutes != nil {
		n++
	}
	if l.MoodStatus != nil {
		n++
	}
	if l.StressLevel != nil {
		n++
	}
	return n
}

// TrackedFields is the number of fields a complete log fills.
const TrackedFields = 5
