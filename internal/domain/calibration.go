package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResponseSource tells which calibration cadence produced a scale answer.
type ResponseSource string

const (
	SourceDaily  ResponseSource = "daily"
	SourceWeekly ResponseSource = "weekly"
)

// Question ids recognised when building daily and weekly aggregates.
const (
	QuestionGAD7Q1        = "gad7_q1"
	QuestionGAD7Q2        = "gad7_q2"
	QuestionPHQ9Q1        = "phq9_q1"
	QuestionPHQ9Q2        = "phq9_q2"
	QuestionSleepDuration = "daily_sleep_duration"
	QuestionSleepQuality  = "daily_sleep_quality"
	QuestionStressLevel   = "daily_stress_level"
	QuestionDailyNote     = "daily_note"
	QuestionPSS4Prefix    = "pss4_"
)

// ScaleResponse is one answered questionnaire item.
type ScaleResponse struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	Source      ResponseSource `json:"source"`
	QuestionID  string         `json:"question_id"`
	AnswerValue int            `json:"answer_value"`
	AnswerText  string         `json:"answer_text,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// DailyResponse is the per-day aggregate the stability classifier reads.
type DailyResponse struct {
	Date          string  `json:"date" yaml:"date"`
	GAD2Score     int     `json:"gad2_score" yaml:"gad2_score"`
	PHQ2Score     *int    `json:"phq2_score,omitempty" yaml:"phq2_score"`
	SleepDuration float64 `json:"sleep_duration" yaml:"sleep_duration"`
	SleepQuality  int     `json:"sleep_quality" yaml:"sleep_quality"`
	StressLevel   int     `json:"stress_level" yaml:"stress_level"`
	Notes         string  `json:"notes,omitempty" yaml:"notes"`
	DailyIndex    int     `json:"daily_index" yaml:"daily_index"`
}

type DailyRecommendation string

const (
	RecommendDaily           DailyRecommendation = "daily"
	RecommendEveryOtherDay   DailyRecommendation = "every_other_day"
	RecommendIncreaseToDaily DailyRecommendation = "increase_to_daily"
)

type WeeklyRecommendation string

const (
	RecommendWeekly   WeeklyRecommendation = "weekly"
	RecommendBiweekly WeeklyRecommendation = "biweekly"
)

type StabilityResult struct {
	IsStable              bool                `json:"is_stable"`
	CompletionRate        float64             `json:"completion_rate"`
	AverageScore          float64             `json:"average_score"`
	MaxSingleDay          int                 `json:"max_single_day"`
	Slope                 float64             `json:"slope"`
	HasRedFlag            bool                `json:"has_red_flag"`
	RedFlagReasons        []string            `json:"red_flag_reasons"`
	CanReduceFrequency    bool                `json:"can_reduce_frequency"`
	ConsecutiveStableDays int                 `json:"consecutive_stable_days"`
	Recommendation        DailyRecommendation `json:"recommendation"`
}

type WeeklyStabilityResult struct {
	IsStable           bool                 `json:"is_stable"`
	CompletionRate     float64              `json:"completion_rate"`
	AverageScore       float64              `json:"average_score"`
	ScoreVariance      float64              `json:"score_variance"`
	CanReduceFrequency bool                 `json:"can_reduce_frequency"`
	Recommendation     WeeklyRecommendation `json:"recommendation"`
}

// StabilityState is the persisted debounce streak for one user.
type StabilityState struct {
	UserID                uuid.UUID `json:"user_id"`
	ConsecutiveStableDays int       `json:"consecutive_stable_days"`
	PreviousStableDays    int       `json:"previous_stable_days"`
	EvaluatedOn           string    `json:"evaluated_on"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// AssessmentPreference is the check-in cadence currently applied to a user.
type AssessmentPreference struct {
	UserID              uuid.UUID  `json:"user_id"`
	DailyFrequency      string     `json:"daily_frequency"`
	DailyReason         string     `json:"daily_frequency_reason"`
	WeeklyFrequency     string     `json:"weekly_frequency"`
	LastFrequencyChange *time.Time `json:"last_frequency_change,omitempty"`
}

// DailyEvaluation bundles what a calibration run saw and decided.
type DailyEvaluation struct {
	Responses  []DailyResponse       `json:"responses"`
	Result     StabilityResult       `json:"result"`
	Persisted  bool                  `json:"persisted"`
	Preference *AssessmentPreference `json:"preference,omitempty"`
}

// StabilityPolicy holds every threshold the stability classifier uses.
// Values are product policy rather than derived constants, so they are
// configurable.
type StabilityPolicy struct {
	WindowDays          int      `yaml:"window_days" json:"window_days"`
	MinCompletionRate   float64  `yaml:"min_completion_rate" json:"min_completion_rate"`
	MaxAverageIndex     float64  `yaml:"max_average_index" json:"max_average_index"`
	MaxSingleDayIndex   int      `yaml:"max_single_day_index" json:"max_single_day_index"`
	MaxSlope            float64  `yaml:"max_slope" json:"max_slope"`
	DebounceDays        int      `yaml:"debounce_days" json:"debounce_days"`
	GAD2RedFlag         int      `yaml:"gad2_red_flag" json:"gad2_red_flag"`
	PHQ2RedFlag         int      `yaml:"phq2_red_flag" json:"phq2_red_flag"`
	LowSleepHours       float64  `yaml:"low_sleep_hours" json:"low_sleep_hours"`
	LowSleepConsecutive int      `yaml:"low_sleep_consecutive" json:"low_sleep_consecutive"`
	HighStressLevel     int      `yaml:"high_stress_level" json:"high_stress_level"`
	HighStressDays      int      `yaml:"high_stress_days" json:"high_stress_days"`
	SafetyKeywords      []string `yaml:"safety_keywords" json:"safety_keywords"`
	WeeksWindow         int      `yaml:"weeks_window" json:"weeks_window"`
	MinWeeklyCompletion float64  `yaml:"min_weekly_completion" json:"min_weekly_completion"`
	MaxWeeklyVariance   float64  `yaml:"max_weekly_variance" json:"max_weekly_variance"`
}

// DefaultStabilityPolicy returns the thresholds the product shipped with.
func DefaultStabilityPolicy() StabilityPolicy {
	return StabilityPolicy{
		WindowDays:          7,
		MinCompletionRate:   0.71,
		MaxAverageIndex:     3,
		MaxSingleDayIndex:   5,
		MaxSlope:            0.3,
		DebounceDays:        3,
		GAD2RedFlag:         3,
		PHQ2RedFlag:         3,
		LowSleepHours:       5,
		LowSleepConsecutive: 2,
		HighStressLevel:     2,
		HighStressDays:      3,
		SafetyKeywords: []string{
			"suicide", "kill myself", "end my life", "self-harm", "hurt myself",
			"自杀", "不想活",
		},
		WeeksWindow:         4,
		MinWeeklyCompletion: 0.75,
		MaxWeeklyVariance:   1,
	}
}
