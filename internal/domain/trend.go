package domain

type TrendType string

const (
	TrendSleep    TrendType = "sleep"
	TrendExercise TrendType = "exercise"
	TrendStress   TrendType = "stress"
	TrendMood     TrendType = "mood"
	TrendOverall  TrendType = "overall"
)

type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionDeclining Direction = "declining"
	DirectionStable    Direction = "stable"
)

type ConfidenceLabel string

const (
	ConfidenceHigh   ConfidenceLabel = "high"
	ConfidenceMedium ConfidenceLabel = "medium"
	ConfidenceLow    ConfidenceLabel = "low"
)

// HealthTrend is the directional summary of one metric.
type HealthTrend struct {
	Type        TrendType       `json:"type"`
	Direction   Direction       `json:"direction"`
	Percentage  float64         `json:"percentage"`
	Slope       float64         `json:"slope"`
	Description string          `json:"description"`
	Insight     string          `json:"insight"`
	Confidence  ConfidenceLabel `json:"confidence"`
}

type TrendAnalysis struct {
	Primary       HealthTrend  `json:"primary"`
	Secondary     *HealthTrend `json:"secondary,omitempty"`
	HasEnoughData bool         `json:"has_enough_data"`
	DataPoints    int          `json:"data_points"`
}

type ReliabilityLevel string

const (
	ReliabilityLow      ReliabilityLevel = "low"
	ReliabilityMedium   ReliabilityLevel = "medium"
	ReliabilityHigh     ReliabilityLevel = "high"
	ReliabilityVeryHigh ReliabilityLevel = "very_high"
)

type ConfidenceMetrics struct {
	Overall          float64          `json:"overall"`
	DataCompleteness float64          `json:"data_completeness"`
	Consistency      float64          `json:"consistency"`
	WeeklyTrend      float64          `json:"weekly_trend"`
	SampleSize       int              `json:"sample_size"`
	ReliabilityLevel ReliabilityLevel `json:"reliability_level"`
}

// WeeklyConfidence is derived per ISO week and never persisted.
type WeeklyConfidence struct {
	Week       string            `json:"week"`
	StartDate  string            `json:"start_date"`
	EndDate    string            `json:"end_date"`
	Confidence ConfidenceMetrics `json:"confidence"`
	Insights   []string          `json:"insights"`
}

// RingPercentages drive the three activity rings, each in [0,100].
type RingPercentages struct {
	Movement float64 `json:"movement"`
	Exercise float64 `json:"exercise"`
	Standing float64 `json:"standing"`
}
