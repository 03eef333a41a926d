package domain

import (
	"time"

	"github.com/google/uuid"
)

// HRVData is a read-only heart-rate-variability snapshot from a wearable.
// Every metric is optional; absent metrics do not contribute to likelihood.
type HRVData struct {
	RMSSD     *float64  `json:"rmssd,omitempty"`
	SDNN      *float64  `json:"sdnn,omitempty"`
	LFHFRatio *float64  `json:"lf_hf_ratio,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HasSignal reports whether at least one metric is present.
func (h *HRVData) HasSignal() bool {
	return h != nil && (h.RMSSD != nil || h.SDNN != nil || h.LFHFRatio != nil)
}

// Quality is the share of the three metrics that are present, used to
// weight physiological evidence.
func (h *HRVData) Quality() float64 {
	if h == nil {
		return 0
	}
	n := 0
	for _, v := range []*float64{h.RMSSD, h.SDNN, h.LFHFRatio} {
		if v != nil {
			n++
		}
	}
	return float64(n) / 3
}

type HRVSnapshot struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Source string    `json:"source,omitempty"`
	HRVData
	CreatedAt time.Time `json:"created_at"`
}
