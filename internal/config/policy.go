package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Bronc-X/antianxiety/internal/domain"
)

// LoadStabilityPolicy reads threshold overrides from a YAML file. Keys
// missing from the file keep their default values. An empty path returns
// the defaults.
func LoadStabilityPolicy(path string) (domain.StabilityPolicy, error) {
	policy := domain.DefaultStabilityPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("reading policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := ValidatePolicy(policy); err != nil {
		return policy, err
	}
	return policy, nil
}

func ValidatePolicy(p domain.StabilityPolicy) error {
	var errs []error
	if p.WindowDays <= 0 {
		errs = append(errs, errors.New("window_days must be positive"))
	}
	if p.WeeksWindow <= 0 {
		errs = append(errs, errors.New("weeks_window must be positive"))
	}
	if p.MinCompletionRate < 0 || p.MinCompletionRate > 1 {
		errs = append(errs, errors.New("min_completion_rate must be in [0, 1]"))
	}
	if p.MinWeeklyCompletion < 0 || p.MinWeeklyCompletion > 1 {
		errs = append(errs, errors.New("min_weekly_completion must be in [0, 1]"))
	}
	if p.DebounceDays < 1 {
		errs = append(errs, errors.New("debounce_days must be at least 1"))
	}
	if p.LowSleepConsecutive < 1 {
		errs = append(errs, errors.New("low_sleep_consecutive must be at least 1"))
	}
	if p.MaxSlope < 0 || p.MaxWeeklyVariance < 0 {
		errs = append(errs, errors.New("max_slope and max_weekly_variance must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid stability policy: %w", errors.Join(errs...))
	}
	return nil
}
