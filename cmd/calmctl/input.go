package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Bronc-X/antianxiety/internal/domain"
)

// readList decodes a YAML or JSON list from path into out.
func readList(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

type logRecord struct {
	LogDate                 string `yaml:"log_date"`
	SleepDurationMinutes    *int   `yaml:"sleep_duration_minutes"`
	SleepQuality            string `yaml:"sleep_quality"`
	ExerciseDurationMinutes *int   `yaml:"exercise_duration_minutes"`
	MoodStatus              string `yaml:"mood_status"`
	StressLevel             *int   `yaml:"stress_level"`
}

func loadLogs(path string) ([]domain.DailyLog, error) {
	var records []logRecord
	if err := readList(path, &records); err != nil {
		return nil, err
	}

	logs := make([]domain.DailyLog, 0, len(records))
	for i, rec := range records {
		date, err := time.Parse(domain.DateLayout, rec.LogDate)
		if err != nil {
			return nil, fmt.Errorf("entry %d: log_date must be YYYY-MM-DD", i)
		}
		l := domain.DailyLog{
			LogDate:                 date,
			SleepDurationMinutes:    rec.SleepDurationMinutes,
			ExerciseDurationMinutes: rec.ExerciseDurationMinutes,
			StressLevel:             rec.StressLevel,
		}
		if rec.SleepQuality != "" {
			q := domain.SleepQuality(rec.SleepQuality)
			if !q.Valid() {
				return nil, fmt.Errorf("entry %d: unknown sleep_quality %q", i, rec.SleepQuality)
			}
			l.SleepQuality = &q
		}
		if rec.MoodStatus != "" {
			m, ok := domain.ParseMoodStatus(rec.MoodStatus)
			if !ok {
				return nil, fmt.Errorf("entry %d: unknown mood_status %q", i, rec.MoodStatus)
			}
			l.MoodStatus = &m
		}
		logs = append(logs, l)
	}
	return logs, nil
}
