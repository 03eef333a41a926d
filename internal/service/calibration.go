package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Bronc-X/antianxiety/internal/domain"
	"github.com/Bronc-X/antianxiety/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnknownQuestion  = errors.New("unknown question id")
	ErrAnswerOutOfRange = errors.New("answer value out of range")
	ErrNoResponses      = errors.New("no responses")
)

// sleepHoursByAnswer maps the daily sleep duration option to hours slept.
var sleepHoursByAnswer = map[int]float64{0: 4, 1: 5.5, 2: 6.5, 3: 7.5, 4: 8.5, 5: 10}

const defaultSleepHours = 7

// answerRange returns the accepted answer values for a question id.
func answerRange(questionID string) (lo, hi int, ok bool) {
	switch questionID {
	case domain.QuestionGAD7Q1, domain.QuestionGAD7Q2, domain.QuestionPHQ9Q1, domain.QuestionPHQ9Q2:
		return 0, 3, true
	case domain.QuestionSleepDuration:
		return 0, 5, true
	case domain.QuestionSleepQuality, domain.QuestionStressLevel:
		return 0, 2, true
	case domain.QuestionDailyNote:
		return 0, 0, true
	}
	if strings.HasPrefix(questionID, domain.QuestionPSS4Prefix) {
		return 0, 4, true
	}
	return 0, 0, false
}

// ValidateResponse checks a single answer against its question.
func ValidateResponse(r domain.ScaleResponse) error {
	lo, hi, ok := answerRange(r.QuestionID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, r.QuestionID)
	}
	if r.AnswerValue < lo || r.AnswerValue > hi {
		return fmt.Errorf("%w: %s must be in [%d, %d]", ErrAnswerOutOfRange, r.QuestionID, lo, hi)
	}
	return nil
}

// BuildDailyResponses groups daily scale answers by UTC calendar day and
// computes each day's index. Days come back in date order.
func BuildDailyResponses(responses []domain.ScaleResponse) []domain.DailyResponse {
	days := make(map[string]*domain.DailyResponse)
	phq2 := make(map[string]int)
	notes := make(map[string][]string)

	for _, r := range responses {
		date := r.CreatedAt.UTC().Format(domain.DateLayout)
		day, ok := days[date]
		if !ok {
			day = &domain.DailyResponse{Date: date, SleepDuration: defaultSleepHours}
			days[date] = day
		}

		switch r.QuestionID {
		case domain.QuestionGAD7Q1, domain.QuestionGAD7Q2:
			day.GAD2Score += r.AnswerValue
		case domain.QuestionPHQ9Q1, domain.QuestionPHQ9Q2:
			phq2[date] += r.AnswerValue
			if day.PHQ2Score == nil {
				day.PHQ2Score = new(int)
			}
		case domain.QuestionSleepDuration:
			hours, ok := sleepHoursByAnswer[r.AnswerValue]
			if !ok {
				hours = defaultSleepHours
			}
			day.SleepDuration = hours
		case domain.QuestionSleepQuality:
			day.SleepQuality = r.AnswerValue
		case domain.QuestionStressLevel:
			day.StressLevel = r.AnswerValue
		}
		if r.AnswerText != "" {
			notes[date] = append(notes[date], r.AnswerText)
		}
	}

	out := make([]domain.DailyResponse, 0, len(days))
	for date, day := range days {
		if day.PHQ2Score != nil {
			*day.PHQ2Score = phq2[date]
		}
		day.Notes = strings.Join(notes[date], "\n")
		day.DailyIndex = DailyIndex(day.GAD2Score, day.StressLevel, day.SleepQuality, day.SleepDuration)
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// WeeklyPSS4Scores sums PSS-4 answers per ISO week, oldest week first.
func WeeklyPSS4Scores(responses []domain.ScaleResponse) []float64 {
	sums := make(map[string]float64)
	for _, r := range responses {
		if !strings.HasPrefix(r.QuestionID, domain.QuestionPSS4Prefix) {
			continue
		}
		sums[WeekID(r.CreatedAt.UTC())] += float64(r.AnswerValue)
	}

	weeks := make([]string, 0, len(sums))
	for w := range sums {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)

	scores := make([]float64, len(weeks))
	for i, w := range weeks {
		scores[i] = sums[w]
	}
	return scores
}

type CalibrationService struct {
	responses   domain.ScaleResponseStore
	calibration domain.CalibrationStore
	policy      domain.StabilityPolicy
	logger      *zap.Logger
	now         func() time.Time
}

func NewCalibrationService(rs domain.ScaleResponseStore, cs domain.CalibrationStore, policy domain.StabilityPolicy, logger *zap.Logger) *CalibrationService {
	return &CalibrationService{
		responses:   rs,
		calibration: cs,
		policy:      policy,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *CalibrationService) today() time.Time {
	t := s.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Submit validates and stores a batch of answers for one user. Answers are
// stamped with the server clock; caller timestamps are ignored so answers
// cannot be placed outside the day they were given.
func (s *CalibrationService) Submit(ctx context.Context, userID uuid.UUID, source domain.ResponseSource, answers []domain.ScaleResponse) ([]domain.ScaleResponse, error) {
	if len(answers) == 0 {
		return nil, ErrNoResponses
	}
	now := s.now().UTC()
	out := make([]domain.ScaleResponse, len(answers))
	for i, a := range answers {
		if err := ValidateResponse(a); err != nil {
			return nil, err
		}
		a.ID = uuid.New()
		a.UserID = userID
		a.Source = source
		a.CreatedAt = now
		out[i] = a
	}

	if err := s.responses.CreateBatch(ctx, out); err != nil {
		return nil, fmt.Errorf("store responses: %w", err)
	}
	return out, nil
}

// streakBase picks the streak the current evaluation builds on. Re-running
// on the same day reuses that day's base; a gap longer than a day resets it.
func streakBase(state *domain.StabilityState, today time.Time) int {
	if state == nil || state.EvaluatedOn == "" {
		return 0
	}
	switch state.EvaluatedOn {
	case today.Format(domain.DateLayout):
		return state.PreviousStableDays
	case today.AddDate(0, 0, -1).Format(domain.DateLayout):
		return state.ConsecutiveStableDays
	default:
		return 0
	}
}

// EvaluateDaily classifies the last window of daily answers. With persist
// set, the streak is stored and the check-in cadence updated when it
// should change.
func (s *CalibrationService) EvaluateDaily(ctx context.Context, userID uuid.UUID, persist bool) (*domain.DailyEvaluation, error) {
	today := s.today()
	since := today.AddDate(0, 0, -(s.policy.WindowDays - 1))

	var (
		raw   []domain.ScaleResponse
		state *domain.StabilityState
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = s.responses.ListSince(gctx, userID, domain.SourceDaily, since)
		if err != nil {
			return fmt.Errorf("list daily responses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		state, err = s.calibration.GetState(gctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			state, err = nil, nil
		}
		if err != nil {
			return fmt.Errorf("get stability state: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	daily := BuildDailyResponses(raw)
	base := streakBase(state, today)
	result := EvaluateDailyStability(daily, base, s.policy)

	eval := &domain.DailyEvaluation{Responses: daily, Result: result}
	if !persist {
		return eval, nil
	}

	next := &domain.StabilityState{
		UserID:                userID,
		ConsecutiveStableDays: result.ConsecutiveStableDays,
		PreviousStableDays:    base,
		EvaluatedOn:           today.Format(domain.DateLayout),
		UpdatedAt:             s.now().UTC(),
	}
	if err := s.calibration.SaveState(ctx, next); err != nil {
		return nil, fmt.Errorf("save stability state: %w", err)
	}
	eval.Persisted = true

	if result.CanReduceFrequency || result.HasRedFlag {
		pref := preferenceFor(userID, result, s.now().UTC())
		if err := s.calibration.UpsertDailyPreference(ctx, pref); err != nil {
			return nil, fmt.Errorf("update assessment preference: %w", err)
		}
		eval.Preference = pref
		s.logger.Info("daily check-in frequency updated",
			zap.String("user_id", userID.String()),
			zap.String("frequency", pref.DailyFrequency),
			zap.String("reason", pref.DailyReason))
	}
	return eval, nil
}

func preferenceFor(userID uuid.UUID, result domain.StabilityResult, now time.Time) *domain.AssessmentPreference {
	freq := string(result.Recommendation)
	if result.Recommendation == domain.RecommendIncreaseToDaily {
		freq = string(domain.RecommendDaily)
	}
	reason := "stable_7d"
	if result.HasRedFlag {
		reason = "red_flag: " + strings.Join(result.RedFlagReasons, ", ")
	}
	return &domain.AssessmentPreference{
		UserID:              userID,
		DailyFrequency:      freq,
		DailyReason:         reason,
		LastFrequencyChange: &now,
	}
}

// EvaluateWeekly classifies the PSS-4 totals of the recent weeks.
func (s *CalibrationService) EvaluateWeekly(ctx context.Context, userID uuid.UUID) (*domain.WeeklyStabilityResult, error) {
	since := weekStart(s.today()).AddDate(0, 0, -7*(s.policy.WeeksWindow-1))
	raw, err := s.responses.ListSince(ctx, userID, domain.SourceWeekly, since)
	if err != nil {
		return nil, fmt.Errorf("list weekly responses: %w", err)
	}
	scores := WeeklyPSS4Scores(raw)
	result := EvaluateWeeklyStability(scores, len(scores), s.policy)
	return &result, nil
}

// Preference returns the stored cadence, or the defaults when none exists.
func (s *CalibrationService) Preference(ctx context.Context, userID uuid.UUID) (*domain.AssessmentPreference, error) {
	p, err := s.calibration.GetPreference(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return &domain.AssessmentPreference{
			UserID:          userID,
			DailyFrequency:  string(domain.RecommendDaily),
			WeeklyFrequency: string(domain.RecommendWeekly),
		}, nil
	}
	return p, err
}

// ActiveUserIDs lists users with daily answers inside the current window.
func (s *CalibrationService) ActiveUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	since := s.today().AddDate(0, 0, -(s.policy.WindowDays - 1))
	return s.responses.ListActiveUserIDs(ctx, domain.SourceDaily, since)
}
