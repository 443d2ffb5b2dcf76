package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/exercise-tracker/apiserver/internal/mq"
	"github.com/exercise-tracker/apiserver/internal/observability"
	"github.com/exercise-tracker/apiserver/internal/store"
	"github.com/exercise-tracker/apiserver/types"
)

// ErrExerciseNotFound is returned when an exercise id does not resolve.
var ErrExerciseNotFound = errors.New("exercise not found")

// ExerciseRepository defines persistence operations for exercises.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise types.Exercise) (types.Exercise, error)
	GetByID(ctx context.Context, id string) (types.Exercise, error)
	Find(ctx context.Context, filter types.ExerciseFilter, limit int) ([]types.Exercise, error)
}

// LogExerciseInput is a validated exercise submission. A zero Date means today.
type LogExerciseInput struct {
	Description string
	Duration    int
	Date        time.Time
}

// LoggedExercise pairs a stored exercise with its owner.
type LoggedExercise struct {
	User     types.User
	Exercise types.Exercise
}

// HistoryQuery bounds a log listing. Zero From/To are open bounds and a
// Limit of zero or less returns everything.
type HistoryQuery struct {
	From  time.Time
	To    time.Time
	Limit int
}

// History is a user's filtered exercise log.
type History struct {
	User      types.User
	Exercises []types.Exercise
}

// ExerciseService encapsulates exercise use-cases.
type ExerciseService struct {
	repo  ExerciseRepository
	users UserRepository
	opts  options
}

func NewExerciseService(repo ExerciseRepository, users UserRepository, opts ...Option) *ExerciseService {
	return &ExerciseService{repo: repo, users: users, opts: newOptions(opts)}
}

// Log stores an exercise for userID after checking the user exists.
func (s *ExerciseService) Log(ctx context.Context, userID string, in LogExerciseInput) (LoggedExercise, error) {
	user, err := lookupUser(ctx, s.users, userID, s.opts)
	if err != nil {
		return LoggedExercise{}, err
	}

	date := in.Date
	if date.IsZero() {
		date = s.opts.now()
	}

	exercise, err := s.repo.Create(ctx, types.Exercise{
		UserID:      user.ID,
		Description: in.Description,
		Duration:    in.Duration,
		Date:        types.CalendarDay(date),
	})
	if err != nil {
		return LoggedExercise{}, fmt.Errorf("create exercise: %w", err)
	}

	observability.RecordExerciseLogged()
	s.publishLogged(ctx, user, exercise)
	return LoggedExercise{User: user, Exercise: exercise}, nil
}

// Get returns an exercise with its owner resolved.
func (s *ExerciseService) Get(ctx context.Context, id string) (types.Exercise, error) {
	exercise, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Exercise{}, fmt.Errorf("%w: %s", ErrExerciseNotFound, id)
		}
		return types.Exercise{}, err
	}
	return exercise, nil
}

// History lists userID's exercises within the inclusive calendar-day range.
func (s *ExerciseService) History(ctx context.Context, userID string, q HistoryQuery) (History, error) {
	user, err := lookupUser(ctx, s.users, userID, s.opts)
	if err != nil {
		return History{}, err
	}

	filter := types.ExerciseFilter{UserID: user.ID}
	if !q.From.IsZero() {
		filter.DateFrom = types.CalendarDay(q.From)
	}
	if !q.To.IsZero() {
		filter.DateTo = types.CalendarDay(q.To)
	}

	exercises, err := s.repo.Find(ctx, filter, q.Limit)
	if err != nil {
		return History{}, fmt.Errorf("find exercises: %w", err)
	}
	return History{User: user, Exercises: exercises}, nil
}

func (s *ExerciseService) publishLogged(ctx context.Context, user types.User, exercise types.Exercise) {
	if s.opts.events == nil {
		return
	}
	event := mq.ExerciseLogged{
		EventID:     mq.NewEventID(),
		ExerciseID:  exercise.ID.Hex(),
		UserID:      user.ID.Hex(),
		Username:    user.Username,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        types.FormatDate(exercise.Date),
		OccurredAt:  s.opts.now().UTC(),
	}
	if _, err := mq.PublishJSON(ctx, s.opts.events, mq.ChannelExerciseLogged, event.EventID, event.UserID, event); err != nil {
		observability.RecordPublishFailure(mq.ChannelExerciseLogged)
		s.opts.logger.Warn("publish exercise logged", "exercise_id", event.ExerciseID, "error", err)
	}
}
