package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/exercise-tracker/apiserver/internal/mq"
	"github.com/exercise-tracker/apiserver/internal/observability"
	"github.com/exercise-tracker/apiserver/internal/store"
	"github.com/exercise-tracker/apiserver/types"
)

// ErrUserNotFound is returned when a referenced user cannot be loaded.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
	opts options
}

func NewUserService(repo UserRepository, opts ...Option) *UserService {
	return &UserService{repo: repo, opts: newOptions(opts)}
}

// Register returns the user named username, creating it when absent.
// created reports whether this call inserted the record. A duplicate-key
// failure from a concurrent registration resolves to the stored user.
func (s *UserService) Register(ctx context.Context, username string) (user types.User, created bool, err error) {
	user, err = s.repo.GetByUsername(ctx, username)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, false, err
	}

	user, err = s.repo.Create(ctx, types.User{Username: username})
	if errors.Is(err, store.ErrDuplicateKey) {
		user, err = s.repo.GetByUsername(ctx, username)
		if err != nil {
			return types.User{}, false, fmt.Errorf("reload user after duplicate key: %w", err)
		}
		return user, false, nil
	}
	if err != nil {
		return types.User{}, false, err
	}

	observability.RecordUserCreated()
	s.publishCreated(ctx, user)
	return user, true, nil
}

// Get loads a user by id. Any lookup failure is reported as ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id string) (types.User, error) {
	return lookupUser(ctx, s.repo, id, s.opts)
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) publishCreated(ctx context.Context, user types.User) {
	if s.opts.events == nil {
		return
	}
	event := mq.UserCreated{
		EventID:    mq.NewEventID(),
		UserID:     user.ID.Hex(),
		Username:   user.Username,
		OccurredAt: s.opts.now().UTC(),
	}
	if _, err := mq.PublishJSON(ctx, s.opts.events, mq.ChannelUserCreated, event.EventID, event.UserID, event); err != nil {
		observability.RecordPublishFailure(mq.ChannelUserCreated)
		s.opts.logger.Warn("publish user created", "user_id", event.UserID, "error", err)
	}
}

func lookupUser(ctx context.Context, repo UserRepository, id string, o options) (types.User, error) {
	user, err := repo.GetByID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		o.logger.Error("load user", "user_id", id, "error", err)
	}
	return types.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, id)
}
