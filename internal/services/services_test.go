package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/exercise-tracker/apiserver/internal/mq"
	"github.com/exercise-tracker/apiserver/internal/store"
	"github.com/exercise-tracker/apiserver/types"
)

type publishedEvent struct {
	channel string
	data    []byte
	attrs   map[string]string
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.events = append(p.events, publishedEvent{channel: channel, data: data, attrs: attrs})
	return attrs[mq.AttrEventID], nil
}

func (p *recordingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

func decodeEvent[T any](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// racingUserRepository simulates another request inserting the same
// username between the lookup and the insert.
type racingUserRepository struct {
	*store.InMemoryUserRepository
	lookups int
}

func (r *racingUserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	r.lookups++
	if r.lookups == 1 {
		return types.User{}, store.ErrNotFound
	}
	return r.InMemoryUserRepository.GetByUsername(ctx, username)
}

// failingUserRepository fails every lookup with err.
type failingUserRepository struct {
	*store.InMemoryUserRepository
	err error
}

func (r *failingUserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	return types.User{}, r.err
}

type failingExerciseRepository struct {
	ExerciseRepository
	err error
}

func (r failingExerciseRepository) Find(ctx context.Context, filter types.ExerciseFilter, limit int) ([]types.Exercise, error) {
	return nil, r.err
}

var errStoreDown = errors.New("connection refused")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
