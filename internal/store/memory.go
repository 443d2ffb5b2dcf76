package store

import (
	"context"
	"sort"
	"sync"

	"github.com/exercise-tracker/apiserver/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemoryUserRepository stores users in memory for local development and tests.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]types.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[primitive.ObjectID]types.User)}
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return types.User{}, ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[oid]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

func (r *InMemoryUserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, ErrNotFound
}

// Create enforces username uniqueness the same way the unique index does.
func (r *InMemoryUserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return types.User{}, ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = user
	return user, nil
}

func (r *InMemoryUserRepository) List(ctx context.Context) ([]types.User, error) {
	r.mu.RLock()
	users := make([]types.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}

// InMemoryExerciseRepository stores exercises in insertion order.
type InMemoryExerciseRepository struct {
	mu        sync.RWMutex
	exercises []types.Exercise
	users     *InMemoryUserRepository
}

// NewInMemoryExerciseRepository resolves owners through users; users may be nil.
func NewInMemoryExerciseRepository(users *InMemoryUserRepository) *InMemoryExerciseRepository {
	return &InMemoryExerciseRepository{users: users}
}

func (r *InMemoryExerciseRepository) Create(ctx context.Context, exercise types.Exercise) (types.Exercise, error) {
	exercise.ID = primitive.NewObjectID()
	exercise.Owner = nil

	r.mu.Lock()
	r.exercises = append(r.exercises, exercise)
	r.mu.Unlock()
	return exercise, nil
}

func (r *InMemoryExerciseRepository) GetByID(ctx context.Context, id string) (types.Exercise, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return types.Exercise{}, ErrNotFound
	}

	r.mu.RLock()
	var (
		found types.Exercise
		ok    bool
	)
	for _, exercise := range r.exercises {
		if exercise.ID == oid {
			found, ok = exercise, true
			break
		}
	}
	r.mu.RUnlock()
	if !ok {
		return types.Exercise{}, ErrNotFound
	}

	if r.users != nil {
		if owner, err := r.users.GetByID(ctx, found.UserID.Hex()); err == nil {
			found.Owner = &owner
		}
	}
	return found, nil
}

func (r *InMemoryExerciseRepository) Find(ctx context.Context, filter types.ExerciseFilter, limit int) ([]types.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Exercise, 0)
	for _, exercise := range r.exercises {
		if !filter.Matches(exercise) {
			continue
		}
		out = append(out, exercise)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
