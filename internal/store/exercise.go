package store

import (
	"context"

	"github.com/exercise-tracker/apiserver/internal/db"
	"github.com/exercise-tracker/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ExerciseRepository handles persistence for exercises.
type ExerciseRepository struct {
	coll *mongo.Collection
}

func NewExerciseRepository(database *mongo.Database) *ExerciseRepository {
	return &ExerciseRepository{coll: database.Collection(db.ExercisesCollection)}
}

func (r *ExerciseRepository) Create(ctx context.Context, exercise types.Exercise) (types.Exercise, error) {
	exercise.ID = primitive.NewObjectID()
	exercise.Owner = nil
	if _, err := r.coll.InsertOne(ctx, exercise); err != nil {
		return types.Exercise{}, err
	}
	return exercise, nil
}

// GetByID returns the exercise with its owning user resolved.
func (r *ExerciseRepository) GetByID(ctx context.Context, id string) (types.Exercise, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return types.Exercise{}, ErrNotFound
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
		{{Key: "$limit", Value: 1}},
		{{Key: "$lookup", Value: bson.M{
			"from":         db.UsersCollection,
			"localField":   "user",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$owner",
			"preserveNullAndEmptyArrays": true,
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return types.Exercise{}, err
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return types.Exercise{}, err
		}
		return types.Exercise{}, ErrNotFound
	}

	var exercise types.Exercise
	if err := cursor.Decode(&exercise); err != nil {
		return types.Exercise{}, err
	}
	return exercise, nil
}

// Find returns exercises matching filter in insertion order. A limit of
// zero or less returns every match.
func (r *ExerciseRepository) Find(ctx context.Context, filter types.ExerciseFilter, limit int) ([]types.Exercise, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, exerciseCriteria(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := make([]types.Exercise, 0)
	if err := cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func exerciseCriteria(filter types.ExerciseFilter) bson.M {
	criteria := bson.M{}
	if !filter.UserID.IsZero() {
		criteria["user"] = filter.UserID
	}
	if filter.Description != "" {
		criteria["description"] = filter.Description
	}

	date := bson.M{}
	if !filter.DateFrom.IsZero() {
		date["$gte"] = filter.DateFrom
	}
	if !filter.DateTo.IsZero() {
		date["$lte"] = filter.DateTo
	}
	if len(date) > 0 {
		criteria["date"] = date
	}
	return criteria
}
