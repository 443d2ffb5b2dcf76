package handlers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetExercise(t *testing.T) {
	api := newTestAPI(t)
	user := createUser(t, api, "ivy")

	logged := decode[exerciseJSON](t, postForm(t, api, "/api/users/"+user.ID+"/exercises", url.Values{
		"description": {"cycle"},
		"duration":    {"60"},
		"date":        {"Mon Jan 06 2020"},
	}))

	got := decode[exerciseJSON](t, get(t, api, "/api/exercises/"+logged.ID))
	assert.Equal(t, logged, got)
	assert.Equal(t, "ivy", got.Username)
	assert.Equal(t, "Mon Jan 06 2020", got.Date)
}

func TestGetExerciseNotFound(t *testing.T) {
	api := newTestAPI(t)

	requireError(t, get(t, api, "/api/exercises/"+primitive.NewObjectID().Hex()), msgExerciseNotFound)
	requireError(t, get(t, api, "/api/exercises/nope"), msgExerciseNotFound)
}
