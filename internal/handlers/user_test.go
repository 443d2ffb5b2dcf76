package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateUserIsIdempotent(t *testing.T) {
	api := newTestAPI(t)

	first := createUser(t, api, "alice")
	assert.Equal(t, "alice", first.Username)

	again := createUser(t, api, "alice")
	assert.Equal(t, first.ID, again.ID)

	users := decode[[]userJSON](t, get(t, api, "/api/users"))
	require.Len(t, users, 1)
	assert.Equal(t, first, users[0])
}

func TestCreateUserTrimsAndAcceptsJSON(t *testing.T) {
	api := newTestAPI(t)

	user := decode[userJSON](t, postJSON(t, api, "/api/users", `{"username":"  bob  "}`))
	assert.Equal(t, "bob", user.Username)
}

func TestCreateUserRejectsBlankUsername(t *testing.T) {
	api := newTestAPI(t)

	for _, name := range []string{"", "   "} {
		rec := postForm(t, api, "/api/users", url.Values{"username": {name}})
		requireError(t, rec, msgInvalidUsername)
	}
	requireError(t, postJSON(t, api, "/api/users", `{"username":`), msgInvalidBody)

	assert.Empty(t, decode[[]userJSON](t, get(t, api, "/api/users")))
}

func TestListUsersEmpty(t *testing.T) {
	api := newTestAPI(t)

	rec := get(t, api, "/api/users")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestLogExercise(t *testing.T) {
	api := newTestAPI(t)
	user := createUser(t, api, "carol")

	rec := postForm(t, api, "/api/users/"+user.ID+"/exercises", url.Values{
		"description": {"run"},
		"duration":    {"30"},
		"date":        {"2020-01-15"},
	})
	exercise := decode[exerciseJSON](t, rec)
	assert.NotEmpty(t, exercise.ID)
	assert.NotEqual(t, user.ID, exercise.ID)
	assert.Equal(t, "carol", exercise.Username)
	assert.Equal(t, "run", exercise.Description)
	assert.Equal(t, 30, exercise.Duration)
	assert.Equal(t, "Wed Jan 15 2020", exercise.Date)
}

func TestLogExerciseDefaultsToToday(t *testing.T) {
	api := newTestAPI(t)
	user := createUser(t, api, "dave")

	rec := postJSON(t, api, "/api/users/"+user.ID+"/exercises", `{"description":"swim","duration":45}`)
	exercise := decode[exerciseJSON](t, rec)
	assert.Equal(t, 45, exercise.Duration)
	assert.Equal(t, "Mon Mar 04 2024", exercise.Date)
}

func TestLogExerciseValidation(t *testing.T) {
	api := newTestAPI(t)
	user := createUser(t, api, "erin")
	path := "/api/users/" + user.ID + "/exercises"

	cases := []struct {
		name string
		form url.Values
		want string
	}{
		{"missing description", url.Values{"duration": {"10"}}, msgInvalidDescription},
		{"blank description", url.Values{"description": {"  "}, "duration": {"10"}}, msgInvalidDescription},
		{"missing duration", url.Values{"description": {"run"}}, msgInvalidDuration},
		{"zero duration", url.Values{"description": {"run"}, "duration": {"0"}}, msgInvalidDuration},
		{"negative duration", url.Values{"description": {"run"}, "duration": {"-5"}}, msgInvalidDuration},
		{"fractional duration", url.Values{"description": {"run"}, "duration": {"1.5"}}, msgInvalidDuration},
		{"text duration", url.Values{"description": {"run"}, "duration": {"ten"}}, msgInvalidDuration},
		{"bad date", url.Values{"description": {"run"}, "duration": {"10"}, "date": {"someday"}}, msgInvalidDate},
		{"description checked before duration", url.Values{"duration": {"abc"}}, msgInvalidDescription},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			requireError(t, postForm(t, api, path, tc.form), tc.want)
		})
	}

	logs := decode[logJSON](t, get(t, api, "/api/users/"+user.ID+"/logs"))
	assert.Zero(t, logs.Count)
}

func TestLogExerciseUnknownUser(t *testing.T) {
	api := newTestAPI(t)
	form := url.Values{"description": {"run"}, "duration": {"10"}}

	requireError(t, postForm(t, api, "/api/users/"+primitive.NewObjectID().Hex()+"/exercises", form), msgUserNotFound)
	requireError(t, postForm(t, api, "/api/users/not-an-id/exercises", form), msgUserNotFound)
}

func TestGetLogs(t *testing.T) {
	api := newTestAPI(t)
	user := createUser(t, api, "frank")
	path := "/api/users/" + user.ID + "/exercises"

	for _, date := range []string{"2019-12-31", "2020-01-01", "2020-01-15", "2020-01-31", "2020-02-01"} {
		rec := postForm(t, api, path, url.Values{"description": {"row"}, "duration": {"20"}, "date": {date}})
		require.Empty(t, decode[ErrorResponse](t, rec).Error)
	}

	all := decode[logJSON](t, get(t, api, "/api/users/"+user.ID+"/logs"))
	assert.Equal(t, user.ID, all.ID)
	assert.Equal(t, "frank", all.Username)
	assert.Equal(t, 5, all.Count)
	require.Len(t, all.Log, 5)
	assert.Equal(t, "Tue Dec 31 2019", all.Log[0].Date)
	assert.Equal(t, "row", all.Log[0].Description)
	assert.Equal(t, 20, all.Log[0].Duration)

	january := decode[logJSON](t, get(t, api, "/api/users/"+user.ID+"/logs?from=2020-01-01&to=2020-01-31"))
	assert.Equal(t, 3, january.Count)
	require.Len(t, january.Log, 3)
	assert.Equal(t, "Wed Jan 01 2020", january.Log[0].Date)
	assert.Equal(t, "Fri Jan 31 2020", january.Log[2].Date)

	fromOnly := decode[logJSON](t, get(t, api, "/api/users/"+user.ID+"/logs?from=2020-01-31"))
	assert.Equal(t, 2, fromOnly.Count)

	limited := decode[logJSON](t, get(t, api, "/api/users/"+user.ID+"/logs?limit=2"))
	assert.Equal(t, 2, limited.Count)

	unlimited := decode[logJSON](t, get(t, api, "/api/users/"+user.ID+"/logs?limit=-1"))
	assert.Equal(t, 5, unlimited.Count)
}

func TestGetLogsEmptyLogIsArray(t *testing.T) {
	api := newTestAPI(t)
	user := createUser(t, api, "gina")

	rec := get(t, api, "/api/users/"+user.ID+"/logs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"_id":"`+user.ID+`","username":"gina","count":0,"log":[]}`, rec.Body.String())
}

func TestGetLogsValidation(t *testing.T) {
	api := newTestAPI(t)
	user := createUser(t, api, "hank")
	base := "/api/users/" + user.ID + "/logs"

	requireError(t, get(t, api, base+"?from=yesterday"), msgInvalidFromDate)
	requireError(t, get(t, api, base+"?to=2020-13-45"), msgInvalidToDate)
	requireError(t, get(t, api, base+"?limit=many"), msgInvalidLimit)
	requireError(t, get(t, api, "/api/users/"+primitive.NewObjectID().Hex()+"/logs"), msgUserNotFound)
}
