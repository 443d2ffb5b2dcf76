package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateLayouts(t *testing.T) {
	want := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2020-01-15",
		"2020/01/15",
		"2020-01-15T00:00:00Z",
		"2020-01-15T00:00:00",
		"Wed Jan 15 2020",
		"January 15, 2020",
		"Jan 15, 2020",
		"  2020-01-15 ",
	} {
		got, err := parseDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), raw)
	}

	for _, raw := range []string{"", "15/01/2020", "2020-02-30", "tomorrow"} {
		_, err := parseDate(raw)
		assert.Error(t, err, raw)
	}
}

func TestLogsQueryValidate(t *testing.T) {
	userID, q, err := LogsQuery{UserID: " abc ", From: "2020-01-01", Limit: "3"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, "abc", userID)
	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), q.From)
	assert.True(t, q.To.IsZero())
	assert.Equal(t, 3, q.Limit)

	_, _, err = LogsQuery{}.Validate()
	assert.EqualError(t, err, msgUserNotFound)
}

func TestLogExerciseRequestValidate(t *testing.T) {
	userID, input, err := LogExerciseRequest{
		UserID:      "abc",
		Description: " yoga ",
		Duration:    " 15 ",
	}.Validate()
	require.NoError(t, err)
	assert.Equal(t, "abc", userID)
	assert.Equal(t, "yoga", input.Description)
	assert.Equal(t, 15, input.Duration)
	assert.True(t, input.Date.IsZero())
}
