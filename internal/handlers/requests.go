package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/exercise-tracker/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Username string
}

func bindCreateUser(r *http.Request) (CreateUserRequest, error) {
	values, err := formValues(r)
	if err != nil {
		return CreateUserRequest{}, validationError(msgInvalidBody)
	}
	return CreateUserRequest{Username: values.Get("username")}, nil
}

// Validate trims the username and rejects it when empty.
func (req CreateUserRequest) Validate() (string, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return "", validationError(msgInvalidUsername)
	}
	return username, nil
}

// LogExerciseRequest is the body of POST /api/users/{userID}/exercises.
type LogExerciseRequest struct {
	UserID      string
	Description string
	Duration    string
	Date        string
}

func bindLogExercise(r *http.Request) (LogExerciseRequest, error) {
	values, err := formValues(r)
	if err != nil {
		return LogExerciseRequest{}, validationError(msgInvalidBody)
	}
	return LogExerciseRequest{
		UserID:      chi.URLParam(r, "userID"),
		Description: values.Get("description"),
		Duration:    values.Get("duration"),
		Date:        values.Get("date"),
	}, nil
}

// Validate checks fields in the order clients rely on: user id,
// description, duration, date. Zero durations are rejected like
// unparseable ones to stay compatible with existing clients.
func (req LogExerciseRequest) Validate() (string, services.LogExerciseInput, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return "", services.LogExerciseInput{}, validationError(msgUserNotFound)
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return "", services.LogExerciseInput{}, validationError(msgInvalidDescription)
	}

	duration, err := strconv.Atoi(strings.TrimSpace(req.Duration))
	if err != nil || duration < 1 {
		return "", services.LogExerciseInput{}, validationError(msgInvalidDuration)
	}

	input := services.LogExerciseInput{
		Description: description,
		Duration:    duration,
	}
	if raw := strings.TrimSpace(req.Date); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return "", services.LogExerciseInput{}, validationError(msgInvalidDate)
		}
		input.Date = date
	}
	return userID, input, nil
}

// LogsQuery is the query string of GET /api/users/{userID}/logs.
type LogsQuery struct {
	UserID string
	From   string
	To     string
	Limit  string
}

func bindLogsQuery(r *http.Request) LogsQuery {
	query := r.URL.Query()
	return LogsQuery{
		UserID: chi.URLParam(r, "userID"),
		From:   query.Get("from"),
		To:     query.Get("to"),
		Limit:  query.Get("limit"),
	}
}

// Validate parses the optional bounds. A negative limit means no limit.
func (q LogsQuery) Validate() (string, services.HistoryQuery, error) {
	userID := strings.TrimSpace(q.UserID)
	if userID == "" {
		return "", services.HistoryQuery{}, validationError(msgUserNotFound)
	}

	var hq services.HistoryQuery
	if raw := strings.TrimSpace(q.From); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			return "", services.HistoryQuery{}, validationError(msgInvalidFromDate)
		}
		hq.From = from
	}
	if raw := strings.TrimSpace(q.To); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			return "", services.HistoryQuery{}, validationError(msgInvalidToDate)
		}
		hq.To = to
	}
	if raw := strings.TrimSpace(q.Limit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return "", services.HistoryQuery{}, validationError(msgInvalidLimit)
		}
		hq.Limit = limit
	}
	return userID, hq, nil
}
