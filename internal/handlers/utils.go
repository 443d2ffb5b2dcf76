package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxMultipartMemory = 1 << 20

// User-facing messages. Clients match on these strings.
const (
	msgInvalidBody        = "The request body is invalid."
	msgInvalidUsername    = "The username is invalid."
	msgUserNotFound       = "The user is not found."
	msgInvalidDescription = "The description is invalid."
	msgInvalidDuration    = "The duration is invalid."
	msgInvalidDate        = "The date is invalid."
	msgInvalidFromDate    = "The from date is invalid."
	msgInvalidToDate      = "The to date is invalid."
	msgInvalidLimit       = "The limit is invalid."
	msgExerciseNotFound   = "The exercise is not found."
)

// Accepted calendar date inputs, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"Mon Jan 02 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ErrorResponse is the failure payload. Failures are still sent with 200.
type ErrorResponse struct {
	Error string `json:"error"`
}

// validationError carries a user-facing message from request validation.
type validationError string

func (e validationError) Error() string { return string(e) }

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// writeError reports a logical failure. Existing clients expect 200 and
// distinguish failures only by the error field.
func writeError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, ErrorResponse{Error: message})
}

// storeFailure logs err and echoes it to the client.
// TODO: send a generic message instead of err.Error(); raw driver errors leak store details.
func storeFailure(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	logger.Error(op, "error", err)
	writeError(w, err.Error())
}

// formValues returns request fields from a urlencoded, multipart or JSON body.
func formValues(r *http.Request) (url.Values, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return jsonValues(r)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, err
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
	}
	return r.Form, nil
}

func jsonValues(r *http.Request) (url.Values, error) {
	values := url.Values{}
	if r.Body == nil {
		return values, nil
	}
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	for key, raw := range body {
		switch v := raw.(type) {
		case nil:
		case string:
			values.Set(key, v)
		case float64:
			values.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			values.Set(key, strconv.FormatBool(v))
		default:
			return nil, fmt.Errorf("field %q has unsupported type", key)
		}
	}
	return values, nil
}

// parseDate accepts the layouts in dateLayouts.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognised date")
}
