package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is how exercise dates are rendered at the API boundary.
const DateLayout = "Mon Jan 02 2006"

// Exercise is a single logged activity owned by a user.
type Exercise struct {
	// ID is assigned by the store on creation.
	ID primitive.ObjectID `bson:"_id,omitempty"`

	// UserID references the owning user.
	UserID primitive.ObjectID `bson:"user"`

	// Description is a free-form, non-empty label.
	Description string `bson:"description"`

	// Duration is expressed in minutes.
	Duration int `bson:"duration"`

	// Date is the calendar day of the exercise, stored as UTC midnight.
	Date time.Time `bson:"date"`

	// Owner is populated only by lookups that resolve the user reference.
	Owner *User `bson:"owner,omitempty"`
}

// LogEntry is the API shape of an exercise inside a user's log.
type LogEntry struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// Entry renders the exercise for a log listing.
func (e Exercise) Entry() LogEntry {
	return LogEntry{
		Description: e.Description,
		Duration:    e.Duration,
		Date:        FormatDate(e.Date),
	}
}

// ExerciseFilter narrows an exercise query. Zero values are ignored.
// DateFrom and DateTo are inclusive bounds.
type ExerciseFilter struct {
	UserID      primitive.ObjectID
	Description string
	DateFrom    time.Time
	DateTo      time.Time
}

// Matches reports whether the exercise satisfies every set criterion.
func (f ExerciseFilter) Matches(e Exercise) bool {
	if !f.UserID.IsZero() && f.UserID != e.UserID {
		return false
	}
	if f.Description != "" && f.Description != e.Description {
		return false
	}
	if !f.DateFrom.IsZero() && e.Date.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && e.Date.After(f.DateTo) {
		return false
	}
	return true
}

// CalendarDay truncates t to midnight UTC of its calendar day.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a stored date like "Mon Jan 01 1990".
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
