package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/exercise-tracker/apiserver/internal/services"
	"github.com/exercise-tracker/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ExerciseHandler serves single-exercise lookups.
type ExerciseHandler struct {
	exerciseService *services.ExerciseService
	logger          *slog.Logger
}

func NewExerciseHandler(exerciseService *services.ExerciseService, logger *slog.Logger) *ExerciseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExerciseHandler{exerciseService: exerciseService, logger: logger}
}

// ExerciseRouter registers exercise routes on the given router.
func ExerciseRouter(r chi.Router, exerciseService *services.ExerciseService, logger *slog.Logger) {
	handler := NewExerciseHandler(exerciseService, logger)
	r.Get("/{exerciseID}", handler.GetExercise)
}

// GetExercise returns the exercise together with its owner's username.
func (h *ExerciseHandler) GetExercise(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "exerciseID"))
	if id == "" {
		writeError(w, msgExerciseNotFound)
		return
	}

	exercise, err := h.exerciseService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrExerciseNotFound) {
			writeError(w, msgExerciseNotFound)
			return
		}
		storeFailure(w, h.logger, "get exercise", err)
		return
	}

	resp := ExerciseResponse{
		ID:          exercise.ID,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        types.FormatDate(exercise.Date),
	}
	if exercise.Owner != nil {
		resp.Username = exercise.Owner.Username
	}
	writeJSON(w, http.StatusOK, resp)
}
