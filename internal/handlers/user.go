package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/exercise-tracker/apiserver/internal/services"
	"github.com/exercise-tracker/apiserver/types"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler serves the user and exercise-log endpoints.
type UserHandler struct {
	userService     *services.UserService
	exerciseService *services.ExerciseService
	logger          *slog.Logger
}

// NewUserHandler constructs a handler with the provided services.
func NewUserHandler(userService *services.UserService, exerciseService *services.ExerciseService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		userService:     userService,
		exerciseService: exerciseService,
		logger:          logger,
	}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, userService *services.UserService, exerciseService *services.ExerciseService, logger *slog.Logger) {
	handler := NewUserHandler(userService, exerciseService, logger)

	r.Get("/", handler.ListUsers)
	r.Post("/", handler.CreateUser)
	r.Route("/{userID}", func(r chi.Router) {
		r.Post("/exercises", handler.LogExercise)
		r.Get("/logs", handler.GetLogs)
	})
}

// ExerciseResponse is an exercise merged with its owner's username.
type ExerciseResponse struct {
	ID          primitive.ObjectID `json:"_id"`
	Username    string             `json:"username"`
	Description string             `json:"description"`
	Duration    int                `json:"duration"`
	Date        string             `json:"date"`
}

// LogResponse is a user's filtered exercise log.
type LogResponse struct {
	ID       primitive.ObjectID `json:"_id"`
	Username string             `json:"username"`
	Count    int                `json:"count"`
	Log      []types.LogEntry   `json:"log"`
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		storeFailure(w, h.logger, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateUser is idempotent: posting an existing username returns that user.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	req, err := bindCreateUser(r)
	if err != nil {
		writeError(w, err.Error())
		return
	}
	username, err := req.Validate()
	if err != nil {
		writeError(w, err.Error())
		return
	}

	user, created, err := h.userService.Register(r.Context(), username)
	if err != nil {
		storeFailure(w, h.logger, "register user", err)
		return
	}
	if created {
		h.logger.Info("user created", "user_id", user.ID.Hex(), "username", user.Username)
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) LogExercise(w http.ResponseWriter, r *http.Request) {
	req, err := bindLogExercise(r)
	if err != nil {
		writeError(w, err.Error())
		return
	}
	userID, input, err := req.Validate()
	if err != nil {
		writeError(w, err.Error())
		return
	}

	logged, err := h.exerciseService.Log(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeError(w, msgUserNotFound)
			return
		}
		storeFailure(w, h.logger, "log exercise", err)
		return
	}

	writeJSON(w, http.StatusOK, ExerciseResponse{
		ID:          logged.Exercise.ID,
		Username:    logged.User.Username,
		Description: logged.Exercise.Description,
		Duration:    logged.Exercise.Duration,
		Date:        types.FormatDate(logged.Exercise.Date),
	})
}

func (h *UserHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	userID, query, err := bindLogsQuery(r).Validate()
	if err != nil {
		writeError(w, err.Error())
		return
	}

	history, err := h.exerciseService.History(r.Context(), userID, query)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeError(w, msgUserNotFound)
			return
		}
		storeFailure(w, h.logger, "fetch exercise log", err)
		return
	}

	entries := make([]types.LogEntry, 0, len(history.Exercises))
	for _, exercise := range history.Exercises {
		entries = append(entries, exercise.Entry())
	}
	writeJSON(w, http.StatusOK, LogResponse{
		ID:       history.User.ID,
		Username: history.User.Username,
		Count:    len(entries),
		Log:      entries,
	})
}
