package handlers

import (
	"net/http"
	"strconv"

	"pereval-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	submissions services.Submissions
}

// NewUserHandler creates a new user handler
func NewUserHandler(submissions services.Submissions) *UserHandler {
	return &UserHandler{
		submissions: submissions,
	}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	skip := 0
	limit := 100

	if skipStr := r.URL.Query().Get("skip"); skipStr != "" {
		if parsedSkip, err := strconv.Atoi(skipStr); err == nil {
			skip = parsedSkip
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil {
			limit = parsedLimit
		}
	}

	users, err := h.submissions.ListUsers(ctx, skip, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		respondEnvelope(w, http.StatusInternalServerError, "internal error", nil)
		return
	}

	respondJSON(w, http.StatusOK, users)
}
