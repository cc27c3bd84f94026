package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pereval-backend/internal/models"
	"pereval-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// SubmitHandler handles submission-related HTTP requests
type SubmitHandler struct {
	submissions services.Submissions
}

// NewSubmitHandler creates a new submission handler
func NewSubmitHandler(submissions services.Submissions) *SubmitHandler {
	return &SubmitHandler{
		submissions: submissions,
	}
}

// CreateSubmission handles POST /submitData
func (h *SubmitHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondEnvelope(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	passID, err := h.submissions.Create(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("email", req.User.Email).Msg("Failed to create submission")

		switch {
		case errors.Is(err, services.ErrStoreUnavailable):
			respondEnvelope(w, http.StatusServiceUnavailable, "database connection error", nil)
		case errors.Is(err, services.ErrCreateUser):
			respondEnvelope(w, http.StatusUnprocessableEntity, "failed to create user", nil)
		case errors.Is(err, services.ErrCreateCoords):
			respondEnvelope(w, http.StatusUnprocessableEntity, "failed to create coords", nil)
		case errors.Is(err, services.ErrCreatePass):
			respondEnvelope(w, http.StatusUnprocessableEntity, "failed to create pass", nil)
		case errors.Is(err, services.ErrAttachImages):
			respondEnvelope(w, http.StatusUnprocessableEntity, "failed to attach images", nil)
		default:
			respondEnvelope(w, http.StatusInternalServerError, "internal error", nil)
		}
		return
	}

	log.Info().
		Int64("pass_id", passID).
		Str("email", req.User.Email).
		Msg("Submission accepted")

	respondEnvelope(w, http.StatusOK, "pass created", &passID)
}

// GetSubmission handles GET /submitData/{id}
func (h *SubmitHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondEnvelope(w, http.StatusBadRequest, "invalid pass id", nil)
		return
	}

	detail, err := h.submissions.GetPassDetail(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrPassNotFound) {
			respondEnvelope(w, http.StatusUnprocessableEntity, fmt.Sprintf("pass with id %d does not exist", id), nil)
			return
		}
		log.Error().Err(err).Int64("pass_id", id).Msg("Failed to get submission")
		respondEnvelope(w, http.StatusInternalServerError, "internal error", nil)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// SearchSubmissions handles GET /submitData?user__email=
func (h *SubmitHandler) SearchSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := r.URL.Query().Get("user__email")
	if email == "" {
		respondEnvelope(w, http.StatusBadRequest, "user__email is required", nil)
		return
	}

	details, err := h.submissions.SearchByUserEmail(ctx, email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondEnvelope(w, http.StatusUnprocessableEntity, "no records found for this email", nil)
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to search submissions")
		respondEnvelope(w, http.StatusInternalServerError, "internal error", nil)
		return
	}

	respondJSON(w, http.StatusOK, details)
}

// PatchSubmission handles PATCH /submitData/{id}
func (h *SubmitHandler) PatchSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, PatchResponse{State: 0, Message: "invalid pass id"})
		return
	}

	var patch models.PassPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondJSON(w, http.StatusBadRequest, PatchResponse{State: 0, Message: "invalid request body"})
		return
	}

	if err := h.submissions.Update(ctx, id, patch); err != nil {
		switch {
		case errors.Is(err, services.ErrPassNotFound):
			respondJSON(w, http.StatusUnprocessableEntity, PatchResponse{
				State:   0,
				Message: fmt.Sprintf("pass with id %d does not exist", id),
			})
		case errors.Is(err, services.ErrPassOnModeration):
			respondJSON(w, http.StatusUnprocessableEntity, PatchResponse{
				State:   0,
				Message: fmt.Sprintf("pass with id %d is on moderation", id),
			})
		case errors.Is(err, services.ErrImageNotFound):
			respondJSON(w, http.StatusUnprocessableEntity, PatchResponse{
				State:   0,
				Message: err.Error(),
			})
		default:
			log.Error().Err(err).Int64("pass_id", id).Msg("Failed to patch submission")
			respondJSON(w, http.StatusInternalServerError, PatchResponse{State: 0, Message: "internal error"})
		}
		return
	}

	log.Info().Int64("pass_id", id).Msg("Submission patched")
	respondJSON(w, http.StatusOK, PatchResponse{State: 1, Message: "record updated"})
}
