package handlers

import (
	"encoding/json"
	"net/http"

	"pereval-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UploadHandler handles photo upload HTTP requests
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// UploadRequest asks for a pre-signed URL for one photo.
type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// RequestUploadURL handles POST /submitData/images/upload
func (h *UploadHandler) RequestUploadURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondEnvelope(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if req.Filename == "" {
		respondEnvelope(w, http.StatusBadRequest, "filename is required", nil)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	response, err := h.uploadService.PresignUpload(ctx, req.Filename, req.ContentType)
	if err != nil {
		log.Error().
			Err(err).
			Str("filename", req.Filename).
			Msg("Failed to generate pre-signed URL")
		respondEnvelope(w, http.StatusInternalServerError, "failed to generate upload URL", nil)
		return
	}

	log.Info().
		Str("filename", req.Filename).
		Str("image_url", response.ImageURL).
		Msg("Pre-signed URL generated")

	respondJSON(w, http.StatusOK, response)
}
