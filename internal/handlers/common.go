package handlers

import (
	"encoding/json"
	"net/http"
)

// SubmitResponse is the {status, message, id} envelope used by the create
// endpoint and by error replies on the read endpoints.
type SubmitResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	ID      *int64 `json:"id"`
}

// PatchResponse reports the outcome of a patch: state 1 on success, 0 when
// the record is missing or blocked by the moderation gate.
type PatchResponse struct {
	State   int    `json:"state"`
	Message string `json:"message"`
}

// respondJSON writes v with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondEnvelope writes the {status, message, id} envelope.
func respondEnvelope(w http.ResponseWriter, statusCode int, message string, id *int64) {
	respondJSON(w, statusCode, SubmitResponse{Status: statusCode, Message: message, ID: id})
}
