package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/sekolahkita/school-content/pkg/schoolcontent"
)

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

// respondServiceError maps service errors onto HTTP statuses: validation
// failures become 400, missing posts 404, everything else a 500 with a
// generic body so storage details never leak to clients.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *schoolcontent.ValidationError
	if errors.As(err, &ve) {
		respondError(w, r, http.StatusBadRequest, ve.Error())
		return
	}

	if errors.Is(err, schoolcontent.ErrPostNotFound) {
		respondError(w, r, http.StatusNotFound, "post not found")
		return
	}
	if errors.Is(err, schoolcontent.ErrSubscriptionNotFound) {
		respondError(w, r, http.StatusNotFound, "subscription not found")
		return
	}

	slog.Error("request failed", "error", err)
	respondError(w, r, http.StatusInternalServerError, "internal server error")
}
