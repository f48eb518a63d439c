package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vercatryx/Triangle-order-managment-sub005/internal/models"
)

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondWithServiceError maps the error classes of the core to HTTP codes:
// validation failures to 400, missing records to 404, and store errors
// surfaced verbatim as 500.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidationError(err):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case models.IsNotFoundError(err):
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
