package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"shop-api/services"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the shared business failures every handler
// can hit. notFoundMsg names the entity so 404 bodies stay specific
// without leaking which lookups exist.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, notFoundMsg string) {
	var stockErr *services.InsufficientStockError
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, notFoundMsg)
	case errors.As(err, &stockErr):
		respondError(w, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, services.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "cart is empty")
	default:
		logger.Error("request_failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
