package handlers

import (
	"errors"
	"log"
	"net/http"

	"payments-monitor/internal/reconcile"
	"payments-monitor/internal/services"
	"payments-monitor/pkg/utils"
)

// missingSecretMessage is shown to operators before any Stripe call is made
const missingSecretMessage = "Please set your Stripe secret key first."

// writeServiceError maps service failures onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reconcile.ErrMissingSecret):
		utils.Error(w, http.StatusPreconditionFailed, missingSecretMessage)
	case errors.Is(err, services.ErrInvalidRequest):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case reconcile.IsFetchError(err):
		log.Printf("[HTTP] Report rebuild failed: %v", err)
		utils.Error(w, http.StatusBadGateway, "Error: "+err.Error())
	default:
		log.Printf("[HTTP] Request failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
