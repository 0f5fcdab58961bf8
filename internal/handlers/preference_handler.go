package handlers

import (
	"context"
	"net/http"

	"payments-monitor/internal/models"
	"payments-monitor/pkg/utils"
)

// PreferenceEditor applies dashboard actions and settings changes
type PreferenceEditor interface {
	Apply(ctx context.Context, req *models.ActionRequest) error
	SaveSecret(ctx context.Context, secret string) error
	ClearCacheAndIgnoreLists(ctx context.Context) error
}

type PreferenceHandler struct {
	editor PreferenceEditor
}

func NewPreferenceHandler(editor PreferenceEditor) *PreferenceHandler {
	return &PreferenceHandler{editor: editor}
}

// ApplyAction handles unlink, ignore, mapping and the other dashboard actions
func (h *PreferenceHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	var req models.ActionRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.editor.Apply(r.Context(), &req); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok", "action": req.Action})
}

// SaveSecret stores the Stripe secret key
func (h *PreferenceHandler) SaveSecret(w http.ResponseWriter, r *http.Request) {
	var req models.SaveSecretRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.editor.SaveSecret(r.Context(), req.SecretKey); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearLists drops the cache, ignore lists and notes
func (h *PreferenceHandler) ClearLists(w http.ResponseWriter, r *http.Request) {
	if err := h.editor.ClearCacheAndIgnoreLists(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
