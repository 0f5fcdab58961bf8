package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"payments-monitor/internal/models"
	"payments-monitor/internal/reconcile"
	"payments-monitor/pkg/utils"
)

// SiteStore is the managed site registry
type SiteStore interface {
	ListManagedSites(ctx context.Context) ([]models.ManagedSite, error)
	Upsert(ctx context.Context, site models.ManagedSite) error
	Delete(ctx context.Context, url string) error
}

// SiteHandler maintains the managed site registry. Every change drops the
// cached report because matching depends on the site list.
type SiteHandler struct {
	sites SiteStore
	cache CacheController
}

func NewSiteHandler(sites SiteStore, cache CacheController) *SiteHandler {
	return &SiteHandler{sites: sites, cache: cache}
}

func (h *SiteHandler) List(w http.ResponseWriter, r *http.Request) {
	sites, err := h.sites.ListManagedSites(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if sites == nil {
		sites = []models.ManagedSite{}
	}
	utils.JSON(w, http.StatusOK, sites)
}

func (h *SiteHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var site models.ManagedSite
	if err := utils.DecodeJSON(r, &site); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	site.URL = strings.TrimSpace(site.URL)
	site.Name = strings.TrimSpace(site.Name)
	if reconcile.ExtractDomain(site.URL) == "" {
		utils.Error(w, http.StatusBadRequest, "url must be an absolute URL with a host")
		return
	}

	if err := h.sites.Upsert(r.Context(), site); err != nil {
		writeServiceError(w, err)
		return
	}
	log.Printf("[Sites] Registered %s", site.URL)
	h.cache.InvalidateCache(r.Context())
	utils.JSON(w, http.StatusOK, site)
}

// Delete removes ?url=<site url> from the registry
func (h *SiteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		utils.Error(w, http.StatusBadRequest, "url is required")
		return
	}

	if err := h.sites.Delete(r.Context(), url); err != nil {
		writeServiceError(w, err)
		return
	}
	log.Printf("[Sites] Removed %s", url)
	h.cache.InvalidateCache(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
