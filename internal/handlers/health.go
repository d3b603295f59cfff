package handlers

import (
	"net/http"
	"time"

	"github.com/gold-assistant-go/internal/models"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	CacheSize int               `json:"cache_size"`
	Version   string            `json:"version"`
}

// HandleHealth serves GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	priceStatus := "healthy"
	if quote := h.priceChain.Fetch(ctx); quote.Source == models.SourceSynthesized {
		priceStatus = "degraded"
	}

	generativeStatus := "unavailable"
	if h.generative.Available() {
		generativeStatus = "available"
	}

	h.writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Services: map[string]string{
			"gold_price_api": priceStatus,
			"generative_api": generativeStatus,
		},
		CacheSize: h.cache.Size(ctx),
		Version:   Version,
	})
}
