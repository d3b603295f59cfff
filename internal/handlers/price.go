package handlers

import (
	"net/http"
)

// HandleGoldPrice serves GET /gold-price
func (h *Handler) HandleGoldPrice(w http.ResponseWriter, r *http.Request) {
	quote := h.priceChain.Fetch(r.Context())
	if quote == nil {
		// The chain is total, but the contract of this endpoint is
		// guarded independently of that.
		h.writeError(w, http.StatusServiceUnavailable, "Gold price service temporarily unavailable")
		return
	}

	h.metrics.RecordPriceFetch(string(quote.Source))
	h.writeJSON(w, http.StatusOK, quote)
}
