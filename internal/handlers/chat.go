package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gold-assistant-go/internal/i18n"
	"github.com/gold-assistant-go/internal/models"
	"github.com/sirupsen/logrus"
)

const maxMessageLength = 1000

// Recency keywords that trigger a news lookup for the request.
var searchTriggers = []string{"news", "latest", "recent", "today"}

// HandleChat serves POST /chat
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		h.writeError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}
	if len(req.Message) > maxMessageLength {
		h.writeError(w, http.StatusBadRequest, "Message is too long (max 1000 characters)")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}

	if !h.rateLimiter.Allow(userID) {
		h.metrics.RecordRateLimitExceeded(userID)
		h.writeError(w, http.StatusTooManyRequests, h.localizer.Get(h.localizer.DefaultLanguage(), i18n.MsgRateLimitExceeded, nil))
		return
	}

	ctx := r.Context()
	start := time.Now()

	quote := h.priceChain.Fetch(ctx)
	h.metrics.RecordPriceFetch(string(quote.Source))

	var sources []models.SearchResult
	lower := strings.ToLower(message)
	for _, trigger := range searchTriggers {
		if strings.Contains(lower, trigger) {
			sources = h.search.Fetch(ctx, message)
			break
		}
	}

	response, kind := h.engine.Decide(ctx, message, quote, userID)
	h.metrics.RecordResponseKind(string(kind))
	h.metrics.SetCacheSize(float64(h.cache.Size(ctx)))

	h.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"kind":     kind,
		"elapsed":  time.Since(start),
		"source":   quote.Source,
		"articles": len(sources),
	}).Info("Chat request processed")

	h.writeJSON(w, http.StatusOK, models.ChatResponse{
		Response:      response,
		GoldPriceData: quote,
		Sources:       sources,
		Timestamp:     time.Now().Format(time.RFC3339),
		ResponseType:  kind,
	})
}
