package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gold-assistant-go/internal/config"
	"github.com/gold-assistant-go/internal/i18n"
	"github.com/gold-assistant-go/internal/middleware"
	"github.com/gold-assistant-go/internal/models"
	"github.com/gold-assistant-go/internal/responder"
	"github.com/gold-assistant-go/internal/services/cache"
	"github.com/gold-assistant-go/internal/services/generative"
	"github.com/gold-assistant-go/internal/services/price"
	"github.com/gold-assistant-go/internal/services/search"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Version reported by the health endpoint.
const Version = "1.2.0"

// Handler holds the HTTP endpoint dependencies
type Handler struct {
	config      *config.Config
	priceChain  *price.Chain
	search      search.Service
	engine      *responder.Engine
	cache       cache.Service
	generative  generative.Service
	rateLimiter middleware.RateLimiter
	metrics     *middleware.Metrics
	localizer   *i18n.Localizer
	logger      *logrus.Logger
}

// NewHandler creates the endpoint handler
func NewHandler(
	cfg *config.Config,
	priceChain *price.Chain,
	searchService search.Service,
	engine *responder.Engine,
	cacheService cache.Service,
	generativeService generative.Service,
	rateLimiter middleware.RateLimiter,
	metrics *middleware.Metrics,
	localizer *i18n.Localizer,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		config:      cfg,
		priceChain:  priceChain,
		search:      searchService,
		engine:      engine,
		cache:       cacheService,
		generative:  generativeService,
		rateLimiter: rateLimiter,
		metrics:     metrics,
		localizer:   localizer,
		logger:      logger,
	}
}

// Router builds the API router with instrumentation and panic recovery.
func (h *Handler) Router() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/chat", h.HandleChat).Methods(http.MethodPost)
	router.HandleFunc("/purchase", h.HandlePurchase).Methods(http.MethodPost)
	router.HandleFunc("/gold-price", h.HandleGoldPrice).Methods(http.MethodGet)
	router.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)
	router.Use(h.recoverMiddleware)
	return h.metrics.Instrument(router)
}

// recoverMiddleware converts panics into a generic 500 without leaking
// internal detail to the client.
func (h *Handler) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.WithField("panic", rec).Error("Unexpected error in endpoint")
				h.writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, models.ErrorResponse{Detail: detail})
}
