package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gold-assistant-go/internal/config"
	"github.com/gold-assistant-go/internal/i18n"
	"github.com/gold-assistant-go/internal/middleware"
	"github.com/gold-assistant-go/internal/models"
	"github.com/gold-assistant-go/internal/responder"
	"github.com/gold-assistant-go/internal/services/cache"
	"github.com/gold-assistant-go/internal/services/price"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPriceSource struct {
	quote *models.PriceQuote
}

func (s *stubPriceSource) Name() string { return "stub" }

func (s *stubPriceSource) Fetch(ctx context.Context) (*models.PriceQuote, error) {
	return s.quote, nil
}

type stubSearch struct {
	results []models.SearchResult
	queries int
}

func (s *stubSearch) Fetch(ctx context.Context, query string) []models.SearchResult {
	s.queries++
	return s.results
}

type stubGenerative struct {
	available bool
}

func (s *stubGenerative) Available() bool { return s.available }

func (s *stubGenerative) Generate(ctx context.Context, prompt string) (string, error) {
	return "", nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testQuote() *models.PriceQuote {
	return &models.PriceQuote{
		CurrentPrice:  2000.00,
		Currency:      "USD",
		Unit:          "oz",
		Change24h:     12.35,
		ChangePercent: 0.61,
		High24h:       2025.80,
		Low24h:        1995.20,
		LastUpdated:   time.Now(),
		Source:        models.SourceGoldAPI,
	}
}

type testEnv struct {
	handler *Handler
	search  *stubSearch
	router  http.Handler
}

func newTestEnv(t *testing.T, quote *models.PriceQuote, rateCfg config.RateLimitConfig) *testEnv {
	t.Helper()
	log := testLogger()

	localizer, err := i18n.NewLocalizer(&config.I18nConfig{
		Directory:       "../../configs/i18n",
		DefaultLanguage: "en",
		Languages:       []string{"en"},
	})
	require.NoError(t, err)

	cacheService := cache.NewMemoryCache(&config.CacheConfig{TTL: time.Minute, MaxSize: 100}, log)
	genCfg := &config.GenerativeConfig{Policy: config.PolicyNoRuleMatch, MinMessageLength: 5}
	gen := &stubGenerative{available: false}
	metrics := middleware.NewMetrics()
	engine := responder.NewEngine(genCfg, cacheService, gen, localizer, metrics, log)

	searchService := &stubSearch{results: []models.SearchResult{
		{Title: "Gold hits record", Snippet: "Spot gold climbed", Link: "https://example.com/a"},
	}}

	handler := NewHandler(
		&config.Config{},
		price.NewChainWithSources(log, &stubPriceSource{quote: quote}),
		searchService,
		engine,
		cacheService,
		gen,
		middleware.NewRateLimiter(&rateCfg, log),
		metrics,
		localizer,
		log,
	)

	return &testEnv{handler: handler, search: searchService, router: handler.Router()}
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleChat_EmptyMessage(t *testing.T) {
	env := newTestEnv(t, testQuote(), config.RateLimitConfig{})

	rec := postJSON(t, env.router, "/chat", models.ChatRequest{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChat_OversizedMessage(t *testing.T) {
	env := newTestEnv(t, testQuote(), config.RateLimitConfig{})

	rec := postJSON(t, env.router, "/chat", models.ChatRequest{Message: strings.Repeat("a", 1001)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChat_PriceQuestion(t *testing.T) {
	env := newTestEnv(t, testQuote(), config.RateLimitConfig{})

	rec := postJSON(t, env.router, "/chat", models.ChatRequest{Message: "what is the current gold price?", UserID: "u1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, models.KindRuleBased, resp.ResponseType)
	assert.Contains(t, resp.Response, "$2000.00 per oz")
	require.NotNil(t, resp.GoldPriceData)
	assert.Equal(t, 2000.00, resp.GoldPriceData.CurrentPrice)
	assert.Empty(t, resp.Sources, "no news keyword, no search call")
	assert.Equal(t, 0, env.search.queries)
}

func TestHandleChat_NewsKeywordTriggersSearch(t *testing.T) {
	env := newTestEnv(t, testQuote(), config.RateLimitConfig{})

	rec := postJSON(t, env.router, "/chat", models.ChatRequest{Message: "any gold news today?", UserID: "u1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 1, env.search.queries)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "Gold hits record", resp.Sources[0].Title)
}

func TestHandleChat_RateLimited(t *testing.T) {
	env := newTestEnv(t, testQuote(), config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 1,
		Burst:             1,
	})

	req := models.ChatRequest{Message: "what is the current gold price?", UserID: "hasty"}
	rec := postJSON(t, env.router, "/chat", req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, env.router, "/chat", req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHandlePurchase_Bars(t *testing.T) {
	env := newTestEnv(t, testQuote(), config.RateLimitConfig{})

	rec := postJSON(t, env.router, "/purchase", models.PurchaseRequest{
		UserName:        "Buyer",
		Email:           "buyer@example.com",
		Phone:           "+100000000",
		GoldType:        "bars",
		Quantity:        1,
		DeliveryAddress: "1 Vault St",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.PurchaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.InDelta(t, 2060.00, resp.EstimatedCost, 0.001)
	assert.Equal(t, "https://www.mmtc-pamp.com/", resp.RedirectURL)
	assert.True(t, strings.HasPrefix(resp.PurchaseID, "GOLD_"))
	assert.Contains(t, resp.Message, "1 oz of bars")
}

func TestHandlePurchase_MissingFields(t *testing.T) {
	env := newTestEnv(t, testQuote(), config.RateLimitConfig{})

	rec := postJSON(t, env.router, "/purchase", models.PurchaseRequest{
		UserName: "Buyer",
		GoldType: "bars",
		Quantity: 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePurchase_NonPositiveQuantity(t *testing.T) {
	env := newTestEnv(t, testQuote(), config.RateLimitConfig{})

	rec := postJSON(t, env.router, "/purchase", models.PurchaseRequest{
		UserName:        "Buyer",
		Email:           "buyer@example.com",
		Phone:           "+100000000",
		GoldType:        "bars",
		Quantity:        0,
		DeliveryAddress: "1 Vault St",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGoldPrice(t *testing.T) {
	env := newTestEnv(t, testQuote(), config.RateLimitConfig{})

	req := httptest.NewRequest(http.MethodGet, "/gold-price", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var quote models.PriceQuote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, 2000.00, quote.CurrentPrice)
	assert.Equal(t, models.SourceGoldAPI, quote.Source)
}

func TestHandleGoldPrice_SynthesizedWhenSourceInvalid(t *testing.T) {
	// A source that yields an unusable quote degrades to the
	// synthesized fallback, never to an error.
	env := newTestEnv(t, &models.PriceQuote{CurrentPrice: -1}, config.RateLimitConfig{})

	req := httptest.NewRequest(http.MethodGet, "/gold-price", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var quote models.PriceQuote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, models.SourceSynthesized, quote.Source)
	assert.Greater(t, quote.CurrentPrice, 0.0)
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t, testQuote(), config.RateLimitConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Services["gold_price_api"])
	assert.Equal(t, "unavailable", resp.Services["generative_api"])
	assert.Equal(t, Version, resp.Version)
}
