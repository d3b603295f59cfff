package responder

import (
	"context"
	"strings"
	"time"

	"github.com/gold-assistant-go/internal/config"
	"github.com/gold-assistant-go/internal/i18n"
	"github.com/gold-assistant-go/internal/middleware"
	"github.com/gold-assistant-go/internal/models"
	"github.com/gold-assistant-go/internal/services/cache"
	"github.com/gold-assistant-go/internal/services/generative"
	"github.com/sirupsen/logrus"
)

// Generated-response validation bounds. Anything outside them, or
// anything that echoes the start of the input, is discarded.
const (
	generatedMinLength = 50
	generatedMaxLength = 1500
	echoPrefixLength   = 20
)

// Engine decides how to answer a chat message: a cached prior answer, a
// rule-based template, a validated generative completion, or a contextual
// default, in that order. Decide is total: it always returns text.
type Engine struct {
	cache      cache.Service
	generative generative.Service
	localizer  *i18n.Localizer
	metrics    *middleware.Metrics
	policy     config.GenerativePolicy
	minMsgLen  int
	logger     *logrus.Logger
}

// NewEngine creates the decision engine
func NewEngine(
	cfg *config.GenerativeConfig,
	cacheService cache.Service,
	generativeService generative.Service,
	localizer *i18n.Localizer,
	metrics *middleware.Metrics,
	logger *logrus.Logger,
) *Engine {
	return &Engine{
		cache:      cacheService,
		generative: generativeService,
		localizer:  localizer,
		metrics:    metrics,
		policy:     cfg.Policy,
		minMsgLen:  cfg.MinMessageLength,
		logger:     logger,
	}
}

// Decide produces the response text for a message. The quote may be nil
// when every price provider failed upstream of a degraded chain.
func (e *Engine) Decide(ctx context.Context, message string, quote *models.PriceQuote, userID string) (string, models.ResponseKind) {
	if cached, ok := e.cache.Lookup(ctx, message, userID); ok {
		e.metrics.RecordCacheHit()
		return cached, models.KindCached
	}
	e.metrics.RecordCacheMiss()

	lower := strings.ToLower(strings.TrimSpace(message))
	lang := e.localizer.DefaultLanguage()

	var (
		response string
		kind     models.ResponseKind
	)

	category, matched := Classify(lower)
	if matched {
		response = e.templateFor(lang, category, quote)
		kind = models.KindRuleBased
		e.logger.WithFields(logrus.Fields{
			"category": category.String(),
			"user_id":  userID,
		}).Debug("Rule-based response selected")
	}

	if e.shouldAttemptGenerative(matched, message) {
		if generated, ok := e.tryGenerative(ctx, message, lower, quote); ok {
			response = generated
			kind = models.KindGenerative
		}
	}

	if response == "" {
		response = e.contextualFallback(lang, message, lower)
		kind = models.KindFallback
	}

	if err := e.cache.Store(ctx, message, userID, response); err != nil {
		e.logger.WithError(err).Warn("Failed to cache response")
	}

	return response, kind
}

// shouldAttemptGenerative applies the configured call policy: under
// no_rule_match the backend is consulted only when no keyword rule
// matched; under always it is consulted on every request.
func (e *Engine) shouldAttemptGenerative(ruleMatched bool, message string) bool {
	if !e.generative.Available() {
		return false
	}
	if len(message) <= e.minMsgLen {
		return false
	}
	if e.policy == config.PolicyAlways {
		return true
	}
	return !ruleMatched
}

func (e *Engine) tryGenerative(ctx context.Context, message, lower string, quote *models.PriceQuote) (string, bool) {
	prompt := generative.BuildPrompt(message, quote)

	start := time.Now()
	generated, err := e.generative.Generate(ctx, prompt)
	if err != nil {
		e.metrics.RecordGenerativeRequest("error", time.Since(start))
		e.logger.WithError(err).Warn("Generative call failed, falling through")
		return "", false
	}

	if !validGenerated(generated, lower) {
		e.metrics.RecordGenerativeRequest("rejected", time.Since(start))
		e.logger.WithField("length", len(generated)).Warn("Generative response rejected by validation")
		return "", false
	}

	e.metrics.RecordGenerativeRequest("success", time.Since(start))
	return generated, true
}

// validGenerated rejects empty, out-of-bounds, or near-echo completions.
func validGenerated(generated, lowerInput string) bool {
	trimmed := strings.TrimSpace(generated)
	if len(trimmed) <= generatedMinLength || len(trimmed) >= generatedMaxLength {
		return false
	}

	prefix := lowerInput
	if len(prefix) > echoPrefixLength {
		prefix = prefix[:echoPrefixLength]
	}
	if prefix != "" && strings.HasPrefix(strings.ToLower(trimmed), prefix) {
		return false
	}
	return true
}

func (e *Engine) templateFor(lang string, category Category, quote *models.PriceQuote) string {
	switch category {
	case CategoryPrice:
		if quote == nil {
			return e.localizer.Get(lang, i18n.MsgPriceFallback, nil)
		}
		return e.localizer.Get(lang, i18n.MsgPriceResponse, priceTemplateData(quote))
	case CategoryInvestment:
		return e.localizer.Get(lang, i18n.MsgInvestmentAdvice, nil)
	case CategoryPurity:
		return e.localizer.Get(lang, i18n.MsgPurityGuide, nil)
	case CategoryMarket:
		return e.localizer.Get(lang, i18n.MsgMarketAnalysis, nil)
	case CategoryGreeting:
		return e.localizer.Get(lang, i18n.MsgGreeting, nil)
	case CategoryHelp:
		return e.localizer.Get(lang, i18n.MsgHelp, nil)
	default:
		return ""
	}
}

func (e *Engine) contextualFallback(lang, message, lower string) string {
	for _, token := range []string{"thank", "thanks"} {
		if strings.Contains(lower, token) {
			return e.localizer.Get(lang, i18n.MsgFallbackThanks, nil)
		}
	}
	for _, token := range []string{"good", "great", "excellent"} {
		if strings.Contains(lower, token) {
			return e.localizer.Get(lang, i18n.MsgFallbackPraise, nil)
		}
	}
	if len(strings.Fields(message)) < 3 {
		return e.localizer.Get(lang, i18n.MsgFallbackShort, nil)
	}
	return e.localizer.Get(lang, i18n.MsgFallbackGeneric, nil)
}
