package i18n

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/gold-assistant-go/internal/config"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Localizer manages the reply template bundles
type Localizer struct {
	bundle          *i18n.Bundle
	defaultLanguage string
	localizers      map[string]*i18n.Localizer
}

// NewLocalizer creates a new localizer
func NewLocalizer(cfg *config.I18nConfig) (*Localizer, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, lang := range cfg.Languages {
		path := filepath.Join(cfg.Directory, fmt.Sprintf("%s.json", lang))
		if _, err := bundle.LoadMessageFile(path); err != nil {
			return nil, fmt.Errorf("failed to load language file %s: %w", path, err)
		}
	}

	localizers := make(map[string]*i18n.Localizer)
	for _, lang := range cfg.Languages {
		localizers[lang] = i18n.NewLocalizer(bundle, lang)
	}

	return &Localizer{
		bundle:          bundle,
		defaultLanguage: cfg.DefaultLanguage,
		localizers:      localizers,
	}, nil
}

// Get returns localized message
func (l *Localizer) Get(lang, messageID string, data map[string]interface{}) string {
	localizer, exists := l.localizers[lang]
	if !exists {
		localizer = l.localizers[l.defaultLanguage]
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID // Fallback to message ID
	}

	return msg
}

// DefaultLanguage returns the configured default language tag.
func (l *Localizer) DefaultLanguage() string {
	return l.defaultLanguage
}

// Message IDs
const (
	MsgPriceResponse     = "price_response"
	MsgPriceFallback     = "price_fallback"
	MsgInvestmentAdvice  = "investment_advice"
	MsgPurityGuide       = "purity_guide"
	MsgMarketAnalysis    = "market_analysis"
	MsgGreeting          = "greeting"
	MsgHelp              = "help"
	MsgFallbackThanks    = "fallback_thanks"
	MsgFallbackPraise    = "fallback_praise"
	MsgFallbackShort     = "fallback_short"
	MsgFallbackGeneric   = "fallback_generic"
	MsgPurchaseInitiated = "purchase_initiated"
	MsgChatError         = "chat_error"
	MsgRateLimitExceeded = "rate_limit_exceeded"
)
