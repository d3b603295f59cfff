package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gold-assistant-go/internal/config"
	"github.com/gold-assistant-go/internal/middleware"
	"github.com/gold-assistant-go/internal/responder"
	"github.com/gold-assistant-go/internal/services/price"
	"github.com/gold-assistant-go/internal/services/search"
	"github.com/gold-assistant-go/pkg/markdown"
	"github.com/sirupsen/logrus"
)

// Bot is an optional Telegram front end over the same decision engine
// the HTTP API uses. It long-polls for messages and answers each one the
// way /chat would.
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	priceChain  *price.Chain
	search      search.Service
	engine      *responder.Engine
	rateLimiter middleware.RateLimiter
	logger      *logrus.Logger
}

// NewBot creates the Telegram transport
func NewBot(
	cfg *config.TelegramConfig,
	priceChain *price.Chain,
	searchService search.Service,
	engine *responder.Engine,
	rateLimiter middleware.RateLimiter,
	logger *logrus.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	logger.WithField("username", api.Self.UserName).Info("Telegram bot authorized")

	return &Bot{
		api:         api,
		cfg:         cfg,
		priceChain:  priceChain,
		search:      searchService,
		engine:      engine,
		rateLimiter: rateLimiter,
		logger:      logger,
	}, nil
}

// Run consumes updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			if update.Message.From != nil && update.Message.From.ID == b.api.Self.ID {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	userID := strconv.FormatInt(msg.From.ID, 10)
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if !b.rateLimiter.Allow(userID) {
		return
	}

	quote := b.priceChain.Fetch(ctx)

	// The news lookup keeps parity with the HTTP chat endpoint, even
	// though Telegram replies don't surface the article list.
	lower := strings.ToLower(text)
	for _, trigger := range []string{"news", "latest", "recent", "today"} {
		if strings.Contains(lower, trigger) {
			b.search.Fetch(ctx, text)
			break
		}
	}

	response, kind := b.engine.Decide(ctx, text, quote, userID)

	reply := tgbotapi.NewMessage(msg.Chat.ID, markdown.ToTelegramHTML(response))
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyToMessageID = msg.MessageID

	if _, err := b.api.Send(reply); err != nil {
		b.logger.WithError(err).Error("Failed to send Telegram reply")
		return
	}

	b.logger.WithFields(logrus.Fields{
		"chat_id": msg.Chat.ID,
		"user_id": userID,
		"kind":    kind,
		"source":  quote.Source,
	}).Debug("Telegram message answered")
}
