package telegram

import (
	"context"

	"invest-tracker/config"
	"invest-tracker/pkg/logger"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// Notifier is a sink for formatted text messages. Delivery is best-effort,
// callers are expected to log and swallow errors.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// RateLimitedNotifier posts messages to a single Telegram chat, pacing
// requests to stay under the Bot API flood limits.
type RateLimitedNotifier struct {
	cfg     *config.TelegramConfig
	log     *logger.Logger
	bot     *telebot.Bot
	limiter *rate.Limiter
}

func NewRateLimitedNotifier(cfg *config.TelegramConfig, log *logger.Logger, bot *telebot.Bot) *RateLimitedNotifier {
	return &RateLimitedNotifier{
		cfg:     cfg,
		log:     log,
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(cfg.MaxRequestPerSecond), cfg.MaxRequestPerSecond),
	}
}

func (t *RateLimitedNotifier) Send(ctx context.Context, message string) error {
	if message == "" {
		return nil
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := t.bot.Send(&telebot.Chat{ID: t.cfg.ChatID}, message, &telebot.SendOptions{
		ParseMode:             telebot.ModeMarkdown,
		DisableWebPagePreview: true,
	})
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to send telegram message", logger.ErrorField(err))
		return err
	}
	return nil
}
