package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/xaenox/commute-alert-bot/internal/models"
	"github.com/xaenox/commute-alert-bot/internal/schedule"
	"github.com/xaenox/commute-alert-bot/internal/storage"
)

// Thresholds shown by /settings. The classifier owns the live values; the
// bot only renders them.
type Thresholds struct {
	UrgentMins int
	MinorMins  int
}

type Bot struct {
	api        *tgbotapi.BotAPI
	storage    storage.Storage
	logger     *zap.Logger
	thresholds Thresholds
	loc        *time.Location
}

func New(token string, store storage.Storage, thresholds Thresholds, loc *time.Location, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:        api,
		storage:    store,
		logger:     logger,
		thresholds: thresholds,
		loc:        loc,
	}, nil
}

// Start polls for updates until ctx is canceled. Each message is handled on
// its own goroutine; the store lock serializes the mutations.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("bot polling started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot polling stopped")
			return nil
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			go b.handleMessage(update.Message)
		}
	}
}

// SendText delivers one queued message. This makes Bot satisfy queue.Sender.
func (b *Bot) SendText(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(message)
		return
	}
	if message.Location != nil {
		b.handleLocation(message)
		return
	}
	b.handleText(message)
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "status":
		b.handleStatus(message)
	case "settings":
		b.handleSettings(message)
	case "help":
		b.handleHelp(message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

// handleStart resets the chat to the beginning of onboarding and discards
// any scheduled windows so the old schedule stops firing immediately.
func (b *Bot) handleStart(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	b.storage.CreateProfile(chatID)
	b.storage.DeleteWindows(chatID)

	b.sendMessage(chatID, "Welcome to Traffic Alert Bot! 🚗\n\n"+
		"Let's set up your daily commute schedule.\n\n"+
		"When will you start to office? (Please enter time in HH:MM format, 24-hour)")
}

func (b *Bot) handleText(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if _, ok := b.storage.GetProfile(chatID); !ok {
		b.sendMessage(chatID, "Please use /start to begin setup.")
		return
	}

	var reply string
	err := b.storage.UpdateProfile(chatID, func(p *models.UserProfile) {
		reply, _ = applyTimeInput(p, message.Text)
	})
	if err != nil {
		b.logger.Error("failed to update profile", zap.Error(err), zap.Int64("chat_id", chatID))
		b.sendErrorMessage(chatID, "Sorry, something went wrong. Please try /start again.")
		return
	}

	msg := tgbotapi.NewMessage(chatID, reply)
	if updated, ok := b.storage.GetProfile(chatID); ok && updated.State == models.StateAwaitingHomeLocation {
		// The accepted home time moves the dialogue to location capture.
		msg.ReplyMarkup = locationKeyboard("📍 Share Home Location")
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) handleLocation(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	lat, lon := message.Location.Latitude, message.Location.Longitude

	if _, ok := b.storage.GetProfile(chatID); !ok {
		b.sendMessage(chatID, "Please use /start to begin setup.")
		return
	}

	var (
		reply     string
		completed bool
	)
	err := b.storage.UpdateProfile(chatID, func(p *models.UserProfile) {
		reply, _, completed = applyLocationInput(p, lat, lon)
	})
	if err != nil {
		b.logger.Error("failed to update profile", zap.Error(err), zap.Int64("chat_id", chatID))
		b.sendErrorMessage(chatID, "Sorry, something went wrong. Please try /start again.")
		return
	}

	if completed {
		// Seed both legs' windows; the scheduler picks them up next tick.
		if profile, ok := b.storage.GetProfile(chatID); ok {
			now := time.Now().In(b.loc)
			b.storage.PutWindows(chatID, schedule.InitialWindows(profile, now))
			b.logger.Info("commute monitoring activated", zap.Int64("chat_id", chatID))
		}
		b.sendMessage(chatID, reply)
		return
	}

	msg := tgbotapi.NewMessage(chatID, reply)
	if updated, ok := b.storage.GetProfile(chatID); ok && updated.State == models.StateAwaitingOfficeLocation {
		msg.ReplyMarkup = locationKeyboard("📍 Share Office Location")
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) handleStatus(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	profile, ok := b.storage.GetProfile(chatID)
	if !ok || profile.State != models.StateComplete {
		b.sendMessage(chatID, "❌ Setup not complete. Please use /start to configure your commute.")
		return
	}

	text := fmt.Sprintf("📊 Traffic Bot Status\n\n"+
		"📋 Your Schedule:\n"+
		"🏠➡️🏢 Office departure: %s\n"+
		"🏢➡️🏠 Home departure: %s\n\n"+
		"📍 Locations configured: ✅\n"+
		"🤖 Monitoring active: ✅\n\n"+
		"ℹ️ You'll receive updates:\n"+
		"• 30 min before office time (until 30 min after)\n"+
		"• 60 min before home time (until 30 min after)\n"+
		"• Every 2 minutes during active periods",
		profile.OfficeDeparture, profile.HomeDeparture)
	b.sendMessage(chatID, text)
}

func (b *Bot) handleSettings(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	profile, ok := b.storage.GetProfile(chatID)
	if !ok || profile.State != models.StateComplete {
		b.sendMessage(chatID, "❌ Setup not complete. Please use /start to configure your commute.")
		return
	}

	urgent, minor := b.thresholds.UrgentMins, b.thresholds.MinorMins
	text := fmt.Sprintf("⚙️ Traffic Alert Settings\n\n"+
		"🚨 Urgent Alert Threshold: %d minutes\n"+
		"⚠️ Minor Alert Threshold: %d minutes\n\n"+
		"📊 Current thresholds:\n"+
		"• ≥%d mins: 🚨 Urgent alert with 'leave early' advice\n"+
		"• %d-%d mins: ⚠️ Minor delay notification\n"+
		"• <%d mins: ✅ All clear message\n\n"+
		"💡 Contact admin to adjust thresholds if needed.",
		urgent, minor, urgent, minor, urgent-1, minor)
	b.sendMessage(chatID, text)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	b.sendMessage(message.Chat.ID, "Available commands:\n"+
		"/start - Set up or reset your commute schedule\n"+
		"/status - Show your schedule and monitoring state\n"+
		"/settings - Show alert thresholds\n"+
		"/help - Show this help message")
}

func locationKeyboard(label string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonLocation(label)),
	)
	kb.OneTimeKeyboard = true
	return kb
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
