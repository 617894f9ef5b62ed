package bot

import (
	"context"
	"fmt"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	carRepo "avtorent/database/repository/car"
	categoryRepo "avtorent/database/repository/category"
	"avtorent/services/storage"
	"avtorent/services/workflow"
)

// Bot is the Telegram admin surface. It translates updates into workflow
// events and renders replies; all fleet semantics live in the services.
type Bot struct {
	api        *tgbotapi.BotAPI
	admins     map[int64]bool
	flow       *workflow.Workflow
	cars       carRepo.CarRepository
	categories categoryRepo.CategoryRepository
	photos     storage.PhotoStore
	logger     *zap.Logger
	tempDir    string
}

// New connects to the Telegram API and wires the admin bot.
func New(token string, adminIDs []int64, flow *workflow.Workflow, cars carRepo.CarRepository, categories categoryRepo.CategoryRepository, photos storage.PhotoStore, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:        api,
		admins:     admins,
		flow:       flow,
		cars:       cars,
		categories: categories,
		photos:     photos,
		logger:     logger,
		tempDir:    os.TempDir(),
	}, nil
}

// Run consumes the update long-poll until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	b.logger.Info("telegram bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	adminID := msg.From.ID
	if !b.admins[adminID] {
		b.send(msg.Chat.ID, "Access denied.")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	replies, err := b.flow.HandleEvent(ctx, adminID, workflow.Event{
		Type: workflow.EventText,
		Text: msg.Text,
	})
	if err != nil {
		b.logger.Error("workflow event failed", zap.Int64("adminID", adminID), zap.Error(err))
	}
	b.render(msg.Chat.ID, 0, replies)
}

// handlePhoto downloads the largest rendition to a temp file, hands it to the
// workflow and removes the file afterwards. Storage keeps its own copy.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	adminID := msg.From.ID
	largest := msg.Photo[len(msg.Photo)-1]

	path, err := b.downloadPhoto(largest.FileID)
	if err != nil {
		b.logger.Error("photo download failed", zap.Int64("adminID", adminID), zap.Error(err))
		b.send(msg.Chat.ID, "Failed to receive the photo. Please try again.")
		return
	}
	defer os.Remove(path)

	replies, err := b.flow.HandleEvent(ctx, adminID, workflow.Event{
		Type:      workflow.EventPhoto,
		PhotoPath: path,
	})
	if err != nil {
		b.logger.Error("workflow photo event failed", zap.Int64("adminID", adminID), zap.Error(err))
	}
	b.render(msg.Chat.ID, 0, replies)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	adminID := cb.From.ID
	// Always acknowledge so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn("callback ack failed", zap.Error(err))
	}
	if !b.admins[adminID] || cb.Message == nil {
		return
	}

	replies, err := b.flow.HandleEvent(ctx, adminID, workflow.Event{
		Type:   workflow.EventSelect,
		Choice: cb.Data,
	})
	if err != nil {
		b.logger.Error("workflow select event failed", zap.Int64("adminID", adminID), zap.Error(err))
	}
	b.render(cb.Message.Chat.ID, cb.Message.MessageID, replies)
}

// render sends the workflow replies. A reply flagged Edit replaces the
// keyboard message it answered (messageID); everything else is a new message.
func (b *Bot) render(chatID int64, messageID int, replies []workflow.Reply) {
	for _, r := range replies {
		if r.Edit && messageID != 0 {
			edit := tgbotapi.NewEditMessageText(chatID, messageID, r.Text)
			if _, err := b.api.Send(edit); err != nil {
				b.logger.Warn("message edit failed", zap.Error(err))
				b.send(chatID, r.Text)
			}
			continue
		}

		msg := tgbotapi.NewMessage(chatID, r.Text)
		if len(r.Choices) > 0 {
			msg.ReplyMarkup = choiceKeyboard(r.Choices)
		}
		if _, err := b.api.Send(msg); err != nil {
			b.logger.Warn("message send failed", zap.Error(err))
		}
	}
}

func choiceKeyboard(choices []workflow.Choice) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, c := range choices {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Label, c.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) send(chatID int64, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn("message send failed", zap.Error(err))
	}
}
