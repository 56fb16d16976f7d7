package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/travhouse/communitybot/internal/domain/model"
	"github.com/travhouse/communitybot/internal/infra/telegram"
	"github.com/travhouse/communitybot/internal/ui"
)

// TelegramMessenger renders review prompts into Telegram messages.
// Direct reviewer chats share the reviewer's Telegram ID as the chat ID.
type TelegramMessenger struct {
	tg *telegram.Client
}

func NewTelegramMessenger(tg *telegram.Client) *TelegramMessenger {
	return &TelegramMessenger{tg: tg}
}

func (m *TelegramMessenger) SendReviewPrompt(_ context.Context, reviewerTGID int64, app model.Application) (model.Delivery, error) {
	msg := tgbotapi.NewMessage(reviewerTGID, ui.RenderApplicationCard(app))
	msg.ReplyMarkup = telegram.BuildInlineKeyboard(ui.ReviewMenu(app.ID))

	sent, err := m.tg.Send(msg)
	if err != nil {
		return model.Delivery{}, err
	}

	return model.Delivery{ChatID: reviewerTGID, MessageID: sent.MessageID}, nil
}

// UpdateReviewMessage replaces the prompt text with the verdict. The edit
// carries no reply markup, so the decision buttons disappear with it.
func (m *TelegramMessenger) UpdateReviewMessage(_ context.Context, delivery model.Delivery, app model.Application) error {
	edit := tgbotapi.NewEditMessageText(delivery.ChatID, delivery.MessageID, ui.RenderOutcome(app))
	_, err := m.tg.Send(edit)
	return err
}
