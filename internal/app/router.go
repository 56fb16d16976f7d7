package app

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/travhouse/communitybot/internal/domain/enums"
	"github.com/travhouse/communitybot/internal/infra/telegram"
	"github.com/travhouse/communitybot/internal/services/intake"
	"github.com/travhouse/communitybot/internal/services/review"
	"github.com/travhouse/communitybot/internal/ui"
)

const (
	callbackPrefixMenu        = "menu"
	callbackPrefixApplication = "app"
)

func (a *App) routeUpdate(ctx context.Context, update tgbotapi.Update) {
	// Each update is handled on its own goroutine so a slow decision or
	// status fetch never blocks unrelated events arriving behind it.
	go func() {
		if update.Message != nil {
			a.routeMessage(ctx, update.Message)
		}

		if update.CallbackQuery != nil {
			a.handleCallback(ctx, update.CallbackQuery)
		}
	}()
}

func (a *App) routeMessage(ctx context.Context, message *tgbotapi.Message) {
	if message == nil {
		return
	}

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			a.handleStart(message)
		case "stats":
			a.sendInline(message.Chat.ID, ui.StatsMessage(a.statusService.CurrentStatus(ctx)), ui.StatsMenu())
		case "players":
			a.sendInline(message.Chat.ID, ui.PlayersMessage(a.statusService.CurrentStatus(ctx)), ui.PlayersMenu())
		case "rules":
			a.sendInline(message.Chat.ID, ui.RulesMessage(), ui.BackToMainMenu())
		case "ip":
			a.sendInline(message.Chat.ID, ui.ServerIPMessage(), ui.BackToMainMenu())
		case "help":
			a.sendInline(message.Chat.ID, ui.HelpMessage(), ui.BackToMainMenu())
		case "admin":
			a.handleAdmin(ctx, message)
		default:
			a.sendText(message.Chat.ID, "Неизвестная команда. Используйте /help")
		}
		return
	}

	a.handleSubmission(ctx, message)
}

func (a *App) handleStart(message *tgbotapi.Message) {
	firstName := ""
	if message.From != nil {
		firstName = message.From.FirstName
	}
	a.sendInline(message.Chat.ID, ui.WelcomeMessage(firstName), ui.MainMenu())
}

func (a *App) handleAdmin(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || !a.directory.IsReviewer(message.From.ID) {
		a.sendText(message.Chat.ID, ui.NoAccessMessage())
		return
	}

	counts, err := a.applicationRepo.Counts(ctx)
	if err != nil {
		a.logger.Warn("load application counts", zap.Error(err), zap.Int64("tg_id", message.From.ID))
		a.sendText(message.Chat.ID, "Не удалось загрузить статистику заявок")
		return
	}

	a.sendInline(message.Chat.ID, ui.AdminSummaryMessage(counts), ui.AdminMenu())
}

// handleSubmission runs every non-command text through intake. Ordinary
// chatter is not an application and is silently ignored.
func (a *App) handleSubmission(ctx context.Context, message *tgbotapi.Message) {
	app, err := a.intakeService.Ingest(ctx, message.Text)
	if errors.Is(err, intake.ErrNotAnApplication) {
		return
	}
	if err != nil {
		a.logger.Warn("ingest application", zap.Error(err), zap.Int64("chat_id", message.Chat.ID))
		return
	}

	a.logger.Info("application accepted",
		zap.String("application_id", app.ID),
		zap.String("nickname", app.Nickname),
		zap.Int("missing_fields", len(app.Missing)),
	)

	outcomes := a.notifyService.Dispatch(ctx, app)
	delivered := 0
	for _, outcome := range outcomes {
		if outcome.Delivered {
			delivered++
		}
	}
	a.logger.Info("review prompts dispatched",
		zap.String("application_id", app.ID),
		zap.Int("delivered", delivered),
		zap.Int("reviewers", len(outcomes)),
	)
}

func (a *App) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query == nil || query.From == nil {
		return
	}

	chatID, messageID, ok := callbackOrigin(query)
	if !ok {
		a.answerCallback(query.ID, "", false)
		return
	}

	ackText := ""
	ackAlert := false
	defer func() { a.answerCallback(query.ID, ackText, ackAlert) }()

	parts := strings.Split(query.Data, ":")
	if len(parts) < 2 {
		return
	}

	switch parts[0] {
	case callbackPrefixMenu:
		a.handleMenuCallback(ctx, chatID, messageID, query, parts)
	case callbackPrefixApplication:
		ackText, ackAlert = a.handleApplicationCallback(ctx, chatID, query, parts)
	}
}

func (a *App) handleMenuCallback(ctx context.Context, chatID int64, messageID int, query *tgbotapi.CallbackQuery, parts []string) {
	switch parts[1] {
	case "main":
		a.editInline(chatID, messageID, ui.WelcomeMessage(query.From.FirstName), ui.MainMenu())
	case "stats":
		a.editInline(chatID, messageID, ui.StatsMessage(a.statusService.CurrentStatus(ctx)), ui.StatsMenu())
	case "players":
		a.editInline(chatID, messageID, ui.PlayersMessage(a.statusService.CurrentStatus(ctx)), ui.PlayersMenu())
	case "rules":
		a.editInline(chatID, messageID, ui.RulesMessage(), ui.BackToMainMenu())
	case "help":
		a.editInline(chatID, messageID, ui.HelpMessage(), ui.BackToMainMenu())
	case "admin":
		if !a.directory.IsReviewer(query.From.ID) {
			a.editInline(chatID, messageID, ui.NoAccessMessage(), ui.BackToMainMenu())
			return
		}
		counts, err := a.applicationRepo.Counts(ctx)
		if err != nil {
			a.logger.Warn("load application counts", zap.Error(err), zap.Int64("tg_id", query.From.ID))
			return
		}
		a.editInline(chatID, messageID, ui.AdminSummaryMessage(counts), ui.AdminMenu())
	case "broadcast":
		if !a.directory.IsReviewer(query.From.ID) {
			a.editInline(chatID, messageID, ui.NoAccessMessage(), ui.BackToMainMenu())
			return
		}
		a.editInline(chatID, messageID, ui.BroadcastStubMessage(), ui.BackToAdminMenu())
	}
}

func (a *App) handleApplicationCallback(ctx context.Context, chatID int64, query *tgbotapi.CallbackQuery, parts []string) (string, bool) {
	if len(parts) < 3 {
		return "", false
	}
	applicationID := parts[2]

	switch parts[1] {
	case "approve":
		return a.decide(ctx, chatID, query.From.ID, applicationID, enums.DecisionApprove)
	case "reject":
		return a.decide(ctx, chatID, query.From.ID, applicationID, enums.DecisionReject)
	case "info":
		app, err := a.reviewService.RequestInfo(ctx, query.From.ID, applicationID)
		if text, alert, handled := reviewErrorAck(err); handled {
			return text, alert
		}
		if err != nil {
			a.logger.Warn("request info", zap.Error(err), zap.String("application_id", applicationID))
			return "Не удалось загрузить заявку", true
		}
		a.sendText(chatID, ui.RenderRequestInfo(app))
		return "Свяжитесь с кандидатом напрямую", false
	case "profile":
		app, err := a.reviewService.View(ctx, query.From.ID, applicationID)
		if text, alert, handled := reviewErrorAck(err); handled {
			return text, alert
		}
		if err != nil {
			a.logger.Warn("view application", zap.Error(err), zap.String("application_id", applicationID))
			return "Не удалось загрузить заявку", true
		}
		a.sendText(chatID, ui.RenderApplicationCard(app))
		return "", false
	default:
		return "", false
	}
}

func (a *App) decide(ctx context.Context, chatID, actorTGID int64, applicationID string, decision enums.Decision) (string, bool) {
	result, err := a.reviewService.Decide(ctx, review.DecideInput{
		ActorTGID:     actorTGID,
		ApplicationID: applicationID,
		Decision:      decision,
	})
	if text, alert, handled := reviewErrorAck(err); handled {
		return text, alert
	}
	if err != nil {
		a.logger.Warn("decide application",
			zap.Error(err),
			zap.String("application_id", applicationID),
			zap.Int64("tg_id", actorTGID),
		)
		return "Не удалось обработать решение", true
	}

	if result.Conflict {
		a.sendText(chatID, ui.RenderConflict(result.Application))
		return "Заявка уже рассмотрена", true
	}

	if decision == enums.DecisionApprove {
		return "Заявка одобрена ✅", false
	}
	return "Заявка отклонена ❌", false
}

func reviewErrorAck(err error) (string, bool, bool) {
	switch {
	case errors.Is(err, review.ErrUnauthorized):
		return "Нет доступа", true, true
	case errors.Is(err, review.ErrApplicationNotFound):
		return "Заявка не найдена", true, true
	default:
		return "", false, false
	}
}

func (a *App) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := a.tg.Send(msg); err != nil {
		a.logger.Error("send message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (a *App) sendInline(chatID int64, text string, rows [][]telegram.InlineButton) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = telegram.BuildInlineKeyboard(rows)
	if _, err := a.tg.Send(msg); err != nil {
		a.logger.Error("send inline message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (a *App) editInline(chatID int64, messageID int, text string, rows [][]telegram.InlineButton) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, telegram.BuildInlineKeyboard(rows))
	if _, err := a.tg.Send(edit); err != nil {
		a.logger.Warn("edit inline message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (a *App) answerCallback(callbackID, text string, alert bool) {
	callback := tgbotapi.NewCallback(callbackID, text)
	callback.ShowAlert = alert
	if err := a.tg.Request(callback); err != nil {
		a.logger.Warn("answer callback", zap.Error(err))
	}
}

func callbackOrigin(query *tgbotapi.CallbackQuery) (int64, int, bool) {
	if query == nil || query.Message == nil {
		return 0, 0, false
	}
	return query.Message.Chat.ID, query.Message.MessageID, true
}
