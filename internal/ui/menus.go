package ui

import "github.com/travhouse/communitybot/internal/infra/telegram"

const (
	CallbackMainMenu  = "menu:main"
	CallbackStats     = "menu:stats"
	CallbackPlayers   = "menu:players"
	CallbackRules     = "menu:rules"
	CallbackHelp      = "menu:help"
	CallbackAdmin     = "menu:admin"
	CallbackBroadcast = "menu:broadcast"
)

const applyURL = "https://travhouse.ru"

func MainMenu() [][]telegram.InlineButton {
	return [][]telegram.InlineButton{
		{
			{Text: "📊 Статистика", Data: CallbackStats},
			{Text: "📋 Правила", Data: CallbackRules},
		},
		{
			{Text: "📝 Подать заявку", URL: applyURL},
			{Text: "👥 Игроки", Data: CallbackPlayers},
		},
		{
			{Text: "ℹ️ Помощь", Data: CallbackHelp},
		},
	}
}

func BackToMainMenu() [][]telegram.InlineButton {
	return [][]telegram.InlineButton{
		{{Text: "⬅️ Главное меню", Data: CallbackMainMenu}},
	}
}

func StatsMenu() [][]telegram.InlineButton {
	return [][]telegram.InlineButton{
		{
			{Text: "🔄 Обновить", Data: CallbackStats},
			{Text: "👥 Кто онлайн", Data: CallbackPlayers},
		},
		{{Text: "⬅️ Главное меню", Data: CallbackMainMenu}},
	}
}

func PlayersMenu() [][]telegram.InlineButton {
	return [][]telegram.InlineButton{
		{
			{Text: "🔄 Обновить", Data: CallbackPlayers},
			{Text: "📊 Статистика", Data: CallbackStats},
		},
		{{Text: "⬅️ Главное меню", Data: CallbackMainMenu}},
	}
}

func AdminMenu() [][]telegram.InlineButton {
	return [][]telegram.InlineButton{
		{{Text: "📢 Рассылка", Data: CallbackBroadcast}},
		{{Text: "⬅️ Главное меню", Data: CallbackMainMenu}},
	}
}

func BackToAdminMenu() [][]telegram.InlineButton {
	return [][]telegram.InlineButton{
		{{Text: "⬅️ Панель заявок", Data: CallbackAdmin}},
	}
}

// ReviewMenu builds the decision controls attached to a review prompt,
// scoped to one application id.
func ReviewMenu(applicationID string) [][]telegram.InlineButton {
	return [][]telegram.InlineButton{
		{
			{Text: "✅ Одобрить", Data: "app:approve:" + applicationID},
			{Text: "❌ Отклонить", Data: "app:reject:" + applicationID},
		},
		{
			{Text: "📝 Запросить доп. инфо", Data: "app:info:" + applicationID},
			{Text: "👤 Профиль", Data: "app:profile:" + applicationID},
		},
	}
}
