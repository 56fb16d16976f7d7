package ui

import (
	"fmt"
	"strings"

	"github.com/travhouse/communitybot/internal/domain/enums"
	"github.com/travhouse/communitybot/internal/domain/model"
)

func WelcomeMessage(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "игрок"
	}
	lines := []string{
		"🎮 Добро пожаловать в TravHouse!",
		"",
		fmt.Sprintf("Привет, %s! 👋", name),
		"",
		"Это официальный бот Minecraft сервера TravHouse.",
		"Здесь ты можешь:",
		"",
		"📊 Узнать статистику сервера",
		"👥 Посмотреть онлайн игроков",
		"📋 Прочитать правила",
		"🌍 Получить IP сервера",
		"📝 Подать заявку на вступление",
	}
	return strings.Join(lines, "\n")
}

var serverRules = []string{
	"🤝 Уважайте других игроков",
	"🏗️ Не ломайте чужие постройки",
	"⚡ Не используйте читы и модификации",
	"💬 Общайтесь вежливо в чате",
	"🆘 Помогайте новичкам",
	"🎯 Не спамьте и не флудьте",
	"🎮 Получайте удовольствие от игры!",
}

func RulesMessage() string {
	lines := []string{"📋 Правила сервера TravHouse", ""}
	for i, rule := range serverRules {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, rule))
	}
	lines = append(lines, "", "❗ Нарушение правил ведет к бану!")
	return strings.Join(lines, "\n")
}

func ServerIPMessage() string {
	return strings.Join([]string{
		"🌍 Подключение к серверу TravHouse",
		"",
		"Bedrock Edition:",
		"📱 IP: bedrock.travhouse.ru",
		"🔢 Порт: 19132",
		"",
		"Java Edition:",
		"💻 IP: java.travhouse.ru",
		"🔢 Порт: 25565",
		"",
		"⚠️ Для входа нужно пройти whitelist!",
	}, "\n")
}

func HelpMessage() string {
	return strings.Join([]string{
		"ℹ️ Помощь по боту TravHouse",
		"",
		"Основные команды:",
		"/start - Главное меню",
		"/stats - Статистика сервера",
		"/players - Игроки онлайн",
		"/rules - Правила сервера",
		"/ip - IP для подключения",
		"/help - Эта справка",
		"",
		"Для админов:",
		"/admin - Панель заявок",
	}, "\n")
}

func StatsMessage(snapshot model.StatusSnapshot) string {
	lines := []string{
		"📊 Статистика сервера TravHouse",
		"",
		fmt.Sprintf("👥 Игроки: %d/%d", snapshot.Online, snapshot.MaxPlayers),
		fmt.Sprintf("📦 Версия: %s", snapshot.Version),
		fmt.Sprintf("⏰ Время работы: %s", snapshot.Uptime),
		fmt.Sprintf("⚡ TPS: %.1f/20.0", snapshot.TPS),
		fmt.Sprintf("⚡ Производительность: %s", performanceLabel(snapshot.Performance)),
	}
	if snapshot.Stale {
		lines = append(lines, "", "🔄 Данные могли устареть")
	}
	return strings.Join(lines, "\n")
}

func PlayersMessage(snapshot model.StatusSnapshot) string {
	if snapshot.Online == 0 || len(snapshot.Players) == 0 {
		return strings.Join([]string{
			"👥 Игроки онлайн",
			"",
			"😴 Никого нет онлайн",
			"",
			"Сервер пустой, самое время зайти первым!",
		}, "\n")
	}

	lines := []string{
		fmt.Sprintf("👥 Игроки онлайн (%d/%d)", snapshot.Online, snapshot.MaxPlayers),
		"",
	}
	for i, player := range snapshot.Players {
		lines = append(lines, fmt.Sprintf("%d. 🎮 %s", i+1, player))
	}
	return strings.Join(lines, "\n")
}

func AdminSummaryMessage(counts model.ApplicationCounts) string {
	return strings.Join([]string{
		"⚙️ Панель заявок TravHouse",
		"",
		fmt.Sprintf("🟡 Ожидают: %d", counts.Pending),
		fmt.Sprintf("✅ Одобрены: %d", counts.Approved),
		fmt.Sprintf("❌ Отклонены: %d", counts.Rejected),
		fmt.Sprintf("Всего: %d", counts.Total),
	}, "\n")
}

// BroadcastStubMessage mirrors the panel's broadcast screen. Delivery
// itself is not implemented.
func BroadcastStubMessage() string {
	return strings.Join([]string{
		"📢 Рассылка сообщений",
		"",
		"🚧 Раздел в разработке...",
	}, "\n")
}

func NoAccessMessage() string {
	return "❌ У вас нет прав администратора!"
}

func performanceLabel(p enums.Performance) string {
	switch p {
	case enums.PerformanceHigh:
		return "Отличная"
	case enums.PerformanceMedium:
		return "Средняя"
	default:
		return "Низкая"
	}
}
