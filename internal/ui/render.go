package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/travhouse/communitybot/internal/domain/enums"
	"github.com/travhouse/communitybot/internal/domain/model"
)

// RenderApplicationCard reproduces every extracted field verbatim so
// reviewers see exactly what the applicant submitted.
func RenderApplicationCard(app model.Application) string {
	lines := []string{
		"🎮 Новая анкета с TravHouse!",
		"",
		"Имя: " + app.Name,
		"Никнейм: " + app.Nickname,
		"Возраст: " + renderAge(app.Age, app.Missing),
		"Telegram: " + app.Telegram,
	}
	if strings.TrimSpace(app.Timezone) != "" {
		lines = append(lines, "Часовой пояс: "+app.Timezone)
	}
	if strings.TrimSpace(app.Platform) != "" {
		lines = append(lines, "Платформа: "+app.Platform)
	}
	if len(app.Missing) > 0 {
		lines = append(lines, "", "⚠️ Не заполнено: "+strings.Join(missingLabels(app.Missing), ", "))
	}
	lines = append(lines, "", "⏰ Подана: "+app.CreatedAt.Format("02.01.2006 15:04"))
	return strings.Join(lines, "\n")
}

func RenderOutcome(app model.Application) string {
	card := RenderApplicationCard(app)

	var verdict string
	switch app.Status {
	case enums.StatusApproved:
		verdict = "✅ Заявка одобрена"
	case enums.StatusRejected:
		verdict = "❌ Заявка отклонена"
	default:
		verdict = "🟡 Заявка ожидает решения"
	}

	lines := []string{card, "", verdict}
	if app.DecidedBy != nil {
		lines = append(lines, "Решение принял: "+deciderLabel(*app.DecidedBy))
	}
	if app.DecidedAt != nil {
		lines = append(lines, "Время решения: "+app.DecidedAt.Format("02.01.2006 15:04"))
	}
	return strings.Join(lines, "\n")
}

func RenderConflict(app model.Application) string {
	decider := "другой администратор"
	if app.DecidedBy != nil {
		decider = deciderLabel(*app.DecidedBy)
	}
	return fmt.Sprintf("⚠️ Эта заявка уже решена (%s). Решение принял: %s",
		statusLabel(app.Status), decider)
}

func deciderLabel(tgID int64) string {
	if tgID == 0 {
		return "админ-панель"
	}
	return strconv.FormatInt(tgID, 10)
}

func RenderRequestInfo(app model.Application) string {
	contact := strings.TrimSpace(app.Telegram)
	if contact == "" {
		contact = "не указан"
	}
	return strings.Join([]string{
		"📝 Запрос дополнительной информации",
		"",
		fmt.Sprintf("Свяжитесь с заявителем: %s", contact),
		"Статус заявки не изменён.",
	}, "\n")
}

func renderAge(age int, missing []string) string {
	for _, field := range missing {
		if field == "age" {
			return ""
		}
	}
	return strconv.Itoa(age)
}

func missingLabels(missing []string) []string {
	labels := make([]string, 0, len(missing))
	for _, field := range missing {
		switch field {
		case "name":
			labels = append(labels, "имя")
		case "nickname":
			labels = append(labels, "никнейм")
		case "age":
			labels = append(labels, "возраст")
		case "telegram":
			labels = append(labels, "telegram")
		default:
			labels = append(labels, field)
		}
	}
	return labels
}

func statusLabel(status enums.ApplicationStatus) string {
	switch status {
	case enums.StatusApproved:
		return "одобрена"
	case enums.StatusRejected:
		return "отклонена"
	default:
		return "в ожидании"
	}
}
