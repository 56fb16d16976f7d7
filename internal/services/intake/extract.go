package intake

import (
	"errors"
	"strconv"
	"strings"

	"github.com/travhouse/communitybot/internal/domain/model"
)

// ErrNotAnApplication marks text that does not carry the submission
// sentinel. It is a routing decision, not a failure.
var ErrNotAnApplication = errors.New("message is not a membership application")

const submissionSentinel = "Новая анкета с TravHouse!"

const (
	FieldName     = "name"
	FieldNickname = "nickname"
	FieldAge      = "age"
	FieldTelegram = "telegram"
)

type fieldLabel struct {
	label string
	field string
}

// Label order matches the site's submission template. Lines may arrive
// in any order; matching is per line.
var fieldLabels = []fieldLabel{
	{label: "Имя:", field: FieldName},
	{label: "Никнейм:", field: FieldNickname},
	{label: "Возраст:", field: FieldAge},
	{label: "Telegram:", field: FieldTelegram},
	{label: "Часовой пояс:", field: "timezone"},
	{label: "Платформа:", field: "platform"},
}

var requiredFields = []string{FieldName, FieldNickname, FieldAge, FieldTelegram}

// Extract parses a raw submission into an application record with
// per-field presence. Fields that fail to parse stay empty and are
// listed in Missing; the record is never dropped for gaps.
func Extract(text string) (model.Application, error) {
	if !strings.Contains(text, submissionSentinel) {
		return model.Application{}, ErrNotAnApplication
	}

	values := map[string]string{}
	for _, line := range strings.Split(text, "\n") {
		for _, fl := range fieldLabels {
			idx := strings.Index(line, fl.label)
			if idx < 0 {
				continue
			}
			value := strings.TrimSpace(line[idx+len(fl.label):])
			if value != "" {
				values[fl.field] = value
			}
			break
		}
	}

	app := model.Application{
		Name:       values[FieldName],
		Nickname:   values[FieldNickname],
		Telegram:   values[FieldTelegram],
		Timezone:   values["timezone"],
		Platform:   values["platform"],
		SourceText: text,
	}

	if raw, ok := values[FieldAge]; ok {
		if age, err := strconv.Atoi(raw); err == nil {
			app.Age = age
		} else {
			delete(values, FieldAge)
		}
	}

	for _, field := range requiredFields {
		if _, ok := values[field]; !ok {
			app.Missing = append(app.Missing, field)
		}
	}

	return app, nil
}
