package model

import (
	"time"

	"github.com/travhouse/communitybot/internal/domain/enums"
)

type Application struct {
	ID         string
	Name       string
	Nickname   string
	Age        int
	Telegram   string
	Timezone   string
	Platform   string
	SourceText string
	Missing    []string
	Status     enums.ApplicationStatus
	CreatedAt  time.Time
	DecidedBy  *int64
	DecidedAt  *time.Time
}

// Delivery records the message a reviewer received for an application,
// keyed by the reviewer's Telegram id. Absent rows mean delivery failed.
type Delivery struct {
	ApplicationID string
	ReviewerTGID  int64
	ChatID        int64
	MessageID     int
	DeliveredAt   time.Time
}

type ApplicationCounts struct {
	Total    int64
	Pending  int64
	Approved int64
	Rejected int64
}
