package model

import (
	"time"

	"github.com/travhouse/communitybot/internal/domain/enums"
)

// StatusSnapshot is a complete read of the game server's state at one
// point in time. It is never mutated, only replaced.
type StatusSnapshot struct {
	Online      int
	MaxPlayers  int
	Players     []string
	Version     string
	Uptime      string
	TPS         float64
	Performance enums.Performance
	Stale       bool
	FetchedAt   time.Time
}
