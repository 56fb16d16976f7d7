package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/travhouse/communitybot/internal/domain/enums"
	"github.com/travhouse/communitybot/internal/domain/model"
	"github.com/travhouse/communitybot/internal/repo/serverapi"
)

type Source interface {
	Status(context.Context) (serverapi.StatusResponse, error)
	Players(context.Context) (serverapi.PlayersResponse, error)
	Performance(context.Context) (serverapi.PerformanceResponse, error)
}

type Cache interface {
	Store(context.Context, model.StatusSnapshot, time.Duration) error
	Load(context.Context) (model.StatusSnapshot, error)
}

type Service struct {
	source       Source
	cache        Cache
	fetchTimeout time.Duration
	cacheTTL     time.Duration
	logger       *zap.Logger
}

func NewService(source Source, cache Cache, fetchTimeout, cacheTTL time.Duration, logger *zap.Logger) *Service {
	if fetchTimeout <= 0 {
		fetchTimeout = 3 * time.Second
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:       source,
		cache:        cache,
		fetchTimeout: fetchTimeout,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// CurrentStatus always returns a well-formed snapshot. A failed or
// timed-out primary fetch falls back to the last-known-good cached
// snapshot, then to a fixed default; the caller never sees an error.
func (s *Service) CurrentStatus(ctx context.Context) model.StatusSnapshot {
	if s.source != nil {
		snapshot, err := s.fetchFresh(ctx)
		if err == nil {
			if s.cache != nil {
				if storeErr := s.cache.Store(ctx, snapshot, s.cacheTTL); storeErr != nil {
					s.logger.Warn("store status snapshot", zap.Error(storeErr))
				}
			}
			return snapshot
		}
		s.logger.Warn("status source fetch failed, using fallback", zap.Error(err))
	}

	if s.cache != nil {
		cached, err := s.cache.Load(ctx)
		if err == nil {
			cached.Stale = true
			return cached
		}
		if !errors.Is(err, context.Canceled) {
			s.logger.Debug("status cache miss", zap.Error(err))
		}
	}

	return DefaultSnapshot()
}

func (s *Service) fetchFresh(ctx context.Context) (model.StatusSnapshot, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	st, err := s.source.Status(fetchCtx)
	if err != nil {
		return model.StatusSnapshot{}, fmt.Errorf("fetch status: %w", err)
	}

	players, err := s.source.Players(fetchCtx)
	if err != nil {
		return model.StatusSnapshot{}, fmt.Errorf("fetch players: %w", err)
	}

	perf, err := s.source.Performance(fetchCtx)
	if err != nil {
		return model.StatusSnapshot{}, fmt.Errorf("fetch performance: %w", err)
	}

	playerNames := players.Players
	if playerNames == nil {
		playerNames = []string{}
	}

	return model.StatusSnapshot{
		Online:      players.Online,
		MaxPlayers:  players.Max,
		Players:     playerNames,
		Version:     st.Version,
		Uptime:      FormatUptime(st.Uptime),
		TPS:         perf.TPS,
		Performance: ClassifyPerformance(perf.TPS),
		FetchedAt:   time.Now().UTC(),
	}, nil
}

// ClassifyPerformance maps a tick rate onto fixed tiers. Pure function
// of the rate, no hidden state.
func ClassifyPerformance(tps float64) enums.Performance {
	switch {
	case tps >= 19.0:
		return enums.PerformanceHigh
	case tps >= 15.0:
		return enums.PerformanceMedium
	default:
		return enums.PerformanceLow
	}
}

func FormatUptime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	if days > 0 {
		return fmt.Sprintf("%d дн. %d ч.", days, hours)
	}
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%d ч. %d мин.", hours, minutes)
}

// DefaultSnapshot is the fixed last-resort snapshot when neither the
// live source nor the cache can serve.
func DefaultSnapshot() model.StatusSnapshot {
	return model.StatusSnapshot{
		Online:      0,
		MaxPlayers:  20,
		Players:     []string{},
		Version:     "1.20.1",
		Uptime:      "0 ч. 0 мин.",
		TPS:         20.0,
		Performance: enums.PerformanceHigh,
		Stale:       true,
		FetchedAt:   time.Now().UTC(),
	}
}
