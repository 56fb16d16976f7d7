package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/travhouse/communitybot/internal/domain/enums"
	"github.com/travhouse/communitybot/internal/domain/model"
)

const statusSnapshotKey = "status:last_known_good"

var ErrSnapshotNotCached = errors.New("status snapshot is not cached")

type StatusCacheRepo struct {
	client *goredis.Client
}

func NewStatusCacheRepo(client *goredis.Client) *StatusCacheRepo {
	return &StatusCacheRepo{client: client}
}

// Store replaces the last-known-good snapshot. The key TTL is the
// staleness bound: an expired entry is treated as never cached.
func (r *StatusCacheRepo) Store(ctx context.Context, snapshot model.StatusSnapshot, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if ttl <= 0 {
		return fmt.Errorf("invalid snapshot ttl")
	}

	fields := map[string]interface{}{
		"online":      snapshot.Online,
		"max_players": snapshot.MaxPlayers,
		"players":     strings.Join(snapshot.Players, "\n"),
		"version":     snapshot.Version,
		"uptime":      snapshot.Uptime,
		"tps":         strconv.FormatFloat(snapshot.TPS, 'f', 1, 64),
		"performance": string(snapshot.Performance),
		"fetched_at":  snapshot.FetchedAt.Unix(),
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, statusSnapshotKey, fields)
	pipe.Expire(ctx, statusSnapshotKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store status snapshot: %w", err)
	}

	return nil
}

func (r *StatusCacheRepo) Load(ctx context.Context) (model.StatusSnapshot, error) {
	if r.client == nil {
		return model.StatusSnapshot{}, fmt.Errorf("redis client is nil")
	}

	values, err := r.client.HGetAll(ctx, statusSnapshotKey).Result()
	if err != nil {
		return model.StatusSnapshot{}, fmt.Errorf("load status snapshot: %w", err)
	}
	if len(values) == 0 {
		return model.StatusSnapshot{}, ErrSnapshotNotCached
	}

	return parseSnapshot(values)
}

func parseSnapshot(values map[string]string) (model.StatusSnapshot, error) {
	online, err := strconv.Atoi(values["online"])
	if err != nil {
		return model.StatusSnapshot{}, fmt.Errorf("parse cached online count: %w", err)
	}
	maxPlayers, err := strconv.Atoi(values["max_players"])
	if err != nil {
		return model.StatusSnapshot{}, fmt.Errorf("parse cached max players: %w", err)
	}
	tps, err := strconv.ParseFloat(values["tps"], 64)
	if err != nil {
		return model.StatusSnapshot{}, fmt.Errorf("parse cached tps: %w", err)
	}
	fetchedUnix, err := strconv.ParseInt(values["fetched_at"], 10, 64)
	if err != nil {
		return model.StatusSnapshot{}, fmt.Errorf("parse cached fetched_at: %w", err)
	}

	players := []string{}
	if raw := strings.TrimSpace(values["players"]); raw != "" {
		players = strings.Split(raw, "\n")
	}

	return model.StatusSnapshot{
		Online:      online,
		MaxPlayers:  maxPlayers,
		Players:     players,
		Version:     values["version"],
		Uptime:      values["uptime"],
		TPS:         tps,
		Performance: enums.Performance(values["performance"]),
		FetchedAt:   time.Unix(fetchedUnix, 0).UTC(),
	}, nil
}
