package services

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const lotSetKey = "parking_lots"

// LotRegistry mirrors the registered parking lots into a Redis set so the
// entry path can cheaply recognize unknown lot identifiers. Registration
// is advisory: an unknown lot is still attached to the ticket.
type LotRegistry struct {
	Redis *redis.Client
}

func NewLotRegistry(redisClient *redis.Client) *LotRegistry {
	return &LotRegistry{Redis: redisClient}
}

// Known reports whether the lot id is registered. A nil registry or a
// lookup failure counts as known, keeping the attachment best effort.
func (r *LotRegistry) Known(ctx context.Context, lotID string) bool {
	if r == nil || r.Redis == nil {
		return true
	}

	ok, err := r.Redis.SIsMember(ctx, lotSetKey, lotID).Result()
	if err != nil {
		slog.Warn("parking lot lookup failed", "parkingLot", lotID, "error", err)
		return true
	}
	return ok
}

// Sync replaces the registry contents with the given lot ids.
func (r *LotRegistry) Sync(ctx context.Context, lotIDs []string) error {
	if err := r.Redis.Del(ctx, lotSetKey).Err(); err != nil {
		return err
	}
	if len(lotIDs) == 0 {
		return nil
	}

	members := make([]any, 0, len(lotIDs))
	for _, id := range lotIDs {
		members = append(members, id)
	}
	return r.Redis.SAdd(ctx, lotSetKey, members...).Err()
}
