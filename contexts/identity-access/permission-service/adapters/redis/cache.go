package redisadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"atlas/contexts/identity-access/permission-service/domain/entities"

	"github.com/go-redis/redis/v8"
)

// DecisionCache keeps evaluated access decisions in Redis so repeated checks
// skip candidate loading. Keys embed the tenant id, which makes tenant-wide
// invalidation a key scan by prefix.
type DecisionCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewDecisionCache(client *redis.Client, logger *slog.Logger) *DecisionCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecisionCache{
		client: client,
		logger: logger,
	}
}

func (c *DecisionCache) Get(ctx context.Context, key string, _ time.Time) (entities.AccessDecision, bool, error) {
	payload, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return entities.AccessDecision{}, false, nil
		}
		return entities.AccessDecision{}, false, err
	}

	var decision entities.AccessDecision
	if err := json.Unmarshal([]byte(payload), &decision); err != nil {
		// Treat a corrupted entry as a miss and drop it.
		c.logger.Warn("permission decision cache entry corrupted",
			"event", "permission_decision_cache_corrupted",
			"module", "identity-access/permission-service",
			"layer", "adapter",
			"key", key,
			"error", err.Error(),
		)
		_ = c.client.Del(ctx, key).Err()
		return entities.AccessDecision{}, false, nil
	}
	return decision, true, nil
}

func (c *DecisionCache) Set(ctx context.Context, key string, decision entities.AccessDecision, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(decision)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func (c *DecisionCache) InvalidateTenant(ctx context.Context, tenantID string) error {
	pattern := "permission_decision:" + strings.TrimSpace(tenantID) + ":*"
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
