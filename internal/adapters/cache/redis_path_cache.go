// Package cache stores precomputed flight paths in Redis.
package cache

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "flightpath:"

// wirePoint is the serialized waypoint shape: an ordered list of {lat, lng}
// pairs. Altitude is not persisted; it is fixed and re-applied on load.
type wirePoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RedisPathCache implements ports.PathCache. Stored paths keep their hover
// repetitions, so a replayed path must never have hovers re-appended.
type RedisPathCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPathCache builds a cache. A non-positive ttl stores paths without
// expiry.
func NewRedisPathCache(client *redis.Client, ttl time.Duration) *RedisPathCache {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisPathCache{client: client, ttl: ttl}
}

func (c *RedisPathCache) Get(ctx context.Context, orderNumber string) (domain.FlightPath, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+orderNumber).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("path cache get %s: %w", orderNumber, err)
	}

	var points []wirePoint
	if err := json.Unmarshal([]byte(raw), &points); err != nil {
		return nil, false, fmt.Errorf("path cache decode %s: %w", orderNumber, err)
	}

	positions := make([]geo.Position, 0, len(points))
	for _, p := range points {
		positions = append(positions, geo.Position{Lng: p.Lng, Lat: p.Lat})
	}
	return domain.NewFlightPath(positions), true, nil
}

func (c *RedisPathCache) Put(ctx context.Context, orderNumber string, path domain.FlightPath) error {
	points := make([]wirePoint, 0, len(path))
	for _, wp := range path {
		points = append(points, wirePoint{Lat: wp.Position.Lat, Lng: wp.Position.Lng})
	}

	raw, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("path cache encode %s: %w", orderNumber, err)
	}
	if err := c.client.Set(ctx, keyPrefix+orderNumber, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("path cache put %s: %w", orderNumber, err)
	}
	return nil
}
