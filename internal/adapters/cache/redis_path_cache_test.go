package cache

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T, ttl time.Duration) (*RedisPathCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisPathCache(client, ttl), mr
}

func samplePath() domain.FlightPath {
	return domain.NewFlightPath([]geo.Position{
		{Lng: -3.192000, Lat: 55.946000},
		{Lng: -3.191850, Lat: 55.946000},
		{Lng: -3.191700, Lat: 55.946000},
		{Lng: -3.191700, Lat: 55.946000}, // hover repetition
	})
}

func TestPathCacheRoundTrip(t *testing.T) {
	c, _ := testCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "ORD-1234", samplePath()))

	path, ok, err := c.Get(ctx, "ORD-1234")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, path, 4)
	assert.Equal(t, samplePath(), path, "waypoint order and hover repetitions survive the round trip")
}

func TestPathCacheMiss(t *testing.T) {
	c, _ := testCache(t, time.Hour)

	path, ok, err := c.Get(context.Background(), "ORD-MISSING")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, path)
}

func TestPathCacheWireFormat(t *testing.T) {
	c, mr := testCache(t, time.Hour)
	require.NoError(t, c.Put(context.Background(), "ORD-WIRE", samplePath()))

	raw, err := mr.Get("flightpath:ORD-WIRE")
	require.NoError(t, err)

	var points []map[string]float64
	require.NoError(t, json.Unmarshal([]byte(raw), &points))
	require.Len(t, points, 4)
	assert.Equal(t, 55.946, points[0]["lat"])
	assert.Equal(t, -3.192, points[0]["lng"])
	assert.Len(t, points[0], 2, "only lat and lng are persisted")
}

func TestPathCacheExpiry(t *testing.T) {
	c, mr := testCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "ORD-TTL", samplePath()))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "ORD-TTL")
	require.NoError(t, err)
	assert.False(t, ok)
}
