//go:build integration

package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Domenick1991/airreserve/config"
	"github.com/Domenick1991/airreserve/internal/domain"
)

func startRedis(t *testing.T) *RedisCache {
	t.Helper()
	ctx := context.Background()

	container, err := redis.RunContainer(ctx, testcontainers.WithImage("docker.io/redis:7"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, container.Terminate(context.Background()))
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client := NewRedisClient(config.RedisConfig{Addr: strings.TrimPrefix(uri, "redis://")})
	t.Cleanup(func() { client.Close() })

	c := NewRedisCache(client, time.Minute)
	require.NoError(t, c.Ping(ctx))
	return c
}

func TestRedisCache_Flight(t *testing.T) {
	ctx := context.Background()
	c := startRedis(t)

	missing, err := c.GetFlight(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)

	flight := &domain.Flight{
		ID:             42,
		Airline:        "IndiGo",
		Origin:         "DEL",
		Destination:    "BOM",
		DepartureTime:  domain.NewTimeOfDay(9, 30),
		ArrivalTime:    domain.NewTimeOfDay(11, 45),
		PriceCents:     450000,
		AvailableSeats: 17,
	}
	require.NoError(t, c.SetFlight(ctx, flight))

	cached, err := c.GetFlight(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, flight.DepartureTime, cached.DepartureTime)
	assert.Zero(t, cached.AvailableSeats, "seat counts change per booking and are never cached")
	assert.Equal(t, 17, flight.AvailableSeats)

	ttl, err := c.client.TTL(ctx, flightKey(42)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedisCache_Airports(t *testing.T) {
	ctx := context.Background()
	c := startRedis(t)

	missing, err := c.GetAirports(ctx)
	require.NoError(t, err)
	assert.Nil(t, missing)

	airports := []domain.Airport{{ID: "DEL", Name: "Indira Gandhi International", City: "Delhi"}}
	require.NoError(t, c.SetAirports(ctx, airports))

	cached, err := c.GetAirports(ctx)
	require.NoError(t, err)
	assert.Equal(t, airports, cached)
}
