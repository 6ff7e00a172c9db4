package cache

import (
	"context"
	"encoding/json"
	"time"

	"rentfleet/internal/db"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const vehicleListKey = "vehicles:all"

// VehicleCache keeps the full vehicle list in Redis for a short TTL.
// All methods are safe on a nil receiver, so callers can wire it optionally.
type VehicleCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewVehicleCache(addr, password string, ttl time.Duration, log zerolog.Logger) *VehicleCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &VehicleCache{client: client, ttl: ttl, log: log}
}

// Get returns the cached vehicle list, or ok=false on a miss or any error.
func (c *VehicleCache) Get() ([]*db.Vehicle, bool) {
	if c == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	data, err := c.client.Get(ctx, vehicleListKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("vehicle cache read failed")
		}
		return nil, false
	}
	var vehicles []*db.Vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		c.log.Warn().Err(err).Msg("vehicle cache payload corrupt")
		return nil, false
	}
	return vehicles, true
}

// Set stores the vehicle list. Failures are logged, never surfaced.
func (c *VehicleCache) Set(vehicles []*db.Vehicle) {
	if c == nil {
		return
	}
	data, err := json.Marshal(vehicles)
	if err != nil {
		c.log.Warn().Err(err).Msg("vehicle cache marshal failed")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.client.Set(ctx, vehicleListKey, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("vehicle cache write failed")
	}
}

// Invalidate drops the cached list after a vehicle write.
func (c *VehicleCache) Invalidate() {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.client.Del(ctx, vehicleListKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("vehicle cache invalidate failed")
	}
}

func (c *VehicleCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
