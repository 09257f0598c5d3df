// Package cache provides the digest pipeline's typed JSON cache entries on
// top of pkg/cache.RedisCache, namespacing weather and geolocation lookups
// under a common "digest:" key prefix.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"worker_server/internal/digest/port"
	"worker_server/pkg/cache"
	"worker_server/pkg/crypto"
)

// WeatherEntry is the JSON shape stored for one weather cache hit.
type WeatherEntry struct {
	Temp      int    `json:"temp"`
	Condition string `json:"condition"`
}

// WeatherCache namespaces weather lookups with a 30-minute TTL.
type WeatherCache struct {
	redis *cache.RedisCache
	ttl   time.Duration
}

func NewWeatherCache(redis *cache.RedisCache) *WeatherCache {
	return &WeatherCache{redis: redis, ttl: 30 * time.Minute}
}

func (c *WeatherCache) key(city, region string) string {
	k := "digest:weather:" + strings.ToLower(city)
	if region != "" {
		k += ":" + strings.ToLower(region)
	}
	return k
}

// Get returns a cached entry, or ok=false on a miss or when no Redis
// client is configured.
func (c *WeatherCache) Get(ctx context.Context, city, region string) (WeatherEntry, bool) {
	if c.redis == nil {
		return WeatherEntry{}, false
	}
	var entry WeatherEntry
	found, err := c.redis.GetJSON(ctx, c.key(city, region), &entry)
	if err != nil || !found {
		return WeatherEntry{}, false
	}
	return entry, true
}

func (c *WeatherCache) Set(ctx context.Context, city, region string, entry WeatherEntry) {
	if c.redis == nil {
		return
	}
	_ = c.redis.SetJSON(ctx, c.key(city, region), entry, c.ttl)
}

// GeoCache namespaces the IP geolocation lookup with separate success and
// fallback TTLs, matching location_service.py's distinction between a
// resolved location and the hardcoded fallback.
type GeoCache struct {
	redis       *cache.RedisCache
	successTTL  time.Duration
	fallbackTTL time.Duration
}

func NewGeoCache(redis *cache.RedisCache) *GeoCache {
	return &GeoCache{redis: redis, successTTL: time.Hour, fallbackTTL: 5 * time.Minute}
}

const geoCacheKey = "digest:geolocation"

// Get/Set go through the plain string Get/Set rather than GetJSON/SetJSON
// so the serialized payload can be encrypted at rest with pkg/crypto before
// it reaches Redis: a process's resolved IP geolocation is the one piece of
// data this service caches that says something about where the server (and
// by extension its operator) physically is, so it gets the same
// AES-256-GCM treatment sensitive persisted fields get elsewhere in this
// codebase.
func (c *GeoCache) Get(ctx context.Context) (port.GeoInfo, bool) {
	if c.redis == nil {
		return port.GeoInfo{}, false
	}
	encrypted, err := c.redis.Get(ctx, geoCacheKey)
	if err != nil {
		return port.GeoInfo{}, false
	}
	plaintext, err := crypto.Decrypt(encrypted)
	if err != nil {
		return port.GeoInfo{}, false
	}
	var info port.GeoInfo
	if err := json.Unmarshal([]byte(plaintext), &info); err != nil {
		return port.GeoInfo{}, false
	}
	return info, true
}

func (c *GeoCache) Set(ctx context.Context, info port.GeoInfo, isFallback bool) {
	if c.redis == nil {
		return
	}
	ttl := c.successTTL
	if isFallback {
		ttl = c.fallbackTTL
	}
	plaintext, err := json.Marshal(info)
	if err != nil {
		return
	}
	encrypted, err := crypto.Encrypt(string(plaintext))
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, geoCacheKey, encrypted, ttl)
}
