// Package geolocation implements the IP-geolocation collaborator
// (spec.md §4.6, §6): ipapi.co with a success-cached / fallback-cached
// result, grounded on location_service.py.
package geolocation

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"

	digestcache "worker_server/internal/cache"
	"worker_server/internal/digest/port"
	"worker_server/pkg/httputil"
	"worker_server/pkg/logger"
	"worker_server/pkg/resilience"
)

const (
	successCacheDuration  = time.Hour
	fallbackCacheDuration = 5 * time.Minute
)

var fallbackLocation = &port.GeoInfo{City: "New York", Region: "New York", Country: "United States"}

// Locator implements port.Geolocator against ipapi.co. An in-process
// single-slot cache is always active (this call is user-agnostic and
// cheap to re-derive per process); an optional Redis-backed cache is
// layered on top so multiple digestd replicas share one lookup per TTL
// window instead of each paying their own ipapi.co quota.
type Locator struct {
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
	shared     *digestcache.GeoCache

	mu         sync.Mutex
	cached     *port.GeoInfo
	cachedAt   time.Time
	isFallback bool
}

func New(geoCache *digestcache.GeoCache) *Locator {
	cfg := httputil.DefaultClientConfig()
	cfg.ResponseTimeout = 3 * time.Second
	return &Locator{
		httpClient: httputil.NewOptimizedClient(cfg),
		breaker:    resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("geolocation")),
		shared:     geoCache,
	}
}

// Get implements port.Geolocator.Get.
func (l *Locator) Get(ctx context.Context) (*port.GeoInfo, error) {
	l.mu.Lock()
	if l.cached != nil {
		age := time.Since(l.cachedAt)
		ttl := successCacheDuration
		if l.isFallback {
			ttl = fallbackCacheDuration
		}
		if age < ttl {
			cached := l.cached
			l.mu.Unlock()
			return cached, nil
		}
	}
	staleCache := l.cached
	l.mu.Unlock()

	if l.shared != nil {
		if info, ok := l.shared.Get(ctx); ok {
			l.storeLocal(&info, false)
			return &info, nil
		}
	}

	info, err := l.fetch(ctx)
	if err == nil {
		l.storeLocal(info, false)
		if l.shared != nil {
			l.shared.Set(ctx, *info, false)
		}
		return info, nil
	}

	logger.Warn("ip geolocation failed: %v", err)

	if staleCache == nil {
		logger.Warn("using fallback location (New York) due to geolocation failure")
		l.storeLocal(fallbackLocation, true)
		if l.shared != nil {
			l.shared.Set(ctx, *fallbackLocation, true)
		}
		return fallbackLocation, nil
	}

	logger.Warn("returning stale cached location (geolocation api unavailable)")
	return staleCache, nil
}

func (l *Locator) storeLocal(info *port.GeoInfo, isFallback bool) {
	l.mu.Lock()
	l.cached = info
	l.cachedAt = time.Now()
	l.isFallback = isFallback
	l.mu.Unlock()
}

func (l *Locator) fetch(ctx context.Context) (*port.GeoInfo, error) {
	var info *port.GeoInfo
	err := l.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://ipapi.co/json/", nil)
		if err != nil {
			return err
		}

		resp, err := l.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &httpStatusError{resp.StatusCode}
		}

		var data struct {
			City        string `json:"city"`
			Region      string `json:"region"`
			CountryName string `json:"country_name"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return err
		}

		info = &port.GeoInfo{City: data.City, Region: data.Region, Country: data.CountryName}
		return nil
	})
	return info, err
}

type httpStatusError struct{ status int }

func (e *httpStatusError) Error() string {
	return "geolocation: ipapi.co returned unexpected status"
}
