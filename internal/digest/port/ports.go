// Package port declares the collaborator interfaces the digest core reads
// from: LLM generation, weather, geolocation. Owning these contracts
// centrally keeps core stages free of any import on a concrete adapter.
package port

import "context"

// GenerateConfig carries the knobs spec.md §6's LLM collaborator contract
// names: temperature, max tokens, and an optional response mime type.
type GenerateConfig struct {
	Temperature    float64
	MaxTokens      int
	ResponseJSON   bool
	TimeoutSeconds int
}

// Generator is the single-call LLM collaborator contract from spec.md §6.
type Generator interface {
	Generate(ctx context.Context, prompt string, cfg GenerateConfig) (string, error)
}

// WeatherInfo is what the weather collaborator returns on success.
type WeatherInfo struct {
	Temp      int
	Condition string
	City      string
}

// WeatherProvider is the weather collaborator contract from spec.md §6.
type WeatherProvider interface {
	Get(ctx context.Context, city, region string) (*WeatherInfo, error)
}

// GeoInfo is what the geolocation collaborator returns on success.
type GeoInfo struct {
	City    string
	Region  string
	Country string
}

// Geolocator is the IP-geolocation collaborator contract from spec.md §6.
type Geolocator interface {
	Get(ctx context.Context) (*GeoInfo, error)
}

// Embedder is the text-embedding collaborator contract used by the
// noise-elevation Phase 2 sampler to dedup near-identical candidates
// before spending an LLM call on them (spec.md §6, SPEC_FULL.md §5).
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// PreferencesReader is the minimal read-only key-value interface the core
// reads user preferences from (spec.md §1); the core never writes through
// it.
type PreferencesReader interface {
	GetPreference(ctx context.Context, userID, key string) (string, bool, error)
}
