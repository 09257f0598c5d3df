// Package weather implements the weather collaborator (spec.md §4.6,
// §6): OpenWeatherMap primary, wttr.in fallback, a 30-minute cache, and a
// circuit breaker around the OpenWeatherMap call (the wttr.in fallback is
// called without one), grounded on weather_service.py.
package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	digestcache "worker_server/internal/cache"
	"worker_server/internal/digest/port"
	"worker_server/pkg/httputil"
	"worker_server/pkg/logger"
	"worker_server/pkg/resilience"
)

// AirportToCity maps the top US airport codes to their city name, used to
// disambiguate flight-entity weather lookups.
var AirportToCity = map[string]string{
	"ATL": "Atlanta", "LAX": "Los Angeles", "ORD": "Chicago", "DFW": "Dallas",
	"DEN": "Denver", "JFK": "New York", "SFO": "San Francisco", "SEA": "Seattle",
	"LAS": "Las Vegas", "MCO": "Orlando", "EWR": "Newark", "CLT": "Charlotte",
	"PHX": "Phoenix", "IAH": "Houston", "MIA": "Miami", "BOS": "Boston",
	"MSP": "Minneapolis", "FLL": "Fort Lauderdale", "DTW": "Detroit", "PHL": "Philadelphia",
	"LGA": "New York", "BWI": "Baltimore", "SLC": "Salt Lake City", "SAN": "San Diego",
	"IAD": "Washington DC", "DCA": "Washington DC", "TPA": "Tampa", "PDX": "Portland",
	"STL": "St. Louis", "HNL": "Honolulu", "AUS": "Austin", "MDW": "Chicago",
	"BNA": "Nashville", "OAK": "Oakland", "MSY": "New Orleans", "RDU": "Raleigh",
	"SJC": "San Jose", "SAT": "San Antonio", "RSW": "Fort Myers", "SMF": "Sacramento",
	"SNA": "Santa Ana", "IND": "Indianapolis", "CLE": "Cleveland", "PIT": "Pittsburgh",
	"CVG": "Cincinnati", "CMH": "Columbus", "ABQ": "Albuquerque", "MCI": "Kansas City",
	"OMA": "Omaha",
}

var stateAbbrev = map[string]string{
	"New York": "NY", "California": "CA", "Texas": "TX", "Florida": "FL",
	"Illinois": "IL", "Pennsylvania": "PA", "Ohio": "OH", "Georgia": "GA",
	"North Carolina": "NC", "Michigan": "MI",
}

// Provider implements port.WeatherProvider.
type Provider struct {
	apiKey     string
	httpClient *http.Client
	cache      *digestcache.WeatherCache
	breaker    *resilience.CircuitBreaker
}

func New(apiKey string, weatherCache *digestcache.WeatherCache) *Provider {
	return &Provider{
		apiKey:     apiKey,
		httpClient: httputil.NewOptimizedClient(httputil.DefaultClientConfig()),
		cache:      weatherCache,
		breaker:    resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("weather")),
	}
}

type cachedWeather struct {
	Temp        int    `json:"temp"`
	FeelsLike   int    `json:"feels_like"`
	Condition   string `json:"condition"`
	Description string `json:"description"`
}

// Get implements port.WeatherProvider.Get.
func (p *Provider) Get(ctx context.Context, city, region string) (*port.WeatherInfo, error) {
	if city == "" {
		return nil, fmt.Errorf("weather: empty city")
	}

	if p.cache != nil {
		if entry, ok := p.cache.Get(ctx, city, region); ok {
			return &port.WeatherInfo{Temp: entry.Temp, Condition: entry.Condition, City: city}, nil
		}
	}

	var result *cachedWeather
	err := p.breaker.Execute(func() error {
		var fetchErr error
		result, fetchErr = p.fetchPrimary(ctx, city, region)
		return fetchErr
	})

	if err != nil || result == nil {
		result, err = p.fetchFallback(ctx, city, region)
		if err != nil || result == nil {
			return nil, fmt.Errorf("weather: all providers failed for %s: %w", city, err)
		}
	}

	if p.cache != nil {
		p.cache.Set(ctx, city, region, digestcache.WeatherEntry{Temp: result.Temp, Condition: result.Condition})
	}

	return &port.WeatherInfo{Temp: result.Temp, Condition: result.Condition, City: city}, nil
}

func (p *Provider) fetchPrimary(ctx context.Context, city, region string) (*cachedWeather, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("weather: no api key configured")
	}

	query := city
	if region != "" {
		abbrev, ok := stateAbbrev[region]
		if !ok {
			abbrev = region
		}
		query = fmt.Sprintf("%s,%s,US", city, abbrev)
	}

	reqURL := "http://api.openweathermap.org/data/2.5/weather?" + url.Values{
		"q":     {query},
		"appid": {p.apiKey},
		"units": {"imperial"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.Warn("weather api request failed for %s: %v", city, err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather: openweathermap status %d", resp.StatusCode)
	}

	var data struct {
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if len(data.Weather) == 0 {
		return nil, fmt.Errorf("weather: empty weather array")
	}

	return &cachedWeather{
		Temp:        int(data.Main.Temp),
		FeelsLike:   int(data.Main.FeelsLike),
		Condition:   data.Weather[0].Main,
		Description: data.Weather[0].Description,
	}, nil
}

func (p *Provider) fetchFallback(ctx context.Context, city, region string) (*cachedWeather, error) {
	location := city
	if region != "" {
		abbrev, ok := stateAbbrev[region]
		if !ok {
			abbrev = region
		}
		location = city + "," + abbrev
	}

	reqURL := "https://wttr.in/" + url.QueryEscape(location) + "?format=j1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		logger.Warn("fallback weather fetch failed for %s: %v", location, err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather: wttr.in status %d", resp.StatusCode)
	}

	var data struct {
		CurrentCondition []struct {
			TempF        string `json:"temp_F"`
			FeelsLikeF   string `json:"FeelsLikeF"`
			WeatherDesc  []struct {
				Value string `json:"value"`
			} `json:"weatherDesc"`
		} `json:"current_condition"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if len(data.CurrentCondition) == 0 || len(data.CurrentCondition[0].WeatherDesc) == 0 {
		return nil, fmt.Errorf("weather: empty wttr.in response")
	}

	cur := data.CurrentCondition[0]
	temp, _ := strconv.ParseFloat(cur.TempF, 64)
	feelsLike := temp
	if cur.FeelsLikeF != "" {
		if parsed, err := strconv.ParseFloat(cur.FeelsLikeF, 64); err == nil {
			feelsLike = parsed
		}
	}
	desc := cur.WeatherDesc[0].Value

	return &cachedWeather{
		Temp:        int(temp),
		FeelsLike:   int(feelsLike),
		Condition:   desc,
		Description: desc,
	}, nil
}

// FormatContext implements format_weather_context's adjective rules.
func FormatContext(city string, info *port.WeatherInfo) string {
	condition := strings.ToLower(info.Condition)
	temp := info.Temp

	switch {
	case condition == "rain" || condition == "thunderstorm" || condition == "drizzle":
		return fmt.Sprintf("it'll be a rainy %d° in %s", temp, city)
	case condition == "snow":
		return fmt.Sprintf("it'll be snowing and %d° in %s", temp, city)
	case condition == "clear" && temp > 85:
		return fmt.Sprintf("it'll be a hot %d° in %s", temp, city)
	case condition == "clear" && temp < 50:
		return fmt.Sprintf("it'll be a chilly %d° in %s", temp, city)
	case condition == "clouds" && temp > 75:
		return fmt.Sprintf("it'll be %d° and cloudy in %s", temp, city)
	default:
		return fmt.Sprintf("it'll be %d° in %s", temp, city)
	}
}
