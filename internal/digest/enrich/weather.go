package enrich

import (
	"context"
	"strconv"

	"worker_server/internal/digest/domain"
	"worker_server/internal/digest/port"
	"worker_server/pkg/logger"
)

// resolveWeather implements spec.md §4.7 step 2: if the city is unknown,
// consult geolocation first; any failure anywhere yields no weather
// rather than aborting enrichment.
func resolveWeather(ctx context.Context, geo port.Geolocator, wp port.WeatherProvider, cityHint, regionHint string) *domain.Weather {
	city, region := cityHint, regionHint

	if city == "" && geo != nil {
		info, err := geo.Get(ctx)
		if err != nil || info == nil {
			logger.Debug("geolocation unavailable, skipping weather: %v", err)
			return nil
		}
		city, region = info.City, info.Region
	}

	if city == "" || wp == nil {
		return nil
	}

	w, err := wp.Get(ctx, city, region)
	if err != nil || w == nil {
		logger.Debug("weather unavailable for %s: %v", city, err)
		return nil
	}

	return &domain.Weather{Temp: w.Temp, Condition: w.Condition, City: w.City}
}

// weatherEmoji maps a short condition string to a single emoji for the
// greeting line.
func weatherEmoji(condition string) string {
	switch condition {
	case "Clear":
		return "☀️"
	case "Clouds":
		return "☁️"
	case "Rain", "Drizzle":
		return "🌧️"
	case "Thunderstorm":
		return "⛈️"
	case "Snow":
		return "❄️"
	default:
		return "🌡️"
	}
}

func formatTemp(temp int) string {
	return strconv.Itoa(temp)
}
