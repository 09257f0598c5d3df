package enrich

import (
	"context"
	"sort"
	"strings"

	"worker_server/internal/digest/domain"
	"worker_server/internal/digest/entity"
	"worker_server/internal/digest/port"
)

const StageName = "enrichment"

// Stage implements spec.md §4.7: per-entity decay, weather resolution,
// and greeting generation, plus assembly of dc.FeaturedItems.
type Stage struct {
	geo     port.Geolocator
	weather port.WeatherProvider
}

func New(geo port.Geolocator, weather port.WeatherProvider) *Stage {
	return &Stage{geo: geo, weather: weather}
}

func (s *Stage) Name() string        { return StageName }
func (s *Stage) DependsOn() []string { return []string{entity.StageName} }

func (s *Stage) Process(ctx context.Context, dc *domain.Context) (domain.Result, error) {
	decayed := make([]domain.Entity, 0, len(dc.Entities))
	byID := make(map[string]int, len(dc.Entities))
	for _, e := range dc.Entities {
		d := DecayEntity(e, dc.Now, dc.UserTimezone)
		byID[d.SourceEmailID] = len(decayed)
		decayed = append(decayed, d)
	}
	dc.Entities = decayed

	dc.WeatherInfo = resolveWeather(ctx, s.geo, s.weather, dc.CityHint, dc.RegionHint)
	dc.Greeting = BuildGreeting(dc.Now, dc.UserTimezone, dc.UserName, dc.WeatherInfo)

	withWeather := attachFlightEventWeather(decayed, dc.WeatherInfo)
	dc.Entities = withWeather

	dc.FeaturedItems = buildFeaturedItems(dc, withWeather)

	return domain.Result{
		Success:        true,
		ItemsProcessed: len(dc.Entities),
		ItemsOutput:    len(dc.FeaturedItems),
	}, nil
}

func attachFlightEventWeather(entities []domain.Entity, w *domain.Weather) []domain.Entity {
	if w == nil {
		return entities
	}
	for i := range entities {
		if entities[i].Kind != domain.EntityFlight && entities[i].Kind != domain.EntityEvent {
			continue
		}
		entities[i].WeatherContext = formatWeatherContext(w)
	}
	return entities
}

func formatWeatherContext(w *domain.Weather) string {
	temp, city := formatTemp(w.Temp), w.City
	switch c := strings.ToLower(w.Condition); {
	case c == "rain" || c == "thunderstorm" || c == "drizzle":
		return "it'll be a rainy " + temp + "° in " + city
	case c == "snow":
		return "it'll be snowing and " + temp + "° in " + city
	case c == "clear" && w.Temp > 85:
		return "it'll be a hot " + temp + "° in " + city
	case c == "clear" && w.Temp < 50:
		return "it'll be a chilly " + temp + "° in " + city
	case c == "clouds" && w.Temp > 75:
		return "it'll be " + temp + "° and cloudy in " + city
	}
	return "it'll be " + temp + "° in " + city
}

// buildFeaturedItems groups entities by email id and picks an entity card
// where extraction produced one, falling back to the raw email otherwise.
// Order within each section follows stable input order (spec.md §3.5).
func buildFeaturedItems(dc *domain.Context, entities []domain.Entity) []domain.FeaturedItem {
	entityByEmail := make(map[string]*domain.Entity, len(entities))
	for i := range entities {
		e := entities[i]
		if !e.HideInDigest {
			entityByEmail[e.SourceEmailID] = &entities[i]
		}
	}

	var items []domain.FeaturedItem
	for _, email := range dc.FilteredEmails {
		sec := dc.SectionAssignments[email.ID]
		if !sec.Featured() {
			continue
		}
		if e, ok := entityByEmail[email.ID]; ok {
			items = append(items, domain.FeaturedItem{Entity: e, Section: e.DigestSection})
			continue
		}
		emailCopy := email
		items = append(items, domain.FeaturedItem{Email: &emailCopy, Section: sec})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Section.Rank() < items[j].Section.Rank()
	})

	return items
}
