package enrich

import (
	"context"
	"errors"
	"testing"

	"worker_server/internal/digest/port"
)

type fakeWeatherProvider struct {
	info *port.WeatherInfo
	err  error
}

func (f *fakeWeatherProvider) Get(_ context.Context, _, _ string) (*port.WeatherInfo, error) {
	return f.info, f.err
}

type fakeGeolocator struct {
	info *port.GeoInfo
	err  error
}

func (f *fakeGeolocator) Get(_ context.Context) (*port.GeoInfo, error) {
	return f.info, f.err
}

func TestResolveWeatherUsesCityHintWithoutGeolocating(t *testing.T) {
	wp := &fakeWeatherProvider{info: &port.WeatherInfo{Temp: 80, Condition: "Clear", City: "Miami"}}
	geo := &fakeGeolocator{err: errors.New("should not be called")}

	got := resolveWeather(context.Background(), geo, wp, "Miami", "FL")
	if got == nil {
		t.Fatal("expected weather result")
	}
	if got.City != "Miami" || got.Temp != 80 {
		t.Errorf("unexpected weather result: %+v", got)
	}
}

func TestResolveWeatherFallsBackToGeolocation(t *testing.T) {
	wp := &fakeWeatherProvider{info: &port.WeatherInfo{Temp: 60, Condition: "Clouds", City: "Seattle"}}
	geo := &fakeGeolocator{info: &port.GeoInfo{City: "Seattle", Region: "WA"}}

	got := resolveWeather(context.Background(), geo, wp, "", "")
	if got == nil {
		t.Fatal("expected weather result")
	}
	if got.City != "Seattle" {
		t.Errorf("city = %q, want Seattle", got.City)
	}
}

func TestResolveWeatherReturnsNilOnGeolocationFailure(t *testing.T) {
	wp := &fakeWeatherProvider{info: &port.WeatherInfo{Temp: 60, Condition: "Clouds", City: "Seattle"}}
	geo := &fakeGeolocator{err: errors.New("boom")}

	got := resolveWeather(context.Background(), geo, wp, "", "")
	if got != nil {
		t.Error("expected nil weather when geolocation fails")
	}
}

func TestResolveWeatherReturnsNilOnWeatherFailure(t *testing.T) {
	wp := &fakeWeatherProvider{err: errors.New("boom")}
	geo := &fakeGeolocator{info: &port.GeoInfo{City: "Seattle"}}

	got := resolveWeather(context.Background(), geo, wp, "", "")
	if got != nil {
		t.Error("expected nil weather when the weather provider fails")
	}
}

func TestWeatherEmoji(t *testing.T) {
	tests := map[string]string{
		"Clear":        "☀️",
		"Rain":         "🌧️",
		"Snow":         "❄️",
		"Unrecognized": "🌡️",
	}
	for condition, want := range tests {
		if got := weatherEmoji(condition); got != want {
			t.Errorf("weatherEmoji(%q) = %q, want %q", condition, got, want)
		}
	}
}
