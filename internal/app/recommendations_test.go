package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"

	"wanderbot/internal/app"
	"wanderbot/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func seedDestinations() fakeDestinations {
	return fakeDestinations{items: []domain.Destination{
		{ID: 1, Name: "Munnar", Coords: domain.Coords{Lat: 10.08, Lon: 77.06}, Tags: []string{"hills", "tea"}, BestSeasons: []string{"post-monsoon", "winter"}},
		{ID: 2, Name: "Goa", Coords: domain.Coords{Lat: 15.49, Lon: 73.82}, Tags: []string{"beach", "nightlife"}, BestSeasons: []string{"winter"}},
		{ID: 3, Name: "Jaisalmer", Coords: domain.Coords{Lat: 26.91, Lon: 70.91}, Tags: []string{"desert"}, BestSeasons: []string{"winter"}},
		{ID: 4, Name: "Ladakh", Coords: domain.Coords{Lat: 34.15, Lon: 77.58}, Tags: []string{"mountains"}, BestSeasons: []string{"summer"}},
	}}
}

func TestRecommend_RanksBySeasonWeatherAndPrefs(t *testing.T) {
	weather := &fakeWeather{byLat: map[float64]domain.Weather{
		10.08: {TemperatureC: 22, PrecipitationMM: 0},  // +2
		15.49: {TemperatureC: 31, PrecipitationMM: 12}, // +1 -2
		26.91: {TemperatureC: 24, WindKPH: 45},         // +2 -1
		// Ladakh has no weather
	}}
	cache := &fakeCache{}
	svc := app.NewRecommendationService(seedDestinations(), weather, cache, 2)

	recs, err := svc.Recommend(context.Background(), domain.RecommendationQuery{
		Month:       time.December,
		Preferences: []string{" Beach ", "beach", "tea"},
		Limit:       3,
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	// Munnar 3+2+1=6, Goa 3+1-2+1=3, Jaisalmer 3+2-1=4, Ladakh 0
	want := []struct {
		name  string
		score int
	}{{"Munnar", 6}, {"Jaisalmer", 4}, {"Goa", 3}}
	if len(recs) != len(want) {
		t.Fatalf("expected %d recommendations, got %d", len(want), len(recs))
	}
	for i, w := range want {
		if recs[i].Destination.Name != w.name || recs[i].Score != w.score {
			t.Errorf("rank %d = %s/%d, want %s/%d (%v)", i, recs[i].Destination.Name, recs[i].Score, w.name, w.score, recs[i].Reasons)
		}
		if recs[i].Season != domain.SeasonWinter {
			t.Errorf("season = %q", recs[i].Season)
		}
	}
	if _, ok := cache.store["weather:10.08:77.06"]; !ok {
		t.Fatalf("weather should be cached per coordinate: %v", cache.store)
	}

	// A second run is served from the cache except for the failing lookup.
	calls := weather.calls
	if _, err := svc.Recommend(context.Background(), domain.RecommendationQuery{Month: time.December}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if weather.calls != calls+1 {
		t.Fatalf("expected 1 uncached weather call, got %d", weather.calls-calls)
	}
}

func TestRecommend_WeatherOptional(t *testing.T) {
	svc := app.NewRecommendationService(seedDestinations(), nil, nil, 0)
	recs, err := svc.Recommend(context.Background(), domain.RecommendationQuery{Month: time.July})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("default limit caps at the destination count, got %d", len(recs))
	}
	// Everyone scores 0 in monsoon; ties break by name.
	if recs[0].Destination.Name != "Goa" || recs[3].Destination.Name != "Munnar" {
		t.Fatalf("unexpected order: %s ... %s", recs[0].Destination.Name, recs[3].Destination.Name)
	}
	for _, r := range recs {
		if r.Weather != nil || r.Reasons[len(r.Reasons)-1] != "weather unavailable" {
			t.Fatalf("expected weather unavailable reason: %+v", r)
		}
	}
}

func TestRecommend_InvalidMonth(t *testing.T) {
	svc := app.NewRecommendationService(seedDestinations(), nil, nil, 1)
	_, err := svc.Recommend(context.Background(), domain.RecommendationQuery{Month: 13})
	if !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestRecommend_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := app.NewRecommendationService(seedDestinations(), &fakeWeather{}, nil, 2)
	if _, err := svc.Recommend(ctx, domain.RecommendationQuery{Month: time.May}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
