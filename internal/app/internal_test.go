package app

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"wanderbot/internal/domain"
)

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                  `{"a":1}`,
		"```json\n{\"a\":1}\n```":  `{"a":1}`,
		"```\n{\"a\":1}```":        `{"a":1}`,
		"  \n```json\n[]\n```\n  ": `[]`,
	}
	for in, want := range cases {
		if got := stripFences(in); got != want {
			t.Errorf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScoreBoundaries(t *testing.T) {
	d := domain.Destination{Name: "X", Tags: []string{"beach"}, BestSeasons: []string{domain.SeasonSummer}}
	cases := []struct {
		w    domain.Weather
		want int
	}{
		{domain.Weather{TemperatureC: 18}, 2},
		{domain.Weather{TemperatureC: 30}, 2},
		{domain.Weather{TemperatureC: 10}, 1},
		{domain.Weather{TemperatureC: 35}, 1},
		{domain.Weather{TemperatureC: 9.9}, -1},
		{domain.Weather{TemperatureC: 36}, -1},
		{domain.Weather{TemperatureC: 25, PrecipitationMM: 2}, 2},
		{domain.Weather{TemperatureC: 25, PrecipitationMM: 2.1}, 1},
		{domain.Weather{TemperatureC: 25, PrecipitationMM: 10.1}, 0},
		{domain.Weather{TemperatureC: 25, WindKPH: 40}, 2},
		{domain.Weather{TemperatureC: 25, WindKPH: 41}, 1},
	}
	for _, c := range cases {
		w := c.w
		if got := score(d, domain.SeasonWinter, &w, nil).Score; got != c.want {
			t.Errorf("score(%+v) = %d, want %d", c.w, got, c.want)
		}
	}
	r := score(d, domain.SeasonSummer, nil, []string{"beach", "forest"})
	if r.Score != 4 || len(r.Reasons) != 3 {
		t.Errorf("season+pref without weather: %+v", r)
	}
}

func TestMapPropertyAliases(t *testing.T) {
	h := mapProperty(map[string]any{
		"id":          "77",
		"name":        "Palace Stay",
		"lat":         "26,91",
		"lng":         70.9,
		"star_rating": 9.0,
		"currency":    "inr",
		"photos":      []any{map[string]any{"url": "https://img/1.jpg"}, "https://img/2.jpg"},
		"address": map[string]any{
			"addressLine1": "Fort Road",
			"city":         "Jaisalmer",
			"country":      "IN",
		},
	})
	if h.ID != 77 || deref(h.Name) != "Palace Stay" || deref(h.City) != "Jaisalmer" {
		t.Fatalf("unexpected hotel: %+v", h)
	}
	if h.Lat == nil || *h.Lat != 26.91 || h.Lon == nil || *h.Lon != 70.9 {
		t.Fatalf("coords not parsed: %v %v", h.Lat, h.Lon)
	}
	if h.Stars != nil {
		t.Fatalf("out-of-range stars must be dropped, got %d", *h.Stars)
	}
	if deref(h.Currency) != "INR" {
		t.Fatalf("currency = %q", deref(h.Currency))
	}
	if diff := cmp.Diff([]string{"https://img/1.jpg", "https://img/2.jpg"}, h.Images); diff != "" {
		t.Fatalf("images mismatch (-want +got):\n%s", diff)
	}
	if deref(h.AddressRaw) != "Fort Road, Jaisalmer, IN" {
		t.Fatalf("address = %q", deref(h.AddressRaw))
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
