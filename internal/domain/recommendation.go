package domain

import "time"

type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Destination is a candidate place for recommendations.
type Destination struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Coords      Coords   `json:"coords"`
	Tags        []string `json:"tags"`
	BestSeasons []string `json:"best_seasons"`
}

type Weather struct {
	Coords          Coords    `json:"coords"`
	TemperatureC    float64   `json:"temperature_c"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	WindKPH         float64   `json:"wind_kph"`
	Code            int       `json:"code"`
	Summary         string    `json:"summary"`
	ObservedAt      time.Time `json:"observed_at"`
}

// Place is a geocoding hit.
type Place struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Coords  Coords `json:"coords"`
}

// Recommendation is derived per request and never stored.
type Recommendation struct {
	Destination Destination `json:"destination"`
	Season      string      `json:"season"`
	Weather     *Weather    `json:"weather,omitempty"`
	Score       int         `json:"score"`
	Reasons     []string    `json:"reasons"`
}

type RecommendationQuery struct {
	Month       time.Month
	Preferences []string
	Limit       int
}

const (
	SeasonMonsoon     = "monsoon"
	SeasonPostMonsoon = "post-monsoon"
	SeasonWinter      = "winter"
	SeasonSummer      = "summer"
)

// SeasonForMonth maps a month onto the Indian travel seasons.
func SeasonForMonth(m time.Month) string {
	switch m {
	case time.June, time.July, time.August, time.September:
		return SeasonMonsoon
	case time.October, time.November:
		return SeasonPostMonsoon
	case time.December, time.January, time.February:
		return SeasonWinter
	}
	return SeasonSummer
}

// IsSeason reports whether s names one of the known seasons.
func IsSeason(s string) bool {
	switch s {
	case SeasonMonsoon, SeasonPostMonsoon, SeasonWinter, SeasonSummer:
		return true
	}
	return false
}
