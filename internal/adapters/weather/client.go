// Package weather talks to the Open-Meteo forecast and geocoding APIs.
package weather

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wanderbot/internal/adapters/httpx"
	"wanderbot/internal/domain"
)

type Client struct {
	forecastBase  string
	geocodingBase string
	http          *httpx.Client
}

func New(forecastBase, geocodingBase string, rps int) *Client {
	return &Client{
		forecastBase:  strings.TrimRight(forecastBase, "/"),
		geocodingBase: strings.TrimRight(geocodingBase, "/"),
		http:          httpx.New("weather", rps, 10*time.Second, nil),
	}
}

type forecastResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   *struct {
		Time          string  `json:"time"`
		Temperature   float64 `json:"temperature_2m"`
		Precipitation float64 `json:"precipitation"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		WeatherCode   int     `json:"weather_code"`
	} `json:"current"`
}

// Current returns the current conditions at c. Wind is in km/h, the API default.
func (c *Client) Current(ctx context.Context, at domain.Coords) (domain.Weather, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(at.Lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(at.Lon, 'f', 4, 64))
	q.Set("current", "temperature_2m,precipitation,wind_speed_10m,weather_code")

	var out forecastResponse
	if err := c.http.GetJSON(ctx, "forecast", c.forecastBase+"/v1/forecast?"+q.Encode(), &out); err != nil {
		return domain.Weather{}, fmt.Errorf("weather forecast: %w", err)
	}
	if out.Current == nil {
		return domain.Weather{}, fmt.Errorf("weather forecast: response without current block")
	}
	observed, err := time.Parse("2006-01-02T15:04", out.Current.Time)
	if err != nil {
		observed = time.Now().UTC()
	}
	return domain.Weather{
		Coords:          at,
		TemperatureC:    out.Current.Temperature,
		PrecipitationMM: out.Current.Precipitation,
		WindKPH:         out.Current.WindSpeed,
		Code:            out.Current.WeatherCode,
		Summary:         Describe(out.Current.WeatherCode),
		ObservedAt:      observed,
	}, nil
}

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
	} `json:"results"`
}

// Lookup resolves a place name to coordinates using the best match.
func (c *Client) Lookup(ctx context.Context, name string) (domain.Place, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Place{}, fmt.Errorf("geocoding: empty name: %w", domain.ErrInvalid)
	}
	q := url.Values{}
	q.Set("name", name)
	q.Set("count", "1")
	q.Set("format", "json")

	var out geocodingResponse
	if err := c.http.GetJSON(ctx, "geocoding", c.geocodingBase+"/v1/search?"+q.Encode(), &out); err != nil {
		return domain.Place{}, fmt.Errorf("geocoding %q: %w", name, err)
	}
	if len(out.Results) == 0 {
		return domain.Place{}, fmt.Errorf("geocoding %q: %w", name, domain.ErrNotFound)
	}
	r := out.Results[0]
	return domain.Place{
		Name:    r.Name,
		Country: r.Country,
		Coords:  domain.Coords{Lat: r.Latitude, Lon: r.Longitude},
	}, nil
}

// Describe turns a WMO weather interpretation code into a short phrase.
func Describe(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code <= 2:
		return "partly cloudy"
	case code == 3:
		return "overcast"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code >= 61 && code <= 67:
		return "rain"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 82:
		return "rain showers"
	case code == 85 || code == 86:
		return "snow showers"
	case code >= 95:
		return "thunderstorm"
	}
	return "unknown"
}
