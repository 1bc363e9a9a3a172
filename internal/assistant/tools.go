package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"wanderbot/internal/domain"
)

const maxToolHotels = 5

// HotelFinder is the slice of the hotel query service the bot needs.
type HotelFinder interface {
	ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error)
}

// ToolRouter executes planned tool calls. Any backend may be nil; the router
// then explains what is missing instead of failing the turn.
type ToolRouter struct {
	Geocoder domain.Geocoder
	Weather  domain.WeatherProvider
	Hotels   HotelFinder
}

// ToolSpecs declares the router's tools for models that pick calls themselves.
func ToolSpecs() []domain.ToolSpec {
	city := domain.ToolParam{Name: "city", Type: "string", Description: "City or region in India", Required: true}
	return []domain.ToolSpec{
		{
			Name:        ToolGetWeather,
			Description: "Current weather for a place.",
			Params:      []domain.ToolParam{city},
		},
		{
			Name:        ToolGetHotels,
			Description: "Listed stays in a city, optionally under a nightly budget.",
			Params: []domain.ToolParam{
				city,
				{Name: "budget_per_night_inr", Type: "number", Description: "Maximum price per night in INR"},
			},
		},
	}
}

// Call always returns text the model can incorporate.
func (r *ToolRouter) Call(ctx context.Context, call ToolCall) string {
	city, _ := call.Args["city"].(string)
	switch call.Name {
	case ToolGetWeather:
		return r.weather(ctx, city)
	case ToolGetHotels:
		return r.hotels(ctx, city, budgetArg(call.Args["budget_per_night_inr"]))
	}
	return fmt.Sprintf("Tool %q is not available.", call.Name)
}

func (r *ToolRouter) weather(ctx context.Context, city string) string {
	if city == "" {
		return "No city given, so no weather lookup was made."
	}
	if r == nil || r.Geocoder == nil || r.Weather == nil {
		return "Weather lookup is not configured."
	}
	place, err := r.Geocoder.Lookup(ctx, city)
	if err != nil {
		log.Warn().Err(err).Str("city", city).Msg("tool geocode failed")
		return fmt.Sprintf("Could not locate %s.", city)
	}
	w, err := r.Weather.Current(ctx, place.Coords)
	if err != nil {
		log.Warn().Err(err).Str("city", city).Msg("tool weather failed")
		return fmt.Sprintf("Weather for %s is unavailable right now.", place.Name)
	}
	name := place.Name
	if place.Country != "" {
		name += ", " + place.Country
	}
	return fmt.Sprintf("Current weather in %s: %s, %.1f°C, precipitation %.1f mm, wind %.0f km/h.",
		name, w.Summary, w.TemperatureC, w.PrecipitationMM, w.WindKPH)
}

func (r *ToolRouter) hotels(ctx context.Context, city string, budget *float64) string {
	if city == "" {
		return "No city given, so no hotel search was made."
	}
	if r == nil || r.Hotels == nil {
		return "Hotel search is not configured."
	}
	q := domain.HotelsQuery{City: &city, MaxPrice: budget}
	q.Limit = maxToolHotels
	page, err := r.Hotels.ListHotels(ctx, q)
	if err != nil {
		log.Warn().Err(err).Str("city", city).Msg("tool hotel search failed")
		return fmt.Sprintf("Hotel search for %s failed.", city)
	}
	if len(page.Items) == 0 {
		if budget != nil {
			return fmt.Sprintf("No listed stays in %s under ₹%.0f.", city, *budget)
		}
		return fmt.Sprintf("No listed stays in %s.", city)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Listed stays in %s:", city)
	for _, h := range page.Items {
		b.WriteString("\n- ")
		b.WriteString(deref(h.Name, fmt.Sprintf("hotel %d", h.ID)))
		if h.Stars != nil {
			fmt.Fprintf(&b, " (%d★)", *h.Stars)
		}
		if h.PricePerNight != nil {
			fmt.Fprintf(&b, ", %s per night", formatPrice(*h.PricePerNight, deref(h.Currency, "INR")))
		}
	}
	return b.String()
}

func formatPrice(v float64, currency string) string {
	if currency == "INR" {
		return fmt.Sprintf("₹%.0f", v)
	}
	return fmt.Sprintf("%.2f %s", v, currency)
}

func deref(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func budgetArg(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	default:
		return nil
	}
	if f <= 0 {
		return nil
	}
	return &f
}
