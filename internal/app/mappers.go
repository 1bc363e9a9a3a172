package app

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"wanderbot/internal/domain"
)

// feedFields lists, per hotel field, the feed paths tried in order.
// Feeds disagree on naming, so every path is a dot path into the payload.
var feedFields = map[string][]string{
	"id":          {"hotel_id", "property_id", "id"},
	"name":        {"hotel_name", "name", "translations.name"},
	"description": {"description", "markdown_description", "description_long", "translations.description"},
	"country":     {"address.country", "country", "countryCode", "country_code"},
	"city":        {"address.city", "city", "locality", "town"},
	"address":     {"address_raw", "address", "address.line", "full_address", "location.address", "formatted_address"},
	"currency":    {"currency", "price.currency", "rates.currency"},
	"lat":         {"latitude", "lat", "location.lat"},
	"lon":         {"longitude", "lon", "lng", "location.lon", "location.lng"},
	"stars":       {"stars", "rating.stars", "star_rating"},
	"price":       {"price_per_night", "price.amount", "rates.min", "min_rate"},
	"amenities":   {"facilities", "amenities"},
	"images":      {"photos", "images"},
}

// addressParts are joined when the feed has no single address string.
var addressParts = []string{
	"address.addressLine1", "address.addressLine2", "address.street", "address.district",
	"address.city", "address.state", "address.postcode", "address.zip", "address.country",
}

// doc is one decoded feed property.
type doc map[string]any

func (d doc) at(path string) any {
	var cur any = map[string]any(d)
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		if cur, ok = obj[key]; !ok {
			return nil
		}
	}
	return cur
}

func (d doc) raw(path string) string {
	s, _ := d.at(path).(string)
	return strings.TrimSpace(s)
}

func (d doc) text(field string) *string {
	for _, p := range feedFields[field] {
		if s := d.raw(p); s != "" {
			return &s
		}
	}
	return nil
}

// number accepts JSON numbers and strings with either decimal separator.
func (d doc) number(field string) *float64 {
	for _, p := range feedFields[field] {
		var f float64
		switch v := d.at(p).(type) {
		case float64:
			f = v
		case int:
			f = float64(v)
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(v, ",", ".")), 64)
			if err != nil {
				continue
			}
			f = parsed
		default:
			continue
		}
		return &f
	}
	return nil
}

func (d doc) whole(field string) *int64 {
	for _, p := range feedFields[field] {
		var n int64
		switch v := d.at(p).(type) {
		case float64:
			n = int64(v)
		case int:
			n = int64(v)
		case int64:
			n = v
		case string:
			parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				continue
			}
			n = parsed
		default:
			continue
		}
		return &n
	}
	return nil
}

// list reads arrays of strings or of objects carrying url, src or name.
func (d doc) list(field string) []string {
	for _, p := range feedFields[field] {
		items, ok := d.at(p).([]any)
		if !ok {
			continue
		}
		var out []string
		for _, it := range items {
			if s := itemLabel(it); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func itemLabel(it any) string {
	switch v := it.(type) {
	case string:
		return v
	case map[string]any:
		for _, k := range []string{"url", "src", "name"} {
			if s, _ := v[k].(string); s != "" {
				return s
			}
		}
	}
	return ""
}

func (d doc) address() *string {
	if s := d.text("address"); s != nil {
		return s
	}
	var parts []string
	for _, p := range addressParts {
		if s := d.raw(p); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, ", ")
	return &joined
}

// mapProperty turns a feed payload into an imported hotel. The payload is
// kept verbatim in RawJSON; stars outside 1..5 are dropped.
func mapProperty(p map[string]any) domain.Hotel {
	d := doc(p)
	raw, err := json.Marshal(p)
	if err != nil {
		log.Error().Err(err).Msg("property payload does not re-encode")
	}

	h := domain.Hotel{
		Source:        domain.SourceImported,
		Name:          d.text("name"),
		Description:   d.text("description"),
		Lat:           d.number("lat"),
		Lon:           d.number("lon"),
		Country:       d.text("country"),
		City:          d.text("city"),
		AddressRaw:    d.address(),
		Amenities:     d.list("amenities"),
		Images:        d.list("images"),
		PricePerNight: d.number("price"),
		RawJSON:       raw,
	}
	if id := d.whole("id"); id != nil {
		h.ID = *id
	}
	if s := d.number("stars"); s != nil && *s >= 1 && *s <= 5 {
		stars := int(*s)
		h.Stars = &stars
	}
	if c := d.text("currency"); c != nil {
		upper := strings.ToUpper(*c)
		h.Currency = &upper
	}
	return h
}
