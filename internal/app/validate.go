package app

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"wanderbot/internal/domain"
)

// optional returns nil for blank strings.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func required(v *domain.ValidationError, field, value string, max int) {
	switch n := utf8.RuneCountInString(value); {
	case n == 0:
		v.Add(field, "required")
	case n > max:
		v.Add(field, "too long")
	}
}

func maxLen(v *domain.ValidationError, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		v.Add(field, "too long")
	}
}

func checkImages(v *domain.ValidationError, field string, images []string, max int) []string {
	if len(images) > max {
		v.Add(field, "too many images")
	}
	out := make([]string, 0, len(images))
	for _, img := range images {
		img = strings.TrimSpace(img)
		if !isHTTPURL(img) {
			v.Add(field, "must be absolute http(s) URLs")
			continue
		}
		out = append(out, img)
	}
	return out
}

func checkCoords(v *domain.ValidationError, lat, lon *float64) *domain.Coords {
	if lat == nil && lon == nil {
		return nil
	}
	if lat == nil || lon == nil {
		v.Add("coords", "lat and lon go together")
		return nil
	}
	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		v.Add("coords", "out of range")
		return nil
	}
	return &domain.Coords{Lat: *lat, Lon: *lon}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
