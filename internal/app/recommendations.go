package app

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"wanderbot/internal/domain"
)

const (
	defaultRecommendations = 5
	maxRecommendations     = 20
	weatherTTL             = 10 * time.Minute
)

// RecommendationService ranks seeded destinations by season and live weather.
type RecommendationService struct {
	dests   domain.DestinationRepository
	weather domain.WeatherProvider
	cache   domain.Cache
	workers int
	now     func() time.Time
}

func NewRecommendationService(d domain.DestinationRepository, w domain.WeatherProvider, c domain.Cache, workers int) *RecommendationService {
	if workers <= 0 {
		workers = 4
	}
	return &RecommendationService{dests: d, weather: w, cache: c, workers: workers, now: time.Now}
}

func (s *RecommendationService) Recommend(ctx context.Context, q domain.RecommendationQuery) ([]domain.Recommendation, error) {
	month := q.Month
	if month == 0 {
		month = s.now().Month()
	}
	if month < time.January || month > time.December {
		return nil, &domain.ValidationError{Fields: map[string]string{"month": "must be 1-12"}}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultRecommendations
	}
	if limit > maxRecommendations {
		limit = maxRecommendations
	}
	season := domain.SeasonForMonth(month)
	prefs := normalizeTags(q.Preferences)

	dests, err := s.dests.ListDestinations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load destinations: %w", err)
	}

	recs := make([]domain.Recommendation, len(dests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, d := range dests {
		g.Go(func() error {
			var w *domain.Weather
			if s.weather != nil {
				got, err := s.currentWeather(gctx, d.Coords)
				if err != nil {
					log.Warn().Err(err).Str("destination", d.Name).Msg("weather lookup failed")
				} else {
					w = &got
				}
			}
			recs[i] = score(d, season, w, prefs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(recs, func(a, b int) bool {
		if recs[a].Score != recs[b].Score {
			return recs[a].Score > recs[b].Score
		}
		return recs[a].Destination.Name < recs[b].Destination.Name
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (s *RecommendationService) currentWeather(ctx context.Context, c domain.Coords) (domain.Weather, error) {
	key := fmt.Sprintf("weather:%.2f:%.2f", c.Lat, c.Lon)
	var w domain.Weather
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &w); ok {
			return w, nil
		}
	}
	w, err := s.weather.Current(ctx, c)
	if err != nil {
		return domain.Weather{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, w, int(weatherTTL.Seconds()))
	}
	return w, nil
}

// score applies the season/weather/preference mapping. The reasons explain each term.
func score(d domain.Destination, season string, w *domain.Weather, prefs []string) domain.Recommendation {
	r := domain.Recommendation{Destination: d, Season: season, Weather: w, Reasons: []string{}}
	if slices.Contains(d.BestSeasons, season) {
		r.Score += 3
		r.Reasons = append(r.Reasons, "good in "+season)
	}
	if w == nil {
		r.Reasons = append(r.Reasons, "weather unavailable")
	} else {
		switch t := w.TemperatureC; {
		case t >= 18 && t <= 30:
			r.Score += 2
			r.Reasons = append(r.Reasons, fmt.Sprintf("pleasant %.0f°C", t))
		case (t >= 10 && t < 18) || (t > 30 && t <= 35):
			r.Score++
			r.Reasons = append(r.Reasons, fmt.Sprintf("tolerable %.0f°C", t))
		default:
			r.Score--
			r.Reasons = append(r.Reasons, fmt.Sprintf("harsh %.0f°C", t))
		}
		switch p := w.PrecipitationMM; {
		case p > 10:
			r.Score -= 2
			r.Reasons = append(r.Reasons, "heavy rain")
		case p > 2:
			r.Score--
			r.Reasons = append(r.Reasons, "some rain")
		}
		if w.WindKPH > 40 {
			r.Score--
			r.Reasons = append(r.Reasons, "strong wind")
		}
	}
	for _, p := range prefs {
		if slices.Contains(d.Tags, p) {
			r.Score++
			r.Reasons = append(r.Reasons, "matches "+p)
		}
	}
	return r
}

func normalizeTags(in []string) []string {
	var out []string
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
