package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"wanderbot/internal/domain"
)

// IngestionService copies properties from the hotel feed into the hotel store.
type IngestionService struct {
	feed  domain.HotelFeed
	repo  domain.HotelRepository
	cache domain.Cache
}

func NewIngestionService(f domain.HotelFeed, r domain.HotelRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{feed: f, repo: r, cache: cache}
}

// feedMiss describes a feed answer that ends an import without failing it.
type feedMiss struct {
	cause  error
	status int
	reason string
}

var feedMisses = []feedMiss{
	{domain.ErrNotFound, 404, "not found"},
	{domain.ErrAccessDenied, 403, "inactive"},
}

// IngestHotel fetches, maps and upserts one property. Known misses are
// logged to the miss table; every outcome except a hard error evicts the
// cached view so readers never see a stale snapshot.
func (s *IngestionService) IngestHotel(ctx context.Context, id int64) error {
	payload, err := s.feed.GetProperty(ctx, id)
	if err != nil {
		for _, m := range feedMisses {
			if !errors.Is(err, m.cause) {
				continue
			}
			if lerr := s.repo.LogMiss(ctx, id, m.status, m.reason); lerr != nil {
				log.Warn().Err(lerr).Int64("hotel_id", id).Msg("record feed miss")
			}
			s.evict(ctx, id)
			return nil
		}
		return err
	}

	h := mapProperty(payload)
	if h.ID == 0 {
		h.ID = id
	}
	if err := s.repo.UpsertHotel(ctx, h); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *IngestionService) evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, hotelKey(id)); err != nil {
		log.Debug().Err(err).Int64("hotel_id", id).Msg("hotel cache eviction failed")
	}
}
