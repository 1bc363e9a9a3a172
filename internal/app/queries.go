package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"wanderbot/internal/domain"
)

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

// QueryService serves hotel listings with cache-aside reads.
type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.HotelView, error) {
	key := hotelKey(id)
	var hv domain.HotelView
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &hv); ok {
			return hv, nil
		}
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.HotelView{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return h, nil
}

// ListHotels is not cached; filters make the key space too wide to be useful.
func (s *QueryService) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	return s.repo.ListHotels(ctx, q)
}

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// SubmitHotel stores a business-submitted listing.
func (s *QueryService) SubmitHotel(ctx context.Context, in domain.NewHotel) (domain.HotelView, error) {
	var v domain.ValidationError
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))

	required(&v, "name", in.Name, 255)
	required(&v, "city", in.City, 128)
	maxLen(&v, "address", in.Address, 512)
	if in.Stars != nil && (*in.Stars < 1 || *in.Stars > 5) {
		v.Add("stars", "must be between 1 and 5")
	}
	if in.PricePerNight != nil && *in.PricePerNight < 0 {
		v.Add("price_per_night", "must not be negative")
	}
	if in.Currency != "" && !currencyRe.MatchString(in.Currency) {
		v.Add("currency", "must be an ISO 4217 code")
	}
	if in.PricePerNight != nil && in.Currency == "" {
		v.Add("currency", "required with a price")
	}
	images := checkImages(&v, "images", in.Images, 20)
	c := checkCoords(&v, in.Lat, in.Lon)
	if err := v.Err(); err != nil {
		return domain.HotelView{}, err
	}

	h := domain.Hotel{
		Source:        domain.SourceBusiness,
		Name:          optional(in.Name),
		Description:   optional(in.Description),
		Stars:         in.Stars,
		Country:       optional(in.Country),
		City:          optional(in.City),
		AddressRaw:    optional(in.Address),
		Amenities:     trimAll(in.Amenities),
		Images:        images,
		PricePerNight: in.PricePerNight,
		Currency:      optional(in.Currency),
	}
	if c != nil {
		h.Lat, h.Lon = &c.Lat, &c.Lon
	}
	id, err := s.repo.CreateHotel(ctx, h)
	if err != nil {
		return domain.HotelView{}, fmt.Errorf("create hotel: %w", err)
	}
	return domain.HotelView{
		ID:            id,
		Source:        h.Source,
		Name:          h.Name,
		Description:   h.Description,
		Stars:         h.Stars,
		Coords:        c,
		Country:       h.Country,
		City:          h.City,
		Address:       h.AddressRaw,
		Amenities:     h.Amenities,
		Images:        h.Images,
		PricePerNight: h.PricePerNight,
		Currency:      h.Currency,
	}, nil
}
