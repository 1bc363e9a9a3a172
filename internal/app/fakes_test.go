package app_test

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"wanderbot/internal/domain"
)

// ---- hotels ----

type fakeHotelRepo struct {
	hv       domain.HotelView
	getCalls int
	created  []domain.Hotel
	upserted []domain.Hotel
	misses   map[int64]string
	lastList domain.HotelsQuery
}

func (f *fakeHotelRepo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	f.upserted = append(f.upserted, h)
	return nil
}
func (f *fakeHotelRepo) CreateHotel(ctx context.Context, h domain.Hotel) (int64, error) {
	f.created = append(f.created, h)
	return 1_000_000_000 + int64(len(f.created)), nil
}
func (f *fakeHotelRepo) LogMiss(ctx context.Context, id int64, status int, reason string) error {
	if f.misses == nil {
		f.misses = map[int64]string{}
	}
	f.misses[id] = reason
	return nil
}
func (f *fakeHotelRepo) GetHotel(ctx context.Context, id int64) (domain.HotelView, error) {
	f.getCalls++
	if f.hv.ID != id {
		return domain.HotelView{}, domain.ErrNotFound
	}
	return f.hv, nil
}
func (f *fakeHotelRepo) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	f.lastList = q
	return domain.HotelsPage{Items: []domain.HotelView{f.hv}}, nil
}

type fakeFeed struct {
	props map[int64]map[string]any
	errs  map[int64]error
}

func (f *fakeFeed) GetProperty(ctx context.Context, id int64) (map[string]any, error) {
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	return f.props[id], nil
}

// ---- cache ----

// fakeCache round-trips values through JSON like the Redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	ttls  map[string]int
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if c.store == nil {
		c.store = map[string][]byte{}
		c.ttls = map[string]int{}
	}
	c.store[key] = b
	c.ttls[key] = ttlSec
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

// ---- experiences ----

type fakeExperienceRepo struct {
	mu    sync.Mutex
	items map[int64]domain.Experience
	next  int64
}

func (f *fakeExperienceRepo) CreateExperience(ctx context.Context, e domain.Experience) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items == nil {
		f.items = map[int64]domain.Experience{}
	}
	f.next++
	e.ID = f.next
	f.items[e.ID] = e
	return e.ID, nil
}
func (f *fakeExperienceRepo) GetExperience(ctx context.Context, id int64) (domain.Experience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.items[id]
	if !ok {
		return domain.Experience{}, domain.ErrNotFound
	}
	e.Images = append([]string(nil), e.Images...)
	return e, nil
}
func (f *fakeExperienceRepo) ListExperiences(ctx context.Context, q domain.ExperienceQuery) (domain.ExperiencesPage, error) {
	return domain.ExperiencesPage{}, nil
}
func (f *fakeExperienceRepo) AppendExperienceImage(ctx context.Context, id int64, url string, limit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if len(e.Images) >= limit {
		return domain.ImageLimitError()
	}
	e.Images = append(e.Images, url)
	f.items[id] = e
	return nil
}

type fakeImageHost struct {
	mu    sync.Mutex
	got   string
	calls int
	delay time.Duration
	err   error
}

func (f *fakeImageHost) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.got = string(b)
	if f.err != nil {
		return "", f.err
	}
	return "https://img.example.com/" + filename, nil
}

type fakeGen struct {
	text string
	err  error
	reqs []domain.GenerateRequest
}

func (f *fakeGen) Generate(ctx context.Context, req domain.GenerateRequest) (domain.GenerateResult, error) {
	f.reqs = append(f.reqs, req)
	return domain.GenerateResult{Text: f.text}, f.err
}

// ---- promotions ----

type fakePromotionRepo struct {
	items    map[int64]domain.Promotion
	lostRace bool
	liveAt   time.Time
}

func (f *fakePromotionRepo) CreatePromotion(ctx context.Context, p domain.Promotion) (int64, error) {
	if f.items == nil {
		f.items = map[int64]domain.Promotion{}
	}
	p.ID = int64(len(f.items) + 1)
	f.items[p.ID] = p
	return p.ID, nil
}
func (f *fakePromotionRepo) GetPromotion(ctx context.Context, id int64) (domain.Promotion, error) {
	p, ok := f.items[id]
	if !ok {
		return domain.Promotion{}, domain.ErrNotFound
	}
	return p, nil
}
func (f *fakePromotionRepo) ListLivePromotions(ctx context.Context, q domain.PromotionQuery, now time.Time) (domain.PromotionsPage, error) {
	f.liveAt = now
	var out domain.PromotionsPage
	for _, p := range f.items {
		if p.LiveAt(now) {
			out.Items = append(out.Items, p)
		}
	}
	return out, nil
}
func (f *fakePromotionRepo) UpdatePromotionStatus(ctx context.Context, id int64, from, to string) error {
	if f.lostRace {
		return domain.ErrConflict
	}
	p := f.items[id]
	p.Status = to
	f.items[id] = p
	return nil
}

// ---- recommendations ----

type fakeDestinations struct{ items []domain.Destination }

func (f fakeDestinations) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	return f.items, nil
}

type fakeWeather struct {
	mu    sync.Mutex
	byLat map[float64]domain.Weather
	calls int
}

func (f *fakeWeather) Current(ctx context.Context, c domain.Coords) (domain.Weather, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	w, ok := f.byLat[c.Lat]
	if !ok {
		return domain.Weather{}, domain.ErrUnavailable
	}
	return w, nil
}

func ptr[T any](v T) *T { return &v }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
