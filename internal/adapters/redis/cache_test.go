package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "wanderbot/internal/adapters/redis"
	"wanderbot/internal/domain"
)

func TestCache_RoundTripAndExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var hv domain.HotelView
	ok, err := c.Get(ctx, "hotel:1", &hv)
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	name := "Lakeside Lodge"
	if err := c.Set(ctx, "hotel:1", domain.HotelView{ID: 1, Name: &name}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	ok, err = c.Get(ctx, "hotel:1", &hv)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if hv.ID != 1 || hv.Name == nil || *hv.Name != name {
		t.Fatalf("unexpected value: %+v", hv)
	}

	mr.FastForward(61 * time.Second)
	if ok, _ := c.Get(ctx, "hotel:1", &hv); ok {
		t.Fatalf("expected expiry")
	}
}

func TestCache_Del(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	_ = c.Set(ctx, "k", map[string]int{"a": 1}, 60)
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("k") {
		t.Fatalf("key should be gone")
	}
}

func TestCache_CorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	if err := mr.Set("bad", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var out map[string]any
	ok, err := c.Get(context.Background(), "bad", &out)
	if ok || err == nil {
		t.Fatalf("expected decode error, got ok=%v err=%v", ok, err)
	}
}
