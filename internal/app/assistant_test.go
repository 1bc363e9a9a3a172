package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wanderbot/internal/app"
	"wanderbot/internal/assistant"
	"wanderbot/internal/domain"
)

func TestAssistantSession(t *testing.T) {
	cache := &fakeCache{}
	gen := &fakeGen{text: "Try Coorg this winter."}
	svc, err := app.NewAssistantService(gen, nil, cache, assistant.Config{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	id, err := svc.StartSession(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	key := "assistant:session:" + id
	if cache.ttls[key] != 86400 {
		t.Fatalf("expected 24h ttl, got %d", cache.ttls[key])
	}

	reply, err := svc.Send(ctx, id, "Weekend idea near Bengaluru?", map[string]any{"budget": "low"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Text != "Try Coorg this winter." {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if _, err := svc.Send(ctx, id, "And for 3 days?", nil); err != nil {
		t.Fatalf("send 2: %v", err)
	}

	var mem assistant.Memory
	if ok, err := cache.Get(ctx, key, &mem); !ok || err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if len(mem.Messages) != 4 {
		t.Fatalf("expected 4 remembered turns, got %d", len(mem.Messages))
	}
	// The second prompt carries the first exchange in its memory block.
	found := false
	for _, m := range gen.reqs[1].Messages {
		if strings.Contains(m.Content, "user: Weekend idea near Bengaluru?") {
			found = true
		}
	}
	if !found {
		t.Fatalf("memory summary missing from second prompt")
	}
}

func TestAssistantSession_Errors(t *testing.T) {
	ctx := context.Background()
	svc, err := app.NewAssistantService(&fakeGen{text: "ok"}, nil, &fakeCache{}, assistant.Config{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := svc.Send(ctx, "not-a-uuid", "hi", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Send(ctx, "8f14e45f-ceea-467f-a0e6-8f1f4a2b9c3d", "hi", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown session, got %v", err)
	}
	id, _ := svc.StartSession(ctx)
	if _, err := svc.Send(ctx, id, "  ", nil); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	noCache, _ := app.NewAssistantService(&fakeGen{}, nil, nil, assistant.Config{})
	if _, err := noCache.StartSession(ctx); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	noGen, _ := app.NewAssistantService(nil, nil, &fakeCache{}, assistant.Config{})
	id, _ = noGen.StartSession(ctx)
	if _, err := noGen.Send(ctx, id, "hi", nil); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable without a generator, got %v", err)
	}
}
