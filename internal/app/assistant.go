package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wanderbot/internal/assistant"
	"wanderbot/internal/domain"
)

const sessionTTL = 24 * time.Hour

func sessionKey(id string) string { return "assistant:session:" + id }

// AssistantService runs WanderBot conversations whose memory lives in the cache,
// so any API replica can serve the next turn. Concurrent turns on one session
// are last-writer-wins.
type AssistantService struct {
	gen     domain.Generator
	router  *assistant.ToolRouter
	catalog *assistant.Catalog
	cache   domain.Cache
	cfg     assistant.Config
}

func NewAssistantService(gen domain.Generator, router *assistant.ToolRouter, cache domain.Cache, cfg assistant.Config) (*AssistantService, error) {
	catalog, err := assistant.LoadCatalog(nil)
	if err != nil {
		return nil, err
	}
	return &AssistantService{gen: gen, router: router, catalog: catalog, cache: cache, cfg: cfg}, nil
}

func (s *AssistantService) StartSession(ctx context.Context) (string, error) {
	if s.cache == nil {
		return "", fmt.Errorf("session store: %w", domain.ErrUnavailable)
	}
	id := uuid.NewString()
	if err := s.cache.Set(ctx, sessionKey(id), assistant.NewMemory(), int(sessionTTL.Seconds())); err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return id, nil
}

func (s *AssistantService) Send(ctx context.Context, id, message string, hints map[string]any) (assistant.Reply, error) {
	if s.cache == nil {
		return assistant.Reply{}, fmt.Errorf("session store: %w", domain.ErrUnavailable)
	}
	if _, err := uuid.Parse(id); err != nil {
		return assistant.Reply{}, fmt.Errorf("session %q: %w", id, domain.ErrNotFound)
	}
	var mem assistant.Memory
	ok, err := s.cache.Get(ctx, sessionKey(id), &mem)
	if err != nil {
		return assistant.Reply{}, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return assistant.Reply{}, fmt.Errorf("session %q: %w", id, domain.ErrNotFound)
	}

	bot, err := assistant.New(s.gen, s.router, s.catalog, &mem, s.cfg)
	if err != nil {
		return assistant.Reply{}, fmt.Errorf("session %q: %w", id, domain.ErrUnavailable)
	}
	reply, err := bot.Respond(ctx, message, hints, "")
	if err != nil {
		return assistant.Reply{}, err
	}
	if err := s.cache.Set(ctx, sessionKey(id), bot.Memory(), int(sessionTTL.Seconds())); err != nil {
		return assistant.Reply{}, fmt.Errorf("save session: %w", err)
	}
	return reply, nil
}
