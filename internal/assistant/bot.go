package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"wanderbot/internal/domain"
)

const (
	DefaultBotName    = "WanderBot"
	DefaultAppPurpose = "Help Indian travellers plan trips by season, weather and budget."
)

type Config struct {
	BotName    string
	AppPurpose string
	Profile    map[string]any
	// Offline turns generation failures into a local stub answer.
	Offline     bool
	// ModelTools offers the router's tools to the model when no keyword
	// plan matches the message.
	ModelTools  bool
	Temperature float32
	TopP        float32
}

type Reply struct {
	Text     string `json:"reply"`
	Tool     string `json:"tool,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
}

// Bot is the dynamic-prompt travel assistant. It is not safe for concurrent
// use; one Bot serves one conversation.
type Bot struct {
	cfg     Config
	catalog *Catalog
	gen     domain.Generator
	router  *ToolRouter
	mem     *Memory
	now     func() time.Time
}

// New builds a bot. A nil memory starts a fresh conversation, a nil catalog
// selects the embedded prompts and gen may be nil only with Offline set.
func New(gen domain.Generator, router *ToolRouter, catalog *Catalog, mem *Memory, cfg Config) (*Bot, error) {
	if gen == nil && !cfg.Offline {
		return nil, errors.New("assistant: generator required")
	}
	if catalog == nil {
		var err error
		if catalog, err = LoadCatalog(nil); err != nil {
			return nil, err
		}
	}
	if mem == nil {
		mem = NewMemory()
	}
	if cfg.BotName == "" {
		cfg.BotName = DefaultBotName
	}
	if cfg.AppPurpose == "" {
		cfg.AppPurpose = DefaultAppPurpose
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.6
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.9
	}
	return &Bot{cfg: cfg, catalog: catalog, gen: gen, router: router, mem: mem, now: time.Now}, nil
}

func (b *Bot) Memory() *Memory { return b.mem }

// Respond runs one turn. When toolResult is empty the planner may pick a tool
// and run it through the router; failing that, with ModelTools set, the model
// may request one call and is asked again with its result.
func (b *Bot) Respond(ctx context.Context, message string, hints map[string]any, toolResult string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		v := &domain.ValidationError{}
		v.Add("message", "required")
		return Reply{}, v.Err()
	}
	clean := RedactPII(message)
	b.mem.Add("user", clean)

	now := b.now()
	season := domain.SeasonForMonth(now.Month())
	ctxBlock := contextBlock(now.Format(time.RFC3339), season, b.cfg.Profile, hints)

	var reply Reply
	if toolResult == "" {
		if call, ok := PlanTool(clean); ok {
			reply.Tool = call.Name
			toolResult = b.router.Call(ctx, call)
			log.Debug().Str("tool", call.Name).Interface("args", call.Args).Msg("tool call")
		}
	}

	turn := Turn{
		BotName:    b.cfg.BotName,
		AppPurpose: b.cfg.AppPurpose,
		Context:    ctxBlock,
		Memory:     b.mem.Summary(DefaultSummaryLen),
		Message:    clean,
		ToolResult: toolResult,
	}
	system, msgs, err := b.catalog.Render(turn)
	if err != nil {
		return Reply{}, err
	}

	var tools []domain.ToolSpec
	if toolResult == "" && reply.Tool == "" && b.cfg.ModelTools {
		tools = ToolSpecs()
	}
	res, err := b.generate(ctx, system, msgs, tools)
	if err == nil && len(tools) > 0 && len(res.Calls) > 0 {
		call := ToolCall{Name: res.Calls[0].Name, Args: res.Calls[0].Args}
		reply.Tool = call.Name
		toolResult = b.router.Call(ctx, call)
		log.Debug().Str("tool", call.Name).Interface("args", call.Args).Msg("model tool call")

		turn.ToolResult = toolResult
		if system, msgs, err = b.catalog.Render(turn); err != nil {
			return Reply{}, err
		}
		res, err = b.generate(ctx, system, msgs, nil)
	}
	text := res.Text
	if err != nil {
		if !b.cfg.Offline || ctx.Err() != nil {
			return Reply{}, err
		}
		log.Warn().Err(err).Msg("generation failed, answering offline")
		text = b.catalog.offline(season, err)
		if toolResult != "" {
			text += "\n\n" + toolResult
		}
		reply.Fallback = true
	}

	reply.Text = RedactPII(strings.TrimSpace(text))
	b.mem.Add("assistant", reply.Text)
	return reply, nil
}

func (b *Bot) generate(ctx context.Context, system string, msgs []domain.Message, tools []domain.ToolSpec) (domain.GenerateResult, error) {
	if b.gen == nil {
		return domain.GenerateResult{}, fmt.Errorf("generator: %w", domain.ErrUnavailable)
	}
	temp, topP := b.cfg.Temperature, b.cfg.TopP
	res, err := b.gen.Generate(ctx, domain.GenerateRequest{
		System:      system,
		Messages:    msgs,
		Temperature: &temp,
		TopP:        &topP,
		Tools:       tools,
	})
	if err != nil {
		return domain.GenerateResult{}, err
	}
	if strings.TrimSpace(res.Text) == "" && (len(res.Calls) == 0 || len(tools) == 0) {
		return domain.GenerateResult{}, fmt.Errorf("empty model response: %w", domain.ErrUnavailable)
	}
	return res, nil
}
