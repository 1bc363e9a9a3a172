// Package gemini wraps the Google Gen AI SDK for text generation and embeddings.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"wanderbot/internal/adapters/observability"
	"wanderbot/internal/domain"
)

type Config struct {
	APIKey     string
	Model      string
	APIVersion string
	BaseURL    string // optional endpoint override
	EmbedModel string
}

type Client struct {
	c          *genai.Client
	model      string
	embedModel string
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GENAI_API_KEY not set")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v1beta"
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = "gemini-embedding-001"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			APIVersion: cfg.APIVersion,
			BaseURL:    cfg.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{c: c, model: cfg.Model, embedModel: cfg.EmbedModel}, nil
}

func (g *Client) Model() string { return g.model }

// Generate performs one blocking generateContent call.
func (g *Client) Generate(ctx context.Context, req domain.GenerateRequest) (domain.GenerateResult, error) {
	contents := toContents(req.Messages)
	if len(contents) == 0 {
		return domain.GenerateResult{}, fmt.Errorf("generate: no messages: %w", domain.ErrInvalid)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     req.Temperature,
		TopP:            req.TopP,
		MaxOutputTokens: req.MaxOutputTokens,
		StopSequences:   req.StopSequences,
	}
	if s := strings.TrimSpace(req.System); s != "" {
		cfg.SystemInstruction = genai.NewContentFromText(s, genai.RoleUser)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	if len(req.Tools) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: toDeclarations(req.Tools)}}
	}

	start := time.Now()
	resp, err := g.c.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		observability.ObserveExternal("gemini", "generateContent", 0, time.Since(start))
		return domain.GenerateResult{}, fmt.Errorf("gemini generate: %w: %w", domain.ErrUnavailable, err)
	}
	observability.ObserveExternal("gemini", "generateContent", 200, time.Since(start))

	text, calls := responseText(resp), functionCalls(resp)
	if text == "" && len(calls) == 0 {
		return domain.GenerateResult{}, fmt.Errorf("gemini generate: empty response: %w", domain.ErrUnavailable)
	}
	out := domain.GenerateResult{Text: text, Calls: calls}
	if u := resp.UsageMetadata; u != nil {
		out.PromptTokens = u.PromptTokenCount
		out.CandidateTokens = u.CandidatesTokenCount
		out.TotalTokens = u.TotalTokenCount
		observability.ObserveTokens(g.model, u.PromptTokenCount, u.CandidatesTokenCount)
		log.Debug().
			Str("model", g.model).
			Int32("prompt", u.PromptTokenCount).
			Int32("completion", u.CandidatesTokenCount).
			Int32("total", u.TotalTokenCount).
			Msg("tokens used")
	}
	return out, nil
}

// Embed returns the embedding vector for text.
func (g *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	res, err := g.c.Models.EmbedContent(ctx, g.embedModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w: %w", domain.ErrUnavailable, err)
	}
	if len(res.Embeddings) == 0 {
		return nil, fmt.Errorf("gemini embed: no embeddings returned")
	}
	return res.Embeddings[0].Values, nil
}

// toContents maps chat roles onto Gemini roles and merges consecutive turns of
// the same role, which the API rejects.
func toContents(msgs []domain.Message) []*genai.Content {
	var out []*genai.Content
	var lastRole string
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		role := string(genai.RoleUser)
		if m.Role == "assistant" || m.Role == "model" {
			role = string(genai.RoleModel)
		}
		if len(out) > 0 && role == lastRole {
			prev := out[len(out)-1]
			prev.Parts = append(prev.Parts, genai.NewPartFromText(m.Content))
			continue
		}
		out = append(out, &genai.Content{Role: role, Parts: []*genai.Part{genai.NewPartFromText(m.Content)}})
		lastRole = role
	}
	return out
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && !p.Thought {
			b.WriteString(p.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

func toDeclarations(specs []domain.ToolSpec) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, t := range specs {
		params := &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}}
		for _, p := range t.Params {
			typ := genai.TypeString
			if p.Type == "number" {
				typ = genai.TypeNumber
			}
			params.Properties[p.Name] = &genai.Schema{Type: typ, Description: p.Description}
			if p.Required {
				params.Required = append(params.Required, p.Name)
			}
		}
		out = append(out, &genai.FunctionDeclaration{Name: t.Name, Description: t.Description, Parameters: params})
	}
	return out
}

func functionCalls(resp *genai.GenerateContentResponse) []domain.FunctionCall {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var out []domain.FunctionCall
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.FunctionCall != nil {
			out = append(out, domain.FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args})
		}
	}
	return out
}
