package domain

import (
	"context"
	"io"
	"time"
)

type ExperienceRepository interface {
	CreateExperience(ctx context.Context, e Experience) (int64, error)
	GetExperience(ctx context.Context, id int64) (Experience, error)
	ListExperiences(ctx context.Context, q ExperienceQuery) (ExperiencesPage, error)
	// AppendExperienceImage adds url only while the experience holds fewer
	// than limit images; a full list yields ImageLimitError.
	AppendExperienceImage(ctx context.Context, id int64, url string, limit int) error
}

type HotelRepository interface {
	// Write paths
	UpsertHotel(ctx context.Context, h Hotel) error
	CreateHotel(ctx context.Context, h Hotel) (int64, error)
	LogMiss(ctx context.Context, id int64, status int, reason string) error

	// Read paths
	GetHotel(ctx context.Context, id int64) (HotelView, error)
	ListHotels(ctx context.Context, q HotelsQuery) (HotelsPage, error)
}

type PromotionRepository interface {
	CreatePromotion(ctx context.Context, p Promotion) (int64, error)
	GetPromotion(ctx context.Context, id int64) (Promotion, error)
	ListLivePromotions(ctx context.Context, q PromotionQuery, now time.Time) (PromotionsPage, error)
	UpdatePromotionStatus(ctx context.Context, id int64, from, to string) error
}

type DestinationRepository interface {
	ListDestinations(ctx context.Context) ([]Destination, error)
}

// HotelFeed is the external hotel content API.
type HotelFeed interface {
	GetProperty(ctx context.Context, id int64) (map[string]any, error)
}

type WeatherProvider interface {
	Current(ctx context.Context, c Coords) (Weather, error)
}

type Geocoder interface {
	Lookup(ctx context.Context, name string) (Place, error)
}

type ImageHost interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Message is one turn handed to a generative model.
type Message struct {
	Role    string `json:"role"` // user|assistant
	Content string `json:"content"`
}

type GenerateRequest struct {
	System          string
	Messages        []Message
	Temperature     *float32
	TopP            *float32
	MaxOutputTokens int32
	StopSequences   []string
	JSON            bool
	// Tools lets the model answer with FunctionCall instead of text.
	Tools           []ToolSpec
}

// ToolSpec declares a function the model may choose to call.
type ToolSpec struct {
	Name        string
	Description string
	Params      []ToolParam
}

// ToolParam is one argument of a ToolSpec. Type is "string" or "number".
type ToolParam struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

type FunctionCall struct {
	Name string
	Args map[string]any
}

type GenerateResult struct {
	Text            string
	PromptTokens    int32
	CandidateTokens int32
	TotalTokens     int32
	Calls           []FunctionCall
}

type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Read models & queries

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type PageQuery struct {
	Limit  int
	Cursor *string
}
