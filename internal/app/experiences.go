package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"wanderbot/internal/domain"
)

const parseSystemPrompt = `You are WanderBot, an assistant that converts travel experiences into structured JSON
with the following fields: name, location, description, season, and recommended_activity.
Always respond in valid JSON only.`

type ExperienceService struct {
	repo   domain.ExperienceRepository
	images domain.ImageHost // optional
	gen    domain.Generator // optional
	now    func() time.Time
}

func NewExperienceService(r domain.ExperienceRepository, images domain.ImageHost, gen domain.Generator) *ExperienceService {
	return &ExperienceService{repo: r, images: images, gen: gen, now: time.Now}
}

func (s *ExperienceService) Create(ctx context.Context, in domain.NewExperience) (domain.Experience, error) {
	var v domain.ValidationError
	in.AuthorID = strings.TrimSpace(in.AuthorID)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Season = strings.ToLower(strings.TrimSpace(in.Season))

	required(&v, "author_id", in.AuthorID, 64)
	required(&v, "description", in.Description, domain.MaxExperienceDescription)
	required(&v, "location", in.Location, 255)
	maxLen(&v, "title", in.Title, 255)
	maxLen(&v, "author_name", in.AuthorName, 128)
	images := checkImages(&v, "images", in.Images, domain.MaxExperienceImages)
	c := checkCoords(&v, in.Lat, in.Lon)
	if in.Season != "" && !domain.IsSeason(in.Season) {
		v.Add("season", "unknown season")
	}
	if err := v.Err(); err != nil {
		return domain.Experience{}, err
	}

	e := domain.Experience{
		AuthorID:    in.AuthorID,
		AuthorName:  optional(in.AuthorName),
		Title:       optional(in.Title),
		Description: in.Description,
		Location:    in.Location,
		City:        optional(in.City),
		Country:     optional(in.Country),
		Coords:      c,
		Images:      images,
		Season:      in.Season,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}
	if e.Season == "" {
		e.Season = domain.SeasonForMonth(e.CreatedAt.Month())
	}

	id, err := s.repo.CreateExperience(ctx, e)
	if err != nil {
		return domain.Experience{}, fmt.Errorf("create experience: %w", err)
	}
	e.ID = id
	log.Info().Int64("id", id).Str("author", e.AuthorID).Msg("experience shared")
	return e, nil
}

func (s *ExperienceService) Get(ctx context.Context, id int64) (domain.Experience, error) {
	return s.repo.GetExperience(ctx, id)
}

func (s *ExperienceService) List(ctx context.Context, q domain.ExperienceQuery) (domain.ExperiencesPage, error) {
	return s.repo.ListExperiences(ctx, q)
}

// AttachImage uploads a photo to the image host and appends its URL. A full
// experience is rejected before uploading; the store re-checks the limit so
// concurrent uploads cannot push it past MaxExperienceImages.
func (s *ExperienceService) AttachImage(ctx context.Context, id int64, filename string, r io.Reader) (domain.Experience, error) {
	if s.images == nil {
		return domain.Experience{}, fmt.Errorf("image hosting: %w", domain.ErrUnavailable)
	}
	e, err := s.repo.GetExperience(ctx, id)
	if err != nil {
		return domain.Experience{}, err
	}
	if len(e.Images) >= domain.MaxExperienceImages {
		return domain.Experience{}, domain.ImageLimitError()
	}
	u, err := s.images.Upload(ctx, filename, r)
	if err != nil {
		return domain.Experience{}, err
	}
	if err := s.repo.AppendExperienceImage(ctx, id, u, domain.MaxExperienceImages); err != nil {
		if errors.Is(err, domain.ErrInvalid) {
			log.Warn().Int64("id", id).Str("url", u).Msg("image uploaded but experience filled up meanwhile")
		}
		return domain.Experience{}, fmt.Errorf("store image url: %w", err)
	}
	return s.repo.GetExperience(ctx, id)
}

// ParseSubmission turns a free-text travel story into a structured draft.
func (s *ExperienceService) ParseSubmission(ctx context.Context, text string) (domain.ExperienceDraft, error) {
	if s.gen == nil {
		return domain.ExperienceDraft{}, fmt.Errorf("generator: %w", domain.ErrUnavailable)
	}
	return ParseSubmission(ctx, s.gen, text)
}

// ParseSubmission is shared by the API and the CLI.
func ParseSubmission(ctx context.Context, gen domain.Generator, text string) (domain.ExperienceDraft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ExperienceDraft{}, &domain.ValidationError{Fields: map[string]string{"text": "required"}}
	}
	res, err := gen.Generate(ctx, domain.GenerateRequest{
		System: parseSystemPrompt,
		Messages: []domain.Message{{Role: "user", Content: "Here is a new travel submission:\n" + text +
			"\nPlease convert this submission into structured JSON."}},
		MaxOutputTokens: 400,
		JSON:            true,
	})
	if err != nil {
		return domain.ExperienceDraft{}, err
	}
	var d domain.ExperienceDraft
	if err := json.Unmarshal([]byte(stripFences(res.Text)), &d); err != nil {
		log.Warn().Err(err).Str("raw", res.Text).Msg("model returned non-JSON draft")
		return domain.ExperienceDraft{}, fmt.Errorf("model output is not JSON: %w", domain.ErrInvalid)
	}
	return d, nil
}

// stripFences removes a ```json fenced block wrapper when the model adds one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
