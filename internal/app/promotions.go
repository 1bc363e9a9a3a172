package app

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"wanderbot/internal/domain"
)

type PromotionService struct {
	repo domain.PromotionRepository
	now  func() time.Time
}

func NewPromotionService(r domain.PromotionRepository) *PromotionService {
	return &PromotionService{repo: r, now: time.Now}
}

func validKind(k string) bool {
	return k == domain.KindHotel || k == domain.KindRestaurant || k == domain.KindTour
}

// Create stores a business promotion awaiting moderation.
func (s *PromotionService) Create(ctx context.Context, in domain.NewPromotion) (domain.Promotion, error) {
	var v domain.ValidationError
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	in.Title = strings.TrimSpace(in.Title)
	in.Kind = strings.ToLower(strings.TrimSpace(in.Kind))
	in.URL = strings.TrimSpace(in.URL)
	in.ContactEmail = strings.TrimSpace(in.ContactEmail)

	required(&v, "business_name", in.BusinessName, 255)
	required(&v, "title", in.Title, 255)
	maxLen(&v, "description", in.Description, 5000)
	if !validKind(in.Kind) {
		v.Add("kind", "must be hotel, restaurant or tour")
	}
	if in.URL != "" && !isHTTPURL(in.URL) {
		v.Add("url", "must be an absolute http(s) URL")
	}
	if in.ContactEmail != "" {
		if _, err := mail.ParseAddress(in.ContactEmail); err != nil {
			v.Add("contact_email", "malformed")
		}
	}
	if in.StartsAt != nil && in.EndsAt != nil && !in.EndsAt.After(*in.StartsAt) {
		v.Add("ends_at", "must be after starts_at")
	}
	images := checkImages(&v, "images", in.Images, 10)
	if err := v.Err(); err != nil {
		return domain.Promotion{}, err
	}

	p := domain.Promotion{
		BusinessName: in.BusinessName,
		Kind:         in.Kind,
		Title:        in.Title,
		Description:  optional(in.Description),
		City:         optional(in.City),
		Country:      optional(in.Country),
		URL:          optional(in.URL),
		ContactEmail: optional(in.ContactEmail),
		Images:       images,
		Status:       domain.StatusPending,
		StartsAt:     utcPtr(in.StartsAt),
		EndsAt:       utcPtr(in.EndsAt),
		CreatedAt:    s.now().UTC().Truncate(time.Millisecond),
	}
	id, err := s.repo.CreatePromotion(ctx, p)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("create promotion: %w", err)
	}
	p.ID = id
	return p, nil
}

func (s *PromotionService) Get(ctx context.Context, id int64) (domain.Promotion, error) {
	return s.repo.GetPromotion(ctx, id)
}

// ListActive lists promotions that are live right now.
func (s *PromotionService) ListActive(ctx context.Context, q domain.PromotionQuery) (domain.PromotionsPage, error) {
	if q.Kind != nil && !validKind(*q.Kind) {
		return domain.PromotionsPage{}, &domain.ValidationError{Fields: map[string]string{"kind": "must be hotel, restaurant or tour"}}
	}
	return s.repo.ListLivePromotions(ctx, q, s.now())
}

// SetStatus moves a promotion through pending -> active|rejected, active -> expired.
func (s *PromotionService) SetStatus(ctx context.Context, id int64, status string) (domain.Promotion, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !domain.IsPromotionStatus(status) {
		return domain.Promotion{}, &domain.ValidationError{Fields: map[string]string{"status": "unknown status"}}
	}
	p, err := s.repo.GetPromotion(ctx, id)
	if err != nil {
		return domain.Promotion{}, err
	}
	if !domain.CanTransition(p.Status, status) {
		return domain.Promotion{}, fmt.Errorf("promotion %d: %s -> %q: %w", id, p.Status, status, domain.ErrConflict)
	}
	if err := s.repo.UpdatePromotionStatus(ctx, id, p.Status, status); err != nil {
		return domain.Promotion{}, err
	}
	log.Info().Int64("id", id).Str("from", p.Status).Str("to", status).Msg("promotion status changed")
	p.Status = status
	return p, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
