package app_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"wanderbot/internal/app"
	"wanderbot/internal/domain"
)

func TestCreateExperience(t *testing.T) {
	repo := &fakeExperienceRepo{}
	svc := app.NewExperienceService(repo, nil, nil)

	e, err := svc.Create(context.Background(), domain.NewExperience{
		AuthorID:    "u-1",
		Description: " Sunrise over the tea estates. ",
		Location:    "Munnar",
		Season:      "Monsoon",
		Images:      []string{"https://img.example.com/a.jpg"},
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if e.ID != 1 || e.Season != domain.SeasonMonsoon || e.Description != "Sunrise over the tea estates." {
		t.Fatalf("unexpected experience: %+v", e)
	}
	if e.CreatedAt.IsZero() || e.CreatedAt.Location().String() != "UTC" {
		t.Fatalf("created_at must be set in UTC: %v", e.CreatedAt)
	}
}

func TestCreateExperience_DerivesSeason(t *testing.T) {
	svc := app.NewExperienceService(&fakeExperienceRepo{}, nil, nil)
	e, err := svc.Create(context.Background(), domain.NewExperience{AuthorID: "u", Description: "d", Location: "l"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if want := domain.SeasonForMonth(e.CreatedAt.Month()); e.Season != want {
		t.Fatalf("season = %q, want %q", e.Season, want)
	}
}

func TestCreateExperience_Validation(t *testing.T) {
	svc := app.NewExperienceService(&fakeExperienceRepo{}, nil, nil)
	images := make([]string, domain.MaxExperienceImages+1)
	for i := range images {
		images[i] = "https://img.example.com/x.jpg"
	}
	_, err := svc.Create(context.Background(), domain.NewExperience{
		Description: strings.Repeat("x", domain.MaxExperienceDescription+1),
		Season:      "spring",
		Images:      images,
	})
	var v *domain.ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := map[string]string{
		"author_id":   "required",
		"description": "too long",
		"location":    "required",
		"season":      "unknown season",
		"images":      "too many images",
	}
	for f, msg := range want {
		if v.Fields[f] != msg {
			t.Errorf("field %s = %q, want %q", f, v.Fields[f], msg)
		}
	}
}

func TestAttachImage(t *testing.T) {
	repo := &fakeExperienceRepo{}
	host := &fakeImageHost{}
	svc := app.NewExperienceService(repo, host, nil)
	ctx := context.Background()

	e, err := svc.Create(ctx, domain.NewExperience{AuthorID: "u", Description: "d", Location: "Hampi"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	got, err := svc.AttachImage(ctx, e.ID, "ruins.jpg", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if len(got.Images) != 1 || got.Images[0] != "https://img.example.com/ruins.jpg" || host.got != "jpegbytes" {
		t.Fatalf("unexpected images: %v (uploaded %q)", got.Images, host.got)
	}
	if stored, _ := repo.GetExperience(ctx, e.ID); len(stored.Images) != 1 {
		t.Fatalf("image url not persisted: %+v", stored)
	}

	if _, err := svc.AttachImage(ctx, 99, "x.jpg", strings.NewReader("")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	noHost := app.NewExperienceService(repo, nil, nil)
	if _, err := noHost.AttachImage(ctx, e.ID, "x.jpg", strings.NewReader("")); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestAttachImage_Limit(t *testing.T) {
	full := make([]string, domain.MaxExperienceImages)
	for i := range full {
		full[i] = fmt.Sprintf("https://img.example.com/%d.jpg", i)
	}
	repo := &fakeExperienceRepo{}
	host := &fakeImageHost{}
	svc := app.NewExperienceService(repo, host, nil)
	ctx := context.Background()

	e, err := svc.Create(ctx, domain.NewExperience{AuthorID: "u", Description: "d", Location: "Coorg", Images: full})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.AttachImage(ctx, e.ID, "extra.jpg", strings.NewReader("jpeg"))
	var v *domain.ValidationError
	if !errors.As(err, &v) || v.Fields["images"] != "too many images" {
		t.Fatalf("expected image limit error, got %v", err)
	}
	if host.calls != 0 {
		t.Fatalf("image host called %d times for a full experience", host.calls)
	}
}

func TestAttachImage_ConcurrentUploadsAllLand(t *testing.T) {
	repo := &fakeExperienceRepo{}
	host := &fakeImageHost{delay: 20 * time.Millisecond}
	svc := app.NewExperienceService(repo, host, nil)
	ctx := context.Background()

	e, err := svc.Create(ctx, domain.NewExperience{AuthorID: "u", Description: "d", Location: "Hampi"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.AttachImage(ctx, e.ID, fmt.Sprintf("p%d.jpg", i), strings.NewReader("jpeg"))
		}()
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
	}
	stored, _ := repo.GetExperience(ctx, e.ID)
	if len(stored.Images) != 3 {
		t.Fatalf("expected 3 stored images, got %v", stored.Images)
	}
}

func TestAttachImage_UploadErrorStoresNothing(t *testing.T) {
	repo := &fakeExperienceRepo{}
	host := &fakeImageHost{err: fmt.Errorf("image upload: %w", domain.ErrUnavailable)}
	svc := app.NewExperienceService(repo, host, nil)
	ctx := context.Background()

	e, _ := svc.Create(ctx, domain.NewExperience{AuthorID: "u", Description: "d", Location: "Ooty"})
	if _, err := svc.AttachImage(ctx, e.ID, "a.jpg", strings.NewReader("jpeg")); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if stored, _ := repo.GetExperience(ctx, e.ID); len(stored.Images) != 0 {
		t.Fatalf("nothing should be stored: %v", stored.Images)
	}
}

func TestParseSubmission(t *testing.T) {
	gen := &fakeGen{text: "```json\n{\"name\":\"Dudhsagar trek\",\"location\":\"Goa\",\"season\":\"monsoon\",\"recommended_activity\":\"trekking\"}\n```"}
	svc := app.NewExperienceService(&fakeExperienceRepo{}, nil, gen)

	d, err := svc.ParseSubmission(context.Background(), "We trekked to Dudhsagar falls in August...")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if d.Name != "Dudhsagar trek" || d.Location != "Goa" || d.RecommendedActivity != "trekking" {
		t.Fatalf("unexpected draft: %+v", d)
	}
	req := gen.reqs[0]
	if !req.JSON || req.MaxOutputTokens != 400 || !strings.Contains(req.Messages[0].Content, "Dudhsagar falls") {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestParseSubmission_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := app.NewExperienceService(&fakeExperienceRepo{}, nil, nil).ParseSubmission(ctx, "x"); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable without a generator, got %v", err)
	}
	if _, err := app.ParseSubmission(ctx, &fakeGen{}, "   "); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for blank text, got %v", err)
	}
	if _, err := app.ParseSubmission(ctx, &fakeGen{text: "sorry, no"}, "story"); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for prose output, got %v", err)
	}
	boom := errors.New("quota")
	if _, err := app.ParseSubmission(ctx, &fakeGen{err: boom}, "story"); !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}
}
