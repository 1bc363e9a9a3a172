package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wanderbot/internal/app"
	"wanderbot/internal/domain"
)

const (
	maxJSONBody    = 1 << 20
	maxUploadBytes = 10 << 20
)

// Handlers holds the services behind the API. A nil service leaves its routes unmounted.
type Handlers struct {
	Experiences     *app.ExperienceService
	Hotels          *app.QueryService
	Promotions      *app.PromotionService
	Recommendations *app.RecommendationService
	Assistant       *app.AssistantService
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		if h.Experiences != nil {
			r.Route("/experiences", func(r chi.Router) {
				r.With(LimitBody(maxJSONBody)).Post("/", h.createExperience)
				r.Get("/", h.listExperiences)
				r.With(LimitBody(maxJSONBody)).Post("/parse", h.parseExperience)
				r.Get("/{id}", h.getExperience)
				r.With(LimitBody(maxUploadBytes+1<<20)).Post("/{id}/images", h.uploadExperienceImage)
			})
		}
		if h.Hotels != nil {
			r.Route("/hotels", func(r chi.Router) {
				r.Get("/", h.listHotels)
				r.With(LimitBody(maxJSONBody)).Post("/", h.createHotel)
				r.Get("/{id}", h.getHotel)
			})
		}
		if h.Promotions != nil {
			r.Route("/promotions", func(r chi.Router) {
				r.With(LimitBody(maxJSONBody)).Post("/", h.createPromotion)
				r.Get("/", h.listPromotions)
				r.Get("/{id}", h.getPromotion)
				r.With(LimitBody(maxJSONBody)).Patch("/{id}/status", h.setPromotionStatus)
			})
		}
		if h.Recommendations != nil {
			r.Get("/recommendations", h.recommend)
		}
		if h.Assistant != nil {
			r.Route("/assistant/sessions", func(r chi.Router) {
				r.Post("/", h.startSession)
				r.With(LimitBody(maxJSONBody)).Post("/{id}/messages", h.sendMessage)
			})
		}
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemJSON(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemJSON(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var v *domain.ValidationError
	switch {
	case errors.As(err, &v):
		writeProblemJSON(w, problem{Type: "about:blank", Title: "Invalid Request", Status: http.StatusBadRequest, Detail: v.Error(), Fields: v.Fields})
	case errors.Is(err, domain.ErrInvalid):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("dependency unavailable")
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decodeJSON reports its own problem response; callers just return on false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeProblem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", fmt.Sprintf("body exceeds %d bytes", tooBig.Limit))
			return false
		}
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return false
	}
	return true
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("marshal for ETag failed")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return 0, false
	}
	return id, true
}

// queryParams collects per-parameter parse failures into one validation error.
type queryParams struct {
	r *http.Request
	v domain.ValidationError
}

func (q *queryParams) text(name string) *string {
	s := strings.TrimSpace(q.r.URL.Query().Get(name))
	if s == "" {
		return nil
	}
	return &s
}

func (q *queryParams) intIn(name string, lo, hi int) *int {
	s := q.text(name)
	if s == nil {
		return nil
	}
	n, err := strconv.Atoi(*s)
	if err != nil || n < lo || n > hi {
		q.v.Add(name, fmt.Sprintf("must be an integer between %d and %d", lo, hi))
		return nil
	}
	return &n
}

func (q *queryParams) nonNegative(name string) *float64 {
	s := q.text(name)
	if s == nil {
		return nil
	}
	f, err := strconv.ParseFloat(*s, 64)
	if err != nil || f < 0 {
		q.v.Add(name, "must be a non-negative number")
		return nil
	}
	return &f
}

func (q *queryParams) page() domain.PageQuery {
	pg := domain.PageQuery{Cursor: q.text("cursor")}
	if l := q.intIn("limit", 1, domain.MaxPageLimit); l != nil {
		pg.Limit = *l
	}
	return pg
}

// ---- hotels ----

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	resp, err := h.Hotels.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	etag, body := calcETagAndBody(resp)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("write hotel body failed")
	}
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	qp := &queryParams{r: r}
	q := domain.HotelsQuery{
		City:      qp.text("city"),
		Country:   qp.text("country"),
		MinStars:  qp.intIn("min_stars", 1, 5),
		MaxPrice:  qp.nonNegative("max_price"),
		Amenity:   qp.text("amenity"),
		PageQuery: qp.page(),
	}
	if err := qp.v.Err(); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Hotels.ListHotels(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in domain.NewHotel
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Hotels.SubmitHotel(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/hotels/%d", out.ID))
	writeJSON(w, http.StatusCreated, out)
}
