package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"wanderbot/internal/adapters/observability"
	"wanderbot/internal/domain"
)

func (h *Handlers) recommend(w http.ResponseWriter, r *http.Request) {
	qp := &queryParams{r: r}
	q := domain.RecommendationQuery{}
	if m := qp.intIn("month", 1, 12); m != nil {
		q.Month = time.Month(*m)
	}
	if l := qp.intIn("limit", 1, 20); l != nil {
		q.Limit = *l
	}
	if p := qp.text("prefs"); p != nil {
		q.Preferences = strings.Split(*p, ",")
	}
	if err := qp.v.Err(); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Recommendations.Recommend(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type sessionResponse struct {
	ID string `json:"id"`
}

func (h *Handlers) startSession(w http.ResponseWriter, r *http.Request) {
	id, err := h.Assistant.StartSession(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/assistant/sessions/"+id)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: id})
}

type messageRequest struct {
	Message string         `json:"message"`
	Hints   map[string]any `json:"hints"`
}

func (h *Handlers) sendMessage(w http.ResponseWriter, r *http.Request) {
	var in messageRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Assistant.Send(r.Context(), chi.URLParam(r, "id"), in.Message, in.Hints)
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObserveAssistant(out.Tool, out.Fallback)
	writeJSON(w, http.StatusOK, out)
}
