package httpserver

import (
	"fmt"
	"net/http"

	"wanderbot/internal/domain"
)

func (h *Handlers) createPromotion(w http.ResponseWriter, r *http.Request) {
	var in domain.NewPromotion
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Promotions.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/promotions/%d", out.ID))
	writeJSON(w, http.StatusCreated, out)
}

// listPromotions only ever shows promotions that are live now.
func (h *Handlers) listPromotions(w http.ResponseWriter, r *http.Request) {
	qp := &queryParams{r: r}
	q := domain.PromotionQuery{
		City:      qp.text("city"),
		Kind:      qp.text("kind"),
		PageQuery: qp.page(),
	}
	if err := qp.v.Err(); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Promotions.ListActive(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getPromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.Promotions.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handlers) setPromotionStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in statusRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Promotions.SetStatus(r.Context(), id, in.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
