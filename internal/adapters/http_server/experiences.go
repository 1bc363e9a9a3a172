package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"wanderbot/internal/domain"
)

func (h *Handlers) createExperience(w http.ResponseWriter, r *http.Request) {
	var in domain.NewExperience
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Experiences.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/experiences/%d", out.ID))
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) listExperiences(w http.ResponseWriter, r *http.Request) {
	qp := &queryParams{r: r}
	q := domain.ExperienceQuery{
		AuthorID:  qp.text("author"),
		City:      qp.text("city"),
		PageQuery: qp.page(),
	}
	if err := qp.v.Err(); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Experiences.List(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.Experiences.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) uploadExperienceImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeProblem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", "images are limited to 10 MiB")
			return
		}
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "expected multipart/form-data")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("multipart cleanup failed")
		}
	}()
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "form field \"file\" is required")
		return
	}
	defer f.Close()
	if hdr.Size > maxUploadBytes {
		writeProblem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", "images are limited to 10 MiB")
		return
	}
	if hdr.Size == 0 {
		writeProblemJSON(w, problem{
			Type: "about:blank", Title: "Invalid Request", Status: http.StatusBadRequest,
			Detail: "uploaded file is empty", Fields: map[string]string{"file": "empty"},
		})
		return
	}
	out, err := h.Experiences.AttachImage(r.Context(), id, hdr.Filename, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type parseRequest struct {
	Text string `json:"text"`
}

func (h *Handlers) parseExperience(w http.ResponseWriter, r *http.Request) {
	var in parseRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.Experiences.ParseSubmission(r.Context(), in.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
