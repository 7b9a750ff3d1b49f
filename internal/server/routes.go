package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/yaklabco/mdpost/internal/logging"
	"github.com/yaklabco/mdpost/pkg/editor"
	"github.com/yaklabco/mdpost/pkg/post"
)

type renderRequest struct {
	Content string `json:"content"`
}

type renderResponse struct {
	HTML       string  `json:"html"`
	Empty      bool    `json:"empty"`
	DurationMS float64 `json:"durationMs"`
}

type formatRequest struct {
	Command        string `json:"command"`
	Content        string `json:"content"`
	SelectionStart int    `json:"selectionStart"`
	SelectionEnd   int    `json:"selectionEnd"`
}

type formatResponse struct {
	Content string `json:"content"`
	Caret   int    `json:"caret"`
	Applied bool   `json:"applied"`
}

type descriptionRequest struct {
	Content string `json:"content"`
}

type descriptionResponse struct {
	JobID uuid.UUID `json:"jobId"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("GET /api/commands", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, editor.Commands())
	})
	handlePost(s.mux, "POST /api/render", s.handleRender)
	handlePost(s.mux, "POST /api/format", s.handleFormat)
	s.mux.HandleFunc("GET /ws/preview", s.handlePreviewSocket)

	if s.posts == nil {
		return
	}
	handlePost(s.mux, "POST /api/posts", s.handleCreatePost)
	s.mux.HandleFunc("GET /api/posts", s.handleListPosts)
	s.mux.HandleFunc("GET /api/posts/{id}", s.handleGetPost)
	handlePost(s.mux, "POST /api/posts/description", s.handleDescribe)
	s.mux.HandleFunc("GET /api/jobs/{id}", s.handleJob)
}

// handlePost registers a JSON endpoint that decodes the request body into T.
func handlePost[T any](mux *http.ServeMux, pattern string, fn func(http.ResponseWriter, *http.Request, T)) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		var req T
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
			return
		}
		fn(w, r, req)
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request, req renderRequest) {
	res, err := s.engine.Render(r.Context(), []byte(req.Content))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{
		HTML:       string(res.HTML),
		Empty:      res.Empty,
		DurationMS: float64(res.Duration.Microseconds()) / 1000,
	})
}

func (s *Server) handleFormat(w http.ResponseWriter, _ *http.Request, req formatRequest) {
	buf := editor.Buffer{
		Content:        req.Content,
		SelectionStart: req.SelectionStart,
		SelectionEnd:   req.SelectionEnd,
	}.Normalize()

	res, ok := editor.Dispatch(req.Command, buf)
	writeJSON(w, http.StatusOK, formatResponse{
		Content: res.Buffer.Content,
		Caret:   res.Caret,
		Applied: ok,
	})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request, in post.Input) {
	created, err := s.posts.Create(r.Context(), in)
	if err != nil {
		writePostError(w, err)
		return
	}
	logging.FromContext(r.Context()).Info("post created", logging.FieldPost, created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.List(r.Context())
	if err != nil {
		writePostError(w, err)
		return
	}
	if posts == nil {
		posts = []post.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := s.posts.Get(r.Context(), id)
	if err != nil {
		writePostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request, req descriptionRequest) {
	id, err := s.posts.GenerateDescription(r.Context(), req.Content)
	if err != nil {
		writePostError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, descriptionResponse{JobID: id})
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	job, err := s.posts.Job(id)
	if err != nil {
		writePostError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid id: %w", err))
		return uuid.Nil, false
	}
	return id, true
}

func writePostError(w http.ResponseWriter, err error) {
	var verr *post.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make(map[string]string, len(verr.Fields))
		for name := range verr.Fields {
			fields[name] = verr.Field(name)
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Fields: fields})
	case errors.Is(err, post.ErrNotFound), errors.Is(err, post.ErrUnknownJob):
		writeError(w, http.StatusNotFound, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
