// Package server exposes the chatbot over HTTP: a plain JSON chat endpoint,
// an OpenAI-compatible chat completions endpoint, and the live dashboard.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Umesh49/ZeroTrace/internal/dashboard"
	"github.com/Umesh49/ZeroTrace/internal/pipeline"
)

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 64 << 10

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the body returned by POST /api/chat.
type ChatResponse struct {
	RequestID  string                `json:"request_id"`
	Reply      string                `json:"reply"`
	Kind       string                `json:"kind"`
	Handler    string                `json:"handler,omitempty"`
	Match      *pipeline.MatchReport `json:"match,omitempty"`
	Suggestion string                `json:"suggestion,omitempty"`
	Intents    []string              `json:"intents"`
}

// Server answers chat requests with a pipeline.
type Server struct {
	pipe   *pipeline.Pipeline
	hub    *dashboard.Hub
	logger zerolog.Logger
}

// New creates a Server. hub may be nil to disable the dashboard.
func New(pipe *pipeline.Pipeline, hub *dashboard.Hub, logger zerolog.Logger) *Server {
	return &Server{
		pipe:   pipe,
		hub:    hub,
		logger: logger,
	}
}

// Handler returns the complete HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/chat", s.handleChat)
	r.Post("/v1/chat/completions", s.handleCompletions)

	if s.hub != nil {
		r.Mount(dashboard.Prefix, dashboard.Routes(s.hub))
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.badRequest(w, r, err)
		return
	}

	res := s.pipe.Process(pipeline.SourceAPI, req.Message)
	s.logReply(res)

	rep := res.BuildReport()
	writeJSON(w, http.StatusOK, ChatResponse{
		RequestID:  res.RequestID,
		Reply:      res.Text(),
		Kind:       string(rep.Kind),
		Handler:    rep.Handler,
		Match:      rep.Match,
		Suggestion: rep.Suggestion,
		Intents:    rep.Intents,
	})
}

func (s *Server) handleCompletions(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	chatReq, err := ParseChatRequest(body)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	if chatReq.Stream {
		s.badRequest(w, r, errors.New("streaming is not supported"))
		return
	}

	prompt := LastUserMessage(chatReq)
	res := s.pipe.Process(pipeline.SourceOpenAI, prompt)
	s.logReply(res)

	writeJSON(w, http.StatusOK, MakeCompletion(res, prompt, chatReq.Model))
}

func (s *Server) logReply(res *pipeline.Result) {
	ev := s.logger.Info()
	if res.IsFallback() {
		ev = s.logger.Warn()
	}
	ev = ev.Str("request_id", res.RequestID).
		Str("source", res.Source).
		Str("kind", string(res.Reply.Kind)).
		Dur("duration", res.Duration)
	if res.Reply.Handler != "" {
		ev = ev.Str("handler", res.Reply.Handler)
	}
	if m := res.Reply.Match; m != nil {
		ev = ev.Str("match_type", string(m.Type)).
			Float64("confidence", m.Confidence)
	}
	ev.Msg("reply")
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn().
		Err(err).
		Str("path", r.URL.Path).
		Str("http_request_id", middleware.GetReqID(r.Context())).
		Msg("bad request")
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
