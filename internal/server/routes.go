package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/leapstack-labs/fixpq/internal/state"
	"github.com/leapstack-labs/fixpq/pkg/format"
	"github.com/leapstack-labs/fixpq/pkg/parser"
)

func (s *Server) setupRoutes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/tokenize", s.handleTokenize)
		r.Post("/parse", s.handleParse)

		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
}

// ParseResponse is the body of a successful parse.
type ParseResponse struct {
	Status   string          `json:"status"`
	Tokens   int             `json:"tokens"`
	Nodes    int             `json:"nodes"`
	Tree     *format.TreeDoc `json:"tree"`
	Comments []string        `json:"comments,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// RunResponse is the serialized form of a recorded run.
type RunResponse struct {
	ID          string     `json:"id"`
	Command     string     `json:"command"`
	Input       string     `json:"input"`
	Output      string     `json:"output,omitempty"`
	Status      string     `json:"status"`
	Tokens      int        `json:"tokens"`
	Nodes       int        `json:"nodes"`
	Dropped     int        `json:"dropped"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTokenize(w http.ResponseWriter, r *http.Request) {
	tokens, ok := s.readTokens(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, format.TokenRows(tokens))
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	tokens, ok := s.readTokens(w, r)
	if !ok {
		return
	}

	logger := s.requestLogger(r)
	res := parser.Parse(tokens, parser.WithLogger(logger), parser.WithMaxTextLen(s.maxTextLen))
	s.recordRun(r, len(tokens), res)

	if !res.OK() {
		body := ErrorResponse{Status: res.Status.String(), Error: res.Err.Error()}
		var perr *parser.Error
		if errors.As(res.Err, &perr) {
			body.Line = perr.Pos.Line
			body.Column = perr.Pos.Column
		}
		writeJSON(w, http.StatusUnprocessableEntity, body)
		return
	}

	resp := ParseResponse{
		Status: res.Status.String(),
		Tokens: len(tokens),
		Nodes:  res.Nodes(),
		Tree:   format.Doc(res.Root),
	}
	for _, c := range res.Comments {
		resp.Comments = append(resp.Comments, c.Text)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "run history is disabled")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", v))
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		s.requestLogger(r).Error("failed to list runs", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]RunResponse, len(runs))
	for i, run := range runs {
		out[i] = toRunResponse(run)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "run history is disabled")
		return
	}

	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, state.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toRunResponse(run))
}

// readTokens decodes and tokenizes the request body. On failure the error
// response has already been written.
func (s *Server) readTokens(w http.ResponseWriter, r *http.Request) ([]parser.Token, bool) {
	enc := r.URL.Query().Get("encoding")
	if enc == "" {
		enc = s.encoding
	}

	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	tokens, err := parser.TokenizeReader(body, enc)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("body exceeds %d bytes", s.maxBody))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return tokens, true
}

func (s *Server) recordRun(r *http.Request, tokens int, res *parser.Result) {
	if s.store == nil {
		return
	}
	logger := s.requestLogger(r)

	run, err := s.store.CreateRun(r.Context(), "api", r.RemoteAddr)
	if err != nil {
		logger.Warn("failed to record run", slog.String("error", err.Error()))
		return
	}
	result := state.RunResult{Status: state.RunStatusSuccess, Tokens: tokens, Nodes: res.Nodes(), Err: res.Err}
	if err := s.store.CompleteRun(r.Context(), run.ID, result); err != nil {
		logger.Warn("failed to record run", slog.String("error", err.Error()))
	}
}

func (s *Server) requestLogger(r *http.Request) *slog.Logger {
	return s.logger.With(slog.String("request_id", middleware.GetReqID(r.Context())))
}

func toRunResponse(run *state.Run) RunResponse {
	return RunResponse{
		ID:          run.ID,
		Command:     run.Command,
		Input:       run.Input,
		Output:      run.Output,
		Status:      string(run.Status),
		Tokens:      run.Tokens,
		Nodes:       run.Nodes,
		Dropped:     run.Dropped,
		Error:       run.Error,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
