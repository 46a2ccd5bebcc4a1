package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/vql/internal/catalog"
	"github.com/leapstack-labs/vql/pkg/vql"
)

// maxScriptBytes bounds the request body of /v1/parse.
const maxScriptBytes = 1 << 20

// ParseResponse is the body of a successful /v1/parse request.
type ParseResponse struct {
	Statements []vql.Description `json:"statements"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScriptBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "script too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "failed to read body"})
		return
	}

	stmts, err := vql.Parse(string(body))
	if err != nil {
		resp := ErrorResponse{Error: err.Error()}
		if pos, ok := vql.ErrorPosition(err); ok {
			resp.Line = pos.Line
			resp.Column = pos.Column
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	writeJSON(w, http.StatusOK, ParseResponse{Statements: vql.Redact(vql.Describe(stmts))})
}

func (s *Server) handleListDataSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.catalog.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list datasources", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to list datasources"})
		return
	}

	out := make([]*catalog.DataSource, len(sources))
	for i, ds := range sources {
		out[i] = ds.Redact()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDataSource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ds, err := s.catalog.Get(r.Context(), name)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		s.logger.Error("failed to get datasource", "name", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to get datasource"})
		return
	}
	writeJSON(w, http.StatusOK, ds.Redact())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
