package simd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/common/expfmt"

	"github.com/archbench/archbench-engine/pkg/logger"
	"github.com/archbench/archbench-engine/pkg/models"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

type HTTPServer struct {
	mux     *http.ServeMux
	service *Service
}

func NewHTTPServer(service *Service) *HTTPServer {
	s := &HTTPServer{
		mux:     http.NewServeMux(),
		service: service,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/metrics", s.handleMetrics)
	s.mux.HandleFunc("/simulate", s.handleSimulate)
	s.mux.HandleFunc("/v1/simulations:batch", s.handleBatch)
	s.mux.HandleFunc("/v1/node-types", s.handleNodeTypes)

	return s
}

// Handler returns the routes wrapped in request logging.
func (s *HTTPServer) Handler() http.Handler {
	return logRequests(s.mux)
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleSimulate handles POST /simulate
func (s *HTTPServer) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}

	var scenario *models.Scenario
	if p, ok := decodeBody(w, r, &scenario); !ok {
		writeProblem(w, p)
		return
	}

	result, err := s.service.Simulate(r.Context(), scenario)
	if err != nil {
		p := problemFor(err)
		if p.Status >= http.StatusInternalServerError {
			logger.Error("simulation failed", "error", err)
		}
		writeProblem(w, p)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

type batchRequest struct {
	Scenarios []*models.Scenario `json:"scenarios"`
}

type batchResult struct {
	Index  int                      `json:"index"`
	Result *models.SimulationResult `json:"result,omitempty"`
	Error  *Problem                 `json:"error,omitempty"`
}

// handleBatch handles POST /v1/simulations:batch
func (s *HTTPServer) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}

	var req batchRequest
	if p, ok := decodeBody(w, r, &req); !ok {
		writeProblem(w, p)
		return
	}
	if req.Scenarios == nil {
		writeProblem(w, newProblem(http.StatusBadRequest, "Invalid batch", "scenarios is required"))
		return
	}

	items := s.service.SimulateBatch(r.Context(), req.Scenarios)
	results := make([]batchResult, 0, len(items))
	for _, item := range items {
		br := batchResult{Index: item.Index, Result: item.Result}
		if item.Err != nil {
			p := problemFor(item.Err)
			br.Error = &p
		}
		results = append(results, br)
	}

	logger.Info("batch simulated", "scenarios", len(items))
	s.writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

type nodeTypeJSON struct {
	Type string `json:"type"`
	models.NodeTypeDefaults
}

// handleNodeTypes handles GET /v1/node-types
func (s *HTTPServer) handleNodeTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}

	table := s.service.Engine().Defaults()
	types := make([]nodeTypeJSON, 0, table.Len())
	for _, typ := range table.Types() {
		d, _ := table.Lookup(typ)
		types = append(types, nodeTypeJSON{Type: typ, NodeTypeDefaults: d})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"nodeTypes": types})
}

// handleMetrics handles GET /metrics
func (s *HTTPServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}

	w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	if err := s.service.Metrics().WriteText(w); err != nil {
		logger.Error("failed to write metrics", "error", err)
	}
}

// decodeBody decodes a size-limited JSON body into dst. On failure it returns
// the problem to send.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) (Problem, bool) {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return newProblem(http.StatusRequestEntityTooLarge, "Request too large",
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)), false
		}
		if errors.Is(err, io.EOF) {
			return newProblem(http.StatusBadRequest, "Invalid scenario", "invalid request body: empty body"), false
		}
		return newProblem(http.StatusBadRequest, "Invalid scenario", "invalid request body: "+err.Error()), false
	}
	return Problem{}, true
}

// Helper functions

func (s *HTTPServer) methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeProblem(w, newProblem(http.StatusMethodNotAllowed, "Method not allowed",
		"use "+allowed))
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// logRequests tags each request with an X-Request-ID and logs its outcome.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		logger.Info("request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"latency_ms", time.Since(start).Milliseconds(),
		)
	})
}
