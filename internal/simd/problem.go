package simd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/archbench/archbench-engine/internal/normalize"
	"github.com/archbench/archbench-engine/internal/validation"
	"github.com/archbench/archbench-engine/pkg/logger"
)

const problemContentType = "application/problem+json"

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func newProblem(status int, title, detail string) Problem {
	return Problem{Type: "about:blank", Title: title, Status: status, Detail: detail}
}

// problemFor maps a simulation error to its problem document.
func problemFor(err error) Problem {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		return newProblem(http.StatusBadRequest, "Invalid scenario", verr.Detail)
	}
	var cerr *normalize.ConfigurationError
	if errors.As(err, &cerr) {
		return newProblem(http.StatusInternalServerError, "Unsupported configuration", cerr.Error())
	}
	return newProblem(http.StatusInternalServerError, "Simulation failed", err.Error())
}

func writeProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		logger.Error("failed to encode problem response", "error", err)
	}
}
