package middleware

import (
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// Problem represents an RFC 7807 problem details object
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Trace  string `json:"trace_id,omitempty"`
}

// Render writes the problem as application/problem+json
func (p Problem) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	return json.NewEncoder(w).Encode(p)
}

// NewProblem builds a problem for status, correlated with the request's
// trace or, failing that, its request ID.
func NewProblem(r *http.Request, status int, slug, detail string) Problem {
	return Problem{
		Type:   "/errors/" + slug,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Trace:  correlationID(r),
	}
}

func correlationID(r *http.Request) string {
	if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
		return sc.TraceID().String()
	}
	return GetReqID(r.Context())
}
