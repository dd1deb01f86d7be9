package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"saweb/api/internal/repository"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string   `json:"error"`
	Details string   `json:"details,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeFailure echoes the cause only in development mode.
func (s *Server) writeFailure(w http.ResponseWriter, status int, message string, cause error) {
	resp := errorResponse{Error: message}
	if cause != nil && s.cfg.Development() {
		resp.Details = cause.Error()
	}
	writeJSON(w, status, resp)
}

// queryFailed logs a store error and answers 500.
func (s *Server) queryFailed(w http.ResponseWriter, r *http.Request, err error) {
	attrs := []any{"error", err, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context())}
	var dbe *repository.DBError
	if errors.As(err, &dbe) {
		attrs = append(attrs, "op", dbe.Op)
		if c := dbe.Constraint(); c != "" {
			attrs = append(attrs, "constraint", c)
		}
	}
	s.log.Error("query error", attrs...)
	s.writeFailure(w, http.StatusInternalServerError, "Query error", err)
}

// bind decodes the JSON body into out and validates it. On failure it writes
// a 400 carrying message and returns false. An empty body decodes to the zero
// value so that validation names the missing fields.
func (s *Server) bind(w http.ResponseWriter, r *http.Request, out interface{}, message string) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		s.writeFailure(w, http.StatusBadRequest, message, err)
		return false
	}
	if err := s.validate.Struct(out); err != nil {
		resp := errorResponse{Error: message}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				resp.Fields = append(resp.Fields, fe.Field())
			}
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return false
	}
	return true
}
