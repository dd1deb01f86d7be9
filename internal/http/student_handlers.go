package http

import (
	"net/http"
	"net/url"

	"saweb/api/internal/model"
	"saweb/api/internal/repository"
)

// queryParam returns the first non-empty value among names.
func queryParam(q url.Values, names ...string) string {
	for _, name := range names {
		if v := q.Get(name); v != "" {
			return v
		}
	}
	return ""
}

func (s *Server) handleStudentGrades(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	q := r.URL.Query()
	filter := repository.GradeFilter{
		HocKy:  queryParam(q, "hocky", "term"),
		NamHoc: queryParam(q, "namhoc", "year"),
	}

	grades, err := s.store.ListStudentGrades(r.Context(), claims.UserID, filter)
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grades)
}

func (s *Server) handleStudentClasses(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	classes, err := s.store.ListStudentClasses(r.Context(), claims.UserID)
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

func (s *Server) handleStudentSummary(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	avg, credits, err := s.store.StudentAggregates(r.Context(), claims.UserID)
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NewAcademicSummary(avg, credits))
}
