package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"saweb/api/internal/model"
	"saweb/api/internal/repository"
)

type enterGradesRequest struct {
	LopHocID     string             `json:"lophoc_id" validate:"required"`
	DanhSachDiem []model.GradeEntry `json:"danh_sach_diem" validate:"required"`
}

type editGradeRequest struct {
	SinhVienID string   `json:"sinhvien_id" validate:"required"`
	LopHocID   string   `json:"lophoc_id" validate:"required"`
	DiemGiuaKy *float64 `json:"diem_giua_ky"`
	DiemCuoiKy *float64 `json:"diem_cuoi_ky"`
	GhiChu     *string  `json:"ghi_chu"`
}

// handleEnterGrades upserts every entry in order. Without GRADES_BULK_ATOMIC
// the entries written before a failing one stay committed.
func (s *Server) handleEnterGrades(w http.ResponseWriter, r *http.Request) {
	var req enterGradesRequest
	if !s.bind(w, r, &req, "Invalid input data") {
		return
	}

	upsert := s.store.UpsertGrades
	if s.cfg.GradesBulkAtomic {
		upsert = s.store.UpsertGradesAtomic
	}
	written, err := upsert(r.Context(), req.LopHocID, req.DanhSachDiem)
	if err != nil {
		s.log.Warn("bulk grade entry stopped",
			"lophoc_id", req.LopHocID,
			"written", written,
			"total", len(req.DanhSachDiem),
			"atomic", s.cfg.GradesBulkAtomic,
		)
		s.queryFailed(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Grades entered successfully")
}

// handleEditGrade answers 200 whether or not a grade row matched.
func (s *Server) handleEditGrade(w http.ResponseWriter, r *http.Request) {
	var req editGradeRequest
	if !s.bind(w, r, &req, "Student ID and class ID required") {
		return
	}

	entry := model.GradeEntry{
		SinhVienID: req.SinhVienID,
		DiemGiuaKy: req.DiemGiuaKy,
		DiemCuoiKy: req.DiemCuoiKy,
		GhiChu:     req.GhiChu,
	}
	matched, err := s.store.UpdateGrade(r.Context(), req.LopHocID, entry)
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	if !matched {
		s.log.Debug("grade edit matched no row", "sinhvien_id", req.SinhVienID, "lophoc_id", req.LopHocID)
	}
	writeMessage(w, http.StatusOK, "Grades updated successfully")
}

// handleClassRoster lists any class; lecturers are not restricted to their own.
func (s *Server) handleClassRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := s.store.ListClassRoster(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// handleFindStudent answers an empty object when no student matches.
func (s *Server) handleFindStudent(w http.ResponseWriter, r *http.Request) {
	student, err := s.store.FindStudent(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}
