package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"saweb/api/internal/crypto"
	"saweb/api/internal/model"
	"saweb/api/internal/repository"
)

type createUserRequest struct {
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Role     string  `json:"role" validate:"required"`
	HoTen    string  `json:"hoten" validate:"required"`
	Email    *string `json:"email"`
	KhoaID   *string `json:"khoa_id"`
}

type createUserResponse struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type updateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type resetPasswordRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type createClassRequest struct {
	LopHocID    string  `json:"lophoc_id" validate:"required"`
	MonHocID    string  `json:"monhoc_id" validate:"required"`
	GiangVienID string  `json:"giangvien_id" validate:"required"`
	NamHoc      string  `json:"namhoc"`
	HocKy       string  `json:"hocky"`
	Phong       *string `json:"phong"`
	TrangThai   *string `json:"trang_thai"`
}

type createDepartmentRequest struct {
	KhoaID  string `json:"khoa_id" validate:"required"`
	TenKhoa string `json:"tenkhoa" validate:"required"`
}

type createCourseRequest struct {
	MonHocID string `json:"monhoc_id" validate:"required"`
	MaMon    string `json:"mamon" validate:"required"`
	TenMon   string `json:"tenmon" validate:"required"`
	SoTinChi int32  `json:"sotinchi" validate:"required,gt=0"`
}

type createEnrollmentRequest struct {
	SinhVienID string `json:"sinhvien_id" validate:"required"`
	LopHocID   string `json:"lophoc_id" validate:"required"`
}

type systemStatus struct {
	Status   string  `json:"status"`
	Uptime   float64 `json:"uptime"`
	Database string  `json:"database"`
}

var profileCodePrefix = map[model.Role]string{
	model.RoleStudent:  "SV",
	model.RoleLecturer: "GV",
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !s.bind(w, r, &req, "Missing required fields") {
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		s.log.Error("hash password", "error", err)
		s.writeFailure(w, http.StatusInternalServerError, "Server error", err)
		return
	}

	user := model.User{
		ID:           crypto.NewUserID(),
		Username:     req.Username,
		PasswordHash: hash,
		Role:         role,
	}
	profile := model.Profile{
		UserID: user.ID,
		Name:   req.HoTen,
		Email:  req.Email,
		KhoaID: req.KhoaID,
	}
	if prefix, ok := profileCodePrefix[role]; ok {
		profile.Code = crypto.NewCode(prefix, s.now())
	}

	if err := s.store.CreateUser(r.Context(), user, profile); err != nil {
		s.queryFailed(w, r, err)
		return
	}
	s.log.Info("user created", "user_id", user.ID, "role", role.String())
	writeJSON(w, http.StatusCreated, createUserResponse{UserID: user.ID, Message: "User created successfully"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	filter := repository.UserFilter{}
	if raw := r.URL.Query().Get("role"); raw != "" {
		role, err := model.ParseRole(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid role")
			return
		}
		filter.Role = role.String()
	}

	users, err := s.store.ListUsers(r.Context(), filter)
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if !s.bind(w, r, &req, "Username and role required") {
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	userID := chi.URLParam(r, "id")
	matched, err := s.store.UpdateUser(r.Context(), userID, req.Username, role)
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	if matched {
		s.revokeTokens(r.Context(), userID)
	}
	writeMessage(w, http.StatusOK, "User updated successfully")
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	matched, err := s.store.DeleteUser(r.Context(), userID)
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	if matched {
		s.revokeTokens(r.Context(), userID)
	}
	writeMessage(w, http.StatusOK, "User deleted successfully")
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !s.bind(w, r, &req, "User ID and new password required") {
		return
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("hash password", "error", err)
		s.writeFailure(w, http.StatusInternalServerError, "Server error", err)
		return
	}
	matched, err := s.store.SetPassword(r.Context(), req.UserID, hash)
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	if matched {
		s.revokeTokens(r.Context(), req.UserID)
	}
	writeMessage(w, http.StatusOK, "Password reset successful")
}

// revokeTokens invalidates claims issued to userID before now. Failures are
// logged; the mutation itself has already been committed.
func (s *Server) revokeTokens(ctx context.Context, userID string) {
	if err := s.revoked.Revoke(ctx, userID, s.now()); err != nil {
		s.log.Warn("revoke tokens", "error", err, "user_id", userID)
	}
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	filter := repository.StudentFilter{KhoaID: r.URL.Query().Get("khoa_id")}
	students, err := s.store.ListStudents(r.Context(), filter)
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (s *Server) handleListGrades(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.AdminGradeFilter{
		LopHocID: q.Get("lophoc_id"),
		MonHocID: q.Get("monhoc_id"),
		KhoaID:   q.Get("khoa_id"),
	}
	grades, err := s.store.ListGrades(r.Context(), filter)
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grades)
}

func (s *Server) handleCreateClass(w http.ResponseWriter, r *http.Request) {
	var req createClassRequest
	if !s.bind(w, r, &req, "Missing required fields") {
		return
	}
	class := model.ClassSection{
		LopHocID:    req.LopHocID,
		MonHocID:    req.MonHocID,
		GiangVienID: req.GiangVienID,
		NamHoc:      req.NamHoc,
		HocKy:       req.HocKy,
		Phong:       req.Phong,
		TrangThai:   req.TrangThai,
	}
	if err := s.store.CreateClassSection(r.Context(), class); err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Class created successfully")
}

func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := s.store.ListClassSections(r.Context())
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

func (s *Server) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req createDepartmentRequest
	if !s.bind(w, r, &req, "Department ID and name required") {
		return
	}
	if err := s.store.CreateDepartment(r.Context(), model.Department(req)); err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Department added successfully")
}

func (s *Server) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := s.store.ListDepartments(r.Context())
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, departments)
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if !s.bind(w, r, &req, "Missing required fields") {
		return
	}
	course := model.Course{
		MonHocID: req.MonHocID,
		MaMon:    req.MaMon,
		TenMon:   req.TenMon,
		SoTinChi: req.SoTinChi,
	}
	if err := s.store.CreateCourse(r.Context(), course); err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Course added successfully")
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.store.ListCourses(r.Context())
	if err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) handleCreateEnrollment(w http.ResponseWriter, r *http.Request) {
	var req createEnrollmentRequest
	if !s.bind(w, r, &req, "Student ID and class ID required") {
		return
	}
	if err := s.store.CreateEnrollment(r.Context(), model.Enrollment(req)); err != nil {
		s.queryFailed(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Enrollment created successfully")
}

func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := systemStatus{
		Status:   "running",
		Uptime:   s.now().Sub(s.started).Seconds(),
		Database: "ok",
	}
	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn("status ping failed", "error", err)
		status.Database = "unavailable"
	}
	writeJSON(w, http.StatusOK, status)
}
