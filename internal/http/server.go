package http

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"

	"saweb/api/internal/config"
	"saweb/api/internal/metrics"
	"saweb/api/internal/model"
	"saweb/api/internal/repository"
	"saweb/api/internal/revoke"
)

// Store is the query surface the handlers depend on. *repository.Store
// implements it against PostgreSQL.
type Store interface {
	Ping(ctx context.Context) error

	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	CreateUser(ctx context.Context, user model.User, profile model.Profile) error
	UpdateUser(ctx context.Context, userID, username string, role model.Role) (bool, error)
	DeleteUser(ctx context.Context, userID string) (bool, error)
	SetPassword(ctx context.Context, userID, passwordHash string) (bool, error)
	ListUsers(ctx context.Context, filter repository.UserFilter) ([]model.PublicUser, error)

	ListStudentGrades(ctx context.Context, studentID string, filter repository.GradeFilter) ([]model.StudentGrade, error)
	ListStudentClasses(ctx context.Context, studentID string) ([]model.EnrolledClass, error)
	StudentAggregates(ctx context.Context, studentID string) (*float64, *int64, error)

	UpsertGrades(ctx context.Context, classID string, entries []model.GradeEntry) (int, error)
	UpsertGradesAtomic(ctx context.Context, classID string, entries []model.GradeEntry) (int, error)
	UpdateGrade(ctx context.Context, classID string, entry model.GradeEntry) (bool, error)
	ListClassRoster(ctx context.Context, classID string) ([]model.RosterEntry, error)
	FindStudent(ctx context.Context, studentID string) (model.StudentLookup, error)

	ListStudents(ctx context.Context, filter repository.StudentFilter) ([]model.StudentListItem, error)
	ListGrades(ctx context.Context, filter repository.AdminGradeFilter) ([]model.AdminGrade, error)
	CreateDepartment(ctx context.Context, d model.Department) error
	ListDepartments(ctx context.Context) ([]model.Department, error)
	CreateCourse(ctx context.Context, c model.Course) error
	ListCourses(ctx context.Context) ([]model.Course, error)
	CreateClassSection(ctx context.Context, c model.ClassSection) error
	ListClassSections(ctx context.Context) ([]model.ClassSection, error)
	CreateEnrollment(ctx context.Context, e model.Enrollment) error
}

type Server struct {
	cfg      config.Config
	store    Store
	revoked  revoke.Store
	log      *slog.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
	started  time.Time
	now      func() time.Time
}

func NewServer(cfg config.Config, store Store, revoked revoke.Store, log *slog.Logger, m *metrics.Metrics) *Server {
	if revoked == nil {
		revoked = revoke.Nop{}
	}
	if m == nil {
		m = metrics.New()
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Server{
		cfg:      cfg,
		store:    store,
		revoked:  revoked,
		log:      log,
		metrics:  m,
		validate: validate,
		started:  time.Now(),
		now:      time.Now,
	}
}

// access is a route's allow-list. nil means public; a non-nil list requires
// an authenticated claim whose role is listed.
type access []model.Role

var (
	public       access
	anyRole      = access(model.AllRoles)
	studentOnly  = access{model.RoleStudent}
	lecturerOnly = access{model.RoleLecturer}
	adminOnly    = access{model.RoleAdmin}
)

// route is served at path and, for older clients, at the /api alias.
type route struct {
	method  string
	path    string
	alias   string
	access  access
	handler http.HandlerFunc
}

func (s *Server) routes() []route {
	return []route{
		{http.MethodPost, "/auth/login", "/api/auth/login", public, s.limitLogin(s.handleLogin)},
		{http.MethodGet, "/auth/verify", "/api/auth/verify", anyRole, s.handleVerify},

		{http.MethodGet, "/student/grades", "/api/sinhvien/diem", studentOnly, s.handleStudentGrades},
		{http.MethodGet, "/student/classes", "/api/sinhvien/lophoc", studentOnly, s.handleStudentClasses},
		{http.MethodGet, "/student/summary", "/api/sinhvien/hoc-tap", studentOnly, s.handleStudentSummary},

		{http.MethodPost, "/lecturer/grades", "/api/giangvien/diem", lecturerOnly, s.handleEnterGrades},
		{http.MethodPut, "/lecturer/grades", "/api/giangvien/diem", lecturerOnly, s.handleEditGrade},
		{http.MethodGet, "/lecturer/classes/{id}/students", "/api/giangvien/lophoc/{id}/sinhvien", lecturerOnly, s.handleClassRoster},
		{http.MethodGet, "/lecturer/students/{id}", "/api/giangvien/sinhvien/{id}", lecturerOnly, s.handleFindStudent},

		{http.MethodPost, "/admin/users", "/api/admin/users", adminOnly, s.handleCreateUser},
		{http.MethodGet, "/admin/users", "/api/admin/users", adminOnly, s.handleListUsers},
		{http.MethodPut, "/admin/users/{id}", "/api/admin/users/{id}", adminOnly, s.handleUpdateUser},
		{http.MethodDelete, "/admin/users/{id}", "/api/admin/users/{id}", adminOnly, s.handleDeleteUser},
		{http.MethodPost, "/admin/reset-password", "/api/admin/reset-password", adminOnly, s.handleResetPassword},
		{http.MethodGet, "/admin/students", "/api/admin/sinhvien", adminOnly, s.handleListStudents},
		{http.MethodGet, "/admin/grades", "/api/admin/diem", adminOnly, s.handleListGrades},
		{http.MethodPost, "/admin/classes", "/api/admin/lophoc", adminOnly, s.handleCreateClass},
		{http.MethodGet, "/admin/classes", "/api/admin/lophoc", adminOnly, s.handleListClasses},
		{http.MethodPost, "/admin/departments", "/api/admin/khoa", adminOnly, s.handleCreateDepartment},
		{http.MethodGet, "/admin/departments", "/api/admin/khoa", adminOnly, s.handleListDepartments},
		{http.MethodPost, "/admin/courses", "/api/admin/monhoc", adminOnly, s.handleCreateCourse},
		{http.MethodGet, "/admin/courses", "/api/admin/monhoc", adminOnly, s.handleListCourses},
		{http.MethodPost, "/admin/enrollments", "/api/admin/dangky", adminOnly, s.handleCreateEnrollment},
		{http.MethodGet, "/admin/system/status", "/api/admin/system/status", adminOnly, s.handleSystemStatus},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.requestLogger, s.metrics.Middleware, s.recoverer)

	notFound := func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", s.metrics.Handler())

	for _, rt := range s.routes() {
		var h http.Handler = rt.handler
		if rt.access != nil {
			h = s.authenticate(s.authorize(rt.access...)(h))
		}
		r.Method(rt.method, rt.path, h)
		if rt.alias != "" {
			r.Method(rt.method, rt.alias, h)
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(r)
}

func (s *Server) limitLogin(next http.HandlerFunc) http.HandlerFunc {
	if s.cfg.LoginRateLimit <= 0 {
		return next
	}
	limiter := httprate.Limit(
		s.cfg.LoginRateLimit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusTooManyRequests, "Too many login attempts")
		}),
	)
	return limiter(next).ServeHTTP
}
