package http

import (
	"context"
	"errors"
	"sort"
	"sync"

	"saweb/api/internal/model"
	"saweb/api/internal/repository"
)

type gradeKey struct {
	classID   string
	studentID string
}

// fakeStore keeps everything in memory. Grade writes for a student id that
// has no profile fail the way a foreign key violation would.
type fakeStore struct {
	mu          sync.Mutex
	users       map[string]model.User
	profiles    map[string]model.Profile
	grades      map[gradeKey]model.GradeEntry
	terms       map[string][]model.StudentGrade
	departments []model.Department
	courses     []model.Course
	classes     []model.ClassSection
	pingErr     error
	panicOn     string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]model.User{},
		profiles: map[string]model.Profile{},
		grades:   map[gradeKey]model.GradeEntry{},
		terms:    map[string][]model.StudentGrade{},
	}
}

var errForeignKey = errors.New("violates foreign key constraint")

func (f *fakeStore) addUser(user model.User, profile model.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	profile.UserID = user.ID
	f.profiles[user.ID] = profile
}

func (f *fakeStore) gradeCount(classID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for key := range f.grades {
		if key.classID == classID {
			n++
		}
	}
	return n
}

func (f *fakeStore) Ping(context.Context) error {
	return f.pingErr
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeStore) CreateUser(_ context.Context, user model.User, profile model.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return &repository.DBError{Op: "insert user", Err: errors.New("duplicate username")}
		}
	}
	f.users[user.ID] = user
	f.profiles[user.ID] = profile
	return nil
}

func (f *fakeStore) UpdateUser(_ context.Context, userID, username string, role model.Role) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return false, nil
	}
	u.Username, u.Role = username, role
	f.users[userID] = u
	return true, nil
}

func (f *fakeStore) DeleteUser(_ context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[userID]
	delete(f.users, userID)
	return ok, nil
}

func (f *fakeStore) SetPassword(_ context.Context, userID, passwordHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return false, nil
	}
	u.PasswordHash = passwordHash
	f.users[userID] = u
	return true, nil
}

func (f *fakeStore) ListUsers(_ context.Context, filter repository.UserFilter) ([]model.PublicUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := []model.PublicUser{}
	for _, u := range f.users {
		if filter.Role == "" || u.Role.String() == filter.Role {
			users = append(users, u.Public())
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (f *fakeStore) ListStudentGrades(_ context.Context, studentID string, filter repository.GradeFilter) ([]model.StudentGrade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	grades := []model.StudentGrade{}
	for _, g := range f.terms[studentID] {
		if filter.HocKy != "" && g.HocKy != filter.HocKy {
			continue
		}
		if filter.NamHoc != "" && g.NamHoc != filter.NamHoc {
			continue
		}
		grades = append(grades, g)
	}
	return grades, nil
}

func (f *fakeStore) ListStudentClasses(context.Context, string) ([]model.EnrolledClass, error) {
	return []model.EnrolledClass{}, nil
}

func (f *fakeStore) StudentAggregates(_ context.Context, studentID string) (*float64, *int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var (
		sum   float64
		count int
	)
	for key, g := range f.grades {
		if key.studentID == studentID && g.DiemTongKet != nil {
			sum += *g.DiemTongKet
			count++
		}
	}
	if count == 0 {
		return nil, nil, nil
	}
	avg := sum / float64(count)
	credits := int64(3 * count)
	return &avg, &credits, nil
}

func (f *fakeStore) upsert(classID string, entries []model.GradeEntry, into map[gradeKey]model.GradeEntry) (int, error) {
	for i, entry := range entries {
		if _, ok := f.profiles[entry.SinhVienID]; !ok {
			return i, &repository.DBError{Op: "upsert grade", Err: errForeignKey}
		}
		into[gradeKey{classID, entry.SinhVienID}] = entry.Derive()
	}
	return len(entries), nil
}

func (f *fakeStore) UpsertGrades(_ context.Context, classID string, entries []model.GradeEntry) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upsert(classID, entries, f.grades)
}

func (f *fakeStore) UpsertGradesAtomic(_ context.Context, classID string, entries []model.GradeEntry) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	staged := map[gradeKey]model.GradeEntry{}
	n, err := f.upsert(classID, entries, staged)
	if err != nil {
		return 0, err
	}
	for k, v := range staged {
		f.grades[k] = v
	}
	return n, nil
}

func (f *fakeStore) UpdateGrade(_ context.Context, classID string, entry model.GradeEntry) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := gradeKey{classID, entry.SinhVienID}
	if _, ok := f.grades[key]; !ok {
		return false, nil
	}
	f.grades[key] = entry.Derive()
	return true, nil
}

func (f *fakeStore) ListClassRoster(context.Context, string) ([]model.RosterEntry, error) {
	return []model.RosterEntry{}, nil
}

func (f *fakeStore) FindStudent(_ context.Context, studentID string) (model.StudentLookup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[studentID]
	if !ok || f.users[studentID].Role != model.RoleStudent {
		return model.StudentLookup{}, repository.ErrNotFound
	}
	return model.StudentLookup{SinhVienID: p.UserID, MaSV: p.Code, HoTen: p.Name, Email: p.Email}, nil
}

func (f *fakeStore) ListStudents(_ context.Context, filter repository.StudentFilter) ([]model.StudentListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	students := []model.StudentListItem{}
	for id, p := range f.profiles {
		if f.users[id].Role != model.RoleStudent {
			continue
		}
		if filter.KhoaID != "" && (p.KhoaID == nil || *p.KhoaID != filter.KhoaID) {
			continue
		}
		students = append(students, model.StudentListItem{SinhVienID: id, MaSV: p.Code, HoTen: p.Name, KhoaID: p.KhoaID})
	}
	return students, nil
}

func (f *fakeStore) ListGrades(context.Context, repository.AdminGradeFilter) ([]model.AdminGrade, error) {
	return []model.AdminGrade{}, nil
}

func (f *fakeStore) CreateDepartment(_ context.Context, d model.Department) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.departments = append(f.departments, d)
	return nil
}

func (f *fakeStore) ListDepartments(context.Context) ([]model.Department, error) {
	if f.panicOn == "departments" {
		panic("departments exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Department{}, f.departments...), nil
}

func (f *fakeStore) CreateCourse(_ context.Context, c model.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courses = append(f.courses, c)
	return nil
}

func (f *fakeStore) ListCourses(context.Context) ([]model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Course{}, f.courses...), nil
}

func (f *fakeStore) CreateClassSection(_ context.Context, c model.ClassSection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.classes = append(f.classes, c)
	return nil
}

func (f *fakeStore) ListClassSections(context.Context) ([]model.ClassSection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ClassSection{}, f.classes...), nil
}

func (f *fakeStore) CreateEnrollment(context.Context, model.Enrollment) error { return nil }

var _ Store = (*fakeStore)(nil)
