package repository

import (
	"context"

	"saweb/api/internal/model"
)

func (s *Store) CreateDepartment(ctx context.Context, d model.Department) error {
	_, err := s.q.Exec(ctx, `INSERT INTO Khoa (khoa_id, tenkhoa) VALUES ($1, $2)`, d.KhoaID, d.TenKhoa)
	return dbErr("insert department", err)
}

func (s *Store) ListDepartments(ctx context.Context) ([]model.Department, error) {
	rows, err := s.q.Query(ctx, `SELECT khoa_id, tenkhoa FROM Khoa ORDER BY khoa_id`)
	if err != nil {
		return nil, dbErr("list departments", err)
	}
	defer rows.Close()

	departments := []model.Department{}
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.KhoaID, &d.TenKhoa); err != nil {
			return nil, dbErr("scan department", err)
		}
		departments = append(departments, d)
	}
	return departments, dbErr("list departments", rows.Err())
}

func (s *Store) CreateCourse(ctx context.Context, c model.Course) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO MonHoc (monhoc_id, mamon, tenmon, sotinchi)
		VALUES ($1, $2, $3, $4)
	`, c.MonHocID, c.MaMon, c.TenMon, c.SoTinChi)
	return dbErr("insert course", err)
}

func (s *Store) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := s.q.Query(ctx, `SELECT monhoc_id, mamon, tenmon, sotinchi FROM MonHoc ORDER BY mamon`)
	if err != nil {
		return nil, dbErr("list courses", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.MonHocID, &c.MaMon, &c.TenMon, &c.SoTinChi); err != nil {
			return nil, dbErr("scan course", err)
		}
		courses = append(courses, c)
	}
	return courses, dbErr("list courses", rows.Err())
}

func (s *Store) CreateClassSection(ctx context.Context, c model.ClassSection) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO LopGiangDay (lophoc_id, monhoc_id, giangvien_id, namhoc, hocky, phong, trang_thai)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.LopHocID, c.MonHocID, c.GiangVienID, c.NamHoc, c.HocKy, c.Phong, c.TrangThai)
	return dbErr("insert class section", err)
}

func (s *Store) ListClassSections(ctx context.Context) ([]model.ClassSection, error) {
	rows, err := s.q.Query(ctx, `
		SELECT lophoc_id, monhoc_id, giangvien_id, namhoc, hocky, phong, trang_thai
		FROM LopGiangDay
		ORDER BY namhoc, hocky, lophoc_id
	`)
	if err != nil {
		return nil, dbErr("list class sections", err)
	}
	defer rows.Close()

	classes := []model.ClassSection{}
	for rows.Next() {
		var c model.ClassSection
		if err := rows.Scan(&c.LopHocID, &c.MonHocID, &c.GiangVienID, &c.NamHoc, &c.HocKy, &c.Phong, &c.TrangThai); err != nil {
			return nil, dbErr("scan class section", err)
		}
		classes = append(classes, c)
	}
	return classes, dbErr("list class sections", rows.Err())
}

func (s *Store) CreateEnrollment(ctx context.Context, e model.Enrollment) error {
	_, err := s.q.Exec(ctx, `INSERT INTO DangKyHoc (sinhvien_id, lophoc_id) VALUES ($1, $2)`, e.SinhVienID, e.LopHocID)
	return dbErr("insert enrollment", err)
}
