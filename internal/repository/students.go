package repository

import (
	"context"

	"saweb/api/internal/model"
)

func (s *Store) ListStudentClasses(ctx context.Context, studentID string) ([]model.EnrolledClass, error) {
	rows, err := s.q.Query(ctx, `
		SELECT l.lophoc_id, m.tenmon, g.hoten AS giangvien, l.namhoc, l.hocky
		FROM DangKyHoc d
		JOIN LopGiangDay l ON d.lophoc_id = l.lophoc_id
		JOIN MonHoc m ON l.monhoc_id = m.monhoc_id
		JOIN GiangVien g ON l.giangvien_id = g.giangvien_id
		WHERE d.sinhvien_id = $1
		ORDER BY l.namhoc, l.hocky
	`, studentID)
	if err != nil {
		return nil, dbErr("list student classes", err)
	}
	defer rows.Close()

	classes := []model.EnrolledClass{}
	for rows.Next() {
		var c model.EnrolledClass
		if err := rows.Scan(&c.LopHocID, &c.TenMon, &c.GiangVien, &c.NamHoc, &c.HocKy); err != nil {
			return nil, dbErr("scan student class", err)
		}
		classes = append(classes, c)
	}
	return classes, dbErr("list student classes", rows.Err())
}

// FindStudent returns ErrNotFound when no SinhVien row has the id.
func (s *Store) FindStudent(ctx context.Context, studentID string) (model.StudentLookup, error) {
	var st model.StudentLookup
	row := s.q.QueryRow(ctx, `
		SELECT s.sinhvien_id, s.masv, s.hoten, s.email, AVG(b.diem_tong_ket)::float8 AS diem_trung_binh
		FROM SinhVien s
		LEFT JOIN BangDiem b ON s.sinhvien_id = b.sinhvien_id
		WHERE s.sinhvien_id = $1
		GROUP BY s.sinhvien_id, s.masv, s.hoten, s.email
	`, studentID)
	err := row.Scan(&st.SinhVienID, &st.MaSV, &st.HoTen, &st.Email, &st.DiemTrungBinh)
	return st, dbErr("find student", err)
}

func (s *Store) ListStudents(ctx context.Context, filter StudentFilter) ([]model.StudentListItem, error) {
	query, args := filter.build()
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, dbErr("list students", err)
	}
	defer rows.Close()

	students := []model.StudentListItem{}
	for rows.Next() {
		var st model.StudentListItem
		if err := rows.Scan(&st.SinhVienID, &st.MaSV, &st.HoTen, &st.KhoaID); err != nil {
			return nil, dbErr("scan student", err)
		}
		students = append(students, st)
	}
	return students, dbErr("list students", rows.Err())
}
