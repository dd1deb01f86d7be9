package repository

import (
	"context"
	"fmt"

	"saweb/api/internal/model"
)

func (s *Store) ListStudentGrades(ctx context.Context, studentID string, filter GradeFilter) ([]model.StudentGrade, error) {
	query, args := filter.build(studentID)
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, dbErr("list student grades", err)
	}
	defer rows.Close()

	grades := []model.StudentGrade{}
	for rows.Next() {
		var g model.StudentGrade
		if err := rows.Scan(&g.TenMon, &g.DiemGiuaKy, &g.DiemCuoiKy, &g.DiemTongKet, &g.XepLoai, &g.HocKy, &g.NamHoc); err != nil {
			return nil, dbErr("scan student grade", err)
		}
		grades = append(grades, g)
	}
	return grades, dbErr("list student grades", rows.Err())
}

// StudentAggregates returns the average total and credit sum over every grade
// row of the student; both are nil when there are no rows.
func (s *Store) StudentAggregates(ctx context.Context, studentID string) (*float64, *int64, error) {
	var (
		avg     *float64
		credits *int64
	)
	row := s.q.QueryRow(ctx, `
		SELECT AVG(b.diem_tong_ket)::float8, SUM(m.sotinchi)::bigint
		FROM BangDiem b
		JOIN LopGiangDay l ON b.lophoc_id = l.lophoc_id
		JOIN MonHoc m ON l.monhoc_id = m.monhoc_id
		WHERE b.sinhvien_id = $1
	`, studentID)
	if err := row.Scan(&avg, &credits); err != nil {
		return nil, nil, dbErr("student aggregates", err)
	}
	return avg, credits, nil
}

const upsertGradeSQL = `
INSERT INTO BangDiem (sinhvien_id, lophoc_id, diem_giua_ky, diem_cuoi_ky, diem_tong_ket, xep_loai, ghi_chu)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (sinhvien_id, lophoc_id) DO UPDATE
SET diem_giua_ky = EXCLUDED.diem_giua_ky,
    diem_cuoi_ky = EXCLUDED.diem_cuoi_ky,
    diem_tong_ket = EXCLUDED.diem_tong_ket,
    xep_loai = EXCLUDED.xep_loai,
    ghi_chu = EXCLUDED.ghi_chu`

// upsertEach writes entries in order and stops at the first failure. Rows
// written before the failure are not undone unless q is a transaction.
func upsertEach(ctx context.Context, q executor, classID string, entries []model.GradeEntry) (int, error) {
	for i, entry := range entries {
		entry = entry.Derive()
		if _, err := q.Exec(ctx, upsertGradeSQL,
			entry.SinhVienID, classID, entry.DiemGiuaKy, entry.DiemCuoiKy, entry.DiemTongKet, entry.XepLoai, entry.GhiChu,
		); err != nil {
			return i, dbErr(fmt.Sprintf("upsert grade %d", i), err)
		}
	}
	return len(entries), nil
}

// UpsertGrades applies entries sequentially with partial-commit semantics.
func (s *Store) UpsertGrades(ctx context.Context, classID string, entries []model.GradeEntry) (int, error) {
	return upsertEach(ctx, s.q, classID, entries)
}

// UpsertGradesAtomic applies entries all-or-nothing.
func (s *Store) UpsertGradesAtomic(ctx context.Context, classID string, entries []model.GradeEntry) (int, error) {
	var applied int
	err := s.WithTx(ctx, func(q executor) error {
		n, err := upsertEach(ctx, q, classID, entries)
		applied = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}

// UpdateGrade overwrites one existing row and reports whether it matched.
func (s *Store) UpdateGrade(ctx context.Context, classID string, entry model.GradeEntry) (bool, error) {
	entry = entry.Derive()
	tag, err := s.q.Exec(ctx, `
		UPDATE BangDiem
		SET diem_giua_ky = $1, diem_cuoi_ky = $2, diem_tong_ket = $3, xep_loai = $4, ghi_chu = $5
		WHERE sinhvien_id = $6 AND lophoc_id = $7
	`, entry.DiemGiuaKy, entry.DiemCuoiKy, entry.DiemTongKet, entry.XepLoai, entry.GhiChu, entry.SinhVienID, classID)
	if err != nil {
		return false, dbErr("update grade", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListGrades(ctx context.Context, filter AdminGradeFilter) ([]model.AdminGrade, error) {
	query, args := filter.build()
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, dbErr("list grades", err)
	}
	defer rows.Close()

	grades := []model.AdminGrade{}
	for rows.Next() {
		var g model.AdminGrade
		if err := rows.Scan(&g.MaSV, &g.HoTen, &g.TenMon, &g.DiemGiuaKy, &g.DiemCuoiKy, &g.DiemTongKet); err != nil {
			return nil, dbErr("scan grade", err)
		}
		grades = append(grades, g)
	}
	return grades, dbErr("list grades", rows.Err())
}

func (s *Store) ListClassRoster(ctx context.Context, classID string) ([]model.RosterEntry, error) {
	rows, err := s.q.Query(ctx, `
		SELECT s.sinhvien_id, s.masv, s.hoten, b.diem_giua_ky, b.diem_cuoi_ky, b.diem_tong_ket
		FROM DangKyHoc d
		JOIN SinhVien s ON d.sinhvien_id = s.sinhvien_id
		LEFT JOIN BangDiem b ON d.sinhvien_id = b.sinhvien_id AND d.lophoc_id = b.lophoc_id
		WHERE d.lophoc_id = $1
		ORDER BY s.masv
	`, classID)
	if err != nil {
		return nil, dbErr("list roster", err)
	}
	defer rows.Close()

	roster := []model.RosterEntry{}
	for rows.Next() {
		var e model.RosterEntry
		if err := rows.Scan(&e.SinhVienID, &e.MaSV, &e.HoTen, &e.DiemGiuaKy, &e.DiemCuoiKy, &e.DiemTongKet); err != nil {
			return nil, dbErr("scan roster", err)
		}
		roster = append(roster, e)
	}
	return roster, dbErr("list roster", rows.Err())
}
