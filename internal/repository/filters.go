package repository

import (
	"fmt"
	"strings"
)

// predicates accumulates AND-ed equality conditions with positional
// placeholders. Empty values add nothing.
type predicates struct {
	clauses []string
	args    []any
}

func (p *predicates) eq(column string, value any) {
	p.args = append(p.args, value)
	p.clauses = append(p.clauses, fmt.Sprintf("%s = $%d", column, len(p.args)))
}

func (p *predicates) optional(column, value string) {
	if value = strings.TrimSpace(value); value == "" {
		return
	}
	p.eq(column, value)
}

func (p *predicates) apply(base, suffix string) (string, []any) {
	query := base
	if len(p.clauses) > 0 {
		query += "\nWHERE " + strings.Join(p.clauses, " AND ")
	}
	if suffix != "" {
		query += "\n" + suffix
	}
	return query, p.args
}

type GradeFilter struct {
	HocKy  string
	NamHoc string
}

const studentGradesQuery = `
SELECT m.tenmon, b.diem_giua_ky, b.diem_cuoi_ky, b.diem_tong_ket, b.xep_loai, l.hocky, l.namhoc
FROM BangDiem b
JOIN LopGiangDay l ON b.lophoc_id = l.lophoc_id
JOIN MonHoc m ON l.monhoc_id = m.monhoc_id`

func (f GradeFilter) build(studentID string) (string, []any) {
	var p predicates
	p.eq("b.sinhvien_id", studentID)
	p.optional("l.hocky", f.HocKy)
	p.optional("l.namhoc", f.NamHoc)
	return p.apply(studentGradesQuery, "ORDER BY l.namhoc, l.hocky, m.tenmon")
}

type AdminGradeFilter struct {
	LopHocID string
	MonHocID string
	KhoaID   string
}

const adminGradesQuery = `
SELECT s.masv, s.hoten, m.tenmon, b.diem_giua_ky, b.diem_cuoi_ky, b.diem_tong_ket
FROM BangDiem b
JOIN SinhVien s ON b.sinhvien_id = s.sinhvien_id
JOIN LopGiangDay l ON b.lophoc_id = l.lophoc_id
JOIN MonHoc m ON l.monhoc_id = m.monhoc_id`

func (f AdminGradeFilter) build() (string, []any) {
	var p predicates
	p.optional("b.lophoc_id", f.LopHocID)
	p.optional("l.monhoc_id", f.MonHocID)
	p.optional("s.khoa_id", f.KhoaID)
	return p.apply(adminGradesQuery, "ORDER BY s.masv, m.tenmon")
}

type StudentFilter struct {
	KhoaID string
}

const studentsQuery = `SELECT sinhvien_id, masv, hoten, khoa_id FROM SinhVien`

func (f StudentFilter) build() (string, []any) {
	var p predicates
	p.optional("khoa_id", f.KhoaID)
	return p.apply(studentsQuery, "ORDER BY masv")
}

type UserFilter struct {
	Role string
}

const usersQuery = `SELECT user_id, username, role FROM Users`

func (f UserFilter) build() (string, []any) {
	var p predicates
	p.optional("role", f.Role)
	return p.apply(usersQuery, "ORDER BY username")
}
