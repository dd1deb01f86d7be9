package model

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
}

// PublicUser is the sanitized view returned by login and the admin listing.
type PublicUser struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{UserID: u.ID, Username: u.Username, Role: u.Role.String()}
}

// Profile is the role-specific row created alongside a User.
type Profile struct {
	UserID string
	Code   string
	Name   string
	Email  *string
	KhoaID *string
}

type Department struct {
	KhoaID  string `json:"khoa_id"`
	TenKhoa string `json:"tenkhoa"`
}

type Course struct {
	MonHocID string `json:"monhoc_id"`
	MaMon    string `json:"mamon"`
	TenMon   string `json:"tenmon"`
	SoTinChi int32  `json:"sotinchi"`
}

type ClassSection struct {
	LopHocID    string  `json:"lophoc_id"`
	MonHocID    string  `json:"monhoc_id"`
	GiangVienID string  `json:"giangvien_id"`
	NamHoc      string  `json:"namhoc"`
	HocKy       string  `json:"hocky"`
	Phong       *string `json:"phong"`
	TrangThai   *string `json:"trang_thai"`
}

type Enrollment struct {
	SinhVienID string `json:"sinhvien_id"`
	LopHocID   string `json:"lophoc_id"`
}

// GradeEntry is one student's raw scores for a class-section. Total and
// Classification are derived by Derive before the row is written.
type GradeEntry struct {
	SinhVienID  string   `json:"sinhvien_id"`
	DiemGiuaKy  *float64 `json:"diem_giua_ky"`
	DiemCuoiKy  *float64 `json:"diem_cuoi_ky"`
	GhiChu      *string  `json:"ghi_chu"`
	DiemTongKet *float64 `json:"-"`
	XepLoai     *string  `json:"-"`
}

func (e GradeEntry) Derive() GradeEntry {
	e.DiemTongKet = ComputeTotal(e.DiemGiuaKy, e.DiemCuoiKy)
	if e.DiemTongKet != nil {
		band := Classify(*e.DiemTongKet)
		e.XepLoai = &band
	} else {
		e.XepLoai = nil
	}
	return e
}

type StudentGrade struct {
	TenMon      string   `json:"tenmon"`
	DiemGiuaKy  *float64 `json:"diem_giua_ky"`
	DiemCuoiKy  *float64 `json:"diem_cuoi_ky"`
	DiemTongKet *float64 `json:"diem_tong_ket"`
	XepLoai     *string  `json:"xep_loai"`
	HocKy       string   `json:"hocky"`
	NamHoc      string   `json:"namhoc"`
}

type EnrolledClass struct {
	LopHocID  string `json:"lophoc_id"`
	TenMon    string `json:"tenmon"`
	GiangVien string `json:"giangvien"`
	NamHoc    string `json:"namhoc"`
	HocKy     string `json:"hocky"`
}

type RosterEntry struct {
	SinhVienID  string   `json:"sinhvien_id"`
	MaSV        string   `json:"masv"`
	HoTen       string   `json:"hoten"`
	DiemGiuaKy  *float64 `json:"diem_giua_ky"`
	DiemCuoiKy  *float64 `json:"diem_cuoi_ky"`
	DiemTongKet *float64 `json:"diem_tong_ket"`
}

type StudentLookup struct {
	SinhVienID    string   `json:"sinhvien_id"`
	MaSV          string   `json:"masv"`
	HoTen         string   `json:"hoten"`
	Email         *string  `json:"email"`
	DiemTrungBinh *float64 `json:"diem_trung_binh"`
}

type StudentListItem struct {
	SinhVienID string  `json:"sinhvien_id"`
	MaSV       string  `json:"masv"`
	HoTen      string  `json:"hoten"`
	KhoaID     *string `json:"khoa_id"`
}

type AdminGrade struct {
	MaSV        string   `json:"masv"`
	HoTen       string   `json:"hoten"`
	TenMon      string   `json:"tenmon"`
	DiemGiuaKy  *float64 `json:"diem_giua_ky"`
	DiemCuoiKy  *float64 `json:"diem_cuoi_ky"`
	DiemTongKet *float64 `json:"diem_tong_ket"`
}
