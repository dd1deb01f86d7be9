package model

import "math"

const (
	BandTop    = "Giỏi"
	BandMiddle = "Khá"
	BandBase   = "Trung bình"

	midtermWeight = 0.4
	finalWeight   = 0.6
)

// Classify maps a 10-point score to its band: >= 8.5 top, >= 7.0 middle.
func Classify(score float64) string {
	switch {
	case score >= 8.5:
		return BandTop
	case score >= 7.0:
		return BandMiddle
	default:
		return BandBase
	}
}

// ComputeTotal weights midterm 40% and final 60%. Nil when either score is missing.
func ComputeTotal(midterm, final *float64) *float64 {
	if midterm == nil || final == nil {
		return nil
	}
	total := Round2(*midterm*midtermWeight + *final*finalWeight)
	return &total
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type AcademicSummary struct {
	TongSoTinChi  int64   `json:"tong_so_tin_chi"`
	DiemTrungBinh float64 `json:"diem_trung_binh"`
	XepLoai       string  `json:"xep_loai"`
}

// NewAcademicSummary treats missing aggregates (no grade rows) as zero.
func NewAcademicSummary(avg *float64, credits *int64) AcademicSummary {
	var summary AcademicSummary
	if credits != nil {
		summary.TongSoTinChi = *credits
	}
	if avg != nil {
		summary.DiemTrungBinh = *avg
	}
	summary.XepLoai = Classify(summary.DiemTrungBinh)
	summary.DiemTrungBinh = Round2(summary.DiemTrungBinh)
	return summary
}
