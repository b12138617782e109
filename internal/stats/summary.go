// Package stats turns the dashboard payload into displayable aggregates.
package stats

import (
	"fmt"
	"io"
	"math"

	"github.com/verte-zerg/jadwal/internal/model"
	"github.com/verte-zerg/jadwal/internal/report"
)

// RateSummary is a coalesced percentage block.
type RateSummary struct {
	Rate  float64
	Total int
	Done  int
}

// Summary is DashboardStats with every optional field resolved.
type Summary struct {
	TotalUsers       int
	TotalMahasiswa   int
	TotalDosen       int
	TotalTimAkademik int
	TotalMataKuliah  int
	TotalKelas       int
	TotalRuangan     int
	ActiveSessions   int
	Attendance       RateSummary
	Assessment       RateSummary
	CompletionRate   float64
	ActiveCourses    int
	FinishedCourses  int
	CurrentSemester  string
	LastBackup       string
}

// Normalize coalesces missing values to zero and clamps rates into [0, 100].
func Normalize(raw model.DashboardStats) Summary {
	s := Summary{
		TotalUsers:       intOr(raw.TotalUsers),
		TotalMahasiswa:   intOr(raw.TotalMahasiswa),
		TotalDosen:       intOr(raw.TotalDosen),
		TotalTimAkademik: intOr(raw.TotalTimAkademik),
		TotalMataKuliah:  intOr(raw.TotalMataKuliah),
		TotalKelas:       intOr(raw.TotalKelas),
		TotalRuangan:     intOr(raw.TotalRuangan),
		ActiveSessions:   intOr(raw.ActiveSessions),
		Attendance:       rateOr(raw.Attendance),
		Assessment:       rateOr(raw.Assessment),
		CurrentSemester:  "-",
		LastBackup:       "-",
	}
	if raw.Academic != nil {
		s.CompletionRate = clampPercent(floatOr(raw.Academic.CompletionRate))
		s.ActiveCourses = intOr(raw.Academic.ActiveCourses)
		s.FinishedCourses = intOr(raw.Academic.FinishedCourses)
		if raw.Academic.CurrentSemester != nil && *raw.Academic.CurrentSemester != "" {
			s.CurrentSemester = *raw.Academic.CurrentSemester
		}
	}
	if raw.LastBackup != nil && *raw.LastBackup != "" {
		s.LastBackup = *raw.LastBackup
	}
	return s
}

// Card is one labelled tile of the overview.
type Card struct {
	Label string
	Value string
}

// Cards lists the overview tiles in display order.
func (s Summary) Cards() []Card {
	return []Card{
		{"Total Pengguna", fmt.Sprintf("%d", s.TotalUsers)},
		{"Mahasiswa", fmt.Sprintf("%d", s.TotalMahasiswa)},
		{"Dosen", fmt.Sprintf("%d", s.TotalDosen)},
		{"Tim Akademik", fmt.Sprintf("%d", s.TotalTimAkademik)},
		{"Mata Kuliah", fmt.Sprintf("%d", s.TotalMataKuliah)},
		{"Kelas", fmt.Sprintf("%d", s.TotalKelas)},
		{"Ruangan", fmt.Sprintf("%d", s.TotalRuangan)},
		{"Sesi Aktif", fmt.Sprintf("%d", s.ActiveSessions)},
		{"Kehadiran", formatRate(s.Attendance)},
		{"Penilaian", formatRate(s.Assessment)},
		{"Penyelesaian Akademik", fmt.Sprintf("%.1f%%", s.CompletionRate)},
		{"Semester Aktif", s.CurrentSemester},
		{"Backup Terakhir", s.LastBackup},
	}
}

// RenderSummary prints the overview as an aligned two-column table.
func RenderSummary(w io.Writer, s Summary) error {
	if _, err := fmt.Fprintln(w, "Ringkasan Sistem"); err != nil {
		return err
	}
	cards := s.Cards()
	rows := make([][]string, len(cards))
	for i, c := range cards {
		rows[i] = []string{c.Label, c.Value}
	}
	for _, line := range report.FormatTable(nil, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Mata kuliah aktif: %d, selesai: %d\n", s.ActiveCourses, s.FinishedCourses)
	return err
}

func formatRate(r RateSummary) string {
	if r.Total == 0 {
		return fmt.Sprintf("%.1f%%", r.Rate)
	}
	return fmt.Sprintf("%.1f%% (%d/%d)", r.Rate, r.Done, r.Total)
}

func rateOr(r *model.Rate) RateSummary {
	if r == nil {
		return RateSummary{}
	}
	return RateSummary{
		Rate:  clampPercent(floatOr(r.Rate)),
		Total: intOr(r.Total),
		Done:  intOr(r.Done),
	}
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func intOr(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func floatOr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
