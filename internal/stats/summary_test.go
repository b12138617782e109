package stats

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/verte-zerg/jadwal/internal/model"
)

func TestNormalizeCoalescesMissingFields(t *testing.T) {
	var raw model.DashboardStats
	if err := json.Unmarshal([]byte(`{"totalUsers": 12, "attendanceStats": {"rate": null}}`), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	s := Normalize(raw)
	if s.TotalUsers != 12 {
		t.Fatalf("expected 12 users, got %d", s.TotalUsers)
	}
	if s.TotalDosen != 0 || s.Attendance.Rate != 0 || s.CompletionRate != 0 {
		t.Fatalf("missing fields should coalesce to zero: %+v", s)
	}
	if s.CurrentSemester != "-" || s.LastBackup != "-" {
		t.Fatalf("missing strings should render as dash: %+v", s)
	}
}

func TestNormalizeClampsCompletionRate(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{140, 100},
		{100, 100},
		{55.5, 55.5},
		{-3, 0},
	}
	for _, tc := range cases {
		rate := tc.in
		s := Normalize(model.DashboardStats{Academic: &model.AcademicOverview{CompletionRate: &rate}})
		if s.CompletionRate != tc.want {
			t.Fatalf("rate %v: got %v want %v", tc.in, s.CompletionRate, tc.want)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	users := 1200
	semester := "Ganjil 2026/2027"
	s := Normalize(model.DashboardStats{TotalUsers: &users, Academic: &model.AcademicOverview{CurrentSemester: &semester}})
	var buf bytes.Buffer
	if err := RenderSummary(&buf, s); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Ringkasan Sistem", "Total Pengguna", "1200", semester} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}
