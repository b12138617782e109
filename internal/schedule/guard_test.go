package schedule

import (
	"errors"
	"testing"

	"github.com/verte-zerg/jadwal/internal/apperr"
	"github.com/verte-zerg/jadwal/internal/model"
)

var testCourse = model.Course{
	Kode:         "MKB101",
	TanggalMulai: "2026-01-05",
	TanggalAkhir: "2026-02-27",
}

func TestCheckDateRange(t *testing.T) {
	for _, date := range []string{"2026-01-05", "2026-02-01", "2026-02-27"} {
		if err := CheckDateRange(date, testCourse); err != nil {
			t.Fatalf("%s should be inside the window: %v", date, err)
		}
	}
	for _, date := range []string{"2026-01-04", "2026-02-28", "2025-12-31"} {
		err := CheckDateRange(date, testCourse)
		var verr *apperr.ValidationError
		if !errors.As(err, &verr) || verr.First() == "" {
			t.Fatalf("%s should be rejected with a message, got %v", date, err)
		}
	}
	if err := CheckDateRange("12/01/2026", testCourse); err == nil {
		t.Fatalf("expected format error")
	}
	if err := CheckDateRange("2030-01-01", model.Course{}); err != nil {
		t.Fatalf("course without window accepts any date: %v", err)
	}
}

func pblDraft() Draft {
	d := NewDraft(KindPBL)
	d.Tanggal = "2026-01-13"
	d.SetStart("07:20")
	d.SetSessions(2)
	d.PBLTipe = PBLTipe1
	d.Materi = "Modul 1"
	d.KelompokKecilID = 3
	d.DosenIDs = []int64{21}
	d.RuanganID = 6
	return d
}

func TestCheckPBLDuplicate(t *testing.T) {
	rows := []model.ScheduleRow{
		{ID: 40, Tanggal: "2026-01-13", KelompokKecilID: 3, PBLTipe: "PBL 1"},
		{ID: 41, Tanggal: "2026-01-13", KelompokKecilID: 4, PBLTipe: "PBL 1"},
	}
	d := pblDraft()
	err := CheckPBLDuplicate(d, rows)
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) || verr.First() == "" {
		t.Fatalf("expected duplicate to be blocked, got %v", err)
	}

	d.PBLTipe = PBLTipe2
	if err := CheckPBLDuplicate(d, rows); err != nil {
		t.Fatalf("different pbl type is allowed: %v", err)
	}

	d = pblDraft()
	d.ID = 40
	if err := CheckPBLDuplicate(d, rows); err != nil {
		t.Fatalf("editing the same row must not flag itself: %v", err)
	}

	d = pblDraft()
	d.Tanggal = "2026-01-14"
	if err := CheckPBLDuplicate(d, rows); err != nil {
		t.Fatalf("different date is allowed: %v", err)
	}
}

func TestPrepareBlocksBeforeBuild(t *testing.T) {
	data := model.BatchData{
		Course: testCourse,
		PBL:    []model.ScheduleRow{{ID: 1, Tanggal: "2026-01-13", KelompokKecilID: 3, PBLTipe: "pbl 1"}},
	}
	if _, err := Prepare(pblDraft(), data); err == nil {
		t.Fatalf("expected duplicate to block")
	}
	d := pblDraft()
	d.Tanggal = "2026-03-01"
	if _, err := Prepare(d, model.BatchData{Course: testCourse}); err == nil {
		t.Fatalf("expected date range to block")
	}
	d = pblDraft()
	form, err := Prepare(d, model.BatchData{Course: testCourse})
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if form.Kind() != KindPBL {
		t.Fatalf("expected pbl form")
	}
}
