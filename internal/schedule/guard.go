package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/jadwal/internal/apperr"
	"github.com/verte-zerg/jadwal/internal/model"
)

const dateLayout = "2006-01-02"

// CheckDateRange rejects a date outside the course's [start, end] window.
// Courses without a window accept any date.
func CheckDateRange(date string, course model.Course) error {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil
	}
	day, err := time.Parse(dateLayout, dateOnly(date))
	if err != nil {
		return apperr.Validation("Tanggal tidak valid (format YYYY-MM-DD)")
	}
	if course.TanggalMulai == "" || course.TanggalAkhir == "" {
		return nil
	}
	start, err := time.Parse(dateLayout, dateOnly(course.TanggalMulai))
	if err != nil {
		return nil
	}
	end, err := time.Parse(dateLayout, dateOnly(course.TanggalAkhir))
	if err != nil {
		return nil
	}
	if day.Before(start) || day.After(end) {
		return apperr.Validation(fmt.Sprintf("Tanggal harus di antara %s dan %s", start.Format("02-01-2006"), end.Format("02-01-2006")))
	}
	return nil
}

// CheckPBLDuplicate scans the PBL rows already loaded for one with the same
// date, small group and PBL type as the draft. The row being edited is
// skipped. This only sees data on screen; the backend stays the authority.
func CheckPBLDuplicate(d Draft, rows []model.ScheduleRow) error {
	if d.Kind != KindPBL {
		return nil
	}
	date := dateOnly(strings.TrimSpace(d.Tanggal))
	for _, row := range rows {
		if d.ID != 0 && row.ID == d.ID {
			continue
		}
		if dateOnly(row.Tanggal) != date {
			continue
		}
		if row.KelompokKecilID != d.KelompokKecilID {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(row.PBLTipe), strings.TrimSpace(d.PBLTipe)) {
			continue
		}
		return apperr.Validation(fmt.Sprintf("Kelompok ini sudah memiliki jadwal %s pada tanggal %s", row.PBLTipe, date))
	}
	return nil
}

// Prepare runs the local checks in submission order and builds the form.
// A non-nil error means nothing may be sent.
func Prepare(d Draft, data model.BatchData) (Form, error) {
	if err := CheckDateRange(d.Tanggal, data.Course); err != nil {
		return nil, err
	}
	if err := CheckPBLDuplicate(d, data.PBL); err != nil {
		return nil, err
	}
	return Build(d)
}

// Rows returns the rows of one kind from a batch payload.
func Rows(data model.BatchData, kind Kind) []model.ScheduleRow {
	switch kind {
	case KindLecture:
		return data.KuliahBesar
	case KindAgenda:
		return data.AgendaKhusus
	case KindPracticum:
		return data.Praktikum
	case KindPBL:
		return data.PBL
	case KindJournal:
		return data.JurnalReading
	default:
		return nil
	}
}
