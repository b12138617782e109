package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/jadwal/internal/model"
)

type fakeSource struct {
	calls  []string
	failOn string
	data   map[string]model.ReportData
}

func (f *fakeSource) ExportReport(_ context.Context, kind string) (model.ReportData, error) {
	f.calls = append(f.calls, kind)
	if kind == f.failOn {
		return model.ReportData{}, errors.New("HTTP 500")
	}
	return f.data[kind], nil
}

func TestExportAbortsOnFirstFailure(t *testing.T) {
	src := &fakeSource{failOn: "dosen"}
	var buf bytes.Buffer
	err := Export(context.Background(), src, []string{"jadwal", "dosen", "kehadiran"}, &buf)
	if !errors.Is(err, ErrExportFailed) {
		t.Fatalf("expected ErrExportFailed, got %v", err)
	}
	if err.Error() != ErrExportFailed.Error() {
		t.Fatalf("export failure should be generic, got %q", err.Error())
	}
	if len(src.calls) != 2 {
		t.Fatalf("remaining kinds must be skipped, calls=%v", src.calls)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written on failure")
	}
	if cause := Cause(err); cause == nil || cause.Error() != "dosen: HTTP 500" {
		t.Fatalf("unexpected cause %v", cause)
	}
}

func TestExportKeepsCauseReachable(t *testing.T) {
	expired := errors.New("session expired")
	src := &failingSource{err: expired}
	err := Export(context.Background(), src, []string{"jadwal"}, &bytes.Buffer{})
	if !errors.Is(err, ErrExportFailed) || !errors.Is(err, expired) {
		t.Fatalf("expected both the generic and the underlying error, got %v", err)
	}
	if err.Error() != ErrExportFailed.Error() {
		t.Fatalf("message should stay generic, got %q", err.Error())
	}
}

type failingSource struct {
	err error
}

func (f *failingSource) ExportReport(context.Context, string) (model.ReportData, error) {
	return model.ReportData{}, f.err
}

func TestExportWritesSheetPerKind(t *testing.T) {
	src := &fakeSource{data: map[string]model.ReportData{
		"jadwal": {Title: "Jadwal", Headers: []string{"Tanggal", "Materi"}, Rows: [][]string{{"2026-01-05", "Anatomi"}}},
		"dosen":  {Title: "Dosen", Headers: []string{"Nama"}, Rows: [][]string{{"dr. Sari"}, {"dr. Budi"}}},
	}}
	var buf bytes.Buffer
	if err := Export(context.Background(), src, []string{"jadwal", "dosen"}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Jadwal" || sheets[1] != "Dosen" {
		t.Fatalf("unexpected sheets %v", sheets)
	}
	rows, err := f.GetRows("Dosen")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "Nama" || rows[2][0] != "dr. Budi" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestSheetNameSanitizesAndDedupes(t *testing.T) {
	used := map[string]bool{}
	first := sheetName(model.ReportData{Title: "Rekap: Jadwal/Blok [1]"}, used)
	if first != "Rekap- Jadwal-Blok -1-" {
		t.Fatalf("unexpected name %q", first)
	}
	second := sheetName(model.ReportData{Title: "Rekap: Jadwal/Blok [1]"}, used)
	if second != "Rekap- Jadwal-Blok -1- (2)" {
		t.Fatalf("unexpected deduped name %q", second)
	}
	long := sheetName(model.ReportData{Kind: "laporan-penilaian-mahasiswa-per-blok"}, used)
	if len([]rune(long)) != 31 {
		t.Fatalf("sheet names are capped at 31 runes, got %q", long)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Tanggal", "Jam", "Sesi"}
	rows := [][]string{
		{"2026-01-05", "07:20-09:00", "2"},
		{"2026-01-06", "10:00-10:50", "1"},
	}
	lines := FormatTable(headers, rows, map[int]bool{2: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Tanggal     Jam          Sesi" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "2026-01-05  07:20-09:00     2" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := FormatTable([]string{"Nama", "N"}, [][]string{{"日本", "1"}}, nil)
	if lines[1] != "日本  1" {
		t.Fatalf("wide runes should count as two cells: %q", lines[1])
	}
}
