package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/jadwal/internal/model"
)

// ErrExportFailed is the single failure reported when any step of an export fails.
var ErrExportFailed = errors.New("export laporan gagal")

// Kinds are the report kinds exported by default, in sheet order.
var Kinds = []string{"jadwal", "dosen", "mahasiswa", "kehadiran", "penilaian"}

// Source fetches one report kind.
type Source interface {
	ExportReport(ctx context.Context, kind string) (model.ReportData, error)
}

// Export fetches every kind in order and writes one workbook with a sheet per
// kind. The first failing fetch aborts the remaining kinds; the cause is
// returned wrapped in ErrExportFailed.
func Export(ctx context.Context, src Source, kinds []string, w io.Writer) error {
	if len(kinds) == 0 {
		kinds = Kinds
	}
	reports := make([]model.ReportData, 0, len(kinds))
	for _, kind := range kinds {
		data, err := src.ExportReport(ctx, kind)
		if err != nil {
			return &exportError{kind: kind, err: err}
		}
		if data.Kind == "" {
			data.Kind = kind
		}
		reports = append(reports, data)
	}
	if err := writeWorkbook(reports, w); err != nil {
		return &exportError{err: err}
	}
	return nil
}

type exportError struct {
	kind string
	err  error
}

func (e *exportError) Error() string {
	return ErrExportFailed.Error()
}

// Cause is the underlying failure, kept for logging.
func (e *exportError) Cause() error {
	return e.err
}

func (e *exportError) Is(target error) bool {
	return target == ErrExportFailed
}

// Unwrap exposes the cause to errors.Is and errors.As, so an expired
// session is still recognised.
func (e *exportError) Unwrap() error {
	return e.err
}

// Cause returns the underlying failure of an export error, or err itself.
func Cause(err error) error {
	var ee *exportError
	if errors.As(err, &ee) {
		if ee.kind != "" {
			return fmt.Errorf("%s: %w", ee.kind, ee.err)
		}
		return ee.err
	}
	return err
}

func writeWorkbook(reports []model.ReportData, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	used := map[string]bool{}
	first := ""
	for _, data := range reports {
		name := sheetName(data, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
		if first == "" {
			first = name
		}
		if err := writeSheet(f, name, data, headerStyle); err != nil {
			return err
		}
	}
	if first != "" {
		if !used["Sheet1"] {
			if err := f.DeleteSheet("Sheet1"); err != nil {
				return fmt.Errorf("failed to drop default sheet: %w", err)
			}
		}
		idx, err := f.GetSheetIndex(first)
		if err != nil {
			return fmt.Errorf("failed to activate sheet %q: %w", first, err)
		}
		f.SetActiveSheet(idx)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, data model.ReportData, headerStyle int) error {
	row := 1
	if len(data.Headers) > 0 {
		values := make([]interface{}, len(data.Headers))
		for i, h := range data.Headers {
			values[i] = h
		}
		if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
			return fmt.Errorf("failed to write header of %q: %w", sheet, err)
		}
		last := cell(len(data.Headers), row)
		if err := f.SetCellStyle(sheet, cell(1, row), last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header of %q: %w", sheet, err)
		}
		row++
	}
	for _, record := range data.Rows {
		values := make([]interface{}, len(record))
		for i, v := range record {
			values[i] = v
		}
		if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", row, sheet, err)
		}
		row++
	}
	return nil
}

// sheetName derives a unique, valid sheet name from the report title or kind.
func sheetName(data model.ReportData, used map[string]bool) string {
	name := strings.TrimSpace(data.Title)
	if name == "" {
		name = data.Kind
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, name)
	if len([]rune(name)) > 31 {
		name = string([]rune(name)[:31])
	}
	base := name
	for i := 2; used[name]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		runes := []rune(base)
		if len(runes)+len(suffix) > 31 {
			runes = runes[:31-len(suffix)]
		}
		name = string(runes) + suffix
	}
	used[name] = true
	return name
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
