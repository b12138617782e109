package backup

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/jadwal/internal/apperr"
	"github.com/verte-zerg/jadwal/internal/model"
)

func TestInferKind(t *testing.T) {
	cases := []struct {
		name string
		want Kind
	}{
		{"backup_data_only_2026-01-01.sql", KindDataOnly},
		{"BACKUP_STRUCTURE_ONLY.sql", KindStructureOnly},
		{"backup_full_2026.zip", KindFull},
		{"/tmp/x/full_data_only.sql", KindDataOnly},
		{"dump.sql", KindUnknown},
		{"", KindUnknown},
	}
	for _, tc := range cases {
		if got := InferKind(tc.name); got != tc.want {
			t.Fatalf("InferKind(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestMismatchWarning(t *testing.T) {
	msg, ok := MismatchWarning("backup_data_only_2026-01-01.sql", KindFull)
	if !ok {
		t.Fatalf("expected warning for data_only file with full selected")
	}
	if strings.Count(msg, "\n") < 2 {
		t.Fatalf("expected multi-line warning, got %q", msg)
	}
	if !strings.Contains(msg, "data_only") || !strings.Contains(msg, "otomatis") {
		t.Fatalf("warning should name inferred kind and auto-correction: %q", msg)
	}

	for _, kind := range Kinds {
		if _, ok := MismatchWarning("dump.sql", kind); ok {
			t.Fatalf("unmarked file must never warn (selected %s)", kind)
		}
	}
	if _, ok := MismatchWarning("backup_full.sql", KindFull); ok {
		t.Fatalf("matching kind must not warn")
	}
	if _, ok := MismatchWarning("", KindFull); ok {
		t.Fatalf("no file, no warning")
	}
}

func TestCheckUpload(t *testing.T) {
	if err := CheckUpload("a.SQL", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckUpload("a.zip", MaxUploadBytes); err != nil {
		t.Fatalf("limit is inclusive: %v", err)
	}
	var ce *apperr.ConstraintError
	if err := CheckUpload("a.txt", 10); !errors.As(err, &ce) {
		t.Fatalf("expected constraint error for extension, got %v", err)
	}
	if err := CheckUpload("a.sql", MaxUploadBytes+1); !errors.As(err, &ce) {
		t.Fatalf("expected constraint error for size, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	date := time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)
	if got := Filename(KindDataOnly, date); got != "backup_data_only_2026-03-09.sql" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := Filename(KindUnknown, date); got != "backup_full_2026-03-09.sql" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestResetConfirmed(t *testing.T) {
	for _, text := range []string{"reset", "RESET", "Reset"} {
		if !ResetConfirmed(text) {
			t.Fatalf("%q should confirm", text)
		}
	}
	for _, text := range []string{"", "reset ", "resett", "hapus", "re set"} {
		if ResetConfirmed(text) {
			t.Fatalf("%q must not confirm", text)
		}
	}
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" Data_Only ")
	if err != nil || kind != KindDataOnly {
		t.Fatalf("unexpected %q %v", kind, err)
	}
	if _, err := ParseKind("partial"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDescribeRestoreUsesServerCorrection(t *testing.T) {
	out := DescribeRestore(model.RestoreResult{
		Success:       true,
		Message:       "Restore selesai",
		RequestedType: "full",
		CorrectedType: "data_only",
		TypeCorrected: true,
		Warnings:      []string{"tabel audit dilewati"},
	})
	for _, want := range []string{"Import berhasil: Restore selesai", "full -> data_only", "- tabel audit dilewati"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}

	plain := DescribeRestore(model.RestoreResult{Success: true, RequestedType: "full"})
	if strings.Contains(plain, "dikoreksi") {
		t.Fatalf("no correction reported, none rendered: %q", plain)
	}
}
