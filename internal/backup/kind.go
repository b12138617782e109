// Package backup reconciles the backup kind a user selects with the kind a
// file name suggests, and checks files before they are uploaded.
package backup

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/jadwal/internal/apperr"
)

// MaxUploadBytes bounds an import file.
const MaxUploadBytes = 100 << 20

// Kind is the intent of a backup file.
type Kind string

const (
	KindFull          Kind = "full"
	KindDataOnly      Kind = "data_only"
	KindStructureOnly Kind = "structure_only"
	KindUnknown       Kind = ""
)

// Kinds lists the selectable kinds in display order.
var Kinds = []Kind{KindFull, KindDataOnly, KindStructureOnly}

var kindLabels = map[Kind]string{
	KindFull:          "Full (struktur + data)",
	KindDataOnly:      "Data saja",
	KindStructureOnly: "Struktur saja",
	KindUnknown:       "tidak diketahui",
}

func (k Kind) String() string {
	return string(k)
}

// Label is the human-readable name of the kind.
func (k Kind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return string(k)
}

// ParseKind accepts the wire value of a kind.
func ParseKind(raw string) (Kind, error) {
	value := Kind(strings.ToLower(strings.TrimSpace(raw)))
	for _, kind := range Kinds {
		if kind == value {
			return kind, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown backup type %q (use full, data_only or structure_only)", raw)
}

// Markers are checked in this order; "full" is last so that names such as
// "full_data_only" resolve to the narrower kind.
var markers = []Kind{KindDataOnly, KindStructureOnly, KindFull}

// InferKind guesses the kind from substrings of the file name.
func InferKind(filename string) Kind {
	name := strings.ToLower(filepath.Base(filename))
	for _, marker := range markers {
		if strings.Contains(name, string(marker)) {
			return marker
		}
	}
	return KindUnknown
}

// MismatchWarning returns an advisory when the file name suggests a kind other
// than the selected one. It never blocks an import.
func MismatchWarning(filename string, selected Kind) (string, bool) {
	if filename == "" {
		return "", false
	}
	inferred := InferKind(filename)
	if inferred == KindUnknown || inferred == selected {
		return "", false
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Peringatan: tipe backup tidak cocok.\n")
	fmt.Fprintf(&b, "File %q terdeteksi sebagai %s (%s),\n", filepath.Base(filename), inferred.Label(), inferred)
	fmt.Fprintf(&b, "sedangkan tipe yang dipilih adalah %s (%s).\n", selected.Label(), selected)
	fmt.Fprintf(&b, "Sistem akan mengoreksi tipe secara otomatis menjadi %s.", inferred)
	return b.String(), true
}

// CheckUpload rejects files that are not .sql/.zip or larger than MaxUploadBytes.
func CheckUpload(name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".sql" && ext != ".zip" {
		return &apperr.ConstraintError{File: filepath.Base(name), Reason: "format file harus .sql atau .zip"}
	}
	if size > MaxUploadBytes {
		return &apperr.ConstraintError{File: filepath.Base(name), Reason: "ukuran file maksimal 100MB"}
	}
	return nil
}

// Filename is the default name of a downloaded backup.
func Filename(kind Kind, date time.Time) string {
	if kind == KindUnknown {
		kind = KindFull
	}
	return fmt.Sprintf("backup_%s_%s.sql", kind, date.Format("2006-01-02"))
}

// ResetConfirmPhrase must be typed before a system reset is sent.
const ResetConfirmPhrase = "reset"

// ResetConfirmed reports whether text is the reset phrase, ignoring case.
func ResetConfirmed(text string) bool {
	return strings.EqualFold(text, ResetConfirmPhrase)
}
