package backup

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/jadwal/internal/model"
)

// DescribeRestore renders the import outcome exactly as the server reported it.
func DescribeRestore(result model.RestoreResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("Import berhasil")
	} else {
		b.WriteString("Import gagal")
	}
	if msg := strings.TrimSpace(result.Message); msg != "" {
		fmt.Fprintf(&b, ": %s", msg)
	}
	if result.TypeCorrected {
		fmt.Fprintf(&b, "\nTipe dikoreksi oleh server: %s -> %s", orDash(result.RequestedType), orDash(result.CorrectedType))
	} else if result.RequestedType != "" {
		fmt.Fprintf(&b, "\nTipe: %s", result.RequestedType)
	}
	if result.TablesRestored > 0 {
		fmt.Fprintf(&b, "\nTabel dipulihkan: %d", result.TablesRestored)
	}
	for _, warning := range result.Warnings {
		if warning = strings.TrimSpace(warning); warning != "" {
			fmt.Fprintf(&b, "\n- %s", warning)
		}
	}
	return b.String()
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
