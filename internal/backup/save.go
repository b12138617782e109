package backup

import (
	"fmt"
	"os"
	"path/filepath"
)

// Save writes a downloaded backup into dir without overwriting an existing
// file; a numeric suffix is added instead. It returns the written path.
func Save(dir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	name := filepath.Base(filename)
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	path := filepath.Join(dir, name)
	for i := 1; ; i++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if os.IsExist(err) {
			path = filepath.Join(dir, fmt.Sprintf("%s(%d)%s", stem, i, ext))
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create backup file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("failed to write backup file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to close backup file: %w", err)
		}
		return path, nil
	}
}
