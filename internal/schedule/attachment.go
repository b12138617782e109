package schedule

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/jadwal/internal/apperr"
)

// MaxAttachmentBytes caps journal attachments.
const MaxAttachmentBytes = 10 << 20

var attachmentExts = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".ppt":  {},
	".pptx": {},
	".xls":  {},
	".xlsx": {},
}

// AttachmentAction tells the encoder what to do with a journal file.
type AttachmentAction int

const (
	// AttachmentRetain keeps whatever the backend already stores.
	AttachmentRetain AttachmentAction = iota
	// AttachmentClear removes the stored file.
	AttachmentClear
	// AttachmentReplace uploads Path, replacing any stored file.
	AttachmentReplace
)

// Attachment is the journal file state of a form.
type Attachment struct {
	Action   AttachmentAction
	Existing string
	Path     string
}

// RetainAttachment starts from the file currently stored for a row.
func RetainAttachment(existing string) Attachment {
	return Attachment{Action: AttachmentRetain, Existing: existing}
}

// Clear marks the stored file for removal. Without a stored file it is a no-op.
func (a Attachment) Clear() Attachment {
	if a.Existing == "" {
		return Attachment{Action: AttachmentRetain}
	}
	return Attachment{Action: AttachmentClear, Existing: a.Existing}
}

// Replace attaches a new local file.
func (a Attachment) Replace(path string) Attachment {
	return Attachment{Action: AttachmentReplace, Existing: a.Existing, Path: path}
}

// Label describes the state for the form view.
func (a Attachment) Label() string {
	switch a.Action {
	case AttachmentClear:
		return fmt.Sprintf("akan dihapus (%s)", filepath.Base(a.Existing))
	case AttachmentReplace:
		return fmt.Sprintf("baru: %s", filepath.Base(a.Path))
	default:
		if a.Existing == "" {
			return "tidak ada"
		}
		return filepath.Base(a.Existing)
	}
}

// CheckAttachment validates the type and size of a journal file.
func CheckAttachment(name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := attachmentExts[ext]; !ok {
		return &apperr.ConstraintError{File: filepath.Base(name), Reason: "format file harus PDF, Word, Excel atau PowerPoint"}
	}
	if size > MaxAttachmentBytes {
		return &apperr.ConstraintError{File: filepath.Base(name), Reason: "ukuran file maksimal 10MB"}
	}
	return nil
}

func statAttachment(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat attachment: %w", err)
	}
	if info.IsDir() {
		return &apperr.ConstraintError{File: filepath.Base(path), Reason: "bukan file"}
	}
	return CheckAttachment(path, info.Size())
}
