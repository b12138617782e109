package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Body is an encoded request body.
type Body struct {
	Data        []byte
	ContentType string
	Multipart   bool
}

// Reader returns a fresh reader over the body.
func (b Body) Reader() io.Reader {
	return bytes.NewReader(b.Data)
}

// Encode serialises a form. Multipart is used only when a journal form
// carries a new file; everything else, including a cleared attachment, is JSON.
func Encode(f Form) (Body, error) {
	if jf, ok := f.(JournalForm); ok && jf.Attachment.Action == AttachmentReplace {
		return encodeMultipart(jf)
	}
	data, err := json.Marshal(f.Payload())
	if err != nil {
		return Body{}, fmt.Errorf("failed to encode %s payload: %w", f.Kind().Title(), err)
	}
	return Body{Data: data, ContentType: "application/json"}, nil
}

func encodeMultipart(f JournalForm) (Body, error) {
	if err := statAttachment(f.Attachment.Path); err != nil {
		return Body{}, err
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	payload := f.Payload()
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writeField(writer, k, payload[k]); err != nil {
			return Body{}, err
		}
	}
	// Updates go out as POST with a method override; PHP backends do not
	// parse multipart PUT bodies.
	if f.ID != 0 {
		if err := writer.WriteField("_method", "PUT"); err != nil {
			return Body{}, fmt.Errorf("failed to write multipart field: %w", err)
		}
	}

	file, err := os.Open(f.Attachment.Path)
	if err != nil {
		return Body{}, fmt.Errorf("failed to open attachment: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	part, err := writer.CreateFormFile("file_jurnal", filepath.Base(f.Attachment.Path))
	if err != nil {
		return Body{}, fmt.Errorf("failed to create multipart file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return Body{}, fmt.Errorf("failed to copy attachment: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Body{}, fmt.Errorf("failed to close multipart body: %w", err)
	}
	return Body{Data: buf.Bytes(), ContentType: writer.FormDataContentType(), Multipart: true}, nil
}

func writeField(w *multipart.Writer, key string, value any) error {
	var err error
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		err = w.WriteField(key, v)
	case int:
		err = w.WriteField(key, strconv.Itoa(v))
	case int64:
		err = w.WriteField(key, strconv.FormatInt(v, 10))
	case bool:
		err = w.WriteField(key, boolField(v))
	case []int64:
		for _, id := range v {
			if err = w.WriteField(key+"[]", strconv.FormatInt(id, 10)); err != nil {
				break
			}
		}
	default:
		err = w.WriteField(key, fmt.Sprint(v))
	}
	if err != nil {
		return fmt.Errorf("failed to write multipart field %s: %w", key, err)
	}
	return nil
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
