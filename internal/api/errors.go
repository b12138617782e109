package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/verte-zerg/jadwal/internal/apperr"
	"github.com/verte-zerg/jadwal/internal/report"
)

// ErrUnauthorized is returned after a 401; the stored session is already cleared.
var ErrUnauthorized = errors.New("sesi berakhir, silakan login kembali")

// TransportError is a failure to reach the backend at all.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response. JSON reports whether the body carried a
// JSON message; otherwise Message holds a trimmed excerpt of the raw body.
type HTTPError struct {
	Status  int
	Message string
	Fields  map[string][]string
	JSON    bool
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// FieldErrors flattens per-field validation messages in field order.
func (e *HTTPError) FieldErrors() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []string
	for _, k := range keys {
		out = append(out, e.Fields[k]...)
	}
	return out
}

// Describe maps any client error to the one line shown in a banner.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var (
		validation *apperr.ValidationError
		constraint *apperr.ConstraintError
		httpErr    *HTTPError
		transport  *TransportError
	)
	switch {
	case errors.As(err, &validation):
		return validation.First()
	case errors.As(err, &constraint):
		return constraint.Error()
	case errors.Is(err, ErrUnauthorized):
		return ErrUnauthorized.Error()
	case errors.Is(err, report.ErrExportFailed):
		return report.ErrExportFailed.Error()
	case errors.As(err, &httpErr):
		if httpErr.JSON && httpErr.Message != "" {
			return httpErr.Message
		}
		if fields := httpErr.FieldErrors(); len(fields) > 0 {
			return fields[0]
		}
		if !httpErr.JSON && httpErr.Message != "" && !isMarkup(httpErr.Message) {
			return fmt.Sprintf("Server mengembalikan status %d: %s", httpErr.Status, httpErr.Message)
		}
		text := http.StatusText(httpErr.Status)
		if text == "" {
			text = "respons tidak dikenal"
		}
		return fmt.Sprintf("Server mengembalikan status %d (%s)", httpErr.Status, strings.ToLower(text))
	case errors.As(err, &transport):
		return fmt.Sprintf("Tidak dapat terhubung ke server: %v", transport.Err)
	default:
		return err.Error()
	}
}

// isMarkup reports whether a raw body is an HTML page rather than a message.
func isMarkup(body string) bool {
	return strings.HasPrefix(strings.TrimSpace(body), "<")
}
