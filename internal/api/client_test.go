package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/jadwal/internal/apperr"
	"github.com/verte-zerg/jadwal/internal/backup"
	"github.com/verte-zerg/jadwal/internal/model"
	"github.com/verte-zerg/jadwal/internal/report"
	"github.com/verte-zerg/jadwal/internal/schedule"
)

type memSessions struct {
	saved   *model.Session
	cleared int
}

func (m *memSessions) SaveSession(_ context.Context, s model.Session) error {
	m.saved = &s
	return nil
}

func (m *memSessions) ClearSession(context.Context) error {
	m.saved = nil
	m.cleared++
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *memSessions) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sessions := &memSessions{}
	return New(srv.URL+"/api/", 5*time.Second, sessions, nil, WithToken("tok")), sessions
}

func lectureForm(t *testing.T, id int64) schedule.Form {
	t.Helper()
	d := schedule.NewDraft(schedule.KindLecture)
	d.ID = id
	d.Tanggal = "2026-01-07"
	d.SetStart("08:00")
	d.SetSessions(2)
	d.DosenIDs = []int64{4}
	d.Materi = "Anatomi"
	d.RuanganID = 9
	form, err := schedule.Build(d)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return form
}

func TestRequestHeaders(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dashboard-super-admin" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing request id")
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("unexpected accept %q", r.Header.Get("Accept"))
		}
		_, _ = io.WriteString(w, `{"totalUsers": 5}`)
	})
	stats, err := client.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalUsers == nil || *stats.TotalUsers != 5 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	client, sessions := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Unauthenticated."}`)
	})
	sessions.saved = &model.Session{Token: "tok"}
	_, err := client.BatchData(context.Background(), "MKB101")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if sessions.cleared != 1 || sessions.saved != nil {
		t.Fatalf("session should be cleared")
	}
	if client.Token() != "" {
		t.Fatalf("token should be dropped")
	}
}

func TestHTTPErrorJSONAndPlain(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "json") {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"message":"Ruangan sudah dipakai"}`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := client.BatchData(context.Background(), "json")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || !httpErr.JSON || httpErr.Status != 422 {
		t.Fatalf("expected JSON HTTPError, got %#v", err)
	}
	if Describe(err) != "Ruangan sudah dipakai" {
		t.Fatalf("unexpected description %q", Describe(err))
	}

	_, err = client.BatchData(context.Background(), "plain")
	if !errors.As(err, &httpErr) || httpErr.JSON || httpErr.Status != 502 {
		t.Fatalf("expected plain HTTPError, got %#v", err)
	}
	if !strings.Contains(Describe(err), "502") {
		t.Fatalf("unexpected description %q", Describe(err))
	}
}

func TestPlainErrorBodyIsDescribed(t *testing.T) {
	long := strings.Repeat("é", 3000)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		if strings.Contains(r.URL.Path, "long") {
			_, _ = io.WriteString(w, long)
			return
		}
		_, _ = io.WriteString(w, "  sedang maintenance\n")
	})

	_, err := client.BatchData(context.Background(), "short")
	if got := Describe(err); got != "Server mengembalikan status 503: sedang maintenance" {
		t.Fatalf("unexpected description %q", got)
	}

	_, err = client.BatchData(context.Background(), "long")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %#v", err)
	}
	if !utf8.ValidString(httpErr.Message) {
		t.Fatalf("excerpt must stay valid UTF-8")
	}
	if w := runewidth.StringWidth(httpErr.Message); w > maxErrorExcerpt {
		t.Fatalf("excerpt too wide: %d", w)
	}
	if !strings.HasSuffix(httpErr.Message, "...") {
		t.Fatalf("truncated excerpt should end with an ellipsis")
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	client := New(url, time.Second, nil, nil)
	_, err := client.Dashboard(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !strings.HasPrefix(Describe(err), "Tidak dapat terhubung") {
		t.Fatalf("unexpected description %q", Describe(err))
	}
}

func TestCreateLectureSendsOnePOST(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost || r.URL.Path != "/api/kuliah-besar/jadwal/MKB101" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode: %v", err)
		}
		if payload["jam_selesai"] != "09:40" {
			t.Errorf("expected derived end time, got %v", payload["jam_selesai"])
		}
		w.WriteHeader(http.StatusCreated)
	})
	if err := client.SaveSchedule(context.Background(), "MKB101", lectureForm(t, 0)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one request, got %d", calls)
	}
}

func TestUpdateUsesPUT(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/kuliah-besar/jadwal/MKB101/31" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	if err := client.SaveSchedule(context.Background(), "MKB101", lectureForm(t, 31)); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestMultipartUpdateUsesPOSTOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jurnal.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	d := schedule.NewDraft(schedule.KindJournal)
	d.ID = 12
	d.Tanggal = "2026-01-15"
	d.SetStart("09:00")
	d.Topik = "Critical appraisal"
	d.KelompokKecilID = 2
	d.DosenIDs = []int64{7}
	d.RuanganID = 3
	d.Attachment = schedule.RetainAttachment("").Replace(path)
	form, err := schedule.Build(d)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/jurnal-reading/jadwal/MKB101/12" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("_method") != "PUT" {
			t.Errorf("missing method override")
		}
		if _, _, err := r.FormFile("file_jurnal"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
	})
	if err := client.SaveSchedule(context.Background(), "MKB101", form); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestDeleteSchedule(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/pbl/jadwal/MKB101/8" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := client.DeleteSchedule(context.Background(), schedule.KindPBL, "MKB101", 8); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var ve *apperr.ValidationError
	if err := client.DeleteSchedule(context.Background(), schedule.KindPBL, "MKB101", 0); !errors.As(err, &ve) {
		t.Fatalf("expected validation error for unsaved row, got %v", err)
	}
}

func TestLoginSavesSession(t *testing.T) {
	client, sessions := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["login"] != "admin" || body["password"] != "secret" {
			t.Errorf("unexpected credentials %v", body)
		}
		_, _ = io.WriteString(w, `{"token":"fresh","user":{"id":1,"name":"Admin","username":"admin","role":"super_admin"}}`)
	})
	session, err := client.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token != "fresh" || !session.User.IsSuperAdmin() {
		t.Fatalf("unexpected session %+v", session)
	}
	if sessions.saved == nil || sessions.saved.Token != "fresh" || client.Token() != "fresh" {
		t.Fatalf("session not persisted")
	}
}

func TestLoginRejectedIsNotSessionExpiry(t *testing.T) {
	client, sessions := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Username atau password salah"}`)
	})
	_, err := client.Login(context.Background(), "admin", "bad")
	if errors.Is(err, ErrUnauthorized) {
		t.Fatalf("bad credentials must not read as expired session")
	}
	if Describe(err) != "Username atau password salah" {
		t.Fatalf("unexpected description %q", Describe(err))
	}
	if sessions.cleared != 0 {
		t.Fatalf("login failure must not clear session")
	}
}

func TestBackupFilename(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["type"] == "full" {
			w.Header().Set("Content-Disposition", `attachment; filename="server_full.sql"`)
		}
		_, _ = io.WriteString(w, "-- dump")
	})
	client.now = func() time.Time { return time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC) }

	dl, err := client.Backup(context.Background(), backup.KindFull)
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if dl.Filename != "server_full.sql" || string(dl.Data) != "-- dump" {
		t.Fatalf("unexpected download %+v", dl)
	}
	dl, err = client.Backup(context.Background(), backup.KindDataOnly)
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if dl.Filename != "backup_data_only_2026-02-03.sql" {
		t.Fatalf("unexpected default filename %q", dl.Filename)
	}
}

func TestImportSendsFileAndType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup_data_only_2026-01-01.sql")
	if err := os.WriteFile(path, []byte("INSERT ..."), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("type") != "full" {
			t.Errorf("unexpected type %q", r.FormValue("type"))
		}
		if _, header, err := r.FormFile("file"); err != nil || header.Filename != filepath.Base(path) {
			t.Errorf("missing file part: %v", err)
		}
		_, _ = io.WriteString(w, `{"success":true,"message":"ok","requested_type":"full","corrected_type":"data_only","type_corrected":true,"warnings":["x"]}`)
	})
	result, err := client.Import(context.Background(), path, backup.KindFull)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !result.TypeCorrected || result.CorrectedType != "data_only" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestImportRejectsWrongExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request must not be sent")
	})
	var ce *apperr.ConstraintError
	if _, err := client.Import(context.Background(), path, backup.KindFull); !errors.As(err, &ce) {
		t.Fatalf("expected constraint error, got %v", err)
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["confirmation"] != "RESET" {
			t.Errorf("unexpected confirmation %q", body["confirmation"])
		}
	})
	if err := client.Reset(context.Background(), "hapus"); err == nil {
		t.Fatalf("expected validation error")
	}
	if calls != 0 {
		t.Fatalf("unconfirmed reset must not reach the server")
	}
	if err := client.Reset(context.Background(), "RESET"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one reset call, got %d", calls)
	}
}

func TestExportReportAndDescribe(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/reporting/dosen/export" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `{"title":"Dosen","headers":["Nama"],"rows":[["dr. Sari"]]}`)
	})
	data, err := client.ExportReport(context.Background(), "dosen")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if data.Kind != "dosen" || len(data.Rows) != 1 {
		t.Fatalf("unexpected report %+v", data)
	}

	var sink strings.Builder
	err = report.Export(context.Background(), client, []string{"dosen", "jadwal"}, &sink)
	if Describe(err) != report.ErrExportFailed.Error() {
		t.Fatalf("expected generic export failure, got %q", Describe(err))
	}
}
