package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/verte-zerg/jadwal/internal/apperr"
	"github.com/verte-zerg/jadwal/internal/backup"
	"github.com/verte-zerg/jadwal/internal/model"
	"github.com/verte-zerg/jadwal/internal/schedule"
)

// Login exchanges credentials for a token and persists the session.
func (c *Client) Login(ctx context.Context, login, password string) (model.Session, error) {
	var resp struct {
		Token       string     `json:"token"`
		AccessToken string     `json:"access_token"`
		User        model.User `json:"user"`
	}
	body, err := jsonBody(map[string]string{"login": login, "password": password})
	if err != nil {
		return model.Session{}, err
	}
	httpResp, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/login",
		body:        body,
		contentType: "application/json",
		anonymous:   true,
	})
	if err != nil {
		return model.Session{}, err
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()
	if err := decode(httpResp, &resp); err != nil {
		return model.Session{}, err
	}
	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return model.Session{}, fmt.Errorf("login response has no token")
	}
	session := model.Session{Token: token, User: resp.User}
	c.setToken(token)
	if c.sessions != nil {
		if err := c.sessions.SaveSession(ctx, session); err != nil {
			return model.Session{}, fmt.Errorf("failed to save session: %w", err)
		}
	}
	return session, nil
}

// Logout revokes the token and always clears the local session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.sendJSON(ctx, http.MethodPost, "/logout", nil, nil)
	c.setToken("")
	if c.sessions != nil {
		if cerr := c.sessions.ClearSession(ctx); cerr != nil {
			return fmt.Errorf("failed to clear session: %w", cerr)
		}
	}
	if errors.Is(err, ErrUnauthorized) {
		return nil
	}
	return err
}

// Dashboard fetches the super-admin aggregates.
func (c *Client) Dashboard(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	err := c.getJSON(ctx, "/dashboard-super-admin", &stats)
	return stats, err
}

// BatchData fetches a course with all schedules and reference lists.
func (c *Client) BatchData(ctx context.Context, kode string) (model.BatchData, error) {
	var data model.BatchData
	err := c.getJSON(ctx, "/mata-kuliah/"+url.PathEscape(kode)+"/batch-data", &data)
	return data, err
}

func schedulePath(kind schedule.Kind, kode string, id int64) string {
	path := "/" + kind.Slug() + "/jadwal/" + url.PathEscape(kode)
	if id != 0 {
		path += fmt.Sprintf("/%d", id)
	}
	return path
}

// SaveSchedule creates the row when the form has no id, otherwise updates it.
// Multipart updates are sent as POST with a _method override.
func (c *Client) SaveSchedule(ctx context.Context, kode string, form schedule.Form) error {
	body, err := schedule.Encode(form)
	if err != nil {
		return err
	}
	method := http.MethodPost
	if form.RecordID() != 0 && !body.Multipart {
		method = http.MethodPut
	}
	resp, err := c.do(ctx, request{
		method:      method,
		path:        schedulePath(form.Kind(), kode, form.RecordID()),
		body:        body.Reader(),
		contentType: body.ContentType,
	})
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// DeleteSchedule removes one row.
func (c *Client) DeleteSchedule(ctx context.Context, kind schedule.Kind, kode string, id int64) error {
	if id == 0 {
		return apperr.Validation("Jadwal belum tersimpan")
	}
	return c.sendJSON(ctx, http.MethodDelete, schedulePath(kind, kode, id), nil, nil)
}

// Download is a file returned by the backend.
type Download struct {
	Filename string
	Data     []byte
}

// Backup asks the server for a dump. The server-provided filename wins over
// the local default.
func (c *Client) Backup(ctx context.Context, kind backup.Kind) (Download, error) {
	body, err := jsonBody(map[string]string{"type": string(kind)})
	if err != nil {
		return Download{}, err
	}
	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/system/backup",
		body:        body,
		contentType: "application/json",
		accept:      "application/octet-stream, application/sql, */*",
	})
	if err != nil {
		return Download{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Download{}, &TransportError{Method: http.MethodPost, Path: "/system/backup", Err: err}
	}
	dl := Download{Data: data, Filename: dispositionFilename(resp.Header.Get("Content-Disposition"))}
	if dl.Filename == "" || dl.Filename == "." {
		dl.Filename = backup.Filename(kind, c.now())
	}
	return dl, nil
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return filepath.Base(params["filename"])
}

// Import uploads a backup file and returns the server's account of the restore.
func (c *Client) Import(ctx context.Context, path string, kind backup.Kind) (model.RestoreResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.RestoreResult{}, fmt.Errorf("failed to stat import file: %w", err)
	}
	if err := backup.CheckUpload(path, info.Size()); err != nil {
		return model.RestoreResult{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return model.RestoreResult{}, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("type", string(kind)); err != nil {
		return model.RestoreResult{}, fmt.Errorf("failed to write multipart field: %w", err)
	}
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return model.RestoreResult{}, fmt.Errorf("failed to create multipart file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return model.RestoreResult{}, fmt.Errorf("failed to copy import file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return model.RestoreResult{}, fmt.Errorf("failed to close multipart body: %w", err)
	}

	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/system/import",
		body:        &buf,
		contentType: writer.FormDataContentType(),
	})
	if err != nil {
		return model.RestoreResult{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	var result model.RestoreResult
	if err := decode(resp, &result); err != nil {
		return model.RestoreResult{}, err
	}
	if result.RequestedType == "" {
		result.RequestedType = string(kind)
	}
	return result, nil
}

// Reset wipes the system data. The confirmation phrase is checked locally first.
func (c *Client) Reset(ctx context.Context, confirmation string) error {
	if !backup.ResetConfirmed(confirmation) {
		return apperr.Validation(fmt.Sprintf("Ketik %q untuk mengonfirmasi reset", backup.ResetConfirmPhrase))
	}
	return c.sendJSON(ctx, http.MethodPost, "/system/reset", map[string]string{"confirmation": confirmation}, nil)
}

// ExportReport fetches one report kind as headers and rows.
func (c *Client) ExportReport(ctx context.Context, kind string) (model.ReportData, error) {
	var data model.ReportData
	if err := c.getJSON(ctx, "/reporting/"+url.PathEscape(kind)+"/export", &data); err != nil {
		return model.ReportData{}, err
	}
	if data.Kind == "" {
		data.Kind = kind
	}
	return data, nil
}

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return bytes.NewReader(data), nil
}
