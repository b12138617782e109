package adminui

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/jadwal/internal/backup"
	"github.com/verte-zerg/jadwal/internal/model"
	"github.com/verte-zerg/jadwal/internal/report"
)

type backupDoneMsg struct {
	kind backup.Kind
	path string
	size int64
	err  error
}

type importDoneMsg struct {
	result model.RestoreResult
	err    error
}

type resetDoneMsg struct {
	err error
}

type exportDoneMsg struct {
	path string
	err  error
}

func (m *Model) updateBackupKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "k":
		m.backupKind = nextKind(m.backupKind)
	case "t":
		m.importKind = nextKind(m.importKind)
		m.refreshWarning()
	case "p", "enter":
		m.mode = editImportPath
		return m, m.importPath.Focus()
	case "b":
		return m, m.createBackup()
	case "u":
		return m, m.startImport()
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.restoreView, cmd = m.restoreView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func nextKind(k backup.Kind) backup.Kind {
	for i, kind := range backup.Kinds {
		if kind == k {
			return backup.Kinds[(i+1)%len(backup.Kinds)]
		}
	}
	return backup.Kinds[0]
}

// refreshWarning re-evaluates the file name against the selected kind.
func (m *Model) refreshWarning() {
	path := strings.TrimSpace(m.importPath.Value())
	m.warning = ""
	if path == "" {
		return
	}
	if warning, ok := backup.MismatchWarning(filepath.Base(path), m.importKind); ok {
		m.warning = warning
	}
}

func (m *Model) createBackup() tea.Cmd {
	if m.busy {
		return nil
	}
	m.busy = true
	client := m.client
	kind := m.backupKind
	dir := m.opts.BackupDir
	recorder := m.opts.Recorder
	now := m.opts.Now
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx := context.Background()
		download, err := client.Backup(ctx, kind)
		if err != nil {
			return backupDoneMsg{kind: kind, err: err}
		}
		path, err := backup.Save(dir, download.Filename, download.Data)
		if err != nil {
			return backupDoneMsg{kind: kind, err: err}
		}
		size := int64(len(download.Data))
		if recorder != nil {
			rec := model.BackupRecord{
				Kind:      string(kind),
				Path:      path,
				SizeBytes: size,
				CreatedAt: now().UTC().Format(time.RFC3339Nano),
			}
			if _, err := recorder.RecordBackup(ctx, rec); err != nil {
				return backupDoneMsg{kind: kind, path: path, size: size, err: fmt.Errorf("failed to record backup: %w", err)}
			}
		}
		return backupDoneMsg{kind: kind, path: path, size: size}
	})
}

func (m *Model) handleBackupDone(msg backupDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		return m.fail("Backup gagal", msg.err)
	}
	m.lastBackup = msg.path
	m.logger.Info("backup saved", zap.String("kind", string(msg.kind)), zap.String("path", msg.path), zap.Int64("bytes", msg.size))
	return m, m.banner.Success(fmt.Sprintf("Backup %s tersimpan di %s", msg.kind.Label(), msg.path))
}

func (m *Model) startImport() tea.Cmd {
	if m.busy || m.importing {
		return nil
	}
	path := strings.TrimSpace(m.importPath.Value())
	if path == "" {
		m.banner.Error("Pilih file backup terlebih dahulu (p)")
		return nil
	}
	m.importing = true
	m.busy = true
	m.importPct = 0
	m.restoreText = ""
	m.restoreView.SetContent("")
	client := m.client
	kind := m.importKind
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		result, err := client.Import(context.Background(), path, kind)
		return importDoneMsg{result: result, err: err}
	})
}

func (m *Model) handleImportDone(msg importDoneMsg) (tea.Model, tea.Cmd) {
	m.importing = false
	m.busy = false
	if msg.err != nil {
		m.importPct = 0
		return m.fail("Import gagal", msg.err)
	}
	m.importPct = 1
	m.restoreText = backup.DescribeRestore(msg.result)
	m.restoreView.SetContent(m.restoreText)
	m.restoreView.GotoTop()
	if !msg.result.Success {
		m.banner.Error("Import gagal: " + msg.result.Message)
		return m, nil
	}
	if msg.result.TypeCorrected {
		m.logger.Info("restore type corrected",
			zap.String("requested", msg.result.RequestedType),
			zap.String("corrected", msg.result.CorrectedType))
	}
	return m, tea.Batch(m.banner.Success("Import selesai"), m.fetchDashboard())
}

// reset submits the confirmation; anything but the phrase is refused locally.
func (m *Model) reset() tea.Cmd {
	text := m.resetInput.Value()
	if !backup.ResetConfirmed(text) {
		m.banner.Error(fmt.Sprintf("Ketik %q untuk mengonfirmasi reset", backup.ResetConfirmPhrase))
		return nil
	}
	if m.busy {
		return nil
	}
	m.busy = true
	m.mode = editNone
	m.resetInput.Blur()
	client := m.client
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return resetDoneMsg{err: client.Reset(context.Background(), text)}
	})
}

func (m *Model) handleResetDone(msg resetDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.resetInput.SetValue("")
	if msg.err != nil {
		return m.fail("Reset gagal", msg.err)
	}
	m.logger.Warn("system reset completed")
	return m, tea.Batch(m.banner.Success("Reset sistem berhasil"), m.fetchDashboard())
}

func (m *Model) export() tea.Cmd {
	if m.busy {
		return nil
	}
	m.busy = true
	client := m.client
	dir := m.opts.BackupDir
	name := fmt.Sprintf("laporan_%s.xlsx", m.opts.Now().Format("2006-01-02"))
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		var buf bytes.Buffer
		if err := report.Export(context.Background(), client, report.Kinds, &buf); err != nil {
			return exportDoneMsg{err: err}
		}
		path, err := backup.Save(dir, name, buf.Bytes())
		return exportDoneMsg{path: path, err: err}
	})
}

func (m *Model) handleExportDone(msg exportDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		if cause := report.Cause(msg.err); cause != nil {
			m.logger.Warn("export failed", zap.Error(cause))
		}
		return m.fail("Export gagal", msg.err)
	}
	m.exportPath = msg.path
	return m, m.banner.Success("Laporan tersimpan di " + msg.path)
}
