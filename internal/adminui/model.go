// Package adminui provides the Bubble Tea super-admin console: system
// overview, live monitoring, backup/restore, reset and report export.
package adminui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/jadwal/internal/api"
	"github.com/verte-zerg/jadwal/internal/backup"
	"github.com/verte-zerg/jadwal/internal/metrics"
	"github.com/verte-zerg/jadwal/internal/model"
	"github.com/verte-zerg/jadwal/internal/stats"
	"github.com/verte-zerg/jadwal/internal/ui"
)

const (
	tabOverview = iota
	tabMonitoring
	tabBackup
	tabReset
	tabExport
)

const (
	chartHeight   = 10
	restoreHeight = 8
)

// Client is the part of the API the console uses.
type Client interface {
	Dashboard(ctx context.Context) (model.DashboardStats, error)
	Backup(ctx context.Context, kind backup.Kind) (api.Download, error)
	Import(ctx context.Context, path string, kind backup.Kind) (model.RestoreResult, error)
	Reset(ctx context.Context, confirmation string) error
	ExportReport(ctx context.Context, kind string) (model.ReportData, error)
}

// Recorder remembers downloaded backups.
type Recorder interface {
	RecordBackup(ctx context.Context, rec model.BackupRecord) (int64, error)
}

// Options configures the console.
type Options struct {
	BackupDir string
	Recorder  Recorder
	Monitor   *metrics.Monitor
	Logger    *zap.Logger
	// AutoStart begins monitoring as soon as the console opens.
	AutoStart bool
	Now       func() time.Time
}

type editMode int

const (
	editNone editMode = iota
	editImportPath
	editResetConfirm
)

// Model implements the Bubble Tea super-admin console.
type Model struct {
	client  Client
	opts    Options
	logger  *zap.Logger
	monitor *metrics.Monitor

	tabs      []string
	activeTab int

	width  int
	height int

	banner  ui.Banner
	spinner spinner.Model
	busy    bool

	summary       stats.Summary
	summaryLoaded bool

	channel  metrics.Channel
	waitQuit chan struct{}
	waitGen  int
	closed   bool

	backupKind  backup.Kind
	importKind  backup.Kind
	importPath  textinput.Model
	warning     string
	progress    progress.Model
	importPct   float64
	importing   bool
	restoreText string
	restoreView viewport.Model
	lastBackup  string

	resetInput textinput.Model
	exportPath string

	mode editMode
	err  error
}

// NewModel constructs the console. A nil monitor gets a simulated one.
func NewModel(client Client, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Monitor == nil {
		opts.Monitor = metrics.NewMonitor(metrics.NewSampler(), metrics.DefaultCapacity)
	}
	m := &Model{
		client:      client,
		opts:        opts,
		logger:      opts.Logger,
		monitor:     opts.Monitor,
		tabs:        []string{"Ringkasan", "Monitoring", "Backup & Restore", "Reset", "Export"},
		banner:      ui.NewBanner(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		backupKind:  backup.KindFull,
		importKind:  backup.KindFull,
		progress:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		restoreView: viewport.New(60, restoreHeight),
	}
	m.importPath = newInput("File: ", "/path/backup_full_2026-01-01.sql")
	m.resetInput = newInput("Konfirmasi: ", backup.ResetConfirmPhrase)
	return m
}

func newInput(prompt, placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// Err returns the error that ended the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Close stops monitoring. It is safe to call more than once.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.stopMonitoring()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.fetchDashboard()}
	if m.opts.AutoStart {
		cmds = append(cmds, m.startMonitoring())
	}
	return tea.Batch(cmds...)
}

type dashboardMsg struct {
	stats model.DashboardStats
	err   error
}

func (m *Model) fetchDashboard() tea.Cmd {
	m.busy = true
	client := m.client
	return func() tea.Msg {
		raw, err := client.Dashboard(context.Background())
		return dashboardMsg{stats: raw, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case ui.BannerExpiredMsg:
		m.banner.Expire(msg)
		return m, nil
	case sampleMsg:
		if m.closed || msg.gen != m.waitGen || !m.monitor.Running() {
			return m, nil
		}
		return m, waitSample(m.monitor.Updates(), m.waitQuit, m.waitGen)
	case dashboardMsg:
		m.busy = false
		if msg.err != nil {
			return m.fail("Gagal memuat ringkasan", msg.err)
		}
		m.summary = stats.Normalize(msg.stats)
		m.summaryLoaded = true
		return m, nil
	case backupDoneMsg:
		return m.handleBackupDone(msg)
	case importDoneMsg:
		return m.handleImportDone(msg)
	case resetDoneMsg:
		return m.handleResetDone(msg)
	case exportDoneMsg:
		return m.handleExportDone(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if m.mode != editNone {
			return m.updateEdit(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.Close()
	return m, tea.Quit
}

// fail shows err in an error banner; an expired session ends the program.
func (m *Model) fail(prefix string, err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, api.ErrUnauthorized) {
		m.err = err
		return m.quit()
	}
	m.logger.Warn(prefix, zap.Error(err))
	m.banner.Error(prefix + ": " + api.Describe(err))
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "esc":
		m.banner.Dismiss()
		return m, nil
	case "tab", "right", "l":
		m.activeTab = ui.MoveIndex(m.activeTab, 1, len(m.tabs))
		return m, nil
	case "shift+tab", "left", "h":
		m.activeTab = ui.MoveIndex(m.activeTab, -1, len(m.tabs))
		return m, nil
	}
	switch m.activeTab {
	case tabOverview:
		if msg.String() == "r" && !m.busy {
			return m, tea.Batch(m.spinner.Tick, m.fetchDashboard())
		}
	case tabMonitoring:
		return m.updateMonitoringKeys(msg)
	case tabBackup:
		return m.updateBackupKeys(msg)
	case tabReset:
		if msg.String() == "enter" {
			m.mode = editResetConfirm
			return m, m.resetInput.Focus()
		}
	case tabExport:
		if msg.String() == "x" || msg.String() == "enter" {
			return m, m.export()
		}
	}
	return m, nil
}

func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case editImportPath:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.mode = editNone
			m.importPath.Blur()
			m.refreshWarning()
			return m, nil
		}
		var cmd tea.Cmd
		m.importPath, cmd = m.importPath.Update(msg)
		m.refreshWarning()
		return m, cmd
	case editResetConfirm:
		switch msg.Type {
		case tea.KeyEsc:
			m.mode = editNone
			m.resetInput.Blur()
			m.resetInput.SetValue("")
			return m, nil
		case tea.KeyEnter:
			return m, m.reset()
		}
		var cmd tea.Cmd
		m.resetInput, cmd = m.resetInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateLayout() {
	if m.width <= 0 {
		return
	}
	m.importPath.Width = maxInt(10, m.width-len(m.importPath.Prompt)-4)
	m.resetInput.Width = maxInt(10, minInt(40, m.width-len(m.resetInput.Prompt)-4))
	m.progress.Width = maxInt(10, minInt(60, m.width-10))
	m.restoreView.Width = maxInt(20, m.width-2)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
