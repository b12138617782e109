// Package blokui provides the Bubble Tea screen for one course block: the
// schedules of every activity kind and the add/edit/delete flows.
package blokui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/jadwal/internal/api"
	"github.com/verte-zerg/jadwal/internal/model"
	"github.com/verte-zerg/jadwal/internal/schedule"
	"github.com/verte-zerg/jadwal/internal/ui"
)

// Client is the part of the API the screen uses.
type Client interface {
	BatchData(ctx context.Context, kode string) (model.BatchData, error)
	SaveSchedule(ctx context.Context, kode string, form schedule.Form) error
	DeleteSchedule(ctx context.Context, kind schedule.Kind, kode string, id int64) error
}

type batchLoadedMsg struct {
	data model.BatchData
	err  error
}

type savedMsg struct {
	kind schedule.Kind
	edit bool
	err  error
}

type deletedMsg struct {
	err error
}

// Model implements the Bubble Tea course block UI.
type Model struct {
	client Client
	kode   string
	logger *zap.Logger

	data    model.BatchData
	loaded  bool
	loading bool
	rows    []model.ScheduleRow

	activeTab int
	table     table.Model
	spinner   spinner.Model
	banner    ui.Banner

	form     *formState
	deleting *model.ScheduleRow
	inFlight bool

	width  int
	height int

	err error
}

// NewModel constructs the screen for course kode.
func NewModel(client Client, kode string, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		client:  client,
		kode:    kode,
		logger:  logger,
		banner:  ui.NewBanner(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.table = table.New(
		table.WithColumns(columnsFor(schedule.Kinds[0], 80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	m.table.SetStyles(ui.TableStyles())
	return m
}

// Err returns the error that ended the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m *Model) fetch() tea.Cmd {
	m.loading = true
	client, kode := m.client, m.kode
	return func() tea.Msg {
		data, err := client.BatchData(context.Background(), kode)
		return batchLoadedMsg{data: data, err: err}
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
		if !m.loading && !m.inFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case ui.BannerExpiredMsg:
		m.banner.Expire(msg)
		return m, nil
	case batchLoadedMsg:
		return m.handleLoaded(msg)
	case savedMsg:
		return m.handleSaved(msg)
	case deletedMsg:
		return m.handleDeleted(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch {
		case m.form != nil:
			return m.updateForm(msg)
		case m.deleting != nil:
			return m.updateDelete(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m *Model) handleLoaded(msg batchLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		if m.expired(msg.err) {
			return m, tea.Quit
		}
		m.logger.Warn("batch data failed", zap.String("kode", m.kode), zap.Error(msg.err))
		m.banner.Error("Gagal memuat data: " + api.Describe(msg.err))
		return m, nil
	}
	m.data = msg.data
	m.loaded = true
	m.refreshTable()
	return m, nil
}

func (m *Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	m.inFlight = false
	if msg.err != nil {
		if m.expired(msg.err) {
			return m, tea.Quit
		}
		m.logger.Info("save rejected", zap.String("kind", msg.kind.Slug()), zap.Error(msg.err))
		m.banner.Error(api.Describe(msg.err))
		return m, nil
	}
	m.form = nil
	verb := "ditambahkan"
	if msg.edit {
		verb = "diperbarui"
	}
	bannerCmd := m.banner.Success(fmt.Sprintf("Jadwal %s berhasil %s", msg.kind.Title(), verb))
	return m, tea.Batch(bannerCmd, m.fetch())
}

func (m *Model) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	m.inFlight = false
	m.deleting = nil
	if msg.err != nil {
		if m.expired(msg.err) {
			return m, tea.Quit
		}
		m.banner.Error(api.Describe(msg.err))
		return m, nil
	}
	bannerCmd := m.banner.Success("Jadwal berhasil dihapus")
	return m, tea.Batch(bannerCmd, m.fetch())
}

func (m *Model) expired(err error) bool {
	if errors.Is(err, api.ErrUnauthorized) {
		m.err = err
		return true
	}
	return false
}

func (m *Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		if m.banner.IsError() {
			m.banner.Dismiss()
		}
		return m, nil
	case "left", "h", "shift+tab":
		m.activeTab = ui.MoveIndex(m.activeTab, -1, len(schedule.Kinds))
		m.refreshTable()
		return m, nil
	case "right", "l", "tab":
		m.activeTab = ui.MoveIndex(m.activeTab, 1, len(schedule.Kinds))
		m.refreshTable()
		return m, nil
	case "r":
		if m.loading {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, m.fetch())
	}
	if !m.loaded {
		return m, nil
	}
	switch msg.String() {
	case "a":
		return m, m.openForm(schedule.NewDraft(m.kind()))
	case "e", "enter":
		if row, ok := m.selected(); ok {
			return m, m.openForm(schedule.DraftFromRow(m.kind(), row))
		}
		return m, nil
	case "d":
		if row, ok := m.selected(); ok {
			m.deleting = &row
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) openForm(d schedule.Draft) tea.Cmd {
	m.form = newForm(d, refsFrom(m.data))
	if m.banner.IsError() {
		m.banner.Dismiss()
	}
	return m.form.setFocus(0)
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.banner.IsError() {
			m.banner.Dismiss()
			return m, nil
		}
		if m.inFlight {
			return m, nil
		}
		m.form = nil
		return m, nil
	case tea.KeyEnter, tea.KeyCtrlS:
		return m, m.submit()
	case tea.KeyTab, tea.KeyDown:
		return m, m.form.setFocus(m.form.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.form.setFocus(m.form.focus - 1)
	}
	if m.inFlight {
		return m, nil
	}
	if msg.Type == tea.KeyCtrlX {
		m.form.toggleClear()
		return m, nil
	}
	return m, m.form.update(msg)
}

// submit validates locally and sends exactly one request. Further submits
// are ignored until the response arrives.
func (m *Model) submit() tea.Cmd {
	if m.inFlight || m.form == nil {
		return nil
	}
	form, err := m.form.prepare(m.data)
	if err != nil {
		m.banner.Error(api.Describe(err))
		return nil
	}
	if m.banner.IsError() {
		m.banner.Dismiss()
	}
	m.inFlight = true
	client, kode := m.client, m.kode
	edit := form.RecordID() != 0
	m.logger.Debug("submit schedule", zap.String("kind", form.Kind().Slug()), zap.Int64("id", form.RecordID()))
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		err := client.SaveSchedule(context.Background(), kode, form)
		return savedMsg{kind: form.Kind(), edit: edit, err: err}
	})
}

func (m *Model) updateDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inFlight {
		return m, nil
	}
	switch msg.String() {
	case "y", "Y":
		row := *m.deleting
		m.inFlight = true
		client, kode, kind := m.client, m.kode, m.kind()
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			return deletedMsg{err: client.DeleteSchedule(context.Background(), kind, kode, row.ID)}
		})
	case "n", "N", "esc", "q":
		m.deleting = nil
	}
	return m, nil
}

func (m *Model) kind() schedule.Kind {
	return schedule.Kinds[m.activeTab]
}

func (m *Model) selected() (model.ScheduleRow, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return model.ScheduleRow{}, false
	}
	return m.rows[idx], true
}

func (m *Model) refreshTable() {
	kind := m.kind()
	m.rows = sortedRows(schedule.Rows(m.data, kind))
	width := m.width
	if width <= 0 {
		width = 80
	}
	prev := m.table.Cursor()
	// Old rows may have fewer cells than the new columns.
	m.table.SetRows(nil)
	m.table.SetColumns(columnsFor(kind, width))
	m.table.SetRows(tableRows(kind, m.rows, m.data))
	if len(m.rows) > 0 {
		m.table.SetCursor(clampCursor(prev, len(m.rows)))
	}
}

// clampCursor keeps a previous table cursor inside [0, n).
func clampCursor(cursor, n int) int {
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.table.SetWidth(m.width)
	m.table.SetHeight(maxInt(1, bodyHeight-1))
	m.refreshTable()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = ui.TabsHeight() + 1
	footerHeight = 1
	if m.banner.Visible() {
		footerHeight += strings.Count(m.banner.View(m.width), "\n") + 1
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func sortedRows(rows []model.ScheduleRow) []model.ScheduleRow {
	out := append([]model.ScheduleRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tanggal != out[j].Tanggal {
			return out[i].Tanggal < out[j].Tanggal
		}
		return out[i].JamMulai < out[j].JamMulai
	})
	return out
}
