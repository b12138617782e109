package blokui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/verte-zerg/jadwal/internal/model"
	"github.com/verte-zerg/jadwal/internal/schedule"
	"github.com/verte-zerg/jadwal/internal/ui"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.form != nil {
		return ui.FitLines(ui.Modal(m.form.view(m.width, m.inFlight, m.banner), m.width, m.height), m.width, m.height)
	}
	if m.deleting != nil {
		return ui.FitLines(ui.Modal(m.renderDeleteConfirm(), m.width, m.height), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := ui.FitLines(m.renderHeader(), m.width, headerHeight)
	body := ui.FitLines(m.renderBody(), m.width, bodyHeight)
	footer := ui.FitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) renderHeader() string {
	titles := make([]string, len(schedule.Kinds))
	for i, kind := range schedule.Kinds {
		count := len(schedule.Rows(m.data, kind))
		titles[i] = fmt.Sprintf("%s (%d)", kind.Title(), count)
	}
	tabs := ui.PadLines(ui.RenderTabs(titles, m.activeTab), m.width)
	return tabs + "\n" + ui.HeaderStyle.Render(ui.TruncateLine(m.courseLine(), m.width))
}

func (m *Model) courseLine() string {
	c := m.data.Course
	if c.Kode == "" {
		return m.kode
	}
	line := fmt.Sprintf("%s  %s  Semester %d", c.Kode, c.Nama, c.Semester)
	if c.TanggalMulai != "" && c.TanggalAkhir != "" {
		line += fmt.Sprintf("  %s s/d %s", c.TanggalMulai, c.TanggalAkhir)
	}
	return line
}

func (m *Model) renderBody() string {
	switch {
	case m.loading && !m.loaded:
		return m.spinner.View() + " Memuat data blok..."
	case !m.loaded:
		return "Data belum dimuat. Tekan r untuk memuat ulang."
	case len(m.rows) == 0:
		return fmt.Sprintf("Belum ada jadwal %s. Tekan a untuk menambah.", m.kind().Title())
	}
	view := ui.TableMutedStyle.Render(m.table.View())
	if m.loading {
		view = m.spinner.View() + " Memperbarui...\n" + view
	}
	return view
}

func (m *Model) renderFooter() string {
	help := ui.HeaderStyle.Render("Nav: left/right  Pilih: up/down  Tambah: a  Edit: e  Hapus: d  Muat ulang: r  Keluar: q")
	if m.banner.Visible() {
		return help + "\n" + m.banner.View(m.width)
	}
	return help
}

func (m *Model) renderDeleteConfirm() string {
	row := *m.deleting
	lines := []string{
		ui.CardValueStyle.Render("Hapus jadwal?"),
		"",
		fmt.Sprintf("%s  %s  %s-%s", m.kind().Title(), dateCell(row.Tanggal), row.JamMulai, row.JamSelesai),
		describeRow(m.kind(), row),
		"",
	}
	if m.inFlight {
		lines = append(lines, m.spinner.View()+" Menghapus...")
	} else {
		lines = append(lines, ui.HeaderStyle.Render("y: hapus  n/esc: batal"))
	}
	return strings.Join(lines, "\n")
}

func describeRow(kind schedule.Kind, row model.ScheduleRow) string {
	switch kind {
	case schedule.KindAgenda:
		return row.Agenda
	case schedule.KindJournal, schedule.KindPracticum:
		if row.Topik != "" {
			return row.Topik
		}
	case schedule.KindPBL:
		return strings.TrimSpace(row.PBLTipe + " " + row.Materi)
	}
	return row.Materi
}

func columnsFor(kind schedule.Kind, width int) []table.Column {
	cols := []table.Column{
		{Title: "Tanggal", Width: 10},
		{Title: "Waktu", Width: 11},
		{Title: "Sesi", Width: 4},
	}
	switch kind {
	case schedule.KindLecture:
		cols = append(cols, table.Column{Title: "Materi", Width: 0}, table.Column{Title: "Dosen", Width: 18})
	case schedule.KindAgenda:
		cols = append(cols, table.Column{Title: "Agenda", Width: 0}, table.Column{Title: "Kelompok", Width: 14})
	case schedule.KindPracticum:
		cols = append(cols, table.Column{Title: "Materi", Width: 0}, table.Column{Title: "Kelas", Width: 14})
	case schedule.KindPBL:
		cols = append(cols, table.Column{Title: "Tipe", Width: 6}, table.Column{Title: "Modul", Width: 0}, table.Column{Title: "Kelompok", Width: 12})
	case schedule.KindJournal:
		cols = append(cols, table.Column{Title: "Topik", Width: 0}, table.Column{Title: "File", Width: 14})
	}
	cols = append(cols, table.Column{Title: "Ruangan", Width: 12})

	used := 0
	flex := -1
	for i, c := range cols {
		if c.Width == 0 {
			flex = i
			continue
		}
		used += c.Width + 1
	}
	if flex >= 0 {
		cols[flex].Width = maxInt(12, width-used-1)
	}
	return cols
}

func tableRows(kind schedule.Kind, rows []model.ScheduleRow, data model.BatchData) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		cells := table.Row{
			dateCell(row.Tanggal),
			row.JamMulai + "-" + row.JamSelesai,
			strconv.Itoa(row.JumlahSesi),
		}
		switch kind {
		case schedule.KindLecture:
			cells = append(cells, row.Materi, dosenCell(row, data))
		case schedule.KindAgenda:
			cells = append(cells, row.Agenda, kelompokCell(row.KelompokNama, row.KelompokBesarID, data.KelompokBesar))
		case schedule.KindPracticum:
			cells = append(cells, row.Materi, kelompokCell(row.KelompokNama, row.KelompokKecilID, data.KelompokKecil))
		case schedule.KindPBL:
			cells = append(cells, row.PBLTipe, row.Materi, kelompokCell(row.KelompokNama, row.KelompokKecilID, data.KelompokKecil))
		case schedule.KindJournal:
			cells = append(cells, row.Topik, fileCell(row.FileJurnal))
		}
		cells = append(cells, ruanganCell(row, data))
		out = append(out, cells)
	}
	return out
}

func dateCell(value string) string {
	if len(value) >= 10 {
		return value[:10]
	}
	return value
}

func dosenCell(row model.ScheduleRow, data model.BatchData) string {
	if row.DosenNama != "" {
		return row.DosenNama
	}
	return dosenName(data.Dosen, row.DosenID)
}

func ruanganCell(row model.ScheduleRow, data model.BatchData) string {
	if row.UseRuangan != nil && !*row.UseRuangan {
		return "-"
	}
	if row.RuanganNama != "" {
		return row.RuanganNama
	}
	return ruanganName(data.Ruangan, row.RuanganID)
}

func kelompokCell(name string, id int64, list []model.Kelompok) string {
	if name != "" {
		return name
	}
	return kelompokName(list, id)
}

func fileCell(path string) string {
	if path == "" {
		return "-"
	}
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}
