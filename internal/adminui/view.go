package adminui

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/jadwal/internal/backup"
	"github.com/verte-zerg/jadwal/internal/chart"
	"github.com/verte-zerg/jadwal/internal/metrics"
	"github.com/verte-zerg/jadwal/internal/report"
	"github.com/verte-zerg/jadwal/internal/ui"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight := ui.TabsHeight()
	footer := m.renderFooter()
	footerHeight := strings.Count(footer, "\n") + 1
	bodyHeight := maxInt(1, m.height-headerHeight-footerHeight)

	header := ui.FitLines(ui.PadLines(ui.RenderTabs(m.tabs, m.activeTab), m.width), m.width, headerHeight)
	body := ui.FitLines(m.renderBody(), m.width, bodyHeight)
	return strings.Join([]string{header, body, ui.FitLines(footer, m.width, footerHeight)}, "\n")
}

func (m *Model) renderBody() string {
	switch m.activeTab {
	case tabMonitoring:
		return m.renderMonitoring()
	case tabBackup:
		return m.renderBackup()
	case tabReset:
		return m.renderReset()
	case tabExport:
		return m.renderExport()
	default:
		return m.renderOverview()
	}
}

func (m *Model) renderOverview() string {
	if !m.summaryLoaded {
		if m.busy {
			return m.spinner.View() + " Memuat ringkasan..."
		}
		return "Ringkasan belum dimuat. Tekan r untuk memuat ulang."
	}
	cards := m.summary.Cards()
	tiles := make([]string, len(cards))
	for i, c := range cards {
		tiles[i] = ui.MetricCard(c.Label, c.Value)
	}
	return ui.CardGrid(tiles, m.width, 4)
}

func (m *Model) renderMonitoring() string {
	names := make([]string, len(metrics.Channels))
	for i, c := range metrics.Channels {
		names[i] = fmt.Sprintf("%d %s", i+1, c)
	}
	state := ui.WarningStyle.Render("berhenti")
	if m.monitor.Running() {
		state = ui.SuccessStyle.Render("berjalan")
	}
	lines := []string{
		ui.PadLines(ui.RenderSubTabs(names, int(m.channel)), m.width),
		"Monitoring: " + state,
		"",
	}
	values := m.monitor.Series(m.channel)
	if len(values) == 0 {
		lines = append(lines, chart.LoadingText)
		return strings.Join(lines, "\n")
	}
	var b strings.Builder
	if err := chart.Render(&b, m.channel.String(), m.channel.Unit(), values, chart.WidthFor(m.width), chartHeight, false); err != nil {
		lines = append(lines, ui.ErrorStyle.Render(err.Error()))
	} else {
		lines = append(lines, strings.TrimRight(b.String(), "\n"))
	}
	if sample, ok := m.monitor.Latest(); ok {
		lines = append(lines, "", latestLine(m.channel, sample))
	}
	return strings.Join(lines, "\n")
}

// latestLine describes the detail fields of the newest sample for a channel.
func latestLine(c metrics.Channel, s metrics.Sample) string {
	switch c {
	case metrics.ChannelCPU:
		return fmt.Sprintf("Core %d  Suhu %.1f°C  Load %.2f", s.CPU.Cores, s.CPU.Temperature, s.CPU.LoadAverage)
	case metrics.ChannelMemory:
		return fmt.Sprintf("Terpakai %.1f / %.1f GB", s.Memory.UsedGB, s.Memory.TotalGB)
	case metrics.ChannelStorage:
		return fmt.Sprintf("Baca %.1f MB/s  Tulis %.1f MB/s", s.Storage.ReadMBps, s.Storage.WriteMBps)
	case metrics.ChannelNetwork:
		return fmt.Sprintf("Masuk %.1f Mbps  Keluar %.1f Mbps  Latensi %.0f ms", s.Network.InMbps, s.Network.OutMbps, s.Network.LatencyMs)
	case metrics.ChannelDatabase:
		return fmt.Sprintf("Koneksi %d  Query %.0f/s  Respons %.0f ms", s.Database.Connections, s.Database.QueriesPerSec, s.Database.ResponseMs)
	case metrics.ChannelApplication:
		return fmt.Sprintf("Pengguna aktif %d  Request %.0f/menit  Error %.2f%%", s.Application.ActiveUsers, s.Application.RequestsPerMin, s.Application.ErrorRate)
	case metrics.ChannelSecurity:
		return fmt.Sprintf("Login gagal %d  IP diblokir %d", s.Security.FailedLogins, s.Security.BlockedIPs)
	}
	return ""
}

func (m *Model) renderBackup() string {
	lines := []string{
		ui.CardValueStyle.Render("Backup"),
		ui.LabelStyle.Render("Tipe backup") + m.backupKind.Label(),
	}
	if m.lastBackup != "" {
		lines = append(lines, ui.LabelStyle.Render("Terakhir disimpan")+m.lastBackup)
	}
	lines = append(lines,
		"",
		ui.CardValueStyle.Render("Restore"),
		ui.LabelStyle.Render("Tipe restore")+m.importKind.Label(),
		m.importPath.View(),
	)
	if m.warning != "" {
		lines = append(lines, "", ui.WarningStyle.Render(ui.Wrap(m.warning, maxInt(20, m.width-2))))
	}
	if m.importing || m.importPct > 0 {
		lines = append(lines, "", m.progress.ViewAs(m.importPct))
	}
	if m.importing {
		lines = append(lines, m.spinner.View()+" Mengimpor...")
	}
	if m.restoreText != "" {
		lines = append(lines, "", m.restoreView.View())
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderReset() string {
	lines := []string{
		ui.ErrorStyle.Render("Reset sistem menghapus seluruh data akademik."),
		fmt.Sprintf("Ketik %q lalu tekan enter untuk melanjutkan.", backup.ResetConfirmPhrase),
		"",
		m.resetInput.View(),
	}
	if m.mode == editResetConfirm && !backup.ResetConfirmed(m.resetInput.Value()) {
		lines = append(lines, ui.ReadOnlyStyle.Render("Tombol reset nonaktif sampai konfirmasi sesuai."))
	}
	if m.busy {
		lines = append(lines, m.spinner.View()+" Memproses...")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderExport() string {
	lines := []string{
		"Laporan: " + strings.Join(report.Kinds, ", "),
		"Folder tujuan: " + m.opts.BackupDir,
	}
	if m.busy {
		lines = append(lines, "", m.spinner.View()+" Mengekspor...")
	}
	if m.exportPath != "" {
		lines = append(lines, "", "Terakhir: "+m.exportPath)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	var help string
	switch {
	case m.mode == editImportPath:
		help = "Ketik path file  enter/esc: selesai"
	case m.mode == editResetConfirm:
		help = "enter: reset  esc: batal"
	case m.activeTab == tabOverview:
		help = "Nav: tab  Muat ulang: r  Keluar: q"
	case m.activeTab == tabMonitoring:
		help = "Nav: tab  Mulai/henti: spasi  Kanal: [ ] atau 1-7  Bersihkan: c  Keluar: q"
	case m.activeTab == tabBackup:
		help = "Nav: tab  Tipe: k  Backup: b  File: p  Tipe restore: t  Import: u  Gulir: pgup/pgdown  Keluar: q"
	case m.activeTab == tabReset:
		help = "Nav: tab  Konfirmasi: enter  Keluar: q"
	default:
		help = "Nav: tab  Export: x  Keluar: q"
	}
	help = ui.HeaderStyle.Render(help)
	if m.banner.Visible() {
		return help + "\n" + m.banner.View(m.width)
	}
	return help
}
