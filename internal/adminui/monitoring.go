package adminui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/jadwal/internal/metrics"
	"github.com/verte-zerg/jadwal/internal/ui"
)

// sampleMsg carries the generation of the waiter that received it; a
// message from an earlier start is stale.
type sampleMsg struct {
	sample metrics.Sample
	gen    int
}

// waitSample blocks for the next monitor update or until quit is closed.
func waitSample(updates <-chan metrics.Sample, quit <-chan struct{}, gen int) tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-updates:
			return sampleMsg{sample: s, gen: gen}
		case <-quit:
			return nil
		}
	}
}

func (m *Model) startMonitoring() tea.Cmd {
	if m.closed {
		return nil
	}
	m.stopWaiter()
	m.monitor.Start()
	m.waitQuit = make(chan struct{})
	m.waitGen++
	return waitSample(m.monitor.Updates(), m.waitQuit, m.waitGen)
}

func (m *Model) stopMonitoring() {
	m.monitor.Stop()
	m.stopWaiter()
}

func (m *Model) stopWaiter() {
	if m.waitQuit != nil {
		close(m.waitQuit)
		m.waitQuit = nil
	}
}

func (m *Model) toggleMonitoring() tea.Cmd {
	if m.monitor.Running() {
		m.stopMonitoring()
		return nil
	}
	return m.startMonitoring()
}

func (m *Model) updateMonitoringKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ", "s":
		return m, m.toggleMonitoring()
	case "]", "n":
		m.channel = metrics.Channel(ui.MoveIndex(int(m.channel), 1, len(metrics.Channels)))
	case "[", "p":
		m.channel = metrics.Channel(ui.MoveIndex(int(m.channel), -1, len(metrics.Channels)))
	case "c":
		m.monitor.Reset()
	default:
		if r := msg.Runes; len(r) == 1 && r[0] >= '1' && int(r[0]-'1') < len(metrics.Channels) {
			m.channel = metrics.Channels[r[0]-'1']
		}
	}
	return m, nil
}
