package schedule

import (
	"github.com/verte-zerg/jadwal/internal/model"
)

// Draft is the editable state behind the schedule form. It accepts partial
// input; Build turns it into a kind-specific Form.
type Draft struct {
	Kind            Kind
	ID              int64
	Tanggal         string
	DosenIDs        []int64
	Materi          string
	Topik           string
	Agenda          string
	RuanganID       int64
	KelompokBesarID int64
	KelompokKecilID int64
	PBLTipe         string
	UseRuangan      bool
	Attachment      Attachment

	start    string
	sessions int
	end      string
}

// NewDraft returns an empty draft for the add flow.
func NewDraft(kind Kind) Draft {
	d := Draft{Kind: kind, sessions: 1}
	if kind == KindAgenda {
		d.UseRuangan = true
	}
	if kind == KindPBL {
		d.PBLTipe = PBLTipe1
	}
	return d
}

// DraftFromRow fills a draft from an existing row for the edit flow.
func DraftFromRow(kind Kind, row model.ScheduleRow) Draft {
	d := Draft{
		Kind:            kind,
		ID:              row.ID,
		Tanggal:         dateOnly(row.Tanggal),
		Materi:          row.Materi,
		Topik:           row.Topik,
		Agenda:          row.Agenda,
		RuanganID:       row.RuanganID,
		KelompokBesarID: row.KelompokBesarID,
		KelompokKecilID: row.KelompokKecilID,
		PBLTipe:         row.PBLTipe,
		UseRuangan:      row.UseRuangan == nil || *row.UseRuangan,
		Attachment:      RetainAttachment(row.FileJurnal),
	}
	switch {
	case len(row.DosenIDs) > 0:
		d.DosenIDs = append([]int64(nil), row.DosenIDs...)
	case row.DosenID != 0:
		d.DosenIDs = []int64{row.DosenID}
	}
	start := row.JamMulai
	if normalized, err := NormalizeClock(start); err == nil {
		start = normalized
	}
	sessions := row.JumlahSesi
	if sessions < 1 {
		sessions = 1
	}
	d.sessions = sessions
	d.SetStart(start)
	return d
}

// SetStart updates the start time and recomputes the end time.
func (d *Draft) SetStart(start string) {
	d.start = start
	d.recompute()
}

// SetSessions updates the session count and recomputes the end time.
func (d *Draft) SetSessions(n int) {
	d.sessions = n
	d.recompute()
}

// Start returns the start time as entered.
func (d Draft) Start() string { return d.start }

// Sessions returns the session count.
func (d Draft) Sessions() int { return d.sessions }

// End returns the derived end time, empty while start or sessions are invalid.
func (d Draft) End() string { return d.end }

func (d *Draft) recompute() {
	end, err := EndTime(d.start, d.sessions)
	if err != nil {
		d.end = ""
		return
	}
	d.end = end
}

func (d Draft) firstDosen() int64 {
	if len(d.DosenIDs) == 0 {
		return 0
	}
	return d.DosenIDs[0]
}

func dateOnly(value string) string {
	if len(value) >= 10 {
		return value[:10]
	}
	return value
}
