package blokui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/jadwal/internal/apperr"
	"github.com/verte-zerg/jadwal/internal/model"
	"github.com/verte-zerg/jadwal/internal/schedule"
	"github.com/verte-zerg/jadwal/internal/ui"
)

type fieldKey int

const (
	fieldTanggal fieldKey = iota
	fieldJamMulai
	fieldJumlahSesi
	fieldDosen
	fieldDosenList
	fieldMateri
	fieldTopik
	fieldAgenda
	fieldUseRuangan
	fieldRuangan
	fieldKelompokBesar
	fieldKelompokKecil
	fieldPBLTipe
	fieldFile
)

var fieldLabels = map[fieldKey]string{
	fieldTanggal:       "Tanggal (YYYY-MM-DD)",
	fieldJamMulai:      "Jam mulai (HH:MM)",
	fieldJumlahSesi:    "Jumlah sesi",
	fieldDosen:         "Dosen",
	fieldDosenList:     "Dosen (pisah koma)",
	fieldMateri:        "Materi",
	fieldTopik:         "Topik",
	fieldAgenda:        "Agenda",
	fieldUseRuangan:    "Gunakan ruangan (y/n)",
	fieldRuangan:       "Ruangan",
	fieldKelompokBesar: "Kelompok besar",
	fieldKelompokKecil: "Kelompok kecil",
	fieldPBLTipe:       "Tipe PBL",
	fieldFile:          "File jurnal (path)",
}

// kindFields lists the inputs of each kind in tab order after the shared slot fields.
var kindFields = map[schedule.Kind][]fieldKey{
	schedule.KindLecture:   {fieldDosen, fieldMateri, fieldRuangan, fieldKelompokBesar},
	schedule.KindAgenda:    {fieldAgenda, fieldUseRuangan, fieldRuangan, fieldKelompokBesar},
	schedule.KindPracticum: {fieldMateri, fieldTopik, fieldKelompokKecil, fieldDosenList, fieldRuangan},
	schedule.KindPBL:       {fieldPBLTipe, fieldMateri, fieldKelompokKecil, fieldDosen, fieldRuangan},
	schedule.KindJournal:   {fieldTopik, fieldKelompokKecil, fieldDosen, fieldRuangan, fieldFile},
}

type formField struct {
	key   fieldKey
	input textinput.Model
}

// formState is the add/edit modal. The draft is rebuilt from the inputs on
// every keystroke so the end time stays current.
type formState struct {
	kind     schedule.Kind
	base     schedule.Draft
	draft    schedule.Draft
	fields   []formField
	focus    int
	refs     refs
	refErrs  []string
	clearing bool
}

type refs struct {
	dosen         []model.Dosen
	ruangan       []model.Ruangan
	kelompokBesar []model.Kelompok
	kelompokKecil []model.Kelompok
}

func refsFrom(data model.BatchData) refs {
	return refs{
		dosen:         data.Dosen,
		ruangan:       data.Ruangan,
		kelompokBesar: data.KelompokBesar,
		kelompokKecil: data.KelompokKecil,
	}
}

func newForm(base schedule.Draft, r refs) *formState {
	f := &formState{kind: base.Kind, base: base, draft: base, refs: r}
	keys := append([]fieldKey{fieldTanggal, fieldJamMulai, fieldJumlahSesi}, kindFields[base.Kind]...)
	for _, key := range keys {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = 256
		input.Cursor.SetMode(cursor.CursorStatic)
		input.SetValue(f.initialValue(key))
		f.fields = append(f.fields, formField{key: key, input: input})
	}
	f.sync()
	return f
}

func (f *formState) initialValue(key fieldKey) string {
	d := f.base
	switch key {
	case fieldTanggal:
		return d.Tanggal
	case fieldJamMulai:
		return d.Start()
	case fieldJumlahSesi:
		return strconv.Itoa(d.Sessions())
	case fieldDosen:
		if len(d.DosenIDs) > 0 {
			return dosenName(f.refs.dosen, d.DosenIDs[0])
		}
	case fieldDosenList:
		names := make([]string, 0, len(d.DosenIDs))
		for _, id := range d.DosenIDs {
			names = append(names, dosenName(f.refs.dosen, id))
		}
		return strings.Join(names, ", ")
	case fieldMateri:
		return d.Materi
	case fieldTopik:
		return d.Topik
	case fieldAgenda:
		return d.Agenda
	case fieldUseRuangan:
		if d.UseRuangan {
			return "y"
		}
		return "n"
	case fieldRuangan:
		return ruanganName(f.refs.ruangan, d.RuanganID)
	case fieldKelompokBesar:
		return kelompokName(f.refs.kelompokBesar, d.KelompokBesarID)
	case fieldKelompokKecil:
		return kelompokName(f.refs.kelompokKecil, d.KelompokKecilID)
	case fieldPBLTipe:
		return d.PBLTipe
	}
	return ""
}

func (f *formState) value(key fieldKey) string {
	for _, field := range f.fields {
		if field.key == key {
			return strings.TrimSpace(field.input.Value())
		}
	}
	return ""
}

func (f *formState) has(key fieldKey) bool {
	for _, field := range f.fields {
		if field.key == key {
			return true
		}
	}
	return false
}

// sync rebuilds the draft from the inputs. Unresolvable references are kept
// in refErrs and reported at submit time.
func (f *formState) sync() {
	d := f.base
	f.refErrs = nil
	d.Tanggal = f.value(fieldTanggal)
	d.SetStart(f.value(fieldJamMulai))
	sessions, err := strconv.Atoi(f.value(fieldJumlahSesi))
	if err != nil {
		sessions = 0
	}
	d.SetSessions(sessions)

	if f.has(fieldDosen) {
		d.DosenIDs = nil
		if id := f.resolve(fieldDosen, f.value(fieldDosen), dosenOptions(f.refs.dosen)); id != 0 {
			d.DosenIDs = []int64{id}
		}
	}
	if f.has(fieldDosenList) {
		d.DosenIDs = nil
		for _, part := range strings.Split(f.value(fieldDosenList), ",") {
			if id := f.resolve(fieldDosenList, strings.TrimSpace(part), dosenOptions(f.refs.dosen)); id != 0 {
				d.DosenIDs = append(d.DosenIDs, id)
			}
		}
	}
	if f.has(fieldMateri) {
		d.Materi = f.value(fieldMateri)
	}
	if f.has(fieldTopik) {
		d.Topik = f.value(fieldTopik)
	}
	if f.has(fieldAgenda) {
		d.Agenda = f.value(fieldAgenda)
	}
	if f.has(fieldUseRuangan) {
		d.UseRuangan = parseYes(f.value(fieldUseRuangan))
	}
	if f.has(fieldRuangan) {
		d.RuanganID = f.resolve(fieldRuangan, f.value(fieldRuangan), ruanganOptions(f.refs.ruangan))
	}
	if f.has(fieldKelompokBesar) {
		d.KelompokBesarID = f.resolve(fieldKelompokBesar, f.value(fieldKelompokBesar), kelompokOptions(f.refs.kelompokBesar))
	}
	if f.has(fieldKelompokKecil) {
		d.KelompokKecilID = f.resolve(fieldKelompokKecil, f.value(fieldKelompokKecil), kelompokOptions(f.refs.kelompokKecil))
	}
	if f.has(fieldPBLTipe) {
		d.PBLTipe = f.value(fieldPBLTipe)
	}
	if f.has(fieldFile) {
		switch path := f.value(fieldFile); {
		case path != "":
			d.Attachment = f.base.Attachment.Replace(path)
		case f.clearing:
			d.Attachment = f.base.Attachment.Clear()
		default:
			d.Attachment = schedule.RetainAttachment(f.base.Attachment.Existing)
		}
	}
	f.draft = d
}

type option struct {
	id   int64
	name string
}

// resolve accepts a numeric id or a case-insensitive name.
func (f *formState) resolve(key fieldKey, value string, options []option) int64 {
	if value == "" {
		return 0
	}
	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		for _, o := range options {
			if o.id == id {
				return id
			}
		}
		if len(options) == 0 {
			return id
		}
	}
	for _, o := range options {
		if strings.EqualFold(o.name, value) {
			return o.id
		}
	}
	f.refErrs = append(f.refErrs, fmt.Sprintf("%s %q tidak ditemukan", fieldLabels[key], value))
	return 0
}

// prepare runs the local checks; a nil form means nothing is sent.
func (f *formState) prepare(data model.BatchData) (schedule.Form, error) {
	f.sync()
	if len(f.refErrs) > 0 {
		return nil, apperr.Validation(f.refErrs...)
	}
	return schedule.Prepare(f.draft, data)
}

func (f *formState) toggleClear() {
	if f.kind != schedule.KindJournal || f.base.Attachment.Existing == "" {
		return
	}
	f.clearing = !f.clearing
	f.sync()
}

func (f *formState) setFocus(idx int) tea.Cmd {
	f.focus = ui.MoveIndex(idx, 0, len(f.fields))
	var cmd tea.Cmd
	for i := range f.fields {
		if i == f.focus {
			cmd = f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
	return cmd
}

func (f *formState) update(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	f.sync()
	return cmd
}

func (f *formState) focusedKey() fieldKey {
	return f.fields[f.focus].key
}

func (f *formState) title() string {
	verb := "Tambah"
	if f.base.ID != 0 {
		verb = "Edit"
	}
	return fmt.Sprintf("%s %s", verb, f.kind.Title())
}

func (f *formState) view(width int, inFlight bool, banner ui.Banner) string {
	inner := ui.ModalInnerWidth(width)
	lines := []string{ui.CardValueStyle.Render(f.title()), ""}
	for i, field := range f.fields {
		label := fieldLabels[field.key]
		marker := "  "
		if i == f.focus {
			marker = "> "
		}
		field.input.Width = maxInt(10, inner-ui.LabelStyle.GetWidth()-2)
		lines = append(lines, marker+ui.LabelStyle.Render(label)+field.input.View())
		if field.key == fieldJumlahSesi {
			end := f.draft.End()
			if end == "" {
				end = "--:--"
			}
			lines = append(lines, "  "+ui.LabelStyle.Render("Jam selesai")+ui.ReadOnlyStyle.Render(end))
		}
	}
	if f.kind == schedule.KindJournal {
		lines = append(lines, "  "+ui.LabelStyle.Render("Lampiran")+ui.ReadOnlyStyle.Render(f.draft.Attachment.Label()))
	}
	if hint := f.hint(); hint != "" {
		lines = append(lines, "", ui.HeaderStyle.Render(ui.Wrap(hint, inner)))
	}
	lines = append(lines, "")
	if banner.Visible() {
		lines = append(lines, banner.View(inner))
	}
	if inFlight {
		lines = append(lines, ui.HeaderStyle.Render("Menyimpan..."))
	} else {
		help := "tab/shift+tab: pindah  enter: simpan  esc: batal"
		if f.kind == schedule.KindJournal && f.base.Attachment.Existing != "" {
			help += "  ctrl+x: hapus lampiran"
		}
		lines = append(lines, ui.HeaderStyle.Render(help))
	}
	return strings.Join(lines, "\n")
}

// hint lists the choices for the focused reference field.
func (f *formState) hint() string {
	var options []option
	switch f.focusedKey() {
	case fieldDosen, fieldDosenList:
		options = dosenOptions(f.refs.dosen)
	case fieldRuangan:
		options = ruanganOptions(f.refs.ruangan)
	case fieldKelompokBesar:
		options = kelompokOptions(f.refs.kelompokBesar)
	case fieldKelompokKecil:
		options = kelompokOptions(f.refs.kelompokKecil)
	case fieldPBLTipe:
		return "Pilihan: " + schedule.PBLTipe1 + ", " + schedule.PBLTipe2
	default:
		return ""
	}
	if len(options) == 0 {
		return ""
	}
	names := make([]string, 0, len(options))
	for i, o := range options {
		if i == 8 {
			names = append(names, fmt.Sprintf("… +%d", len(options)-i))
			break
		}
		names = append(names, fmt.Sprintf("%d=%s", o.id, o.name))
	}
	return "Pilihan: " + strings.Join(names, ", ")
}

func dosenOptions(list []model.Dosen) []option {
	out := make([]option, len(list))
	for i, d := range list {
		out[i] = option{id: d.ID, name: d.Name}
	}
	return out
}

func ruanganOptions(list []model.Ruangan) []option {
	out := make([]option, len(list))
	for i, r := range list {
		out[i] = option{id: r.ID, name: r.Nama}
	}
	return out
}

func kelompokOptions(list []model.Kelompok) []option {
	out := make([]option, len(list))
	for i, k := range list {
		out[i] = option{id: k.ID, name: k.Nama}
	}
	return out
}

func dosenName(list []model.Dosen, id int64) string {
	if id == 0 {
		return ""
	}
	for _, d := range list {
		if d.ID == id {
			return d.Name
		}
	}
	return strconv.FormatInt(id, 10)
}

func ruanganName(list []model.Ruangan, id int64) string {
	if id == 0 {
		return ""
	}
	for _, r := range list {
		if r.ID == id {
			return r.Nama
		}
	}
	return strconv.FormatInt(id, 10)
}

func kelompokName(list []model.Kelompok, id int64) string {
	if id == 0 {
		return ""
	}
	for _, k := range list {
		if k.ID == id {
			return k.Nama
		}
	}
	return strconv.FormatInt(id, 10)
}

func parseYes(value string) bool {
	switch strings.ToLower(value) {
	case "y", "ya", "yes", "1", "true":
		return true
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
