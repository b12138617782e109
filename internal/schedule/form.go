package schedule

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/jadwal/internal/apperr"
)

// Form is a validated, kind-specific schedule submission. The only
// implementations are the variants below, obtained through Build.
type Form interface {
	Kind() Kind
	RecordID() int64
	Payload() map[string]any
	sealed()
}

// Slot holds the fields shared by every kind.
type Slot struct {
	ID         int64  `label:"-"`
	Tanggal    string `validate:"required" label:"Tanggal"`
	JamMulai   string `validate:"required" label:"Jam mulai"`
	JumlahSesi int    `validate:"min=1" label:"Jumlah sesi"`
	JamSelesai string `label:"-"`
}

// RecordID returns the backend id, zero for new rows.
func (s Slot) RecordID() int64 { return s.ID }

func (s Slot) fields() map[string]any {
	return map[string]any{
		"tanggal":     s.Tanggal,
		"jam_mulai":   s.JamMulai,
		"jam_selesai": s.JamSelesai,
		"jumlah_sesi": s.JumlahSesi,
	}
}

// LectureForm is a kuliah besar session.
type LectureForm struct {
	Slot
	DosenID         int64  `validate:"required" label:"Dosen"`
	Materi          string `validate:"required" label:"Materi"`
	RuanganID       int64  `validate:"required" label:"Ruangan"`
	KelompokBesarID int64  `label:"Kelompok besar"`
}

// AgendaForm is an agenda khusus; the room is optional when UseRuangan is off.
type AgendaForm struct {
	Slot
	Agenda          string `validate:"required" label:"Agenda"`
	UseRuangan      bool   `label:"Gunakan ruangan"`
	RuanganID       int64  `validate:"required_if=UseRuangan true" label:"Ruangan"`
	KelompokBesarID int64  `label:"Kelompok besar"`
}

// PracticumForm is a praktikum session taught by one or more instructors.
type PracticumForm struct {
	Slot
	Materi          string  `validate:"required" label:"Materi"`
	Topik           string  `label:"Topik"`
	KelompokKecilID int64   `validate:"required" label:"Kelas praktikum"`
	DosenIDs        []int64 `validate:"min=1" label:"Dosen"`
	RuanganID       int64   `validate:"required" label:"Ruangan"`
}

// PBLForm is a PBL tutorial for one small group.
type PBLForm struct {
	Slot
	PBLTipe         string `validate:"required" label:"Tipe PBL"`
	Modul           string `validate:"required" label:"Modul"`
	KelompokKecilID int64  `validate:"required" label:"Kelompok kecil"`
	DosenID         int64  `validate:"required" label:"Dosen"`
	RuanganID       int64  `validate:"required" label:"Ruangan"`
}

// JournalForm is a jurnal reading session with an optional file.
type JournalForm struct {
	Slot
	Topik           string     `validate:"required" label:"Topik"`
	KelompokKecilID int64      `validate:"required" label:"Kelompok kecil"`
	DosenID         int64      `validate:"required" label:"Dosen"`
	RuanganID       int64      `validate:"required" label:"Ruangan"`
	Attachment      Attachment `label:"-"`
}

func (LectureForm) Kind() Kind   { return KindLecture }
func (AgendaForm) Kind() Kind    { return KindAgenda }
func (PracticumForm) Kind() Kind { return KindPracticum }
func (PBLForm) Kind() Kind       { return KindPBL }
func (JournalForm) Kind() Kind   { return KindJournal }

func (LectureForm) sealed()   {}
func (AgendaForm) sealed()    {}
func (PracticumForm) sealed() {}
func (PBLForm) sealed()       {}
func (JournalForm) sealed()   {}

// Payload returns the backend field map.
func (f LectureForm) Payload() map[string]any {
	p := f.fields()
	p["dosen_id"] = f.DosenID
	p["materi"] = f.Materi
	p["ruangan_id"] = f.RuanganID
	if f.KelompokBesarID != 0 {
		p["kelompok_besar_id"] = f.KelompokBesarID
	}
	return p
}

// Payload returns the backend field map.
func (f AgendaForm) Payload() map[string]any {
	p := f.fields()
	p["agenda"] = f.Agenda
	p["use_ruangan"] = f.UseRuangan
	if f.UseRuangan {
		p["ruangan_id"] = f.RuanganID
	} else {
		p["ruangan_id"] = nil
	}
	if f.KelompokBesarID != 0 {
		p["kelompok_besar_id"] = f.KelompokBesarID
	}
	return p
}

// Payload returns the backend field map.
func (f PracticumForm) Payload() map[string]any {
	p := f.fields()
	p["materi"] = f.Materi
	p["topik"] = f.Topik
	p["kelompok_kecil_id"] = f.KelompokKecilID
	p["dosen_ids"] = f.DosenIDs
	p["ruangan_id"] = f.RuanganID
	return p
}

// Payload returns the backend field map.
func (f PBLForm) Payload() map[string]any {
	p := f.fields()
	p["pbl_tipe"] = f.PBLTipe
	p["modul"] = f.Modul
	p["kelompok_kecil_id"] = f.KelompokKecilID
	p["dosen_id"] = f.DosenID
	p["ruangan_id"] = f.RuanganID
	return p
}

// Payload returns the backend field map. The file itself is handled by Encode.
func (f JournalForm) Payload() map[string]any {
	p := f.fields()
	p["topik"] = f.Topik
	p["kelompok_kecil_id"] = f.KelompokKecilID
	p["dosen_id"] = f.DosenID
	p["ruangan_id"] = f.RuanganID
	if f.Attachment.Action == AttachmentClear {
		p["hapus_file_jurnal"] = true
	}
	return p
}

// Build validates the draft against the required fields of its kind and
// returns the matching Form.
func Build(d Draft) (Form, error) {
	var msgs []string
	start := strings.TrimSpace(d.start)
	end := ""
	if start != "" {
		normalized, err := NormalizeClock(start)
		if err != nil {
			msgs = append(msgs, "Jam mulai tidak valid (format HH:MM)")
		} else {
			start = normalized
			if d.sessions >= 1 {
				end, _ = EndTime(start, d.sessions)
			}
		}
	}
	slot := Slot{
		ID:         d.ID,
		Tanggal:    strings.TrimSpace(d.Tanggal),
		JamMulai:   start,
		JumlahSesi: d.sessions,
		JamSelesai: end,
	}

	var form Form
	switch d.Kind {
	case KindLecture:
		form = LectureForm{
			Slot:            slot,
			DosenID:         d.firstDosen(),
			Materi:          strings.TrimSpace(d.Materi),
			RuanganID:       d.RuanganID,
			KelompokBesarID: d.KelompokBesarID,
		}
	case KindAgenda:
		form = AgendaForm{
			Slot:            slot,
			Agenda:          strings.TrimSpace(d.Agenda),
			UseRuangan:      d.UseRuangan,
			RuanganID:       d.RuanganID,
			KelompokBesarID: d.KelompokBesarID,
		}
	case KindPracticum:
		form = PracticumForm{
			Slot:            slot,
			Materi:          strings.TrimSpace(d.Materi),
			Topik:           strings.TrimSpace(d.Topik),
			KelompokKecilID: d.KelompokKecilID,
			DosenIDs:        append([]int64(nil), d.DosenIDs...),
			RuanganID:       d.RuanganID,
		}
	case KindPBL:
		form = PBLForm{
			Slot:            slot,
			PBLTipe:         strings.TrimSpace(d.PBLTipe),
			Modul:           strings.TrimSpace(d.Materi),
			KelompokKecilID: d.KelompokKecilID,
			DosenID:         d.firstDosen(),
			RuanganID:       d.RuanganID,
		}
	case KindJournal:
		form = JournalForm{
			Slot:            slot,
			Topik:           strings.TrimSpace(d.Topik),
			KelompokKecilID: d.KelompokKecilID,
			DosenID:         d.firstDosen(),
			RuanganID:       d.RuanganID,
			Attachment:      d.Attachment,
		}
	default:
		return nil, apperr.Validation("Jenis jadwal tidak dikenal")
	}

	msgs = append(msgs, validateForm(form)...)
	if len(msgs) > 0 {
		return nil, apperr.Validation(msgs...)
	}
	return form, nil
}

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()
	locale := en.New()
	translator, _ = ut.New(locale, locale).GetTranslator("en")

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		label := fld.Tag.Get("label")
		if label == "" || label == "-" {
			return fld.Name
		}
		return label
	})
	for _, tag := range []string{"required", "required_if", "min"} {
		registerTranslation(tag, "{0} wajib diisi")
	}
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func validateForm(form Form) []string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Translate(translator))
	}
	return msgs
}
