package schedule

import (
	"fmt"
	"strings"
)

// Kind discriminates the five activity types of a course block.
type Kind int

const (
	KindLecture Kind = iota
	KindAgenda
	KindPracticum
	KindPBL
	KindJournal
)

// Kinds lists every activity kind in display order.
var Kinds = []Kind{KindLecture, KindAgenda, KindPracticum, KindPBL, KindJournal}

var kindSlugs = map[Kind]string{
	KindLecture:   "kuliah-besar",
	KindAgenda:    "agenda-khusus",
	KindPracticum: "praktikum",
	KindPBL:       "pbl",
	KindJournal:   "jurnal-reading",
}

var kindTitles = map[Kind]string{
	KindLecture:   "Kuliah Besar",
	KindAgenda:    "Agenda Khusus",
	KindPracticum: "Praktikum",
	KindPBL:       "PBL",
	KindJournal:   "Jurnal Reading",
}

// Slug is the URL path segment of the kind.
func (k Kind) Slug() string {
	return kindSlugs[k]
}

// Title is the human label of the kind.
func (k Kind) Title() string {
	return kindTitles[k]
}

func (k Kind) String() string {
	return k.Slug()
}

// ParseKind accepts a slug or a title, case-insensitively.
func ParseKind(value string) (Kind, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	for _, k := range Kinds {
		if value == k.Slug() || value == strings.ToLower(k.Title()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown schedule kind %q", value)
}

// PBL session types offered by the form.
const (
	PBLTipe1 = "PBL 1"
	PBLTipe2 = "PBL 2"
)
