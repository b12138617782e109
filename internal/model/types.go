// Package model defines shared data structures.
package model

// User is the signed-in identity returned by the backend.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// IsSuperAdmin reports whether the user may open the operations console.
func (u User) IsSuperAdmin() bool {
	return u.Role == "super_admin"
}

// Session is the persisted credential pair.
type Session struct {
	Token string
	User  User
}

// Course is a mata kuliah with its block date window.
type Course struct {
	Kode         string `json:"kode"`
	Nama         string `json:"nama"`
	Semester     int    `json:"semester"`
	Blok         int    `json:"blok,omitempty"`
	TanggalMulai string `json:"tanggal_mulai"`
	TanggalAkhir string `json:"tanggal_akhir"`
}

// Dosen is an instructor reference.
type Dosen struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	NID  string `json:"nid,omitempty"`
}

// Ruangan is a room reference.
type Ruangan struct {
	ID        int64  `json:"id"`
	Nama      string `json:"nama"`
	Kapasitas int    `json:"kapasitas,omitempty"`
	Gedung    string `json:"gedung,omitempty"`
}

// Kelompok is a small tutorial group or a large cohort group.
type Kelompok struct {
	ID       int64  `json:"id"`
	Nama     string `json:"nama_kelompok"`
	Semester int    `json:"semester,omitempty"`
}

// ScheduleRow is the read-only projection of a backend schedule record.
// Fields not used by a kind are left empty.
type ScheduleRow struct {
	ID              int64   `json:"id"`
	Tanggal         string  `json:"tanggal"`
	JamMulai        string  `json:"jam_mulai"`
	JamSelesai      string  `json:"jam_selesai"`
	JumlahSesi      int     `json:"jumlah_sesi"`
	Materi          string  `json:"materi,omitempty"`
	Topik           string  `json:"topik,omitempty"`
	Agenda          string  `json:"agenda,omitempty"`
	DosenID         int64   `json:"dosen_id,omitempty"`
	DosenIDs        []int64 `json:"dosen_ids,omitempty"`
	DosenNama       string  `json:"dosen_nama,omitempty"`
	RuanganID       int64   `json:"ruangan_id,omitempty"`
	RuanganNama     string  `json:"ruangan_nama,omitempty"`
	KelompokBesarID int64   `json:"kelompok_besar_id,omitempty"`
	KelompokKecilID int64   `json:"kelompok_kecil_id,omitempty"`
	KelompokNama    string  `json:"kelompok_nama,omitempty"`
	PBLTipe         string  `json:"pbl_tipe,omitempty"`
	UseRuangan      *bool   `json:"use_ruangan,omitempty"`
	FileJurnal      string  `json:"file_jurnal,omitempty"`
}

// BatchData is the single-round-trip payload for one course.
type BatchData struct {
	Course        Course        `json:"mata_kuliah"`
	KuliahBesar   []ScheduleRow `json:"jadwal_kuliah_besar"`
	AgendaKhusus  []ScheduleRow `json:"jadwal_agenda_khusus"`
	Praktikum     []ScheduleRow `json:"jadwal_praktikum"`
	PBL           []ScheduleRow `json:"jadwal_pbl"`
	JurnalReading []ScheduleRow `json:"jadwal_jurnal_reading"`
	Dosen         []Dosen       `json:"dosen_list"`
	Ruangan       []Ruangan     `json:"ruangan_list"`
	KelompokBesar []Kelompok    `json:"kelompok_besar"`
	KelompokKecil []Kelompok    `json:"kelompok_kecil"`
}

// Rate is an optional percentage block of the dashboard.
type Rate struct {
	Rate  *float64 `json:"rate"`
	Total *int     `json:"total"`
	Done  *int     `json:"done"`
}

// AcademicOverview groups the academic counters of the dashboard.
type AcademicOverview struct {
	CompletionRate  *float64 `json:"completion_rate"`
	ActiveCourses   *int     `json:"active_courses"`
	FinishedCourses *int     `json:"finished_courses"`
	CurrentSemester *string  `json:"current_semester"`
}

// DashboardStats is the aggregate payload of the super-admin dashboard.
// Any field may be missing in the response.
type DashboardStats struct {
	TotalUsers       *int              `json:"totalUsers"`
	TotalMahasiswa   *int              `json:"totalMahasiswa"`
	TotalDosen       *int              `json:"totalDosen"`
	TotalTimAkademik *int              `json:"totalTimAkademik"`
	TotalMataKuliah  *int              `json:"totalMataKuliah"`
	TotalKelas       *int              `json:"totalKelas"`
	TotalRuangan     *int              `json:"totalRuangan"`
	ActiveSessions   *int              `json:"activeSessions"`
	Attendance       *Rate             `json:"attendanceStats"`
	Assessment       *Rate             `json:"assessmentStats"`
	Academic         *AcademicOverview `json:"academicOverview"`
	LastBackup       *string           `json:"lastBackup"`
}

// RestoreResult is the server's account of an import, including any type correction.
type RestoreResult struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	RequestedType  string   `json:"requested_type"`
	CorrectedType  string   `json:"corrected_type"`
	TypeCorrected  bool     `json:"type_corrected"`
	Warnings       []string `json:"warnings"`
	TablesRestored int      `json:"tables_restored,omitempty"`
}

// ReportData is one exported report kind as a header row plus records.
type ReportData struct {
	Kind    string     `json:"kind"`
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// BackupRecord is a locally remembered backup download.
type BackupRecord struct {
	ID        int64
	Kind      string
	Path      string
	SizeBytes int64
	CreatedAt string
}
