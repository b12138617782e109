package model

import (
	"encoding/json"
	"testing"
)

func TestBatchDataDecodesMissingListsAsNil(t *testing.T) {
	raw := `{"mata_kuliah":{"kode":"MKB101","nama":"Blok 1","semester":1,"tanggal_mulai":"2026-01-05","tanggal_akhir":"2026-02-27"},
		"jadwal_pbl":[{"id":7,"tanggal":"2026-01-06","jam_mulai":"07:20","jam_selesai":"09:00","jumlah_sesi":2,"kelompok_kecil_id":3,"pbl_tipe":"PBL 1"}]}`
	var data BatchData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Course.Kode != "MKB101" {
		t.Fatalf("unexpected course %+v", data.Course)
	}
	if len(data.PBL) != 1 || data.PBL[0].PBLTipe != "PBL 1" {
		t.Fatalf("unexpected pbl rows %+v", data.PBL)
	}
	if data.KuliahBesar != nil {
		t.Fatalf("expected nil lecture rows")
	}
}

func TestIsSuperAdmin(t *testing.T) {
	if !(User{Role: "super_admin"}).IsSuperAdmin() {
		t.Fatalf("expected super admin")
	}
	if (User{Role: "dosen"}).IsSuperAdmin() {
		t.Fatalf("dosen is not super admin")
	}
}
