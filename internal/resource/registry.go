package resource

import (
	"exam-admin-console/internal/console"
)

const fetchFail = "Gagal mengambil data. Periksa koneksi backend."

// All returns the console screens, one configuration per resource instead
// of one hand-written page per resource. Keys are the facade url segments.
func All() map[string]console.Resource {
	resources := []console.Resource{
		years(), events(), proctors(), students(), schedules(), users(),
	}
	out := make(map[string]console.Resource, len(resources))
	for _, r := range resources {
		out[r.Name] = r
	}
	return out
}

func years() console.Resource {
	return console.Resource{
		Name:  "tahun-ajaran",
		Title: "Tahun Ajaran",
		Path:  "/api/tahun-ajaran",
		Fields: []console.FieldSpec{
			{Name: "tahun", Kind: console.FieldText, Required: true},
			{Name: "is_active", Kind: console.FieldCheckbox, Default: "true"},
		},
		SearchFields: []string{"tahun"},
		Texts: console.NoticeTexts{
			FetchFail:     fetchFail,
			CreateOK:      "Tahun Ajaran baru berhasil ditambahkan!",
			UpdateOK:      "Tahun Ajaran berhasil diperbarui!",
			DeleteOK:      "Tahun Ajaran berhasil dihapus.",
			SaveFail:      "Gagal menyimpan data.",
			DeleteFail:    "Gagal menghapus data.",
			ConfirmPrompt: "Apakah Anda yakin ingin menghapus Tahun Ajaran ini?",
		},
	}
}

func events() console.Resource {
	return console.Resource{
		Name:  "ujians",
		Title: "Ujian",
		Path:  "/api/ujians",
		Fields: []console.FieldSpec{
			{Name: "nama_ujian", Kind: console.FieldText, Required: true},
			{Name: "tahun_ajaran_id", Kind: console.FieldSelect, Required: true, Lookup: "tahun_ajarans", Preserve: true},
			{Name: "is_active", Kind: console.FieldCheckbox, Default: "true"},
		},
		Lookups: []console.LookupSpec{
			{Name: "tahun_ajarans", Path: "/api/tahun-ajaran", LabelField: "tahun"},
		},
		SearchFields: []string{"nama_ujian", "tahun_ajaran.tahun"},
		Texts: console.NoticeTexts{
			FetchFail:     fetchFail,
			CreateOK:      "Ujian baru berhasil ditambahkan!",
			UpdateOK:      "Ujian berhasil diperbarui!",
			DeleteOK:      "Ujian berhasil dihapus.",
			SaveFail:      "Gagal menyimpan data.",
			DeleteFail:    "Gagal menghapus ujian. Pastikan tidak ada data terkait.",
			ConfirmPrompt: "Apakah Anda yakin ingin menghapus ujian ini?",
		},
	}
}

func proctors() console.Resource {
	return console.Resource{
		Name:  "pengawas",
		Title: "Data Pengawas",
		Path:  "/api/pengawas",
		Fields: []console.FieldSpec{
			{Name: "ujian_id", Kind: console.FieldSelect, Required: true, Lookup: "ujians", Preserve: true},
			{Name: "name", Kind: console.FieldText, Required: true},
			{Name: "niy", Kind: console.FieldText},
		},
		Lookups: []console.LookupSpec{
			{Name: "ujians", Path: "/api/ujians", LabelField: "nama_ujian", ActiveOnly: true},
		},
		SearchFields: []string{"name", "niy", "ujian.nama_ujian"},
		ActiveRef: &console.ActiveRef{
			FKField:    "ujian_id",
			NestedFlag: "ujian.is_active",
			Lookup:     "ujians",
		},
		Import: &console.ImportSpec{
			Path:         "/api/pengawas/import",
			TemplatePath: "/api/pengawas/template-import",
			TargetField:  "ujian_id",
			TargetLookup: "ujians",
		},
		Texts: console.NoticeTexts{
			FetchFail:     fetchFail,
			CreateOK:      "Pengawas baru berhasil ditambahkan!",
			UpdateOK:      "Data Pengawas berhasil diperbarui!",
			DeleteOK:      "Pengawas berhasil dihapus.",
			SaveFail:      "Gagal menyimpan data.",
			DeleteFail:    "Gagal menghapus pengawas. Pastikan tidak ada jadwal terkait.",
			ImportFail:    "Gagal mengimpor file.",
			MissingTarget: "Silakan pilih ujian terlebih dahulu.",
			MissingFile:   "Silakan pilih file terlebih dahulu.",
			BadFile:       "Format file tidak valid atau file kosong.",
			ConfirmPrompt: "Apakah Anda yakin ingin menghapus pengawas ini?",
		},
	}
}

func students() console.Resource {
	return console.Resource{
		Name:  "peserta-ujian",
		Title: "Peserta Ujian",
		Path:  "/api/peserta-ujian",
		Fields: []console.FieldSpec{
			{Name: "nama", Kind: console.FieldText, Required: true},
			{Name: "nisn", Kind: console.FieldText, Required: true},
			{Name: "nomor_peserta", Kind: console.FieldText, Required: true},
			{Name: "kelas_id", Kind: console.FieldSelect, Required: true, Lookup: "kelases", Preserve: true},
			{Name: "ruang_id", Kind: console.FieldSelect, Required: true, Lookup: "ruangs", Preserve: true},
		},
		Lookups: []console.LookupSpec{
			{Name: "kelases", Path: "/api/peserta-ujian-meta", Key: "kelases", LabelField: "nama_kelas"},
			{Name: "ruangs", Path: "/api/peserta-ujian-meta", Key: "ruangs", LabelField: "nama_ruang"},
		},
		SearchFields: []string{"nama", "nisn", "nomor_peserta"},
		Texts: console.NoticeTexts{
			FetchFail:     fetchFail,
			CreateOK:      "Peserta baru berhasil ditambahkan!",
			UpdateOK:      "Data peserta berhasil diperbarui!",
			DeleteOK:      "Peserta berhasil dihapus.",
			SaveFail:      "Gagal menyimpan data.",
			DeleteFail:    "Gagal menghapus data.",
			ConfirmPrompt: "Apakah Anda yakin ingin menghapus peserta ini?",
		},
	}
}

func schedules() console.Resource {
	return console.Resource{
		Name:  "jadwal-ujian",
		Title: "Jadwal Ujian",
		Path:  "/api/jadwal-ujian",
		Fields: []console.FieldSpec{
			{Name: "ujian_id", Kind: console.FieldSelect, Required: true, Lookup: "ujians", Preserve: true},
			{Name: "pengawas_id", Kind: console.FieldSelect, Required: true, Lookup: "pengawas", Preserve: true},
			{Name: "nama_mapel", Kind: console.FieldText, Required: true},
			{Name: "ruang", Kind: console.FieldText, Required: true},
			{Name: "sesi", Kind: console.FieldText},
			{Name: "mulai_ujian", Kind: console.FieldDateTime, Required: true},
			{Name: "ujian_berakhir", Kind: console.FieldDateTime, Required: true},
		},
		Lookups: []console.LookupSpec{
			{Name: "ujians", Path: "/api/ujians", LabelField: "nama_ujian", ActiveOnly: true},
			{Name: "pengawas", Path: "/api/pengawas", LabelField: "name"},
		},
		SearchFields: []string{"nama_mapel", "pengawas.name", "ruang", "sesi"},
		GroupBy:      "mulai_ujian",
		Import: &console.ImportSpec{
			Path:         "/api/jadwal-ujian/import",
			TemplatePath: "/api/jadwal-ujian/template",
			TargetField:  "ujian_id",
			TargetLookup: "ujians",
		},
		Texts: console.NoticeTexts{
			FetchFail:     "Gagal mengambil data dari server.",
			CreateOK:      "Jadwal berhasil ditambahkan",
			UpdateOK:      "Jadwal berhasil diperbarui",
			DeleteOK:      "Jadwal berhasil dihapus",
			SaveFail:      "Gagal menyimpan jadwal",
			DeleteFail:    "Gagal menghapus jadwal",
			ImportFail:    "Gagal mengimpor jadwal",
			MissingTarget: "Silakan pilih ujian terlebih dahulu.",
			MissingFile:   "Silakan pilih file terlebih dahulu.",
			BadFile:       "Format file tidak valid atau file kosong.",
			ConfirmPrompt: "Hapus jadwal ini?",
		},
	}
}

func users() console.Resource {
	return console.Resource{
		Name:  "users",
		Title: "Manajemen Pengguna",
		Path:  "/api/users",
		Fields: []console.FieldSpec{
			{Name: "name", Kind: console.FieldText, Required: true},
			{Name: "username", Kind: console.FieldText, Required: true},
			// A new account needs one; left blank on edit to keep the
			// current password.
			{Name: "password", Kind: console.FieldText, RequiredOnCreate: true},
		},
		SearchFields:    []string{"name", "username"},
		GuardSelfDelete: true,
		Texts: console.NoticeTexts{
			FetchFail:     "Gagal mengambil data pengguna. Periksa koneksi backend.",
			CreateOK:      "Pengguna baru berhasil ditambahkan!",
			UpdateOK:      "Pengguna berhasil diperbarui!",
			DeleteOK:      "Pengguna berhasil dihapus.",
			SaveFail:      "Gagal menyimpan data.",
			DeleteFail:    "Gagal menghapus pengguna.",
			ConfirmPrompt: "Apakah Anda yakin ingin menghapus pengguna ini?",
			SelfDelete:    "Anda tidak dapat menghapus akun Anda sendiri.",
		},
	}
}
