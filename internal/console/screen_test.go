package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"exam-admin-console/internal/apiclient"
	"exam-admin-console/internal/config"
	"exam-admin-console/internal/session"
	errs "exam-admin-console/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote is a minimal stand-in for the exam service, just enough of
// each endpoint for the screens under test.
type fakeRemote struct {
	mux      *http.ServeMux
	server   *httptest.Server
	requests atomic.Int64
}

func newFakeRemote(t *testing.T) *fakeRemote {
	f := &fakeRemote{mux: http.NewServeMux()}
	f.mux.HandleFunc("GET /api/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "name": "Admin", "username": "admin"}`))
	})
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeRemote) jsonList(path, body string) {
	f.mux.HandleFunc("GET "+path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})
}

func testSessions(t *testing.T, baseURL string) (*apiclient.Client, *session.Store) {
	client := apiclient.New(&config.Config{
		Remote: config.RemoteConfig{BaseURL: baseURL, Timeout: 5 * time.Second},
	})

	tokens := session.NewFileStore(filepath.Join(t.TempDir(), ".admin_token"))
	require.NoError(t, tokens.Save(context.Background(), "tok-test"))
	store := session.NewStore(client, tokens)
	store.Restore(context.Background())
	require.True(t, store.Authenticated())
	return client, store
}

func proctorResource() Resource {
	return Resource{
		Name:  "pengawas",
		Title: "Data Pengawas",
		Path:  "/api/pengawas",
		Fields: []FieldSpec{
			{Name: "ujian_id", Kind: FieldSelect, Required: true, Lookup: "ujians", Preserve: true},
			{Name: "name", Kind: FieldText, Required: true},
			{Name: "niy", Kind: FieldText},
		},
		Lookups: []LookupSpec{
			{Name: "ujians", Path: "/api/ujians", LabelField: "nama_ujian", ActiveOnly: true},
		},
		SearchFields: []string{"name", "niy"},
		Import: &ImportSpec{
			Path:         "/api/pengawas/import",
			TemplatePath: "/api/pengawas/template-import",
			TargetField:  "ujian_id",
			TargetLookup: "ujians",
		},
		Texts: NoticeTexts{
			FetchFail:     "Gagal mengambil data. Periksa koneksi backend.",
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

func stubProctorLists(remote *fakeRemote) {
	remote.jsonList("/api/pengawas", `[
		{"id": 1, "ujian_id": 9, "name": "Pak Andi", "niy": "100"},
		{"id": 2, "ujian_id": 9, "name": "Bu Sari", "niy": "200"}
	]`)
	remote.jsonList("/api/ujians", `[
		{"id": 9, "nama_ujian": "UAS Genap", "is_active": true},
		{"id": 10, "nama_ujian": "UTS Lama", "is_active": false}
	]`)
}

func TestScreenLoadBuildsLookupsAndDefaults(t *testing.T) {
	remote := newFakeRemote(t)
	stubProctorLists(remote)

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())

	state := screen.State("", "")
	assert.Equal(t, 2, state.Total)
	require.Len(t, state.Lookups["ujians"], 1)
	assert.Equal(t, "UAS Genap", state.Lookups["ujians"][0].Label)
	// The first active option is pre-selected into the form and importer.
	assert.Equal(t, "9", state.Draft["ujian_id"])
	require.NotNil(t, state.Import)
	assert.Equal(t, "9", state.Import.TargetID)
}

func TestScreenLoadFailureKeepsPreviousData(t *testing.T) {
	remote := newFakeRemote(t)
	var fail atomic.Bool
	remote.mux.HandleFunc("GET /api/pengawas", func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 1, "ujian_id": 9, "name": "Pak Andi", "niy": "100"}]`))
	})
	remote.jsonList("/api/ujians", `[{"id": 9, "nama_ujian": "UAS Genap", "is_active": true}]`)

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())
	require.Equal(t, 1, screen.State("", "").Total)

	fail.Store(true)
	screen.Load(context.Background())

	state := screen.State("", "")
	assert.Equal(t, "Gagal mengambil data. Periksa koneksi backend.", state.Notices.Error)
	// The previously loaded collection is still shown.
	assert.Equal(t, 1, state.Total)
	require.Len(t, state.Records, 1)
}

func TestSubmitCreateSuccess(t *testing.T) {
	remote := newFakeRemote(t)
	stubProctorLists(remote)

	var created map[string]any
	remote.mux.HandleFunc("POST /api/pengawas", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		assert.Equal(t, "Bearer tok-test", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
	})

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())

	screen.Change("name", "Pak Tono")
	screen.Change("niy", "300")
	require.NoError(t, screen.Submit(context.Background()))

	assert.Equal(t, "Pak Tono", created["name"])
	assert.Equal(t, "9", created["ujian_id"])

	state := screen.State("", "")
	assert.Equal(t, "Pengawas baru berhasil ditambahkan!", state.Notices.Success)
	// Free text resets, the exam selection stays for the next entry.
	assert.Empty(t, state.Draft["name"])
	assert.Equal(t, "9", state.Draft["ujian_id"])
	assert.Equal(t, ModeCreate, state.Mode)
}

func TestSubmitMissingRequiredField(t *testing.T) {
	remote := newFakeRemote(t)
	stubProctorLists(remote)

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())
	before := remote.requests.Load()

	err := screen.Submit(context.Background())
	var reqErr errs.RequiredFieldError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "name", reqErr.Field)

	// Nothing went out over the wire.
	assert.Equal(t, before, remote.requests.Load())
	assert.Equal(t, "Gagal menyimpan data.", screen.State("", "").Notices.Error)
}

func TestSubmitNewUserWithoutPassword(t *testing.T) {
	remote := newFakeRemote(t)
	remote.jsonList("/api/users", `[{"id": 1, "name": "Admin", "username": "admin"}]`)

	res := Resource{
		Name:  "users",
		Title: "Manajemen Pengguna",
		Path:  "/api/users",
		Fields: []FieldSpec{
			{Name: "name", Kind: FieldText, Required: true},
			{Name: "username", Kind: FieldText, Required: true},
			{Name: "password", Kind: FieldText, RequiredOnCreate: true},
		},
		SearchFields: []string{"name", "username"},
		Texts:        NoticeTexts{SaveFail: "Gagal menyimpan data."},
	}

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(res, client, sessions)
	screen.Load(context.Background())

	screen.Change("name", "Operator")
	screen.Change("username", "op")
	before := remote.requests.Load()

	err := screen.Submit(context.Background())
	var reqErr errs.RequiredFieldError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "password", reqErr.Field)

	// The empty-password create never went over the wire.
	assert.Equal(t, before, remote.requests.Load())
	assert.Equal(t, "Gagal menyimpan data.", screen.State("", "").Notices.Error)
}

func TestSubmitFailureStaysInEditMode(t *testing.T) {
	remote := newFakeRemote(t)
	stubProctorLists(remote)
	remote.mux.HandleFunc("PUT /api/pengawas/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "NIY sudah terdaftar"}`))
	})

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())

	require.NoError(t, screen.BeginEdit("1"))
	screen.Change("niy", "200")
	require.NoError(t, screen.Submit(context.Background()))

	state := screen.State("", "")
	assert.Equal(t, ModeEdit, state.Mode)
	assert.Equal(t, "1", state.EditingID)
	assert.Equal(t, "NIY sudah terdaftar", state.Notices.Error)
	// The draft keeps the rejected value for correction.
	assert.Equal(t, "200", state.Draft["niy"])
}

func TestSubmitUpdateSuccessReturnsToCreate(t *testing.T) {
	remote := newFakeRemote(t)
	stubProctorLists(remote)
	remote.mux.HandleFunc("PUT /api/pengawas/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())

	require.NoError(t, screen.BeginEdit("1"))
	screen.Change("name", "Pak Andi S.")
	require.NoError(t, screen.Submit(context.Background()))

	state := screen.State("", "")
	assert.Equal(t, ModeCreate, state.Mode)
	assert.Empty(t, state.EditingID)
	assert.Equal(t, "Data Pengawas berhasil diperbarui!", state.Notices.Success)
}

func TestBeginEditUnknownRecord(t *testing.T) {
	remote := newFakeRemote(t)
	stubProctorLists(remote)

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())

	assert.Error(t, screen.BeginEdit("999"))
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	remote := newFakeRemote(t)
	stubProctorLists(remote)

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())
	before := remote.requests.Load()

	err := screen.Delete(context.Background(), "1", false)
	assert.ErrorIs(t, err, errs.ErrConfirmRequired)
	assert.Equal(t, before, remote.requests.Load())
}

func TestDeleteConfirmed(t *testing.T) {
	remote := newFakeRemote(t)
	stubProctorLists(remote)
	remote.mux.HandleFunc("DELETE /api/pengawas/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())

	require.NoError(t, screen.Delete(context.Background(), "1", true))
	assert.Equal(t, "Pengawas berhasil dihapus.", screen.State("", "").Notices.Success)
}

func TestDeleteSelfAccountRefusedBeforeRequest(t *testing.T) {
	remote := newFakeRemote(t)
	remote.jsonList("/api/users", `[
		{"id": 1, "name": "Admin", "username": "admin"},
		{"id": 2, "name": "Operator", "username": "op"}
	]`)
	client, sessions := testSessions(t, remote.server.URL)
	require.NotNil(t, sessions.Profile())

	res := Resource{
		Name:            "users",
		Title:           "Manajemen Pengguna",
		Path:            "/api/users",
		Fields:          []FieldSpec{{Name: "name", Kind: FieldText, Required: true}},
		GuardSelfDelete: true,
		Texts: NoticeTexts{
			SelfDelete: "Anda tidak dapat menghapus akun Anda sendiri.",
			DeleteOK:   "Pengguna berhasil dihapus.",
		},
	}
	screen := NewScreen(res, client, sessions)
	screen.Load(context.Background())
	before := remote.requests.Load()

	err := screen.Delete(context.Background(), "1", true)
	assert.ErrorIs(t, err, errs.ErrDeleteSelf)
	assert.Equal(t, before, remote.requests.Load())
	assert.Equal(t, "Anda tidak dapat menghapus akun Anda sendiri.", screen.State("", "").Notices.Error)
}

func TestImportMissingTargetAndFile(t *testing.T) {
	remote := newFakeRemote(t)
	remote.jsonList("/api/pengawas", `[]`)
	remote.jsonList("/api/ujians", `[]`)

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())
	screen.OpenImport()

	// No active exam exists, so no target was pre-selected.
	err := screen.SubmitImport(context.Background(), "pengawas.csv", []byte("name\nA\n"))
	assert.ErrorIs(t, err, errs.ErrMissingTarget)
	assert.Equal(t, "Silakan pilih ujian terlebih dahulu.", screen.State("", "").Notices.Error)

	screen.SetImportTarget("9")
	err = screen.SubmitImport(context.Background(), "", nil)
	assert.ErrorIs(t, err, errs.ErrMissingFile)
	assert.Equal(t, "Silakan pilih file terlebih dahulu.", screen.State("", "").Notices.Error)
}

func TestImportRejectsBadFileBeforeUpload(t *testing.T) {
	remote := newFakeRemote(t)
	stubProctorLists(remote)

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())
	before := remote.requests.Load()

	err := screen.SubmitImport(context.Background(), "pengawas.csv", []byte("name,niy\n"))
	assert.ErrorIs(t, err, errs.ErrInvalidFileFormat)
	assert.Equal(t, before, remote.requests.Load())
	assert.Equal(t, "Format file tidak valid atau file kosong.", screen.State("", "").Notices.Error)
}

func TestImportSuccessReportsFirstThreeRowErrors(t *testing.T) {
	remote := newFakeRemote(t)
	stubProctorLists(remote)
	remote.mux.HandleFunc("POST /api/pengawas/import", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "9", r.FormValue("ujian_id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"message": "1 baris berhasil diimpor",
			"errors": ["baris 2", "baris 3", "baris 4", "baris 5", "baris 6"]
		}`))
	})

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())
	screen.OpenImport()

	err := screen.SubmitImport(context.Background(), "pengawas.csv", []byte("name,niy\nA,1\nB,2\n"))
	require.NoError(t, err)

	state := screen.State("", "")
	assert.Equal(t, "1 baris berhasil diimpor", state.Notices.Success)
	assert.Equal(t, "Beberapa baris gagal: baris 2, baris 3, baris 4", state.Notices.Error)
	// Accepted uploads close the modal even with partial row failures.
	assert.False(t, state.Import.Open)
}

func TestImportTransportFailureLeavesModalOpen(t *testing.T) {
	remote := newFakeRemote(t)
	stubProctorLists(remote)
	remote.mux.HandleFunc("POST /api/pengawas/import", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "Server error"}`))
	})

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())
	screen.OpenImport()

	err := screen.SubmitImport(context.Background(), "pengawas.csv", []byte("name,niy\nA,1\n"))
	require.NoError(t, err)

	state := screen.State("", "")
	assert.Equal(t, "Server error", state.Notices.Error)
	assert.True(t, state.Import.Open)
}

func TestStateSearchAndNoResults(t *testing.T) {
	remote := newFakeRemote(t)
	stubProctorLists(remote)

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())

	state := screen.State("sari", "")
	require.Len(t, state.Records, 1)
	assert.Equal(t, "Bu Sari", state.Records[0].StringField("name"))
	assert.False(t, state.NoResults)

	state = screen.State("nobody", "")
	assert.Empty(t, state.Records)
	assert.True(t, state.NoResults)
}

func TestStateScrollTopConsumedOnce(t *testing.T) {
	remote := newFakeRemote(t)
	stubProctorLists(remote)

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)
	screen.Load(context.Background())

	require.NoError(t, screen.BeginEdit("1"))
	assert.True(t, screen.State("", "").ScrollTop)
	assert.False(t, screen.State("", "").ScrollTop)
}

func TestGroupedStateWithDayFilter(t *testing.T) {
	remote := newFakeRemote(t)
	remote.jsonList("/api/jadwal-ujian", `[
		{"id": 1, "nama_mapel": "Matematika", "mulai_ujian": "2026-06-01 08:00:00"},
		{"id": 2, "nama_mapel": "Fisika", "mulai_ujian": "2026-06-02 08:00:00"}
	]`)

	res := Resource{
		Name:         "jadwal-ujian",
		Title:        "Jadwal Ujian",
		Path:         "/api/jadwal-ujian",
		Fields:       []FieldSpec{{Name: "nama_mapel", Kind: FieldText, Required: true}},
		SearchFields: []string{"nama_mapel"},
		GroupBy:      "mulai_ujian",
		Texts:        NoticeTexts{FetchFail: "Gagal mengambil data dari server."},
	}

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(res, client, sessions)
	screen.Load(context.Background())

	state := screen.State("", "")
	require.Len(t, state.Groups, 2)
	assert.Equal(t, []string{"Senin, 1 Juni 2026", "Selasa, 2 Juni 2026"}, state.Days)

	state = screen.State("", "Selasa, 2 Juni 2026")
	require.Len(t, state.Groups, 1)
	assert.Equal(t, "Fisika", state.Groups[0].Records[0].StringField("nama_mapel"))

	// A search that empties a day drops the whole group.
	state = screen.State("matematika", "")
	require.Len(t, state.Groups, 1)
	assert.Equal(t, "Senin, 1 Juni 2026", state.Groups[0].Key)
}

func TestActiveRefHidesInactiveParents(t *testing.T) {
	remote := newFakeRemote(t)
	remote.jsonList("/api/pengawas", `[
		{"id": 1, "ujian_id": 9, "name": "Pak Andi"},
		{"id": 2, "ujian_id": 10, "name": "Bu Lama"},
		{"id": 3, "ujian_id": 10, "name": "Pak Nested", "ujian": {"is_active": true}}
	]`)
	remote.jsonList("/api/ujians", `[
		{"id": 9, "nama_ujian": "UAS Genap", "is_active": true},
		{"id": 10, "nama_ujian": "UTS Lama", "is_active": false}
	]`)

	res := proctorResource()
	res.ActiveRef = &ActiveRef{FKField: "ujian_id", NestedFlag: "ujian.is_active", Lookup: "ujians"}

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(res, client, sessions)
	screen.Load(context.Background())

	state := screen.State("", "")
	require.Len(t, state.Records, 2)
	assert.Equal(t, "Pak Andi", state.Records[0].StringField("name"))
	assert.Equal(t, "Pak Nested", state.Records[1].StringField("name"))
}

func TestStateReportsLoadingDuringFetch(t *testing.T) {
	remote := newFakeRemote(t)
	release := make(chan struct{})
	remote.mux.HandleFunc("GET /api/pengawas", func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
	remote.jsonList("/api/ujians", `[]`)

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)

	done := make(chan struct{})
	go func() {
		screen.Load(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool {
		return screen.State("", "").Loading
	}, 2*time.Second, 5*time.Millisecond)

	close(release)
	<-done

	state := screen.State("", "")
	assert.False(t, state.Loading)
	assert.True(t, state.NoResults)
}

func TestEnsureLoadedFetchesOnlyOnce(t *testing.T) {
	remote := newFakeRemote(t)
	stubProctorLists(remote)

	client, sessions := testSessions(t, remote.server.URL)
	screen := NewScreen(proctorResource(), client, sessions)

	screen.EnsureLoaded(context.Background())
	after := remote.requests.Load()
	screen.EnsureLoaded(context.Background())
	assert.Equal(t, after, remote.requests.Load())
}
