package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"exam-admin-console/internal/apiclient"
	"exam-admin-console/internal/importfile"
	"exam-admin-console/internal/logger"
	"exam-admin-console/internal/model"
	"exam-admin-console/internal/session"
	errs "exam-admin-console/pkg/errors"

	"github.com/rs/zerolog"
)

// Screen is one resource's console screen: the loaded collection, the
// record form, the search/filter view and, where configured, the bulk
// importer. Each screen owns its own snapshot; there is no cross-screen
// cache.
type Screen struct {
	res      Resource
	client   *apiclient.Client
	sessions *session.Store

	mu       sync.Mutex
	loader   *loader
	form     *form
	importer *importer
	notices  Notices

	log zerolog.Logger
}

func NewScreen(res Resource, client *apiclient.Client, sessions *session.Store) *Screen {
	s := &Screen{
		res:      res,
		client:   client,
		sessions: sessions,
		log:      logger.Named("screen." + res.Name),
	}
	s.loader = newLoader(res, client)
	s.form = newForm(res, &s.notices)
	if res.Import != nil {
		s.importer = newImporter(*res.Import)
	}
	return s
}

func (s *Screen) Resource() Resource {
	return s.res
}

// Load fetches the collection and lookups and pre-selects reference
// defaults into the form and importer.
func (s *Screen) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reload(ctx)
}

// reload is called with the screen lock held and releases it while the
// fetches are in flight, so snapshots taken meanwhile report the loading
// state. A reload that finds one already running leaves it to finish.
func (s *Screen) reload(ctx context.Context) {
	if s.loader.loading {
		return
	}
	s.loader.loading = true
	token := s.sessions.Token()
	s.mu.Unlock()

	records, lookups, ok := s.loader.fetch(ctx, token)

	s.mu.Lock()
	s.loader.loading = false
	if !ok {
		s.notices.Fail(s.res.Texts.FetchFail)
		s.log.Warn().Msg("Screen load failed")
		return
	}
	s.loader.records = records
	s.loader.lookups = lookups
	s.loader.loaded = true
	s.notices.Error = ""
	s.form.ensureDefaults(s.loader.options)
	if s.importer != nil {
		s.importer.ensureTarget(s.loader.options)
	}
}

// EnsureLoaded fetches the collection only when nothing has been loaded
// yet, so revisiting a screen keeps its state.
func (s *Screen) EnsureLoaded(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loader.loaded {
		return
	}
	s.reload(ctx)
}

// Change updates one draft field; an active error notice is cleared, a
// success notice is left alone.
func (s *Screen) Change(field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.change(field, value)
}

// BeginEdit switches the form to edit mode over a record of the loaded
// collection.
func (s *Screen) BeginEdit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.loader.records {
		if r.ID() == id {
			s.form.beginEdit(r)
			return nil
		}
	}
	return fmt.Errorf("record %s is not in the loaded collection", id)
}

// CancelEdit returns to create mode, discarding the draft.
func (s *Screen) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.cancel(s.loader.options)
}

// Submit sends the draft as a create or an update. While the request is in
// flight the submit control stays disabled; a second submit is refused
// rather than queued. On success the list is reloaded so it reflects
// server state instead of being patched optimistically.
func (s *Screen) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.form.submitting {
		s.mu.Unlock()
		return errs.ErrSubmitInFlight
	}
	s.notices.Reset()
	if err := s.form.requireFields(); err != nil {
		s.notices.Fail(s.res.Texts.SaveFail)
		s.mu.Unlock()
		return err
	}
	mode, targetID, payload := s.form.mode, s.form.targetID, s.form.payload()
	s.form.submitting = true
	token := s.sessions.Token()
	s.mu.Unlock()

	var err error
	if mode == ModeEdit {
		err = s.client.UpdateRecord(ctx, token, s.res.Path, targetID, payload)
	} else {
		err = s.client.CreateRecord(ctx, token, s.res.Path, payload)
	}

	s.mu.Lock()
	s.form.submitting = false
	if err != nil {
		// Remain in the current mode so the operator can correct and retry.
		s.notices.Fail(s.saveFailNotice(err))
		s.mu.Unlock()
		s.log.Warn().Err(err).Str("mode", string(mode)).Msg("Submit failed")
		return nil
	}

	if mode == ModeEdit {
		s.form.applyUpdateOK(s.loader.options)
	} else {
		s.form.applyCreateOK()
	}
	s.reload(ctx)
	s.mu.Unlock()
	return nil
}

// Delete removes one record. It must be confirmed first (the action is
// irreversible), and the authenticated user's own account is refused
// before any request goes out.
func (s *Screen) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return errs.ErrConfirmRequired
	}

	s.mu.Lock()
	if s.res.GuardSelfDelete {
		if profile := s.sessions.Profile(); profile != nil && strconv.FormatInt(profile.ID, 10) == id {
			s.notices.Reset()
			s.notices.Fail(s.res.Texts.SelfDelete)
			s.mu.Unlock()
			return errs.ErrDeleteSelf
		}
	}
	s.notices.Reset()
	token := s.sessions.Token()
	s.mu.Unlock()

	err := s.client.DeleteRecord(ctx, token, s.res.Path, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.notices.Fail(s.res.Texts.DeleteFail)
		s.log.Warn().Err(err).Str("id", id).Msg("Delete failed")
		return nil
	}
	s.notices.Ok(s.res.Texts.DeleteOK)
	s.reload(ctx)
	return nil
}

// OpenImport shows the import modal without clearing a previously selected
// target context.
func (s *Screen) OpenImport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.importer != nil {
		s.importer.openModal()
	}
}

func (s *Screen) CloseImport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.importer != nil {
		s.importer.closeModal()
	}
}

func (s *Screen) SetImportTarget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.importer != nil {
		s.importer.setTarget(id)
	}
}

// SubmitImport uploads a bulk file against the selected target context.
// A 2xx response closes the modal and reloads the list even when some rows
// were rejected; those are reported best-effort, first three only. A
// transport failure leaves the modal open for a retry.
func (s *Screen) SubmitImport(ctx context.Context, filename string, data []byte) error {
	if s.importer == nil {
		return fmt.Errorf("resource %s has no import", s.res.Name)
	}

	s.mu.Lock()
	if s.importer.busy {
		s.mu.Unlock()
		return errs.ErrSubmitInFlight
	}
	s.notices.Reset()
	if s.importer.targetID == "" {
		s.notices.Fail(s.res.Texts.MissingTarget)
		s.mu.Unlock()
		return errs.ErrMissingTarget
	}
	if filename == "" || len(data) == 0 {
		s.notices.Fail(s.res.Texts.MissingFile)
		s.mu.Unlock()
		return errs.ErrMissingFile
	}
	if _, err := importfile.Sniff(filename, data); err != nil {
		s.notices.Fail(s.res.Texts.BadFile)
		s.mu.Unlock()
		return err
	}
	targetID := s.importer.targetID
	s.importer.busy = true
	token := s.sessions.Token()
	s.mu.Unlock()

	result, err := s.client.Import(ctx, token, s.importer.spec.Path, s.importer.spec.TargetField, targetID, filename, data)

	s.mu.Lock()
	s.importer.busy = false
	if err != nil {
		s.notices.Fail(s.saveFailNoticeWithDefault(err, s.res.Texts.ImportFail))
		s.mu.Unlock()
		s.log.Warn().Err(err).Msg("Import failed")
		return nil
	}

	s.notices.Ok(result.Message)
	if len(result.Errors) > 0 {
		shown := result.Errors
		if len(shown) > 3 {
			shown = shown[:3]
		}
		s.notices.Fail("Beberapa baris gagal: " + strings.Join(shown, ", "))
	}
	s.importer.closeModal()
	s.reload(ctx)
	s.mu.Unlock()

	s.log.Info().Int("row_errors", len(result.Errors)).Msg("Import completed")
	return nil
}

// Template fetches the fixed import-template file. Pure side channel; no
// screen state changes.
func (s *Screen) Template(ctx context.Context) (*model.TemplateFile, error) {
	if s.importer == nil {
		return nil, fmt.Errorf("resource %s has no import template", s.res.Name)
	}
	return s.client.DownloadTemplate(ctx, s.sessions.Token(), s.importer.spec.TemplatePath)
}

func (s *Screen) saveFailNotice(err error) string {
	return s.saveFailNoticeWithDefault(err, s.res.Texts.SaveFail)
}

func (s *Screen) saveFailNoticeWithDefault(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if notice := apiErr.Notice(); notice != "" {
			return notice
		}
	}
	return fallback
}
