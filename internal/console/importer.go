package console

// importer holds the bulk-import modal's state. The upload itself is an
// Import Job that exists only for the duration of one request and is never
// retried automatically.
type importer struct {
	spec ImportSpec

	open     bool
	targetID string
	busy     bool
}

func newImporter(spec ImportSpec) *importer {
	return &importer{spec: spec}
}

// openModal shows the modal. A previously selected target context is kept.
func (i *importer) openModal() {
	i.open = true
}

func (i *importer) closeModal() {
	i.open = false
}

func (i *importer) setTarget(id string) {
	i.targetID = id
}

// ensureTarget pre-selects the first available target option, matching the
// form's reference-field defaulting.
func (i *importer) ensureTarget(options func(string) []Option) {
	if i.targetID != "" {
		return
	}
	if opts := options(i.spec.TargetLookup); len(opts) > 0 {
		i.targetID = opts[0].Value
	}
}
