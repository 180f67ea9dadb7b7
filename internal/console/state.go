package console

import (
	"exam-admin-console/internal/model"
)

// State is one screen's full render snapshot, derived on every request
// from the loaded collection, the free-text search term and the optional
// day filter.
type State struct {
	Title      string              `json:"title"`
	Loading    bool                `json:"loading"`
	Mode       Mode                `json:"mode"`
	EditingID  string              `json:"editing_id,omitempty"`
	Draft      map[string]string   `json:"draft"`
	Submitting bool                `json:"submitting"`
	ScrollTop  bool                `json:"scroll_top,omitempty"`
	Notices    Notices             `json:"notices"`
	Records    []model.Record      `json:"records,omitempty"`
	Groups     []Group             `json:"groups,omitempty"`
	Days       []string            `json:"days,omitempty"`
	Total      int                 `json:"total"`
	NoResults  bool                `json:"no_results"`
	Lookups    map[string][]Option `json:"lookups"`
	Import     *ImportState        `json:"import,omitempty"`
}

type ImportState struct {
	Open     bool   `json:"open"`
	TargetID string `json:"target_id"`
	Busy     bool   `json:"busy"`
}

// State derives the current view. The scroll-to-top signal is consumed by
// the snapshot that reports it.
func (s *Screen) State(term, day string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := make(map[string]string, len(s.form.draft))
	for k, v := range s.form.draft {
		draft[k] = v
	}

	state := State{
		Title:      s.res.Title,
		Loading:    s.loader.loading,
		Mode:       s.form.mode,
		EditingID:  s.form.targetID,
		Draft:      draft,
		Submitting: s.form.submitting,
		ScrollTop:  s.form.scrollTop,
		Notices:    s.notices,
		Total:      len(s.loader.records),
		Lookups:    s.loader.lookups,
	}
	s.form.scrollTop = false

	if s.importer != nil {
		state.Import = &ImportState{
			Open:     s.importer.open,
			TargetID: s.importer.targetID,
			Busy:     s.importer.busy,
		}
	}

	visible := s.visibleRecords()

	if s.res.GroupBy != "" {
		groups := GroupByDay(visible, s.res.GroupBy)
		for _, g := range groups {
			state.Days = append(state.Days, g.Key)
		}
		state.Groups = filterGroups(groups, term, day, s.res.SearchFields)
		state.NoResults = s.loader.loaded && len(state.Groups) == 0
		return state
	}

	state.Records = Filter(visible, term, s.res.SearchFields)
	state.NoResults = s.loader.loaded && len(state.Records) == 0
	return state
}

// visibleRecords applies the active-parent filter where configured, e.g.
// proctors of inactive exam events are hidden from the list.
func (s *Screen) visibleRecords() []model.Record {
	ref := s.res.ActiveRef
	if ref == nil {
		return s.loader.records
	}

	activeByID := make(map[string]bool)
	for _, opt := range s.loader.options(ref.Lookup) {
		activeByID[opt.Value] = opt.Active
	}

	out := make([]model.Record, 0, len(s.loader.records))
	for _, r := range s.loader.records {
		nestedActive := r.StringField(ref.NestedFlag) == "true" || r.StringField(ref.NestedFlag) == "1"
		if nestedActive || activeByID[r.StringField(ref.FKField)] {
			out = append(out, r)
		}
	}
	return out
}

// filterGroups applies the day filter and the search term to day groups.
// A group whose records all fail the search is omitted entirely.
func filterGroups(groups []Group, term, day string, searchFields []string) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		if day != "" && g.Key != day {
			continue
		}
		matched := Filter(g.Records, term, searchFields)
		if len(matched) == 0 {
			continue
		}
		out = append(out, Group{Key: g.Key, Records: matched})
	}
	return out
}
