package console

import (
	"context"
	"sync"

	"exam-admin-console/internal/apiclient"
	"exam-admin-console/internal/model"
)

// loader holds the screen's collection together with the lookup options the
// form needs. Nothing is cached between invocations; every fetch re-requests
// all data so the list reflects server state.
type loader struct {
	res    Resource
	client *apiclient.Client

	loading bool
	loaded  bool
	records []model.Record
	lookups map[string][]Option
}

func newLoader(res Resource, client *apiclient.Client) *loader {
	return &loader{
		res:     res,
		client:  client,
		lookups: make(map[string][]Option),
	}
}

// fetch issues the primary and lookup requests concurrently and returns the
// assembled result without touching the loader's state. The screen assigns
// it under its own lock, so previously loaded data survives a failed fetch.
func (l *loader) fetch(ctx context.Context, token string) ([]model.Record, map[string][]Option, bool) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		failed  bool
		records []model.Record
		plain   = make(map[string][]model.Record)
		grouped = make(map[string]map[string][]model.Record)
	)

	fail := func() {
		mu.Lock()
		failed = true
		mu.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		recs, err := l.client.ListRecords(ctx, token, l.res.Path, nil)
		if err != nil {
			fail()
			return
		}
		mu.Lock()
		records = recs
		mu.Unlock()
	}()

	// Lookups sharing a grouped endpoint are fetched once per path.
	for _, path := range l.lookupPaths() {
		path := path
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.pathIsGrouped(path) {
				groups, err := l.client.ListGrouped(ctx, token, path)
				if err != nil {
					fail()
					return
				}
				mu.Lock()
				grouped[path] = groups
				mu.Unlock()
				return
			}
			recs, err := l.client.ListRecords(ctx, token, path, nil)
			if err != nil {
				fail()
				return
			}
			mu.Lock()
			plain[path] = recs
			mu.Unlock()
		}()
	}

	wg.Wait()

	if failed {
		return nil, nil, false
	}

	lookups := make(map[string][]Option, len(l.res.Lookups))
	for _, spec := range l.res.Lookups {
		source := plain[spec.Path]
		if spec.Key != "" {
			source = grouped[spec.Path][spec.Key]
		}
		lookups[spec.Name] = buildOptions(source, spec)
	}
	return records, lookups, true
}

func (l *loader) lookupPaths() []string {
	var paths []string
	seen := make(map[string]bool)
	for _, spec := range l.res.Lookups {
		if !seen[spec.Path] {
			seen[spec.Path] = true
			paths = append(paths, spec.Path)
		}
	}
	return paths
}

func (l *loader) pathIsGrouped(path string) bool {
	for _, spec := range l.res.Lookups {
		if spec.Path == path {
			return spec.Key != ""
		}
	}
	return false
}

func (l *loader) options(name string) []Option {
	return l.lookups[name]
}

func buildOptions(records []model.Record, spec LookupSpec) []Option {
	opts := make([]Option, 0, len(records))
	for _, r := range records {
		active := r.BoolField("is_active")
		if spec.ActiveOnly && !active {
			continue
		}
		opts = append(opts, Option{
			Value:  r.ID(),
			Label:  r.StringField(spec.LabelField),
			Active: active,
		})
	}
	return opts
}
