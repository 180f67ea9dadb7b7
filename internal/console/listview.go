package console

import (
	"fmt"
	"strings"
	"time"

	"exam-admin-console/internal/model"
)

var dayNames = [...]string{
	"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu",
}

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var timestampLayouts = [...]string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DayLabel renders a timestamp as the Indonesian long day string the
// console groups and filters on, e.g. "Senin, 1 Juni 2026".
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d",
		dayNames[int(t.Weekday())], t.Day(), monthNames[int(t.Month())-1], t.Year())
}

// Matches reports whether any configured field of the record contains the
// term, case-insensitively.
func Matches(r model.Record, term string, fields []string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(r.StringField(field)), term) {
			return true
		}
	}
	return false
}

// Filter derives the searched view of a collection. The input order is
// preserved; nothing is re-sorted client-side.
func Filter(records []model.Record, term string, fields []string) []model.Record {
	if term == "" {
		return records
	}
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if Matches(r, term, fields) {
			out = append(out, r)
		}
	}
	return out
}

// Group is one calendar day of records.
type Group struct {
	Key     string         `json:"key"`
	Records []model.Record `json:"records"`
}

// GroupByDay buckets records by the day label of the given timestamp
// field. Groups keep the order in which distinct days are first
// encountered in the source list. Records whose timestamp cannot be parsed
// land under an empty key, which the view drops.
func GroupByDay(records []model.Record, field string) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, r := range records {
		t, ok := parseTimestamp(r.StringField(field))
		if !ok {
			continue
		}
		key := DayLabel(t)
		i, seen := index[key]
		if !seen {
			index[key] = len(groups)
			groups = append(groups, Group{Key: key})
			i = len(groups) - 1
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}
