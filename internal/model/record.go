package model

import (
	"strconv"
	"strings"
)

// Record is one row of a remote collection, kept in the decoded JSON shape.
// The console never owns these; they live only in the currently loaded
// collection and are refetched after every mutation.
type Record map[string]any

// StringField resolves a possibly nested path such as "pengawas.name".
// Numbers are rendered without a decimal point when they are whole, which
// matches how the service prints identifiers.
func (r Record) StringField(path string) string {
	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur, ok = m[part]
		if !ok {
			return ""
		}
	}
	return asString(cur)
}

func (r Record) BoolField(name string) bool {
	switch v := r[name].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v == "1" || v == "true"
	default:
		return false
	}
}

// ID returns the record identifier as a string; identifiers arrive as JSON
// numbers but are carried as strings everywhere in the console.
func (r Record) ID() string {
	return r.StringField("id")
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return ""
	}
}
