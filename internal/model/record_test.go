package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringField(t *testing.T) {
	r := Record{
		"id":   float64(7),
		"nama": "Budi",
		"pengawas": map[string]any{
			"name": "Pak Andi",
		},
		"score": 7.5,
	}

	assert.Equal(t, "7", r.StringField("id"))
	assert.Equal(t, "Budi", r.StringField("nama"))
	assert.Equal(t, "Pak Andi", r.StringField("pengawas.name"))
	assert.Equal(t, "7.5", r.StringField("score"))
	assert.Equal(t, "", r.StringField("pengawas.missing"))
	assert.Equal(t, "", r.StringField("nama.nested"))
}

func TestBoolField(t *testing.T) {
	r := Record{
		"a": true,
		"b": float64(1),
		"c": float64(0),
		"d": "1",
		"e": "false",
	}

	assert.True(t, r.BoolField("a"))
	assert.True(t, r.BoolField("b"))
	assert.False(t, r.BoolField("c"))
	assert.True(t, r.BoolField("d"))
	assert.False(t, r.BoolField("e"))
	assert.False(t, r.BoolField("missing"))
}

func TestID(t *testing.T) {
	assert.Equal(t, "42", Record{"id": float64(42)}.ID())
	assert.Equal(t, "", Record{}.ID())
}
