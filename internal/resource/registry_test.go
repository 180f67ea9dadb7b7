package resource

import (
	"testing"

	"exam-admin-console/internal/console"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllKeysMatchNames(t *testing.T) {
	all := All()
	require.Len(t, all, 6)
	for key, res := range all {
		assert.Equal(t, key, res.Name)
	}
}

func TestEveryResourceIsComplete(t *testing.T) {
	for name, res := range All() {
		assert.NotEmpty(t, res.Title, name)
		assert.NotEmpty(t, res.Path, name)
		assert.NotEmpty(t, res.Fields, name)
		assert.NotEmpty(t, res.SearchFields, name)
		assert.NotEmpty(t, res.Texts.FetchFail, name)
		assert.NotEmpty(t, res.Texts.SaveFail, name)
		assert.NotEmpty(t, res.Texts.ConfirmPrompt, name)

		for _, field := range res.Fields {
			if field.Kind != console.FieldSelect {
				continue
			}
			found := false
			for _, lookup := range res.Lookups {
				if lookup.Name == field.Lookup {
					found = true
				}
			}
			assert.True(t, found, "%s: select field %s has no lookup", name, field.Name)
		}
	}
}

func TestImportResourcesCarryModalTexts(t *testing.T) {
	for name, res := range All() {
		if res.Import == nil {
			continue
		}
		assert.NotEmpty(t, res.Import.Path, name)
		assert.NotEmpty(t, res.Import.TemplatePath, name)
		assert.NotEmpty(t, res.Import.TargetField, name)
		assert.NotEmpty(t, res.Texts.MissingTarget, name)
		assert.NotEmpty(t, res.Texts.MissingFile, name)
		assert.NotEmpty(t, res.Texts.BadFile, name)
	}
}

func TestUserPasswordRequiredOnlyOnCreate(t *testing.T) {
	users := All()["users"]

	var password console.FieldSpec
	found := false
	for _, field := range users.Fields {
		if field.Name == "password" {
			password = field
			found = true
		}
	}
	require.True(t, found)
	assert.True(t, password.RequiredOnCreate)
	assert.False(t, password.Required)
}

func TestOnlyUserScreenGuardsSelfDelete(t *testing.T) {
	for name, res := range All() {
		if name == "users" {
			assert.True(t, res.GuardSelfDelete)
			assert.NotEmpty(t, res.Texts.SelfDelete)
			continue
		}
		assert.False(t, res.GuardSelfDelete, name)
	}
}
