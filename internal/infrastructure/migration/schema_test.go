package migration

import (
	"io/fs"
	"regexp"
	"sync"
	"testing"

	"github.com/freshline/backend/internal/infrastructure/persistence/models"
	"github.com/freshline/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

var createTablePattern = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\n\);`)

func embeddedTables(t *testing.T) map[string]string {
	t.Helper()
	tables := map[string]string{}
	entries, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	for _, e := range entries {
		names, err := fs.Glob(migrations.FS, "*_"+e.Name+".up.sql")
		require.NoError(t, err)
		require.Len(t, names, 1)
		body, err := fs.ReadFile(migrations.FS, names[0])
		require.NoError(t, err)
		for _, m := range createTablePattern.FindAllStringSubmatch(string(body), -1) {
			tables[m[1]] = m[2]
		}
	}
	return tables
}

func TestEmbeddedMigrations_Paired(t *testing.T) {
	entries, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for i, e := range entries {
		assert.Equal(t, uint(i+1), e.Version, "versions are contiguous")
		down, err := fs.Glob(migrations.FS, "*_"+e.Name+".down.sql")
		require.NoError(t, err)
		assert.Len(t, down, 1, "missing down migration for %s", e.Name)
	}
}

func TestEmbeddedMigrations_CoverModels(t *testing.T) {
	tables := embeddedTables(t)
	cache := &sync.Map{}

	for _, model := range models.All() {
		s, err := schema.Parse(model, cache, schema.NamingStrategy{})
		require.NoError(t, err)

		body, ok := tables[s.Table]
		if !assert.True(t, ok, "no CREATE TABLE for %s", s.Table) {
			continue
		}
		for _, column := range s.DBNames {
			assert.Regexp(t, `(?m)^\s+`+regexp.QuoteMeta(column)+`\s`, body,
				"table %s is missing column %s", s.Table, column)
		}
	}
}

func TestStatusFor(t *testing.T) {
	st := statusFor(3, false, []uint{1, 2, 3, 4, 5})
	assert.Equal(t, Status{Version: 3, Latest: 5, Pending: 2}, st)

	fresh := statusFor(0, false, []uint{1, 2})
	assert.Equal(t, 2, fresh.Pending)

	dirty := statusFor(2, true, []uint{1, 2})
	assert.True(t, dirty.Dirty)
	assert.Zero(t, dirty.Pending)
}
