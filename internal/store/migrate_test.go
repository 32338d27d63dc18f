package store_test

import (
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"testing"

	"wicki/internal/domain"
	"wicki/internal/store/migrations"
	"wicki/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	createTableRe = regexp.MustCompile(`(?s)CREATE TABLE (\w+) \((.*?)\n\);`)
	uniqueIndexRe = regexp.MustCompile(`CREATE UNIQUE INDEX (\w+) ON (\w+)`)
	tableKeywords = map[string]bool{"PRIMARY": true, "CONSTRAINT": true, "UNIQUE": true, "FOREIGN": true, "CHECK": true}
)

// postgresSchema reads the up sections of the embedded migrations and
// returns the columns per table and the unique indexes per table.
func postgresSchema(t *testing.T) (map[string][]string, map[string][]string) {
	t.Helper()
	files, err := fs.Glob(migrations.Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	columns := map[string][]string{}
	uniques := map[string][]string{}
	for _, name := range files {
		raw, err := fs.ReadFile(migrations.Migrations, name)
		require.NoError(t, err)
		up, _, _ := strings.Cut(string(raw), "-- +goose Down")

		for _, m := range createTableRe.FindAllStringSubmatch(up, -1) {
			for _, line := range strings.Split(m[2], "\n") {
				fields := strings.Fields(strings.TrimSpace(line))
				if len(fields) == 0 || tableKeywords[fields[0]] {
					continue
				}
				columns[m[1]] = append(columns[m[1]], fields[0])
			}
		}
		for _, m := range uniqueIndexRe.FindAllStringSubmatch(up, -1) {
			uniques[m[2]] = append(uniques[m[2]], m[1])
		}
	}
	return columns, uniques
}

func TestMigrationsMatchModels(t *testing.T) {
	columns, uniques := postgresSchema(t)
	gdb := testutil.OpenInMemoryDB(t)

	var tables []string
	for _, model := range domain.Models() {
		stmt := &gorm.Statement{DB: gdb}
		require.NoError(t, stmt.Parse(model))
		table := stmt.Schema.Table
		tables = append(tables, table)

		types, err := gdb.Migrator().ColumnTypes(model)
		require.NoError(t, err)
		var got []string
		for _, ct := range types {
			got = append(got, ct.Name())
		}
		assert.ElementsMatch(t, columns[table], got, "columns of %s", table)

		for _, idx := range uniques[table] {
			assert.True(t, gdb.Migrator().HasIndex(model, idx), "index %s on %s", idx, table)
		}
	}

	var sqlTables []string
	for table := range columns {
		sqlTables = append(sqlTables, table)
	}
	sort.Strings(sqlTables)
	sort.Strings(tables)
	assert.Equal(t, sqlTables, tables)
}
