package database

import (
	"testing"
	"testing/fstest"

	"payments-monitor/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingFilesSortsAndSkipsApplied(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.sql": {Data: []byte("select 2")},
		"001_a.sql": {Data: []byte("select 1")},
		"003_c.sql": {Data: []byte("select 3")},
		"README.md": {Data: []byte("docs")},
		"sub/4.sql": {Data: []byte("select 4")},
	}

	files, err := PendingFiles(fsys, map[string]bool{"002_b.sql": true})

	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "003_c.sql"}, files)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	files, err := PendingFiles(migrations.FS, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"001_monitor_options.sql", "002_managed_sites.sql"}, files)
}
