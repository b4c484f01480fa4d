package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/emlak-portal/models"
	"github.com/emlak-portal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func sqliteEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emlak.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", path)
	t.Setenv("LOG_LEVEL", "error")
	return path
}

func countRoles(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Role{}).Count(&n).Error)
	return n
}

func TestSeedIsIdempotent(t *testing.T) {
	path := sqliteEnv(t)

	require.NoError(t, run(t, "seed"))
	require.NoError(t, run(t, "seed"))

	db := testutil.OpenSQLite(t, path)
	assert.EqualValues(t, 3, countRoles(t, db))
}

func TestCopyReference(t *testing.T) {
	source := sqliteEnv(t)
	target := filepath.Join(t.TempDir(), "target.db")
	require.NoError(t, run(t, "seed"))

	require.NoError(t, run(t, "copy-reference", "--source", source, "--target", target))

	db := testutil.OpenSQLite(t, target)
	assert.EqualValues(t, 3, countRoles(t, db))
	var neighborhoods int64
	require.NoError(t, db.Model(&models.Neighborhood{}).Count(&neighborhoods).Error)
	assert.Positive(t, neighborhoods)
}

func TestCopyReferenceNeedsBothDatabases(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("SOURCE_DATABASE_URL", "")
	t.Setenv("TARGET_DATABASE_URL", "")

	err := run(t, "copy-reference", "--source", "only-source.db")
	assert.ErrorContains(t, err, "--source and --target are required")
}
