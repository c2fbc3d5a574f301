package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dsn string, args ...string) string {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db-driver", "sqlite", "--db-dsn", dsn, "--log-level", "error"}, args...))
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

const fixtures = `
drivers:
  - name: Rita Alves
vehicles:
  - code: B07
    seats: 42
suppliers:
  - name: Oficina Central
    category: maintenance
`

func TestCommandsAgainstSQLiteFile(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "fleet.db")

	assert.Contains(t, run(t, dsn, "migrate"), "applied 1 migration(s)")
	assert.Contains(t, run(t, dsn, "migrate"), "applied 0 migration(s)")

	seedFile := filepath.Join(dir, "fixtures.yaml")
	require.NoError(t, os.WriteFile(seedFile, []byte(fixtures), 0o600))
	assert.Contains(t, run(t, dsn, "seed", "--file", seedFile), "drivers=1, suppliers=1, vehicles=1")

	assert.Contains(t, run(t, dsn, "user", "create", "--username", "boss", "--password", "boss-pass", "--role", "admin"), "created user boss")

	backup := filepath.Join(dir, "backup.json.gz")
	run(t, dsn, "backup", "export", "--out", backup, "--gzip")
	raw, err := os.ReadFile(backup)
	require.NoError(t, err)
	require.Greater(t, len(raw), 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])

	assert.Contains(t, run(t, dsn, "backup", "import", "--in", backup), "drivers=1")
	assert.Contains(t, run(t, dsn, "migrate", "--down"), "rolled back")
}

func TestSeedRequiresFile(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--db-driver", "sqlite", "--db-dsn", filepath.Join(t.TempDir(), "x.db"), "seed"})
	assert.Error(t, cmd.Execute())
}

func TestInvalidDriverRejected(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--db-driver", "oracle", "migrate"})
	assert.Error(t, cmd.Execute())
}
