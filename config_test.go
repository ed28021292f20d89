package minorm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderi421/minorm/internal/errs"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "db.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
driver: sqlite3
dsn: "file:config_test?mode=memory&cache=shared"
max_open_conns: 10
max_idle_conns: 5
query_timeout: 3s
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Driver:       "sqlite3",
		DSN:          "file:config_test?mode=memory&cache=shared",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		QueryTimeout: "3s",
	}, cfg)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, KindConfig, KindOf(err))

	_, err = LoadConfig(writeConfig(t, "driver: [broken"))
	require.Error(t, err)
	assert.Equal(t, KindConfig, KindOf(err))
}

func TestConfig_Open(t *testing.T) {
	cfg := &Config{
		Driver:       "sqlite3",
		DSN:          "file:" + t.Name() + "?mode=memory&cache=shared",
		MaxOpenConns: 4,
		QueryTimeout: "30s",
	}
	db, err := cfg.Open(DBWithNowFunc(fixedClock(1410581698)))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Equal(t, 30*time.Second, db.queryTimeout)
	assert.Equal(t, SQLite3, db.dialect)

	createMemberTable(t, db)
	require.NoError(t, Insert[Member](db).Value("name", "mei").Exec(testCtx()).Err())
	cnt, err := Count[Member](db).Exec(testCtx())
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt)
}

func TestConfig_Open_Invalid(t *testing.T) {
	_, err := (&Config{DSN: "x"}).Open()
	assert.Equal(t, errs.ErrEmptyConn, err)

	_, err = (&Config{Driver: "sqlite3", DSN: "x", QueryTimeout: "not-a-duration"}).Open()
	require.Error(t, err)
	assert.Equal(t, KindConfig, KindOf(err))
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, Postgres, dialectFor("postgres"))
	assert.Equal(t, Postgres, dialectFor("pgx"))
	assert.Equal(t, SQLite3, dialectFor("sqlite3"))
	assert.Equal(t, MySQL, dialectFor("mysql"))
	assert.Equal(t, MySQL, dialectFor("anything-else"))
}
