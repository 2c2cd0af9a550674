package migrations

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	scripts []string
	err     error
}

func (r *recordingExecutor) ExecContext(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
	r.scripts = append(r.scripts, query)
	return nil, r.err
}

func (r *recordingExecutor) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (r *recordingExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func TestMigrate_AppliesEmbeddedScripts(t *testing.T) {
	names, err := Files()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_init.sql", names[0])

	exec := &recordingExecutor{}
	require.NoError(t, Migrate(context.Background(), exec))
	require.Len(t, exec.scripts, len(names))
	assert.Contains(t, exec.scripts[0], "CREATE TABLE IF NOT EXISTS slots")
	assert.Contains(t, exec.scripts[0], "WHERE status = 'confirmed'")
}

func TestMigrate_StopsOnError(t *testing.T) {
	exec := &recordingExecutor{err: errors.New("permission denied")}
	err := Migrate(context.Background(), exec)
	assert.ErrorContains(t, err, "001_init.sql")
}
