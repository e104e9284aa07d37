package backups

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maticai/matic/internal/cli"
	"github.com/maticai/matic/internal/cli/clitest"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/storage/sqlstore"
)

func TestBackupCreateAndList(t *testing.T) {
	env := clitest.New(t)

	require.NoError(t, (&BackupListCmd{}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "No backups found.")

	require.NoError(t, (&BackupCreateCmd{}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "✓ Backup created: matic-")

	require.NoError(t, (&BackupListCmd{}).Run(env.Ctx))
	out = env.Output()
	assert.Contains(t, out, "Available backups (1 total)")
	assert.Contains(t, out, filepath.Join(filepath.Dir(env.DBPath), "backups"))
}

func TestBackupRestore(t *testing.T) {
	env := clitest.New(t)
	require.NoError(t, env.Store.AddTask(models.Task{ID: "before", Title: "Before backup"}))
	require.NoError(t, (&BackupCreateCmd{}).Run(env.Ctx))
	name := strings.TrimSpace(strings.TrimPrefix(env.Output(), "✓ Backup created:"))

	require.NoError(t, env.Store.AddTask(models.Task{ID: "after", Title: "After backup"}))

	require.NoError(t, (&BackupRestoreCmd{BackupFile: name, Yes: true}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "Previous database saved as matic-")
	assert.Contains(t, out, "✓ Database restored successfully!")

	require.NoError(t, env.Store.Load())
	tasks, err := env.Store.GetAllTasks(true)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "before", tasks[0].ID)
}

func TestBackupRestore_MissingFile(t *testing.T) {
	env := clitest.New(t)
	err := (&BackupRestoreCmd{BackupFile: "matic-nope.db", Yes: true}).Run(env.Ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup file not found")
}

func TestBackups_RequireSQLite(t *testing.T) {
	ctx := &cli.Context{Store: sqlstore.NewPostgres("postgres://user@localhost/matic")}
	assert.Error(t, (&BackupCreateCmd{}).Run(ctx))
	assert.Error(t, (&BackupListCmd{}).Run(ctx))
}
