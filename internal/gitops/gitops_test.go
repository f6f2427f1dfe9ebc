package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	err := Init(context.Background(), dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(context.Background(), dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommitAll(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))

	changed, err := HasChanges(ctx, dir)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "chart.csv"), []byte("code\n1\n"), 0o644))
	changed, err = HasChanges(ctx, dir)
	require.NoError(t, err)
	assert.True(t, changed)

	hash, err := CommitAll(ctx, dir, "snapshot: 2025-01-31", Author{Name: "Test Author", Email: "test@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	out, err := git(ctx, dir, "log", "--format=%s|%an <%ae>|%cn", "-1")
	require.NoError(t, err)
	assert.Equal(t, "snapshot: 2025-01-31|Test Author <test@example.com>|Test Author\n", string(out))

	changed, err = HasChanges(ctx, dir)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCommitAll_NothingToCommit(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))

	_, err := CommitAll(ctx, dir, "empty", Author{Name: "a", Email: "a@b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git commit")
}
