package bench

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitHelper(t *testing.T, dir string, args ...string) string {
	t.Helper()

	args = append([]string{"-c", "user.name=perfpipe", "-c", "user.email=perfpipe@example.com"}, args...)
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err, "git %v", args)

	return string(out)
}

func TestPreviousCommit(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	dir := t.TempDir()

	_, ok := PreviousCommit(ctx, dir)
	assert.False(ok, "not a repository")

	gitHelper(t, dir, "init")

	_, ok = PreviousCommit(ctx, dir)
	assert.False(ok, "empty repository")

	gitHelper(t, dir, "commit", "--allow-empty", "-m", "one")

	_, ok = PreviousCommit(ctx, dir)
	assert.False(ok, "single-commit history")

	gitHelper(t, dir, "commit", "--allow-empty", "-m", "two")

	prev, ok := PreviousCommit(ctx, dir)
	assert.True(ok)
	assert.Len(prev, 40)
}
