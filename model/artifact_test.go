package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageArtifactsPush(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tmp := t.TempDir()
	resultFile := filepath.Join(tmp, "raw.json")
	require.NoError(os.WriteFile(resultFile, []byte(`{"mean":42}`), 0644))

	trigger := TriggerContext{Kind: TriggerPush, Ref: "refs/heads/main", CommitSHA: "abc123"}
	resultsDir := filepath.Join(tmp, "results")

	artifacts, err := PackageArtifacts(resultFile, resultsDir, trigger)
	require.NoError(err)
	require.Len(artifacts, 2)

	assert.Equal(filepath.Join(resultsDir, "main.json"), artifacts[0].LocalPath)
	assert.Equal("main.json", artifacts[0].RemoteKey)
	assert.Equal(filepath.Join(resultsDir, "abc123.json"), artifacts[1].LocalPath)
	assert.Equal("abc123.json", artifacts[1].RemoteKey)

	first, err := os.ReadFile(artifacts[0].LocalPath)
	require.NoError(err)
	second, err := os.ReadFile(artifacts[1].LocalPath)
	require.NoError(err)
	assert.Equal(first, second)
	assert.Equal([]byte(`{"mean":42}`), first)
}

func TestPackageArtifactsPullRequest(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tmp := t.TempDir()
	resultFile := filepath.Join(tmp, "raw.json")
	require.NoError(os.WriteFile(resultFile, []byte("{}"), 0644))

	trigger := TriggerContext{Kind: TriggerManualDispatch, PRNumber: 42}
	resultsDir := filepath.Join(tmp, "results")

	artifacts, err := PackageArtifacts(resultFile, resultsDir, trigger)
	require.NoError(err)
	require.Len(artifacts, 1)

	assert.Equal(filepath.Join(resultsDir, "branch.json"), artifacts[0].LocalPath)
	assert.Equal("pr-42.json", artifacts[0].RemoteKey)
}

func TestPackageArtifactsMissingSource(t *testing.T) {
	tmp := t.TempDir()

	trigger := TriggerContext{Kind: TriggerPush, Ref: "refs/heads/main", CommitSHA: "abc123"}
	_, err := PackageArtifacts(filepath.Join(tmp, "nope.json"), filepath.Join(tmp, "results"), trigger)
	assert.Error(t, err)
}
