package model

import (
	"os"
	"path/filepath"

	"github.com/perfpipe/perfpipe/util"
	"github.com/pkg/errors"
)

// Artifact is one packaged result file staged for upload. RemoteKey is the
// object name under the bucket prefix.
type Artifact struct {
	LocalPath string
	RemoteKey string
}

// PackageArtifacts copies the raw result file into resultsDir under the
// names the publisher expects. Every run produces a baseline-named copy;
// push runs additionally produce a commit-SHA-named copy, giving each commit
// on the main line a permanent snapshot that survives branch-name churn.
// The contents are duplicated verbatim.
func PackageArtifacts(resultFile, resultsDir string, t TriggerContext) ([]Artifact, error) {
	if !util.FileExists(resultFile) {
		return nil, errors.Errorf("benchmark result file %s does not exist", resultFile)
	}

	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "problem creating results directory %s", resultsDir)
	}

	baseline := t.BaselineName() + ".json"
	artifacts := []Artifact{
		{
			LocalPath: filepath.Join(resultsDir, baseline),
			RemoteKey: t.UploadName(),
		},
	}

	if t.Kind == TriggerPush {
		name := t.CommitSHA + ".json"
		artifacts = append(artifacts, Artifact{
			LocalPath: filepath.Join(resultsDir, name),
			RemoteKey: name,
		})
	}

	for _, a := range artifacts {
		if err := util.CopyFile(resultFile, a.LocalPath); err != nil {
			return nil, errors.Wrap(err, "problem packaging result file")
		}
	}

	return artifacts, nil
}
