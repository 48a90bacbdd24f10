package rest

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/perfpipe/perfpipe/util"
	"github.com/pkg/errors"
)

// RenderLocal produces a comparison report by running the local rendering
// tool against the packaged result files instead of the remote service. The
// previous baseline's argument is dropped when its result file is absent,
// yielding a single-baseline report; a brand-new branch having no history is
// an ordinary state, not a failure.
func RenderLocal(ctx context.Context, tool, resultsDir, current, previous string) (string, error) {
	args := []string{filepath.Join(resultsDir, current+".json")}

	if previous != "" {
		prevFile := filepath.Join(resultsDir, previous+".json")
		if util.FileExists(prevFile) {
			args = append(args, prevFile)
		} else {
			grip.Info(message.Fields{
				"op":       "render report",
				"current":  current,
				"previous": previous,
				"outcome":  "previous baseline absent, rendering single-baseline report",
			})
		}
	}

	cmd := exec.CommandContext(ctx, tool, args...)

	out := &bytes.Buffer{}
	cmd.Stdout = out

	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "problem rendering report with %s", tool)
	}

	return out.String(), nil
}
