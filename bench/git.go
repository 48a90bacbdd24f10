package bench

import (
	"context"
	"os/exec"
	"strings"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
)

// PreviousCommit resolves the commit immediately preceding HEAD in the
// checkout at dir. The checkout must have history depth of at least two for
// the resolution to succeed; shallow single-commit checkouts, first commits,
// and empty repositories all resolve to no previous commit, which callers
// treat as an ordinary outcome rather than an error.
func PreviousCommit(ctx context.Context, dir string) (string, bool) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD~1")
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		grip.Info(message.WrapError(err, message.Fields{
			"op":      "resolve previous commit",
			"dir":     dir,
			"outcome": "no previous commit",
		}))
		return "", false
	}

	sha := strings.TrimSpace(string(out))
	if sha == "" {
		return "", false
	}

	return sha, true
}
