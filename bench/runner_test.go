package bench

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/perfpipe/perfpipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchArgs(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]string{"--save-baseline", "main"}, BenchArgs("main", ""))
	assert.Equal([]string{"--save-baseline", "branch", "micro|module"}, BenchArgs("branch", "micro|module"))
}

func TestResultPath(t *testing.T) {
	assert := assert.New(t)

	r := &Runner{workDir: "/work", outputDir: "target/bench"}
	assert.Equal(filepath.Join("/work", "target", "bench", "main.json"), r.ResultPath("main"))

	r = &Runner{workDir: "/work", outputDir: "/out"}
	assert.Equal(filepath.Join("/out", "branch.json"), r.ResultPath("branch"))
}

func TestRunProducesResultFile(t *testing.T) {
	require := require.New(t)

	tmp := t.TempDir()
	conf := &perfpipe.Configuration{
		WorkDir: tmp,
		Bench: perfpipe.BenchConfig{
			// stands in for the benchmark tool: writes an empty result
			// keyed by the saved baseline name
			Command:   []string{"sh", "-c", `mkdir -p out && touch "out/$2.json"`, "bench"},
			OutputDir: "out",
		},
	}

	r := NewRunner(conf)
	result, err := r.Run(context.Background(), "main", "")
	require.NoError(err)
	require.Equal(filepath.Join(tmp, "out", "main.json"), result)

	_, err = os.Stat(result)
	require.NoError(err)
}

func TestRunFailureIsFatal(t *testing.T) {
	conf := &perfpipe.Configuration{
		WorkDir: t.TempDir(),
		Bench: perfpipe.BenchConfig{
			Command:   []string{"sh", "-c", "exit 3"},
			OutputDir: "out",
		},
	}

	_, err := NewRunner(conf).Run(context.Background(), "main", "")
	assert.Error(t, err)
}

func TestRunMissingResultIsFatal(t *testing.T) {
	conf := &perfpipe.Configuration{
		WorkDir: t.TempDir(),
		Bench: perfpipe.BenchConfig{
			Command:   []string{"true"},
			OutputDir: "out",
		},
	}

	_, err := NewRunner(conf).Run(context.Background(), "main", "")
	assert.Error(t, err)
}

func TestBoostCommandsAreOptional(t *testing.T) {
	assert := assert.New(t)

	r := NewRunner(&perfpipe.Configuration{Bench: perfpipe.BenchConfig{Command: []string{"true"}, OutputDir: "out"}})
	ctx := context.Background()

	assert.NoError(r.DisableBoost(ctx))
	assert.NoError(r.EnableBoost(ctx))
	assert.NoError(r.Build(ctx))
}
