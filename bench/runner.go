package bench

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/perfpipe/perfpipe"
	"github.com/perfpipe/perfpipe/util"
	"github.com/pkg/errors"
)

// Runner invokes the external build and benchmark executables. It does not
// interpret benchmark output; it only locates the result file the tool
// writes, keyed by baseline name, under the configured output directory.
type Runner struct {
	workDir      string
	outputDir    string
	buildCmd     []string
	benchCmd     []string
	boostDisable []string
	boostEnable  []string
}

// NewRunner constructs a Runner from the pipeline configuration.
func NewRunner(conf *perfpipe.Configuration) *Runner {
	return &Runner{
		workDir:      conf.WorkDir,
		outputDir:    conf.Bench.OutputDir,
		buildCmd:     conf.Build.Command,
		benchCmd:     conf.Bench.Command,
		boostDisable: conf.Boost.Disable,
		boostEnable:  conf.Boost.Enable,
	}
}

// Build runs the configured build command. A nonzero exit is fatal to the
// run. A run with no build command configured is a no-op.
func (r *Runner) Build(ctx context.Context) error {
	if len(r.buildCmd) == 0 {
		return nil
	}

	return errors.Wrap(r.execute(ctx, r.buildCmd), "build failed")
}

// DisableBoost turns off CPU frequency boost before benchmarking to reduce
// measurement variance on shared runners.
func (r *Runner) DisableBoost(ctx context.Context) error {
	if len(r.boostDisable) == 0 {
		return nil
	}

	return errors.Wrap(r.execute(ctx, r.boostDisable), "problem disabling CPU boost")
}

// EnableBoost restores CPU frequency boost. It must run on every exit path
// so a failed run does not contaminate the next one on the same machine.
func (r *Runner) EnableBoost(ctx context.Context) error {
	if len(r.boostEnable) == 0 {
		return nil
	}

	return errors.Wrap(r.execute(ctx, r.boostEnable), "problem re-enabling CPU boost")
}

// Run executes the benchmark suite, saving results under the baseline name,
// and returns the path of the raw result file. A non-empty filter restricts
// which cases run. Benchmark failures are never retried: residual machine
// state makes a rerun's numbers untrustworthy.
func (r *Runner) Run(ctx context.Context, baseline, filter string) (string, error) {
	args := append([]string{}, r.benchCmd...)
	args = append(args, BenchArgs(baseline, filter)...)

	if err := r.execute(ctx, args); err != nil {
		return "", errors.Wrap(err, "benchmark execution failed")
	}

	result := r.ResultPath(baseline)
	if !util.FileExists(result) {
		return "", errors.Errorf("benchmark tool did not produce %s", result)
	}

	return result, nil
}

// ResultPath is the deterministic location of the raw result file for a
// baseline.
func (r *Runner) ResultPath(baseline string) string {
	dir := r.outputDir
	if !filepath.IsAbs(dir) && r.workDir != "" {
		dir = filepath.Join(r.workDir, dir)
	}

	return filepath.Join(dir, baseline+".json")
}

// BenchArgs assembles the trailing arguments passed to the benchmark tool:
// the baseline to save results under, then the optional case filter.
func BenchArgs(baseline, filter string) []string {
	args := []string{"--save-baseline", baseline}
	if filter != "" {
		args = append(args, filter)
	}

	return args
}

func (r *Runner) execute(ctx context.Context, args []string) error {
	grip.Info(message.Fields{
		"op":  "exec",
		"cmd": args,
		"dir": r.workDir,
	})

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = r.workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return errors.Wrapf(cmd.Run(), "command %s", args[0])
}
