package pipeline

import (
	"context"
	"os"
	"strings"

	"github.com/evergreen-ci/pail"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/perfpipe/perfpipe"
	"github.com/perfpipe/perfpipe/bench"
	"github.com/perfpipe/perfpipe/comment"
	"github.com/perfpipe/perfpipe/model"
	"github.com/perfpipe/perfpipe/rest"
	"github.com/pkg/errors"
)

// Stage names the phases of a run. Failures in Build through Publish abort
// the run; Compare and Comment degrade instead, since at that point the
// benchmark data is already durably published.
type Stage string

const (
	StageTriggered   Stage = "triggered"
	StageBuilt       Stage = "built"
	StageBenchmarked Stage = "benchmarked"
	StagePackaged    Stage = "packaged"
	StagePublished   Stage = "published"
	StageCompared    Stage = "compared"
	StageCommented   Stage = "commented"
	StageLogFallback Stage = "logged-fallback"
	StageDone        Stage = "done"
)

// Runner executes the external build and benchmark tooling.
type Runner interface {
	Build(ctx context.Context) error
	DisableBoost(ctx context.Context) error
	EnableBoost(ctx context.Context) error
	Run(ctx context.Context, baseline, filter string) (string, error)
}

// Comparer produces a rendered comparison report. An empty previous
// requests a single-baseline report.
type Comparer interface {
	FetchComparison(ctx context.Context, current, previous string) (string, error)
}

// Poster publishes a report to a comment thread.
type Poster interface {
	Post(ctx context.Context, target model.CommentTarget, report string) error
}

// Pipeline runs a single benchmark orchestration end to end. Each stage's
// output is a precondition for the next; there is no internal parallelism
// and no stage is retried.
type Pipeline struct {
	conf    *perfpipe.Configuration
	trigger model.TriggerContext

	runner   Runner
	bucket   pail.Bucket
	comparer Comparer
	poster   Poster

	// Previous resolves the prior commit for push-run comparisons;
	// pluggable for tests.
	previous func(ctx context.Context) (string, bool)

	scratchDirs []string
}

// New assembles a Pipeline with its default collaborators: the external
// command runner, the configured artifact bucket, the comparison client when
// a service URL is configured, and the GitHub publisher when a repository is
// configured.
func New(ctx context.Context, conf *perfpipe.Configuration, trigger model.TriggerContext) (*Pipeline, error) {
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	p := &Pipeline{
		conf:    conf,
		trigger: trigger,
		runner:  bench.NewRunner(conf),
	}

	bucket, err := model.PailType(conf.Bucket.Type).Create(ctx, conf.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "problem constructing artifact bucket")
	}
	p.bucket = bucket

	if conf.Compare.BaseURL != "" {
		client, err := rest.NewClient(conf.Compare.BaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "problem constructing comparison client")
		}
		p.comparer = client
	}

	if conf.GitHub.Owner != "" {
		token := os.Getenv(conf.GitHub.TokenEnv)
		p.poster = comment.NewPublisher(ctx, conf.GitHub.Owner, conf.GitHub.Repo, token)
	}

	p.previous = func(ctx context.Context) (string, bool) {
		return bench.PreviousCommit(ctx, conf.WorkDir)
	}

	return p, nil
}

// Run drives the pipeline through its stages. Cleanup, including re-enabling
// CPU boost and removing scratch directories, runs on every exit path so a
// failed run cannot contaminate the next one on a shared machine.
func (p *Pipeline) Run(ctx context.Context) error {
	defer p.cleanup(ctx)

	baseline := p.trigger.BaselineName()
	p.logStage(StageTriggered, message.Fields{
		"kind":     string(p.trigger.Kind),
		"baseline": baseline,
		"sha":      p.trigger.CommitSHA,
		"pr":       p.trigger.PRNumber,
	})

	if err := p.runner.Build(ctx); err != nil {
		return errors.WithStack(err)
	}
	p.logStage(StageBuilt, nil)

	resultFile, err := p.benchmark(ctx, baseline)
	if err != nil {
		return errors.WithStack(err)
	}
	p.logStage(StageBenchmarked, message.Fields{"result": resultFile})

	artifacts, err := model.PackageArtifacts(resultFile, p.conf.ResultsDir, p.trigger)
	if err != nil {
		return errors.WithStack(err)
	}
	p.scratchDirs = append(p.scratchDirs, p.conf.ResultsDir)
	p.logStage(StagePackaged, message.Fields{"count": len(artifacts)})

	if err := p.publish(ctx, artifacts); err != nil {
		return errors.WithStack(err)
	}
	p.logStage(StagePublished, message.Fields{"count": len(artifacts)})

	report, err := p.compare(ctx, baseline)
	if err != nil {
		return errors.WithStack(err)
	}
	p.logStage(StageCompared, nil)

	p.postComment(ctx, report)
	p.logStage(StageDone, nil)

	return nil
}

func (p *Pipeline) benchmark(ctx context.Context, baseline string) (string, error) {
	if err := p.runner.DisableBoost(ctx); err != nil {
		return "", errors.WithStack(err)
	}

	return p.runner.Run(ctx, baseline, p.trigger.Filter(p.conf.Bench.PRFilter))
}

func (p *Pipeline) publish(ctx context.Context, artifacts []model.Artifact) error {
	for _, a := range artifacts {
		if err := p.bucket.Upload(ctx, a.RemoteKey, a.LocalPath); err != nil {
			return errors.Wrapf(err, "problem uploading artifact %s", a.RemoteKey)
		}

		grip.Info(message.Fields{
			"op":     "upload artifact",
			"key":    a.RemoteKey,
			"bucket": p.conf.Bucket.Name,
			"prefix": p.conf.Bucket.Prefix,
		})
	}

	return nil
}

// compare resolves the comparison pair and fetches the report. An absent
// previous baseline produces a single-baseline report; only transport-level
// failures reach the caller.
func (p *Pipeline) compare(ctx context.Context, baseline string) (string, error) {
	current, previous := p.comparisonPair(ctx)

	if p.comparer != nil {
		return p.comparer.FetchComparison(ctx, current, previous)
	}

	if p.conf.Compare.RenderTool != "" {
		// the local renderer reads the staged files, which are keyed by
		// baseline name rather than upload key
		return rest.RenderLocal(ctx, p.conf.Compare.RenderTool, p.conf.ResultsDir, baseline, previous)
	}

	return "", errors.New("no comparison service or local render tool configured")
}

// comparisonPair picks the current and previous identifiers for the report.
// Pull-request runs compare their renamed artifact against the canonical
// main-line baseline; push runs compare commit against preceding commit.
func (p *Pipeline) comparisonPair(ctx context.Context) (string, string) {
	if p.trigger.IsPullRequest() {
		return strings.TrimSuffix(p.trigger.UploadName(), ".json"), model.MainBaselineName
	}

	previous, ok := p.previous(ctx)
	if !ok {
		return p.trigger.CommitSHA, ""
	}

	return p.trigger.CommitSHA, previous
}

func (p *Pipeline) postComment(ctx context.Context, report string) {
	target := p.trigger.CommentTarget()

	if p.poster == nil {
		p.logStage(StageLogFallback, message.Fields{"reason": "no comment destination configured"})
		grip.Info(report)
		return
	}

	err := p.poster.Post(ctx, target, report)
	if err == nil {
		p.logStage(StageCommented, message.Fields{"target": target.String()})
		return
	}

	if comment.IsAuthorizationError(err) {
		grip.Warning(message.WrapError(err, message.Fields{
			"op":      "post comment",
			"target":  target.String(),
			"outcome": "not permitted, emitting report to log",
		}))
		p.logStage(StageLogFallback, nil)
		grip.Info(report)
		return
	}

	grip.Warning(message.WrapError(err, message.Fields{
		"op":     "post comment",
		"target": target.String(),
	}))
	p.logStage(StageLogFallback, nil)
}

// cleanup is best-effort: its failures are logged and never surfaced as a
// pipeline failure.
func (p *Pipeline) cleanup(ctx context.Context) {
	catcher := grip.NewBasicCatcher()

	catcher.Add(p.runner.EnableBoost(ctx))

	for _, dir := range p.scratchDirs {
		catcher.Add(os.RemoveAll(dir))
	}

	grip.Error(message.WrapError(catcher.Resolve(), message.Fields{"op": "pipeline cleanup"}))
}

func (p *Pipeline) logStage(stage Stage, extra message.Fields) {
	fields := message.Fields{"op": "pipeline", "stage": string(stage)}
	for k, v := range extra {
		fields[k] = v
	}

	grip.Info(fields)
}
