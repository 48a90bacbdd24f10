package model

import (
	"fmt"
	"strings"
)

// TriggerKind distinguishes the event that started a pipeline run.
type TriggerKind string

const (
	// TriggerPush is a push to a branch.
	TriggerPush TriggerKind = "push"
	// TriggerManualDispatch is a manually dispatched run, optionally scoped
	// to a pull request.
	TriggerManualDispatch TriggerKind = "dispatch"
)

// DispatchBaselineName is the baseline name used for every manually
// dispatched run. It stays generic so the same filter logic applies to all
// dispatched runs; pull-request scoping only surfaces in the upload name.
const DispatchBaselineName = "branch"

// MainBaselineName is the canonical baseline that pull-request runs are
// compared against.
const MainBaselineName = "master"

// DefaultPRFilter restricts pull-request runs to the core benchmark groups.
// It deliberately skips the suites that need a live external database, which
// is not provisioned for pull-request runners.
const DefaultPRFilter = "micro|module"

// TriggerContext captures the event that started the run. It is constructed
// once and threaded through every stage so the naming, filtering, and
// comment-routing decisions always agree.
type TriggerContext struct {
	Kind      TriggerKind
	Ref       string
	CommitSHA string
	PRNumber  int
}

// IsPullRequest reports whether this run is scoped to a pull request.
func (t TriggerContext) IsPullRequest() bool {
	return t.Kind == TriggerManualDispatch && t.PRNumber > 0
}

// BaselineName derives the identifier for this run's result set. Push runs
// use the branch name with every path separator replaced, keeping the name
// safe for filesystem paths and URL segments. Dispatched runs always use
// DispatchBaselineName.
func (t TriggerContext) BaselineName() string {
	if t.Kind == TriggerManualDispatch {
		return DispatchBaselineName
	}

	branch := strings.TrimPrefix(t.Ref, "refs/heads/")
	return strings.ReplaceAll(branch, "/", "-")
}

// UploadName is the artifact filename used at publish time. Pull-request
// runs are renamed here, since the pull-request number is only relevant once
// the artifact leaves the local results directory.
func (t TriggerContext) UploadName() string {
	if t.IsPullRequest() {
		return fmt.Sprintf("pr-%d.json", t.PRNumber)
	}

	return t.BaselineName() + ".json"
}

// Filter returns the benchmark filter for this run: empty for push runs,
// which execute the full suite, and the pull-request filter otherwise.
// A non-empty override replaces DefaultPRFilter.
func (t TriggerContext) Filter(override string) string {
	if !t.IsPullRequest() {
		return ""
	}

	if override != "" {
		return override
	}

	return DefaultPRFilter
}

// CommentTargetKind distinguishes where the report comment lands.
type CommentTargetKind string

const (
	CommentOnPullRequest CommentTargetKind = "pull-request"
	CommentOnCommit      CommentTargetKind = "commit"
)

// CommentTarget names the destination for a report comment.
type CommentTarget struct {
	Kind      CommentTargetKind
	PRNumber  int
	CommitSHA string
}

// CommentTarget routes the report to the pull request's thread when the run
// is pull-request scoped, and to the commit's thread otherwise.
func (t TriggerContext) CommentTarget() CommentTarget {
	if t.IsPullRequest() {
		return CommentTarget{Kind: CommentOnPullRequest, PRNumber: t.PRNumber}
	}

	return CommentTarget{Kind: CommentOnCommit, CommitSHA: t.CommitSHA}
}

func (t CommentTarget) String() string {
	if t.Kind == CommentOnPullRequest {
		return fmt.Sprintf("pull request #%d", t.PRNumber)
	}

	return fmt.Sprintf("commit %s", t.CommitSHA)
}
