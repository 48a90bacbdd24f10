package comment

import (
	"context"
	"net/http"

	"github.com/google/go-github/v53/github"
	"github.com/perfpipe/perfpipe/model"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// Publisher posts comparison reports as comments on the triggering pull
// request or commit.
type Publisher struct {
	client *github.Client
	owner  string
	repo   string
}

// NewPublisher constructs a Publisher for the given repository. An empty
// token yields an unauthenticated client, which can read but not comment;
// posting then degrades the same way a fork-scoped token does.
func NewPublisher(ctx context.Context, owner, repo, token string) *Publisher {
	var httpClient *http.Client
	if token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}

	return &Publisher{
		client: github.NewClient(httpClient),
		owner:  owner,
		repo:   repo,
	}
}

// NewPublisherFromClient wraps an existing go-github client, primarily so
// tests can point the Publisher at a local server.
func NewPublisherFromClient(client *github.Client, owner, repo string) *Publisher {
	return &Publisher{client: client, owner: owner, repo: repo}
}

// Post publishes the report to the given target, wrapped in a collapsible
// disclosure block so long reports do not swamp the thread. The returned
// error, if any, should be checked with IsAuthorizationError: runs triggered
// from forks lack comment permission, and that outcome must not fail the
// pipeline.
func (p *Publisher) Post(ctx context.Context, target model.CommentTarget, report string) error {
	body := WrapDisclosure(report)

	switch target.Kind {
	case model.CommentOnPullRequest:
		comment := &github.IssueComment{Body: github.String(body)}
		_, _, err := p.client.Issues.CreateComment(ctx, p.owner, p.repo, target.PRNumber, comment)
		return errors.Wrapf(err, "problem commenting on pull request #%d", target.PRNumber)
	case model.CommentOnCommit:
		comment := &github.RepositoryComment{Body: github.String(body)}
		_, _, err := p.client.Repositories.CreateComment(ctx, p.owner, p.repo, target.CommitSHA, comment)
		return errors.Wrapf(err, "problem commenting on commit %s", target.CommitSHA)
	default:
		return errors.Errorf("unknown comment target '%s'", target.Kind)
	}
}

// WrapDisclosure wraps a markdown report body in a collapsible disclosure
// block.
func WrapDisclosure(report string) string {
	return "<details><summary>Benchmark results</summary>\n\n" + report + "\n\n</details>"
}

// IsAuthorizationError reports whether err is the API refusing the comment
// for lack of permission, as opposed to a transport or service failure.
// GitHub reports missing write access on a resource as 404 to avoid leaking
// repository existence, so that status counts as an authorization failure
// here too.
func IsAuthorizationError(err error) bool {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) {
		return false
	}
	if ghErr.Response == nil {
		return false
	}

	switch ghErr.Response.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	default:
		return false
	}
}
