package comment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v53/github"
	"github.com/perfpipe/perfpipe/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPublisher(t *testing.T, handler http.Handler) *Publisher {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	return NewPublisherFromClient(client, "acme", "widgets")
}

func TestPostRoutesToPullRequest(t *testing.T) {
	assert := assert.New(t)

	var gotPath, gotBody string
	p := newTestPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		payload := map[string]string{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotBody = payload["body"]

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 1}`))
	}))

	err := p.Post(context.Background(), model.CommentTarget{Kind: model.CommentOnPullRequest, PRNumber: 17}, "report text")
	require.NoError(t, err)

	assert.Equal("/repos/acme/widgets/issues/17/comments", gotPath)
	assert.Contains(gotBody, "<details>")
	assert.Contains(gotBody, "report text")
	assert.Contains(gotBody, "</details>")
}

func TestPostRoutesToCommit(t *testing.T) {
	assert := assert.New(t)

	var gotPath string
	p := newTestPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 2}`))
	}))

	err := p.Post(context.Background(), model.CommentTarget{Kind: model.CommentOnCommit, CommitSHA: "deadbeef"}, "report")
	require.NoError(t, err)

	assert.Equal("/repos/acme/widgets/commits/deadbeef/comments", gotPath)
}

func TestAuthorizationErrorsAreDistinguished(t *testing.T) {
	assert := assert.New(t)

	for status, expected := range map[int]bool{
		http.StatusUnauthorized:        true,
		http.StatusForbidden:           true,
		http.StatusNotFound:            true,
		http.StatusInternalServerError: false,
		http.StatusBadGateway:          false,
	} {
		p := newTestPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"message": "nope"}`))
		}))

		err := p.Post(context.Background(), model.CommentTarget{Kind: model.CommentOnCommit, CommitSHA: "deadbeef"}, "report")
		require.Error(t, err)
		assert.Equal(expected, IsAuthorizationError(err), "status %d", status)
	}

	assert.False(IsAuthorizationError(nil))
}

func TestWrapDisclosure(t *testing.T) {
	assert := assert.New(t)

	wrapped := WrapDisclosure("# results")
	assert.Contains(wrapped, "<summary>Benchmark results</summary>")
	assert.Contains(wrapped, "# results")
}
