package rest

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/perfpipe/perfpipe/util"
	"github.com/pkg/errors"
)

// Client fetches rendered comparison reports from the remote comparison
// service.
type Client struct {
	host   string
	client *http.Client
}

// NewClient constructs a Client for the comparison service at host. The
// underlying http.Client is pooled; call Close when done with the Client.
func NewClient(host string) (*Client, error) {
	if !strings.HasPrefix(host, "http") {
		return nil, errors.Errorf("host '%s' is malformed. must start with 'http'", host)
	}

	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		client: util.GetHTTPClient(),
	}, nil
}

// NewClientFromExisting constructs a Client around an existing http.Client.
// Close must not be called on the result; the caller owns the http.Client.
func NewClientFromExisting(client *http.Client, host string) (*Client, error) {
	if client == nil {
		return nil, errors.New("must use a non-nil existing client")
	}

	c, err := NewClient(host)
	if err != nil {
		return nil, err
	}
	c.client = client

	return c, nil
}

// Close returns the pooled http.Client.
func (c *Client) Close() { util.PutHTTPClient(c.client) }

func (c *Client) compareURL(current, previous string) string {
	url := []string{c.host, "compare", current}
	if previous != "" {
		url = append(url, previous)
	}

	return strings.Join(url, "/")
}

// FetchComparison requests a rendered markdown report comparing current
// against previous. An empty previous requests a single-baseline report. A
// missing previous baseline on the service side (404 on the pair) is an
// expected state and degrades to a single-baseline report; any other
// non-200 response or transport failure is an infrastructure error and is
// returned to the caller.
func (c *Client) FetchComparison(ctx context.Context, current, previous string) (string, error) {
	report, missing, err := c.fetch(ctx, c.compareURL(current, previous))
	if err != nil {
		return "", err
	}

	if missing {
		if previous == "" {
			return "", errors.Errorf("comparison service has no baseline '%s'", current)
		}

		grip.Info(message.Fields{
			"op":       "fetch comparison",
			"current":  current,
			"previous": previous,
			"outcome":  "previous baseline missing, requesting single-baseline report",
		})

		return c.FetchComparison(ctx, current, "")
	}

	return report, nil
}

func (c *Client) fetch(ctx context.Context, url string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, errors.Wrap(err, "problem building comparison request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", false, errors.Wrapf(err, "problem reaching comparison service at %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", true, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, errors.Wrap(err, "problem reading comparison response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", false, errors.Errorf("comparison service returned %d for %s", resp.StatusCode, url)
	}

	return string(body), false, nil
}
