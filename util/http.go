package util

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// Comparison reports are small markdown documents; the generous timeout
// covers the service rendering a report on demand for a cold pair.
const httpClientTimeout = 2 * time.Minute

var httpClientPool = &sync.Pool{
	New: func() interface{} { return newBaseConfiguredHttpClient() },
}

func newBaseConfiguredHttpClient() *http.Client {
	return &http.Client{
		Timeout:   httpClientTimeout,
		Transport: newConfiguredBaseTransport(),
	}
}

func newConfiguredBaseTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DisableKeepAlives:   true,
		IdleConnTimeout:     20 * time.Second,
		MaxIdleConnsPerHost: 4,
		MaxIdleConns:        16,
		DialContext: (&net.Dialer{
			Timeout: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

func GetHTTPClient() *http.Client { return httpClientPool.Get().(*http.Client) }

func PutHTTPClient(c *http.Client) {
	c.Timeout = httpClientTimeout

	if _, ok := c.Transport.(*http.Transport); !ok {
		c.Transport = newConfiguredBaseTransport()
	}

	httpClientPool.Put(c)
}
