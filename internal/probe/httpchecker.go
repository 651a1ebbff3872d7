package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	userAgent    = "sitecheck/1.0"
	maxBodyDrain = 1 << 20 // 1MB
)

// HTTPChecker issues one GET per Probe call. The timeout is applied per
// request through the context, so the client itself carries none.
type HTTPChecker struct {
	Client *http.Client
}

func NewHTTPChecker(maxConns int) *HTTPChecker {
	if maxConns < 1 {
		maxConns = 1
	}
	return &HTTPChecker{
		Client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         (&net.Dialer{KeepAlive: 30 * time.Second}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConns:        maxConns * 2,
				MaxIdleConnsPerHost: maxConns,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
}

func (h *HTTPChecker) Probe(ctx context.Context, target string, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := h.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// drain a bounded amount so the connection can be reused
	_, _ = io.CopyN(io.Discard, resp.Body, maxBodyDrain)
	return resp.StatusCode, nil
}

// Close releases idle connections held by the client.
func (h *HTTPChecker) Close() {
	if h == nil || h.Client == nil {
		return
	}
	h.Client.CloseIdleConnections()
}
