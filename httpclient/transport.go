// httpclient/transport.go
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/thingscale/go-openapi-http-client/response"
	"github.com/thingscale/go-openapi-http-client/version"
)

// TransportRequest is the fully assembled, already-signed request handed to
// the transport collaborator.
type TransportRequest struct {
	Method  string
	Host    string
	Path    string
	Form    []byte
	Headers map[string]string
}

// Transport dispatches one request over the wire. It owns socket handling,
// TLS and timeouts; the client above it owns signing, headers and response
// normalization.
type Transport interface {
	// DoRequest executes req and returns the raw response body together
	// with its content type.
	DoRequest(ctx context.Context, req *TransportRequest) (body []byte, contentType string, err error)

	// DoFileRequest executes req and streams the response body into out.
	DoFileRequest(ctx context.Context, req *TransportRequest, out io.Writer) error
}

// netTransport is the default Transport over net/http. Every call is bounded
// by the configured timeout; a hung upstream fails instead of blocking.
type netTransport struct {
	client  *http.Client
	timeout time.Duration
}

var _ Transport = (*netTransport)(nil)

func newNetTransport(timeout time.Duration) *netTransport {
	return &netTransport{
		client:  &http.Client{},
		timeout: timeout,
	}
}

func (t *netTransport) DoRequest(ctx context.Context, req *TransportRequest) ([]byte, string, error) {
	resp, err := t.roundTrip(ctx, req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("upstream returned HTTP %d: %s",
			resp.StatusCode, response.ExtractMessage(body, contentType))
	}

	return body, contentType, nil
}

func (t *netTransport) DoFileRequest(ctx context.Context, req *TransportRequest, out io.Writer) error {
	resp, err := t.roundTrip(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upstream returned HTTP %d: %s",
			resp.StatusCode, response.ExtractMessage(body, resp.Header.Get("Content-Type")))
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to stream response body: %w", err)
	}
	return nil
}

func (t *netTransport) roundTrip(ctx context.Context, req *TransportRequest) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	// cancel must survive the body read, so it is tied to the body's closer.

	var payload io.Reader
	if len(req.Form) > 0 {
		payload = bytes.NewReader(req.Form)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, buildURL(req.Host, req.Path), payload)
	if err != nil {
		cancel()
		return nil, err
	}

	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}
	httpReq.Header.Set("User-Agent", version.UserAgent())

	resp, err := t.client.Do(httpReq)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelReadCloser releases the per-call timeout context when the response
// body is closed.
type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// buildURL joins host and path, assuming https when the host carries no
// scheme.
func buildURL(host, path string) string {
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return strings.TrimSuffix(host, "/") + path
}
