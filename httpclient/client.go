// httpclient/client.go
/* The httpclient package is the request-signing and execution pipeline for
the platform's OpenAPI. A Client builds the canonical request, signs it with
the configured credentials, attaches the access token where required,
dispatches over the transport collaborator and normalizes every outcome into
a (*response.Envelope, error) pair. It targets exactly this one upstream: its
header names, its signing scheme family and its JSON envelope. */
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thingscale/go-openapi-http-client/headers"
	"github.com/thingscale/go-openapi-http-client/logger"
	"github.com/thingscale/go-openapi-http-client/response"
	"github.com/thingscale/go-openapi-http-client/signer"
	"github.com/thingscale/go-openapi-http-client/tokenstore"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Master struct/object
type Client struct {
	// Private
	config    ClientConfig
	transport Transport
	tokens    tokenstore.Store
	signer    *signer.Signer
	headers   *headers.Builder
	limiter   *rate.Limiter

	// Exported
	Logger logger.Logger
}

// BuildClient creates a new API client from the provided configuration.
// tokens supplies access tokens for token-bearing calls and may be nil when
// the client only issues tokenless calls. Structural configuration problems
// fail here; missing credentials are reported per request instead so the
// caller sees the platform's configuration error code.
func BuildClient(config ClientConfig, tokens tokenstore.Store) (*Client, error) {
	config.SetDefaults()

	if err := validateClientConfig(&config); err != nil {
		return nil, err
	}

	log := logger.BuildLogger(logger.ParseLogLevelFromString(config.LogLevel), config.LogOutputFormat)

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	client := &Client{
		config:    config,
		transport: newNetTransport(config.RequestTimeout),
		tokens:    tokens,
		signer:    signer.New(config.ClientID, config.ClientSecret, config.NewSignAlgorithm, log),
		limiter:   limiter,
		Logger:    log,
	}
	client.headers = headers.NewBuilder(config.ClientID, client.signer, tokens, log)

	log.Debug("new API client initialized",
		zap.String("endpoint", config.Endpoint),
		zap.Bool("new_sign_algorithm", config.NewSignAlgorithm),
		zap.Duration("request_timeout", config.RequestTimeout),
		zap.Int("max_retry_attempts", config.MaxRetryAttempts),
		zap.Float64("requests_per_second", config.RequestsPerSecond),
	)

	return client, nil
}

// Execute dispatches one request without an access token. Plain requests
// resolve to the parsed platform envelope, file requests to a synthetic
// successful envelope once the body has been streamed into the sink. Every
// outcome, success or failure, is delivered exactly once through the return
// values; errors are always *response.APIError.
func (c *Client) Execute(ctx context.Context, req Request) (*response.Envelope, error) {
	return c.execute(ctx, req, false)
}

func (c *Client) execute(ctx context.Context, req Request, withToken bool) (*response.Envelope, error) {
	// Fail fast before any network activity.
	if c.config.ClientID == "" || c.config.ClientSecret == "" {
		cfgErr := response.NewConfigurationError()
		c.Logger.Warn("request rejected, client credentials missing", zap.String("code", cfgErr.Code))
		return nil, cfgErr
	}
	if withToken && c.tokens == nil {
		c.Logger.Warn("token-bearing request rejected, no token store configured")
		return nil, response.NewConfigurationError()
	}

	log := c.Logger.With(zap.String("request_id", uuid.NewString()))

	switch r := req.(type) {
	case APIRequest:
		return c.executeAPI(ctx, r, withToken, log)
	case *APIRequest:
		return c.executeAPI(ctx, *r, withToken, log)
	case FileRequest:
		return c.executeFile(ctx, r, withToken, log)
	case *FileRequest:
		return c.executeFile(ctx, *r, withToken, log)
	default:
		return nil, response.NewParameterError(fmt.Sprintf("unsupported request type %T", req))
	}
}

// executeAPI runs the plain-request path: canonical path, JSON body, signed
// headers, transport dispatch, envelope parse.
func (c *Client) executeAPI(ctx context.Context, req APIRequest, withToken bool, log logger.Logger) (*response.Envelope, error) {
	method := strings.ToUpper(req.Method)
	if !supportedMethods[method] {
		return nil, response.NewParameterError(fmt.Sprintf("unsupported HTTP method %q", req.Method))
	}
	if req.Path == "" {
		return nil, response.NewParameterError("request path is required")
	}

	canonicalPath := signer.CanonicalPath(req.Path, req.Query)

	var form []byte
	if req.Body != nil {
		var err error
		form, err = json.Marshal(req.Body)
		if err != nil {
			return nil, response.NewParameterError(fmt.Sprintf("request body is not JSON-serializable: %v", err))
		}
	}

	signable := &signer.Request{
		Method:  method,
		Path:    canonicalPath,
		Body:    form,
		Headers: req.Headers,
	}

	requestHeaders, err := c.headers.Build(ctx, signable, withToken, req.Headers)
	if err != nil {
		// Token acquisition happens upstream of the request proper; its
		// failures are network-shaped.
		return nil, response.NewTransportError(err)
	}

	if err := c.wait(ctx); err != nil {
		return nil, response.NewTransportError(err)
	}

	log.Debug("dispatching API request",
		zap.String("method", method),
		zap.String("path", canonicalPath),
		zap.String("headers", headers.HeadersToString(requestHeaders, c.config.HideSensitiveData)),
	)

	metricRequestsTotal.WithLabelValues("api", method).Inc()
	started := time.Now()

	body, contentType, err := c.transport.DoRequest(ctx, &TransportRequest{
		Method:  method,
		Host:    c.config.Endpoint,
		Path:    canonicalPath,
		Form:    form,
		Headers: requestHeaders,
	})
	metricRequestDuration.WithLabelValues("api").Observe(time.Since(started).Seconds())
	if err != nil {
		transportErr := response.NewTransportError(err)
		metricRequestFailures.WithLabelValues("api", transportErr.Kind.String()).Inc()
		log.Warn("transport call failed", zap.String("method", method), zap.String("path", canonicalPath), zap.Error(err))
		return nil, transportErr
	}

	env, err := response.Parse(body, contentType)
	if err != nil {
		metricRequestFailures.WithLabelValues("api", errorKindLabel(err)).Inc()
		log.Warn("upstream reported failure", zap.String("method", method), zap.String("path", canonicalPath), zap.Error(err))
		return nil, err
	}

	log.Debug("API request succeeded", zap.String("method", method), zap.String("path", canonicalPath))
	return env, nil
}

// executeFile runs the download path: forced GET against the asset host,
// bytes streamed into the caller's sink, no envelope parsing.
func (c *Client) executeFile(ctx context.Context, req FileRequest, withToken bool, log logger.Logger) (*response.Envelope, error) {
	if req.Path == "" {
		return nil, response.NewParameterError("file request path is required")
	}
	if req.Output == nil {
		return nil, response.NewParameterError("file request requires an output sink")
	}

	signable := &signer.Request{
		Method: http.MethodGet,
		Path:   req.Path,
	}

	requestHeaders, err := c.headers.Build(ctx, signable, withToken, nil)
	if err != nil {
		return nil, response.NewTransportError(err)
	}

	if err := c.wait(ctx); err != nil {
		return nil, response.NewTransportError(err)
	}

	host := c.assetHost()
	log.Debug("dispatching file request", zap.String("host", host), zap.String("path", req.Path))

	metricRequestsTotal.WithLabelValues("file", http.MethodGet).Inc()
	started := time.Now()

	err = c.transport.DoFileRequest(ctx, &TransportRequest{
		Method:  http.MethodGet,
		Host:    host,
		Path:    req.Path,
		Headers: requestHeaders,
	}, req.Output)
	metricRequestDuration.WithLabelValues("file").Observe(time.Since(started).Seconds())
	if err != nil {
		transportErr := response.NewTransportError(err)
		metricRequestFailures.WithLabelValues("file", transportErr.Kind.String()).Inc()
		log.Warn("file transport call failed", zap.String("path", req.Path), zap.Error(err))
		return nil, transportErr
	}

	log.Debug("file request streamed", zap.String("path", req.Path))
	return &response.Envelope{Success: true}, nil
}

// assetHost derives the file-download host from the API endpoint by swapping
// the API host prefix for the asset prefix.
func (c *Client) assetHost() string {
	return strings.Replace(c.config.Endpoint, c.config.APIHostPrefix, c.config.AssetHostPrefix, 1)
}

// wait blocks on the client-side rate limiter when one is configured.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// errorKindLabel extracts the taxonomy label for metrics.
func errorKindLabel(err error) string {
	var apiErr *response.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind.String()
	}
	return "unknown"
}
