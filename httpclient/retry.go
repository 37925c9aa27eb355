// httpclient/retry.go
package httpclient

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/thingscale/go-openapi-http-client/response"
	"go.uber.org/zap"
)

// ExecuteWithToken dispatches one token-bearing request inside a bounded
// retry loop. When the platform answers with the token-invalid code the
// cached token is invalidated, forcing the next attempt to fetch a fresh one
// through the token store, and the call is retried with backoff. Any other
// error is surfaced immediately; after the attempts are exhausted the last
// error is returned.
func (c *Client) ExecuteWithToken(ctx context.Context, req Request) (*response.Envelope, error) {
	attempt := 0
	operation := func() (*response.Envelope, error) {
		attempt++
		if attempt > 1 {
			metricTokenRetries.Inc()
		}

		env, err := c.execute(ctx, req, true)
		if err == nil {
			return env, nil
		}

		if response.IsTokenExpired(err) {
			c.Logger.Warn("access token rejected by platform, invalidating cached token",
				zap.Int("attempt", attempt))
			c.tokens.Invalidate()
			metricTokenInvalidations.Inc()
			return nil, err
		}

		// Everything else is terminal for the orchestrator: configuration,
		// parameter, transport and parse errors as well as every other
		// application code propagate untouched.
		return nil, backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.config.RetryInitialBackoff

	return backoff.RetryWithData(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.config.MaxRetryAttempts)), ctx))
}
