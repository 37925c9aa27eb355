// headers/headers.go
package headers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/thingscale/go-openapi-http-client/logger"
	"github.com/thingscale/go-openapi-http-client/signer"
	"github.com/thingscale/go-openapi-http-client/tokenstore"
)

// Names of the headers the platform requires on every call.
const (
	HeaderClientID    = "client_id"
	HeaderTimestamp   = "t"
	HeaderSignMethod  = "sign_method"
	HeaderSign        = "sign"
	HeaderAccessToken = "access_token"
	HeaderContentType = "Content-Type"
)

// Builder assembles the full header set for one request attempt: identity,
// timestamp, signature and optionally the current access token, merged with
// caller-supplied extras.
type Builder struct {
	clientID string
	signer   *signer.Signer
	tokens   tokenstore.Store
	log      logger.Logger
	now      func() time.Time
}

// NewBuilder returns a Builder for the given identity. tokens may be nil when
// the client never issues token-bearing calls.
func NewBuilder(clientID string, s *signer.Signer, tokens tokenstore.Store, log logger.Logger) *Builder {
	return &Builder{
		clientID: clientID,
		signer:   s,
		tokens:   tokens,
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the timestamp source. Tests use this to pin t.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build produces the headers for one attempt. req is the signable view of the
// outgoing request; extra are caller-supplied headers which win on key
// collision with the computed set. POST requests always go out as JSON: the
// Content-Type is forced after the merge so it beats any caller value.
func (b *Builder) Build(ctx context.Context, req *signer.Request, withToken bool, extra map[string]string) (map[string]string, error) {
	timestamp := strconv.FormatInt(b.now().UnixMilli(), 10)

	var token string
	if withToken {
		var err error
		token, err = b.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
	}

	headers := map[string]string{
		HeaderClientID:   b.clientID,
		HeaderTimestamp:  timestamp,
		HeaderSignMethod: signer.SignMethod,
		HeaderSign:       b.signer.Sign(token, timestamp, req),
	}
	if withToken {
		headers[HeaderAccessToken] = token
	}

	for name, value := range extra {
		headers[name] = value
	}

	if req != nil && strings.EqualFold(req.Method, http.MethodPost) {
		headers[HeaderContentType] = "application/json"
	}

	return headers, nil
}
