// signer.go
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/thingscale/go-openapi-http-client/logger"
	"go.uber.org/zap"
)

const (
	// SignMethod is the value the platform expects in the sign_method header.
	SignMethod = "HMAC-SHA256"

	// SignatureHeadersKey is the request header whose value declares, as a
	// colon-separated list, the header names folded into extended signatures.
	SignatureHeadersKey = "Signature-Headers"
)

// Request carries the parts of an outgoing request that the extended signing
// algorithm covers. Path must already include the canonical query suffix.
type Request struct {
	Method  string
	Path    string
	Body    []byte
	Headers map[string]string
}

// Signer computes request signatures for one set of client credentials.
// With the extended flag set it signs method, body digest, declared header
// names and path in addition to the identity and timestamp.
type Signer struct {
	clientID string
	secret   string
	extended bool
	log      logger.Logger
}

// New returns a Signer for the given credentials. extended selects the newer
// signing algorithm that also covers the request itself.
func New(clientID, secret string, extended bool, log logger.Logger) *Signer {
	return &Signer{
		clientID: clientID,
		secret:   secret,
		extended: extended,
		log:      log,
	}
}

// Sign computes the signature for one request attempt. token may be empty for
// calls that carry no access token. timestamp is the epoch-millisecond value
// sent in the t header; signature and header must agree, so the caller passes
// the exact string it sends.
//
// Sign is pure: identical inputs always produce identical output.
func (s *Signer) Sign(token, timestamp string, req *Request) string {
	message := s.clientID
	if token != "" {
		message += token
	}
	message += timestamp

	if s.extended {
		if req == nil {
			// Programmer error: the extended algorithm needs the request.
			// Sign the identity portion only rather than failing the call.
			s.log.Error("extended signing requested without request details, signing identity only",
				zap.String("client_id", s.clientID))
		} else {
			message += stringToSign(req)
		}
	}

	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(message))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// stringToSign builds the extended portion of the signed message:
// upper-case method, hex SHA-256 of the body (an absent body is hashed as
// zero bytes), the declared header names joined without separator, and the
// canonical path, newline-delimited.
func stringToSign(req *Request) string {
	digest := sha256.Sum256(req.Body)

	var names strings.Builder
	for _, name := range strings.Split(req.Headers[SignatureHeadersKey], ":") {
		if name != "" {
			names.WriteString(name)
		}
	}

	return strings.Join([]string{
		strings.ToUpper(req.Method),
		hex.EncodeToString(digest[:]),
		names.String(),
		req.Path,
	}, "\n")
}
