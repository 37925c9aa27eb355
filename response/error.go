// response/error.go
// This file defines the client's error taxonomy and the best-effort message
// extraction applied to bodies that are not the expected JSON envelope.
package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/thingscale/go-openapi-http-client/errorcodes"
	"golang.org/x/net/html"
)

// ErrorKind classifies where in the pipeline a request failed.
type ErrorKind int

const (
	// KindConfiguration: client credentials missing; nothing was sent.
	KindConfiguration ErrorKind = iota
	// KindParameter: malformed request (method, path or sink); nothing was sent.
	KindParameter
	// KindTransport: the network call itself failed or timed out.
	KindTransport
	// KindParse: the upstream body was not the expected JSON envelope.
	KindParse
	// KindApplication: the upstream answered with success=false.
	KindApplication
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindParameter:
		return "parameter"
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// APIError is the single error type surfaced by the client. Code carries the
// platform's numeric code where one exists; Err carries the underlying cause
// for transport and parse failures.
type APIError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s error (code %s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewConfigurationError reports missing client credentials.
func NewConfigurationError() *APIError {
	return &APIError{
		Kind:    KindConfiguration,
		Code:    errorcodes.CodeConfigurationMissing,
		Message: errorcodes.Lookup(errorcodes.CodeConfigurationMissing),
	}
}

// NewParameterError reports a malformed request before any network call.
func NewParameterError(message string) *APIError {
	return &APIError{
		Kind:    KindParameter,
		Code:    errorcodes.CodeParameterInvalid,
		Message: message,
	}
}

// NewTransportError wraps a failure from the transport collaborator.
func NewTransportError(err error) *APIError {
	return &APIError{
		Kind:    KindTransport,
		Message: err.Error(),
		Err:     err,
	}
}

// NewParseError reports a body that could not be decoded as the platform
// envelope. A readable message is extracted from the raw body where possible.
func NewParseError(err error, body []byte, contentType string) *APIError {
	return &APIError{
		Kind:    KindParse,
		Message: ExtractMessage(body, contentType),
		Err:     err,
	}
}

// NewApplicationError reports an envelope with success=false. The code
// catalog is the primary message source; the upstream message is kept for
// codes the catalog does not know.
func NewApplicationError(code int64, upstreamMsg string) *APIError {
	codeStr := strconv.FormatInt(code, 10)

	message, known := errorcodes.Message(codeStr)
	if !known {
		if upstreamMsg != "" {
			message = upstreamMsg
		} else {
			message = errorcodes.Lookup(codeStr)
		}
	}

	return &APIError{
		Kind:    KindApplication,
		Code:    codeStr,
		Message: message,
	}
}

// IsTokenExpired reports whether err is the platform's token-invalid
// application error, the one condition that warrants invalidating the cached
// token and retrying.
func IsTokenExpired(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind == KindApplication && apiErr.Code == errorcodes.CodeTokenInvalid
}

// ExtractMessage pulls a human-readable message out of a body that is not the
// expected envelope. Gateways in front of the platform answer with JSON, XML,
// HTML or plain text depending on who rejected the request.
func ExtractMessage(body []byte, contentType string) string {
	mimeType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])

	switch mimeType {
	case "application/json":
		if msg := extractJSONMessage(body); msg != "" {
			return msg
		}
	case "application/xml", "text/xml":
		if msg := extractXMLMessage(body); msg != "" {
			return msg
		}
	case "text/html":
		if msg := extractHTMLMessage(body); msg != "" {
			return msg
		}
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "empty response body"
	}
	return text
}

// extractJSONMessage looks for the message fields commonly present in
// gateway error payloads.
func extractJSONMessage(body []byte) string {
	var payload struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, candidate := range []string{payload.Msg, payload.Message, payload.Error} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// extractXMLMessage accumulates the text nodes of an XML error document.
func extractXMLMessage(body []byte) string {
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var messages []string
	var traverse func(*xmlquery.Node)
	traverse = func(n *xmlquery.Node) {
		if n.Type == xmlquery.TextNode && strings.TrimSpace(n.Data) != "" {
			messages = append(messages, strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	return strings.Join(messages, "; ")
}

// extractHTMLMessage concatenates the text found within <p> tags of an HTML
// error page, the place proxies put their explanation.
func extractHTMLMessage(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var messages []string
	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			var content strings.Builder
			var collect func(*html.Node)
			collect = func(c *html.Node) {
				if c.Type == html.TextNode {
					content.WriteString(strings.TrimSpace(c.Data) + " ")
				}
				for child := c.FirstChild; child != nil; child = child.NextSibling {
					collect(child)
				}
			}
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				collect(child)
			}
			if text := strings.TrimSpace(content.String()); text != "" {
				messages = append(messages, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}
	parse(doc)

	return strings.Join(messages, "; ")
}
