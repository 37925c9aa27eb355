// httpclient/request.go
package httpclient

import (
	"io"
	"net/http"

	"github.com/thingscale/go-openapi-http-client/signer"
)

// Request is one outbound call to the platform. Exactly two kinds exist:
// APIRequest for plain JSON calls and FileRequest for raw byte downloads.
// The dispatcher matches the union exhaustively; new kinds are new variants.
type Request interface {
	requestKind() string
}

// APIRequest is a plain call expecting the platform's JSON envelope back.
type APIRequest struct {
	// Method must be one of GET, POST, PUT or DELETE.
	Method string
	// Path is the endpoint path, e.g. "/v1.0/devices".
	Path string
	// Query is the optional query component; see signer.Raw and
	// signer.Params. The canonical suffix is signed and sent verbatim.
	Query signer.Query
	// Body is JSON-serialized into the request body when non-nil.
	Body any
	// Headers are caller-supplied extras, winning over computed headers on
	// collision. Declaring signer.SignatureHeadersKey here folds the listed
	// header names into extended signatures.
	Headers map[string]string
}

func (APIRequest) requestKind() string { return "api" }

// FileRequest downloads raw bytes (such as a device snapshot image) from the
// asset host into Output. File requests are always GETs.
type FileRequest struct {
	Path   string
	Output io.Writer
}

func (FileRequest) requestKind() string { return "file" }

// supportedMethods are the verbs the platform accepts for plain calls.
var supportedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}
