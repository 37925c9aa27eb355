// errorcodes.go
// Package errorcodes maps the platform's numeric error codes to human
// readable messages. The catalog is static: codes the platform adds faster
// than this table is updated fall back to a generic message.
package errorcodes

// Codes with dedicated handling elsewhere in the client.
const (
	// CodeConfigurationMissing is reported locally when client credentials
	// are absent; no request is sent.
	CodeConfigurationMissing = "100000"

	// CodeParameterInvalid is reported locally for malformed requests.
	CodeParameterInvalid = "100001"

	// CodeTokenInvalid is the platform code meaning the access token has
	// expired or been revoked and must be refreshed before retrying.
	CodeTokenInvalid = "1100"
)

var messages = map[string]string{
	CodeConfigurationMissing: "client credentials are not configured",
	CodeParameterInvalid:     "request parameters are missing or invalid",
	"1004":                   "signature verification failed",
	"1010":                   "token has expired",
	CodeTokenInvalid:         "access token is invalid or has expired",
	"1106":                   "permission denied",
	"1109":                   "invalid request parameter",
	"1111":                   "requests are too frequent",
	"2001":                   "device is offline",
	"2009":                   "device does not support this operation",
	"2017":                   "schema does not exist",
}

// Message returns the catalog message for a platform error code and whether
// the code is known.
func Message(code string) (string, bool) {
	msg, ok := messages[code]
	return msg, ok
}

// Lookup returns the human message for a platform error code, or a generic
// fallback for codes not in the catalog.
func Lookup(code string) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "unrecognized platform error code " + code
}
