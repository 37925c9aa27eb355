// response/envelope.go
/* Responsible for normalizing platform response bodies. Every plain API call
answers with the same JSON envelope: a success flag, an optional numeric code
and message, a server timestamp and the actual payload under result. */
package response

import (
	"encoding/json"
)

// Envelope is the JSON body shape returned by the platform for plain calls.
type Envelope struct {
	Success bool            `json:"success"`
	Code    int64           `json:"code,omitempty"`
	Msg     string          `json:"msg,omitempty"`
	T       int64           `json:"t,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// Parse normalizes a raw platform body into an Envelope. A body that is not
// valid JSON yields a parse error; a decoded envelope with success=false
// yields an application error carrying the platform code.
func Parse(body []byte, contentType string) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, NewParseError(err, body, contentType)
	}

	if !env.Success {
		return nil, NewApplicationError(env.Code, env.Msg)
	}

	return &env, nil
}

// DecodeResult unmarshals the envelope's result payload into out.
func (e *Envelope) DecodeResult(out any) error {
	if len(e.Result) == 0 {
		return nil
	}
	return json.Unmarshal(e.Result, out)
}
