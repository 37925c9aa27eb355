// response/envelope_test.go
package response

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thingscale/go-openapi-http-client/errorcodes"
)

func TestParseSuccessEnvelope(t *testing.T) {
	body := []byte(`{"success":true,"t":1700000000000,"result":{"id":"dev-1","name":"lamp"}}`)

	env, err := Parse(body, "application/json")
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.EqualValues(t, 1700000000000, env.T)

	var result struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, env.DecodeResult(&result))
	assert.Equal(t, "dev-1", result.ID)
	assert.Equal(t, "lamp", result.Name)
}

func TestParseApplicationError(t *testing.T) {
	body := []byte(`{"success":false,"code":1106,"msg":"permission deny"}`)

	_, err := Parse(body, "application/json")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindApplication, apiErr.Kind)
	assert.Equal(t, "1106", apiErr.Code)
	assert.Equal(t, "permission denied", apiErr.Message)
	assert.False(t, IsTokenExpired(err))
}

// Codes outside the catalog keep the upstream message.
func TestParseApplicationErrorUnknownCode(t *testing.T) {
	body := []byte(`{"success":false,"code":777777,"msg":"upstream explanation"}`)

	_, err := Parse(body, "application/json")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "777777", apiErr.Code)
	assert.Equal(t, "upstream explanation", apiErr.Message)
}

// An envelope without a message gets one from the code catalog.
func TestParseApplicationErrorWithoutMessage(t *testing.T) {
	body := []byte(`{"success":false,"code":1100}`)

	_, err := Parse(body, "application/json")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errorcodes.CodeTokenInvalid, apiErr.Code)
	assert.Equal(t, errorcodes.Lookup(errorcodes.CodeTokenInvalid), apiErr.Message)
	assert.True(t, IsTokenExpired(err))
}

func TestParseNonJSONBody(t *testing.T) {
	body := []byte("<html><body><p>Bad gateway</p></body></html>")

	_, err := Parse(body, "text/html")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindParse, apiErr.Kind)
	assert.Equal(t, "Bad gateway", apiErr.Message)
	assert.False(t, IsTokenExpired(err))
}

func TestDecodeResultEmpty(t *testing.T) {
	env := &Envelope{Success: true}
	var out map[string]any
	assert.NoError(t, env.DecodeResult(&out))
	assert.Nil(t, out)
}

func TestIsTokenExpiredOnUnrelatedError(t *testing.T) {
	assert.False(t, IsTokenExpired(errors.New("plain error")))
	assert.False(t, IsTokenExpired(NewTransportError(errors.New("connection reset"))))
	assert.False(t, IsTokenExpired(nil))
}
