// httpclient/config_test.go
package httpclient

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	var config ClientConfig
	config.SetDefaults()

	assert.Equal(t, DefaultAPIHostPrefix, config.APIHostPrefix)
	assert.Equal(t, DefaultAssetHostPrefix, config.AssetHostPrefix)
	assert.Equal(t, DefaultRequestTimeout, config.RequestTimeout)
	assert.Equal(t, DefaultMaxRetryAttempts, config.MaxRetryAttempts)
	assert.Equal(t, DefaultRetryInitialBackoff, config.RetryInitialBackoff)
	assert.Equal(t, DefaultLogLevel, config.LogLevel)
	assert.Equal(t, DefaultLogOutputFormat, config.LogOutputFormat)
}

func TestValidateClientConfig(t *testing.T) {
	valid := ClientConfig{Endpoint: "openapi.example.com"}
	valid.SetDefaults()
	assert.NoError(t, validateClientConfig(&valid))

	missingEndpoint := ClientConfig{}
	missingEndpoint.SetDefaults()
	err := validateClientConfig(&missingEndpoint)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Endpoint")

	negativeTimeout := ClientConfig{Endpoint: "openapi.example.com", RequestTimeout: -time.Second}
	negativeTimeout.SetDefaults()
	assert.Error(t, validateClientConfig(&negativeTimeout))
}

// Credentials are checked per request, not at build time.
func TestBuildClientAllowsMissingCredentials(t *testing.T) {
	client, err := BuildClient(ClientConfig{Endpoint: "openapi.example.com"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestBuildClientRejectsMissingEndpoint(t *testing.T) {
	_, err := BuildClient(ClientConfig{ClientID: "id", ClientSecret: "secret"}, nil)
	assert.Error(t, err)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"client_id": "client123",
		"client_secret": "secret456",
		"endpoint": "openapi.example.com",
		"new_sign_algorithm": true,
		"max_retry_attempts": 5
	}`), 0o600))

	config, err := LoadConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "client123", config.ClientID)
	assert.Equal(t, "secret456", config.ClientSecret)
	assert.Equal(t, "openapi.example.com", config.Endpoint)
	assert.True(t, config.NewSignAlgorithm)
	assert.Equal(t, 5, config.MaxRetryAttempts)
	// Defaults applied to everything the file left out.
	assert.Equal(t, DefaultRequestTimeout, config.RequestTimeout)
}

func TestLoadConfigFromFileMissing(t *testing.T) {
	_, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Error(t, err)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("OPENAPI_CLIENT_ID", "client123")
	t.Setenv("OPENAPI_CLIENT_SECRET", "secret456")
	t.Setenv("OPENAPI_ENDPOINT", "openapi.example.com")
	t.Setenv("OPENAPI_NEW_SIGN_ALGORITHM", "true")

	config, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "client123", config.ClientID)
	assert.Equal(t, "secret456", config.ClientSecret)
	assert.Equal(t, "openapi.example.com", config.Endpoint)
	assert.True(t, config.NewSignAlgorithm)
}

func TestLoadConfigFromEnvMissingEndpoint(t *testing.T) {
	t.Setenv("OPENAPI_CLIENT_ID", "client123")
	t.Setenv("OPENAPI_CLIENT_SECRET", "secret456")
	t.Setenv("OPENAPI_ENDPOINT", "")

	_, err := LoadConfigFromEnv()
	assert.Error(t, err)
}
