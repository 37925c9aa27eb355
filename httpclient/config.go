// httpclient/config.go
// Client configuration: defaults, file/env loading and validation.
package httpclient

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DefaultRequestTimeout      = 30 * time.Second
	DefaultMaxRetryAttempts    = 3
	DefaultRetryInitialBackoff = 500 * time.Millisecond
	DefaultAPIHostPrefix       = "openapi"
	DefaultAssetHostPrefix     = "images"
	DefaultLogLevel            = "info"
	DefaultLogOutputFormat     = "json"

	envPrefix = "OPENAPI"
)

// ClientConfig is the immutable configuration captured when a Client is
// built. It replaces the process-wide credential/endpoint/flag globals the
// platform SDKs traditionally rely on; the only mutable collaborator is the
// injected token store.
type ClientConfig struct {
	// Identity. Validated per request rather than at build time so an
	// unconfigured client fails fast with the platform's configuration code
	// instead of a constructor error.
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`

	// Endpoint is the API host for plain requests, with or without scheme
	// (https is assumed when absent). The file host is derived from it by
	// replacing APIHostPrefix with AssetHostPrefix.
	Endpoint        string `mapstructure:"endpoint" validate:"required"`
	APIHostPrefix   string `mapstructure:"api_host_prefix"`
	AssetHostPrefix string `mapstructure:"asset_host_prefix"`

	// NewSignAlgorithm selects the extended signing algorithm that covers
	// method, body digest, declared header names and path.
	NewSignAlgorithm bool `mapstructure:"new_sign_algorithm"`

	// Transport and retry tuning.
	RequestTimeout      time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
	MaxRetryAttempts    int           `mapstructure:"max_retry_attempts" validate:"gte=0"`
	RetryInitialBackoff time.Duration `mapstructure:"retry_initial_backoff" validate:"gte=0"`

	// RequestsPerSecond caps outbound request rate; zero disables limiting.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`

	// Log
	LogLevel          string `mapstructure:"log_level"`
	LogOutputFormat   string `mapstructure:"log_output_format"`
	HideSensitiveData bool   `mapstructure:"hide_sensitive_data"`
}

// SetDefaults fills the zero-valued tuning fields.
func (c *ClientConfig) SetDefaults() {
	if c.APIHostPrefix == "" {
		c.APIHostPrefix = DefaultAPIHostPrefix
	}
	if c.AssetHostPrefix == "" {
		c.AssetHostPrefix = DefaultAssetHostPrefix
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxRetryAttempts == 0 {
		c.MaxRetryAttempts = DefaultMaxRetryAttempts
	}
	if c.RetryInitialBackoff == 0 {
		c.RetryInitialBackoff = DefaultRetryInitialBackoff
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogOutputFormat == "" {
		c.LogOutputFormat = DefaultLogOutputFormat
	}
}

var validate = validator.New()

// validateClientConfig checks the structural fields of the configuration.
// Credentials are deliberately not checked here; see ClientConfig.
func validateClientConfig(config *ClientConfig) error {
	if err := validate.Struct(config); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make([]string, 0, len(invalid))
			for _, fieldErr := range invalid {
				fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("invalid client configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid client configuration: %w", err)
	}
	return nil
}

// LoadConfigFromFile loads configuration values from a file (JSON, YAML or
// TOML, by extension) into a ClientConfig, applies defaults and validates.
func LoadConfigFromFile(path string) (*ClientConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read the configuration file %s: %w", path, err)
	}

	return unmarshalConfig(v)
}

// LoadConfigFromEnv builds a ClientConfig purely from OPENAPI_* environment
// variables (OPENAPI_CLIENT_ID, OPENAPI_ENDPOINT, ...), applies defaults and
// validates.
func LoadConfigFromEnv() (*ClientConfig, error) {
	v := viper.New()
	bindEnv(v)
	return unmarshalConfig(v)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{
		"client_id", "client_secret", "endpoint",
		"api_host_prefix", "asset_host_prefix", "new_sign_algorithm",
		"request_timeout", "max_retry_attempts", "retry_initial_backoff",
		"requests_per_second",
		"log_level", "log_output_format", "hide_sensitive_data",
	} {
		_ = v.BindEnv(key)
	}
}

// unmarshalConfig reads each field through viper's typed getters so values
// sourced from environment strings convert the same way as file values.
func unmarshalConfig(v *viper.Viper) (*ClientConfig, error) {
	config := ClientConfig{
		ClientID:            v.GetString("client_id"),
		ClientSecret:        v.GetString("client_secret"),
		Endpoint:            v.GetString("endpoint"),
		APIHostPrefix:       v.GetString("api_host_prefix"),
		AssetHostPrefix:     v.GetString("asset_host_prefix"),
		NewSignAlgorithm:    v.GetBool("new_sign_algorithm"),
		RequestTimeout:      v.GetDuration("request_timeout"),
		MaxRetryAttempts:    v.GetInt("max_retry_attempts"),
		RetryInitialBackoff: v.GetDuration("retry_initial_backoff"),
		RequestsPerSecond:   v.GetFloat64("requests_per_second"),
		LogLevel:            v.GetString("log_level"),
		LogOutputFormat:     v.GetString("log_output_format"),
		HideSensitiveData:   v.GetBool("hide_sensitive_data"),
	}

	config.SetDefaults()
	if err := validateClientConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
