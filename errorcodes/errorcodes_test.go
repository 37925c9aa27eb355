// errorcodes_test.go
package errorcodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{
			name: "known code",
			code: CodeTokenInvalid,
			want: "access token is invalid or has expired",
		},
		{
			name: "configuration code",
			code: CodeConfigurationMissing,
			want: "client credentials are not configured",
		},
		{
			name: "unknown code falls back",
			code: "999999",
			want: "unrecognized platform error code 999999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lookup(tt.code))
		})
	}
}
