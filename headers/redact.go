// headers/redact.go
package headers

import (
	"fmt"
	"sort"
	"strings"
)

// sensitiveHeaders are the header names whose values never belong in logs.
var sensitiveHeaders = map[string]bool{
	HeaderSign:        true,
	HeaderAccessToken: true,
}

// RedactSensitiveHeaderData redacts sensitive header values based on the
// hideSensitiveData flag.
func RedactSensitiveHeaderData(hideSensitiveData bool, name, value string) string {
	if hideSensitiveData && sensitiveHeaders[name] {
		return "REDACTED"
	}
	return value
}

// HeadersToString renders a header map for debug logging, one header per
// line, names sorted so output is stable.
func HeadersToString(headers map[string]string, hideSensitiveData bool) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %s", name, RedactSensitiveHeaderData(hideSensitiveData, name, headers[name])))
	}
	return strings.Join(lines, "\n")
}
