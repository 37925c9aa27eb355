// canonical.go
package signer

import (
	"sort"
	"strings"
)

// Query is the query component of a request before canonicalisation. Exactly
// two concrete kinds exist: Raw for preassembled query strings and Params for
// key/value maps. A nil Query means the request carries no query at all.
//
// No percent-encoding is applied here. The canonical suffix is folded into
// the signature exactly as produced, so any encoding has to happen before
// the request is signed.
type Query interface {
	canonicalSuffix() string
}

// Raw is a preassembled query string. A leading "?" is added once if missing.
type Raw string

func (r Raw) canonicalSuffix() string {
	if r == "" {
		return ""
	}
	if strings.HasPrefix(string(r), "?") {
		return string(r)
	}
	return "?" + string(r)
}

// Params is a key/value query map. Keys are sorted lexicographically because
// the platform signature contract demands alphabetical key order.
type Params map[string]string

// canonicalSuffix joins the sorted pairs as "?k=v&k=v". An empty map yields a
// bare "?": the suffix is part of the signed string, so it is preserved
// rather than dropped.
func (p Params) canonicalSuffix() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+p[k])
	}
	return "?" + strings.Join(pairs, "&")
}

// CanonicalPath appends the canonical query suffix to path. The result is both
// what gets signed and what gets sent, byte for byte.
func CanonicalPath(path string, query Query) string {
	if query == nil {
		return path
	}
	return path + query.canonicalSuffix()
}
