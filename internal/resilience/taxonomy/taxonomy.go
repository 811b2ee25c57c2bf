// Package taxonomy classifies failures against a static error taxonomy.
package taxonomy

import (
	"strings"

	"github.com/motorline/gateway/internal/core/domain"
)

// Entry is one row of the static taxonomy table, keyed by a normalized
// provider error code.
type Entry struct {
	Code            string
	InternalMessage string
	UserMessage     string
	Severity        domain.Severity
	Retryable       bool
	Redirect        bool   // requires a sign-in redirect; mutually exclusive with Retryable
	FallbackKey     string // fallback registry key, empty if none
}

// providerPrefixes are namespace prefixes stripped from error codes before
// table lookup.
var providerPrefixes = []string{"firestore/", "auth/", "storage/"}

// table maps normalized codes to their taxonomy entries. Retryable entries
// never set Redirect: a failure that needs a sign-in cannot succeed by
// retrying.
var table = map[string]Entry{
	"permission-denied": {
		Code:            "permission-denied",
		InternalMessage: "caller lacks permission for the requested document",
		UserMessage:     "You don't have permission to perform this action.",
		Severity:        domain.SeverityHigh,
		Retryable:       false,
		FallbackKey:     "empty",
	},
	"unavailable": {
		Code:            "unavailable",
		InternalMessage: "backing store unreachable",
		UserMessage:     "Service unavailable. Please try again in a moment.",
		Severity:        domain.SeverityMedium,
		Retryable:       true,
		FallbackKey:     "cached",
	},
	"not-found": {
		Code:            "not-found",
		InternalMessage: "requested document does not exist",
		UserMessage:     "The requested item could not be found.",
		Severity:        domain.SeverityLow,
		Retryable:       false,
	},
	"already-exists": {
		Code:            "already-exists",
		InternalMessage: "document already exists",
		UserMessage:     "This item already exists.",
		Severity:        domain.SeverityLow,
		Retryable:       false,
	},
	"resource-exhausted": {
		Code:            "resource-exhausted",
		InternalMessage: "store quota or rate limit exceeded",
		UserMessage:     "Too many requests. Please wait a moment and try again.",
		Severity:        domain.SeverityHigh,
		Retryable:       true,
		FallbackKey:     "cached",
	},
	"unauthenticated": {
		Code:            "unauthenticated",
		InternalMessage: "request is missing valid credentials",
		UserMessage:     "Please sign in to continue.",
		Severity:        domain.SeverityHigh,
		Retryable:       false,
		Redirect:        true,
	},
}

// NormalizeCode strips known provider prefixes from an error code.
func NormalizeCode(code string) string {
	for _, p := range providerPrefixes {
		if strings.HasPrefix(code, p) {
			return strings.TrimPrefix(code, p)
		}
	}
	return code
}

// Lookup returns the taxonomy entry for a normalized code.
func Lookup(code string) (Entry, bool) {
	e, ok := table[code]
	return e, ok
}

// MapProviderError looks up a thrown value's provider code in the taxonomy
// table. Returns false for errors without a code and for unrecognized codes;
// the caller treats those as handled but unmapped (generic message, not
// retryable).
func MapProviderError(err error) (Entry, bool) {
	code := errorCode(err)
	if code == "" {
		return Entry{}, false
	}
	return Lookup(NormalizeCode(code))
}
