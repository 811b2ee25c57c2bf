package taxonomy

import (
	"errors"
	"net"
	"strings"

	"github.com/motorline/gateway/internal/core/domain"
)

// ProviderError is the error shape the backing document store surfaces: a
// namespaced code plus a message. Absence of a code routes classification to
// the network/unknown paths.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

// ImageLoadError marks a failed image resource load.
type ImageLoadError struct {
	URL string
}

func (e *ImageLoadError) Error() string {
	return "image failed to load: " + e.URL
}

// Classification is the result of categorizing a thrown value.
type Classification struct {
	Kind      domain.ErrorKind
	Severity  domain.Severity
	Message   string
	Retryable bool
	Entry     *Entry // set only for mapped provider errors
}

// User-facing messages for the non-tabled categories.
const (
	msgGenericStore = "Something went wrong. Please try again."
	msgNetwork      = "Network connection problem. Check your connection and try again."
	msgImage        = "Some images could not be loaded."
	msgUnknown      = "An unexpected error occurred. Please try again."
)

// Categorize assigns a thrown value to a taxonomy category. It is total:
// every input, including nil and shapeless values, resolves to a
// classification, and it never panics. Detection order is fixed and first
// match wins: provider code, network shape, image load, unknown. An error
// that carries a recognizable provider code is always classified as a store
// error even if it also looks network-shaped.
func Categorize(err error) Classification {
	if err == nil {
		return Classification{
			Kind:     domain.KindUnknown,
			Severity: domain.SeverityHigh,
			Message:  msgUnknown,
		}
	}

	if code := errorCode(err); code != "" {
		if entry, ok := Lookup(NormalizeCode(code)); ok {
			return Classification{
				Kind:      domain.KindStore,
				Severity:  entry.Severity,
				Message:   entry.UserMessage,
				Retryable: entry.Retryable,
				Entry:     &entry,
			}
		}
		// Unrecognized provider code: handled but unmapped.
		return Classification{
			Kind:     domain.KindStore,
			Severity: domain.SeverityMedium,
			Message:  msgGenericStore,
		}
	}

	if isNetworkError(err) {
		return Classification{
			Kind:      domain.KindNetwork,
			Severity:  domain.SeverityMedium,
			Message:   msgNetwork,
			Retryable: true,
		}
	}

	var imgErr *ImageLoadError
	if errors.As(err, &imgErr) || strings.Contains(strings.ToLower(err.Error()), "image") {
		return Classification{
			Kind:     domain.KindImage,
			Severity: domain.SeverityLow,
			Message:  msgImage,
		}
	}

	msg := err.Error()
	if msg == "" {
		msg = msgUnknown
	}
	return Classification{
		Kind:     domain.KindUnknown,
		Severity: domain.SeverityHigh,
		Message:  msg,
	}
}

// errorCode extracts the provider code from an error, if it carries one.
func errorCode(err error) string {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Code
	}
	var coder interface{ Code() string }
	if errors.As(err, &coder) {
		return coder.Code()
	}
	return ""
}

var networkPatterns = []string{
	"failed to fetch",
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"timeout",
	"timed out",
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range networkPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
