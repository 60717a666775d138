package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
)

// defaultPhrases are case-insensitive substrings that mark an error
// message as transient when type and code inspection are inconclusive.
var defaultPhrases = []string{
	"timeout",
	"timed out",
	"connection reset",
	"connection refused",
	"no such host",
	"network is unreachable",
	"temporarily unavailable",
	"too many requests",
	"service unavailable",
	"bad gateway",
	"unexpected eof",
}

// defaultCodes are system error codes treated as transient.
var defaultCodes = []syscall.Errno{
	syscall.ECONNRESET,
	syscall.ECONNREFUSED,
	syscall.ETIMEDOUT,
	syscall.EHOSTUNREACH,
	syscall.ENETUNREACH,
	syscall.EPIPE,
}

// Classifier decides whether a failure is transient and worth retrying.
// Classification runs in priority order - error type, then system error
// code, then message phrase - and the first match wins. An error matching
// nothing is treated as permanent so validation failures fail fast.
type Classifier struct {
	phrases []string
	codes   []syscall.Errno
}

// NewClassifier builds a classifier with the default transient sets plus
// any extra phrases from configuration. Extra phrases are matched
// case-insensitively as substrings.
func NewClassifier(extraPhrases ...string) *Classifier {
	phrases := make([]string, 0, len(defaultPhrases)+len(extraPhrases))
	phrases = append(phrases, defaultPhrases...)
	for _, p := range extraPhrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			phrases = append(phrases, p)
		}
	}
	return &Classifier{phrases: phrases, codes: defaultCodes}
}

// Retryable reports whether err is a transient failure.
func (c *Classifier) Retryable(err error) bool {
	if err == nil {
		return false
	}

	// Explicit domain markers override everything.
	if errors.Is(err, domain.ErrPermanent) {
		return false
	}
	if errors.Is(err, domain.ErrTransient) || errors.Is(err, domain.ErrRateLimited) {
		return true
	}

	// 1. Known-transient error types.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	// 2. Known-transient system error codes.
	var errno syscall.Errno
	if errors.As(err, &errno) {
		for _, code := range c.codes {
			if errno == code {
				return true
			}
		}
	}

	// 3. Message phrase fallback.
	msg := strings.ToLower(err.Error())
	for _, phrase := range c.phrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}

	return false
}
