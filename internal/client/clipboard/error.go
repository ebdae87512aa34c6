package clipboard

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tags a clipboard failure so downstream logic never matches on
// message text.
type Kind int

const (
	// KindUnknown covers conditions we cannot classify. Treated as
	// transient: an unknown failure must never revoke a grant.
	KindUnknown Kind = iota

	// KindDenied is a hard permission denial by the user or platform policy.
	KindDenied

	// KindUnavailable is a transient condition (display briefly gone,
	// utility timed out). Recoverable by the next trigger.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindDenied:
		return "denied"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error is a classified clipboard failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("clipboard %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from err, or KindUnknown if err is not a
// clipboard error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// Classifier maps raw utility output to a Kind. The patterns are data, not
// code: platforms word their errors differently and the wording changes, so
// deployments can override the defaults. Anything matching neither list is
// KindUnknown, which callers must treat as transient.
type Classifier struct {
	DeniedPatterns    []string
	TransientPatterns []string
}

// DefaultClassifier returns the pattern tables for the clipboard utilities
// we shell out to.
func DefaultClassifier() *Classifier {
	return &Classifier{
		DeniedPatterns: []string{
			"not authorized",
			"permission denied",
			"access denied",
			"not allowed",
		},
		TransientPatterns: []string{
			"cannot open display",
			"could not connect",
			"no display",
			"not focused",
			"device not configured",
			"timed out",
			"temporarily unavailable",
		},
	}
}

// Classify wraps err (with the utility's stderr appended for context) into a
// tagged *Error. Ambiguous output — matching both tables or neither — is
// classified transient/unknown, never denied, to avoid false lockouts.
func (c *Classifier) Classify(op string, err error, detail string) *Error {
	combined := strings.ToLower(err.Error() + " " + detail)

	denied := matchesAny(combined, c.DeniedPatterns)
	transient := matchesAny(combined, c.TransientPatterns)

	kind := KindUnknown
	switch {
	case denied && !transient:
		kind = KindDenied
	case transient:
		kind = KindUnavailable
	}

	wrapped := err
	if detail != "" {
		wrapped = fmt.Errorf("%w: %s", err, strings.TrimSpace(detail))
	}
	return &Error{Kind: kind, Op: op, Err: wrapped}
}

func matchesAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
