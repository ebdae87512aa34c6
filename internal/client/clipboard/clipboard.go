// Package clipboard provides access to the operating-system clipboard and a
// tagged error model for the ways that access can fail.
package clipboard

import "context"

// Clipboard abstracts platform-specific clipboard implementations.
type Clipboard interface {
	// ReadText reads text from the clipboard. Failures are returned as
	// *Error so callers can branch on Kind instead of message text.
	ReadText(ctx context.Context) (string, error)

	// WriteText copies text to the clipboard. Best-effort.
	WriteText(ctx context.Context, text string) error
}

// Availability describes how much of the clipboard the current platform
// exposes to this process.
type Availability int

const (
	// AvailFull means both read and write paths were resolved.
	AvailFull Availability = iota
	// AvailWriteOnly means content can be written but background reads are
	// impossible; the user must paste manually.
	AvailWriteOnly
	// AvailNone means no clipboard utility was found at all.
	AvailNone
)

func (a Availability) String() string {
	switch a {
	case AvailFull:
		return "full"
	case AvailWriteOnly:
		return "write-only"
	case AvailNone:
		return "none"
	default:
		return "unknown"
	}
}
