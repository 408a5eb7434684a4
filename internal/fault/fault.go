// Package fault defines the structured error values returned by every
// installer stage. Stages never terminate the process; they return a
// *Error (usually wrapped) and the driver decides the exit status.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies an installer failure.
type Kind int

const (
	// KindUnknown is reported for errors that carry no fault classification.
	KindUnknown Kind = iota
	// KindUsage indicates bad or missing command-line arguments.
	KindUsage
	// KindEnvironment indicates a missing tool, unsupported host, or held lock.
	KindEnvironment
	// KindVersion indicates a version tag that fails the release pattern.
	KindVersion
	// KindNetwork indicates a failed fetch or download.
	KindNetwork
	// KindExtraction indicates a corrupt archive or failed extraction.
	KindExtraction
	// KindVerification indicates a checksum or signature mismatch.
	KindVerification
	// KindFilesystem indicates a failed move, mkdir, or write.
	KindFilesystem
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindEnvironment:
		return "environment"
	case KindVersion:
		return "version"
	case KindNetwork:
		return "network"
	case KindExtraction:
		return "extraction"
	case KindVerification:
		return "verification"
	case KindFilesystem:
		return "filesystem"
	default:
		return "unknown"
	}
}

// Error is a classified installer failure.
type Error struct {
	Kind    Kind
	Op      string // stage or operation, e.g. "resolve version"
	Message string
	// Hint is optional remediation advice printed after the error.
	Hint string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a fault with no underlying cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap returns a fault wrapping cause.
func Wrap(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: cause}
}

// WithHint sets the remediation hint and returns the same fault.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// KindOf returns the kind of the first fault in err's chain.
func KindOf(err error) Kind {
	var f *Error
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}

// HintOf returns the first non-empty hint in err's chain.
func HintOf(err error) string {
	for err != nil {
		var f *Error
		if !errors.As(err, &f) {
			return ""
		}
		if f.Hint != "" {
			return f.Hint
		}
		err = f.Err
	}
	return ""
}

// Is reports whether err carries a fault of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
