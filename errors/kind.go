// Package errors defines the error taxonomy shared by every component of the
// FAT decoder: a small, closed set of sentinel [Kind] values that can be
// compared with the standard library's errors.Is, plus a wrapper type that
// attaches a human-readable message and/or an underlying cause.
//
// The shape is taken from github.com/dargueta/disko's errors package
// (DiskoError + WithMessage/WrapError), simplified to the handful of kinds
// spec.md §7 actually names.
package errors

import "fmt"

// Kind is a coarse category of failure, matching the taxonomy in spec.md §7.
type Kind string

const (
	// Configuration covers bad argument counts, unknown mode strings,
	// non-.img paths, and unsupported sector sizes.
	Configuration Kind = "configuration error"
	// IO covers open failures and short sector reads/writes.
	IO Kind = "I/O error"
	// Format covers an unreadable boot sector or an inconsistent BPB.
	Format Kind = "file system format error"
	// Resource covers allocation failures for the FAT table, sector
	// buffers, or node arena.
	Resource Kind = "resource error"
	// PathNotFound covers a path component that does not resolve.
	PathNotFound Kind = "no such file or directory"
	// NotADirectory covers a path that expected a directory component.
	NotADirectory Kind = "not a directory"
	// NotARegularFile covers an operation that requires a regular file.
	NotARegularFile Kind = "not a regular file"
	// ReadOnlyViolation covers a write attempted against a read-only mount.
	ReadOnlyViolation Kind = "read-only file system"
	// NotSupported covers extension points the decoder does not implement.
	NotSupported Kind = "not supported"
	// InvalidArgument covers malformed caller input that isn't a path.
	InvalidArgument Kind = "invalid argument"
)

// Error is a Kind carrying an optional message and/or wrapped cause.
type Error struct {
	kind    Kind
	message string
	cause   error
}

func (e *Error) Error() string {
	switch {
	case e.message != "" && e.cause != nil:
		return fmt.Sprintf("%s: %s: %s", e.kind, e.message, e.cause)
	case e.message != "":
		return fmt.Sprintf("%s: %s", e.kind, e.message)
	case e.cause != nil:
		return fmt.Sprintf("%s: %s", e.kind, e.cause)
	default:
		return string(e.kind)
	}
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is the same Kind this error carries, so that
// errors.Is(err, errors.PathNotFound) works without exposing *Error itself.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.kind
}

// Error implements the error interface for Kind itself, so a bare Kind can be
// returned or compared directly when no extra context is warranted.
func (k Kind) Error() string {
	return string(k)
}

// WithMessage returns an *Error of this Kind carrying a descriptive message.
func (k Kind) WithMessage(message string) *Error {
	return &Error{kind: k, message: message}
}

// WithMessagef is WithMessage with fmt.Sprintf-style formatting.
func (k Kind) WithMessagef(format string, args ...any) *Error {
	return &Error{kind: k, message: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error of this Kind wrapping an underlying cause.
func (k Kind) Wrap(cause error) *Error {
	return &Error{kind: k, cause: cause}
}
