package errs

import (
	"errors"
	"fmt"
)

// Kind is the closed taxonomy of language-level error categories
// spec.md §7 names. Every built-in error class the VM raises against
// maps to exactly one Kind; a user-defined error class subclasses one
// of these by inheriting from its built-in class rather than by
// introducing a new Kind.
type Kind uint8

const (
	// RuntimeError covers arithmetic type mismatch, stack overflow,
	// wrong arity, and undefined-variable failures.
	RuntimeError Kind = iota
	// PropertyError covers access to an undeclared instance field.
	PropertyError
	// MethodNotFoundError covers Invoke/SuperInvoke against a name no
	// class in the receiver's chain defines.
	MethodNotFoundError
	// ImportError covers a module path the loader could not resolve.
	ImportError
	// ExportError covers re-exporting a name already exported, or
	// exporting a name with no matching declared symbol.
	ExportError
	// IoError covers host I/O failures surfaced to native code.
	IoError
	// SyntaxError covers compile-time and runtime (e.g. regexp)
	// source-text failures.
	SyntaxError
)

func (k Kind) String() string {
	switch k {
	case RuntimeError:
		return "RuntimeError"
	case PropertyError:
		return "PropertyError"
	case MethodNotFoundError:
		return "MethodNotFoundError"
	case ImportError:
		return "ImportError"
	case ExportError:
		return "ExportError"
	case IoError:
		return "IoError"
	case SyntaxError:
		return "SyntaxError"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// LangError is the Go-level carrier for a language error raised
// outside the VM's frame-aware unwind path — compiler diagnostics,
// module-loader failures, native I/O failures — anywhere a package
// needs to signal a §7 taxonomy failure as a plain Go error before the
// VM lifts it into a raised Instance of the matching built-in class.
// Grounded on internal/repair/errors.go's Message/Cause/Unwrap struct
// shape, narrowed to a single Kind field instead of that package's
// per-struct-type taxonomy.
type LangError struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *LangError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *LangError) Unwrap() error { return e.Cause }

// New constructs a LangError with no wrapped cause.
func New(kind Kind, message string) *LangError {
	return &LangError{Kind: kind, Message: message}
}

// Newf constructs a LangError with a formatted message.
func Newf(kind Kind, format string, args ...any) *LangError {
	return &LangError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs a LangError carrying cause as its Unwrap target.
func Wrap(kind Kind, cause error, message string) *LangError {
	return &LangError{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is a LangError of the given Kind, unwrapping
// through any wrapped causes per errors.As semantics.
func Is(err error, kind Kind) bool {
	var le *LangError
	if !errors.As(err, &le) {
		return false
	}
	return le.Kind == kind
}
