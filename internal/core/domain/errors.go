package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownCommand indicates a request named a command nobody handles.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUnsupportedFormat indicates an output format the command cannot produce.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrPlayerUnresolved indicates the document carries no player entry
	// and no player id was supplied.
	ErrPlayerUnresolved = errors.New("player not resolved")

	// ErrBinarySave indicates a binary (ironman) save, which cannot be read as text.
	ErrBinarySave = errors.New("binary save format")

	// Parsing Errors.

	// ErrParse indicates a lexical failure in save text.
	ErrParse = errors.New("parse error")

	// ErrStructural indicates an unbalanced or malformed block.
	ErrStructural = errors.New("structural error")

	// Extraction Errors.

	// ErrSectionNotFound indicates a requested section is absent from the document.
	ErrSectionNotFound = errors.New("section not found")

	// ErrEmpireNotFound indicates no empire matched a lookup.
	// Lookups report this as found=false rather than failing.
	ErrEmpireNotFound = errors.New("empire not found")

	// Boundary Errors.

	// ErrTimeout indicates a request exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrSerialization indicates an envelope could not be encoded or decoded.
	ErrSerialization = errors.New("serialization error")
)

// ParseError is a lexical failure at a byte offset.
type ParseError struct {
	Offset  int
	Section string
	Msg     string
}

func (e *ParseError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("parse error in %s at offset %d: %s", e.Section, e.Offset, e.Msg)
	}
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Msg)
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// StructuralError is an unbalanced brace or a malformed block.
// Offset points at the unmatched token.
type StructuralError struct {
	Offset  int
	Section string
	Msg     string
}

func (e *StructuralError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("structural error in %s at offset %d: %s", e.Section, e.Offset, e.Msg)
	}
	return fmt.Sprintf("structural error at offset %d: %s", e.Offset, e.Msg)
}

// Is reports whether target is ErrStructural.
func (e *StructuralError) Is(target error) bool { return target == ErrStructural }

// SectionNotFoundError names the missing section.
type SectionNotFoundError struct {
	Section string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section not found: %s", e.Section)
}

// Is reports whether target is ErrSectionNotFound.
func (e *SectionNotFoundError) Is(target error) bool { return target == ErrSectionNotFound }

// EmpireNotFoundError names the empire that did not match.
type EmpireNotFoundError struct {
	Name string
}

func (e *EmpireNotFoundError) Error() string {
	return fmt.Sprintf("empire not found: %q", e.Name)
}

// Is reports whether target is ErrEmpireNotFound.
func (e *EmpireNotFoundError) Is(target error) bool { return target == ErrEmpireNotFound }

// TimeoutError is returned by the boundary when a request runs past its deadline.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.After)
}

// Is reports whether target is ErrTimeout or context.DeadlineExceeded.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == context.DeadlineExceeded
}

// SerializationError wraps an envelope encode or decode failure.
type SerializationError struct {
	Msg string
	Err error
}

func (e *SerializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("serialization error: %s: %v", e.Msg, e.Err)
	}
	return "serialization error: " + e.Msg
}

// Unwrap returns the underlying codec error.
func (e *SerializationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrSerialization.
func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }

// Error kinds as they appear on the wire.
const (
	KindParse           = "ParseError"
	KindStructural      = "StructuralError"
	KindSectionNotFound = "SectionNotFoundError"
	KindEmpireNotFound  = "EmpireNotFoundError"
	KindTimeout         = "TimeoutError"
	KindSerialization   = "SerializationError"
	KindInvalidInput    = "InvalidInput"
	KindNotFound        = "NotFound"
	KindUnknownCommand  = "UnknownCommand"
	KindPlayer          = "PlayerUnresolved"
	KindBinarySave      = "BinarySave"
	KindCanceled        = "Canceled"
	KindInternal        = "InternalError"
)

// ErrorKind maps an error to its wire name.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrStructural):
		return KindStructural
	case errors.Is(err, ErrSectionNotFound):
		return KindSectionNotFound
	case errors.Is(err, ErrEmpireNotFound):
		return KindEmpireNotFound
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrSerialization):
		return KindSerialization
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupportedFormat):
		return KindInvalidInput
	case errors.Is(err, ErrUnknownCommand):
		return KindUnknownCommand
	case errors.Is(err, ErrPlayerUnresolved):
		return KindPlayer
	case errors.Is(err, ErrBinarySave):
		return KindBinarySave
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindInternal
	}
}

// Retryable reports whether resubmitting the same request may succeed.
// Extraction is a pure function of file bytes, so only boundary failures qualify.
func Retryable(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

// ErrorOffset returns the byte offset carried by parse and structural errors.
func ErrorOffset(err error) (int, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Offset, true
	}
	var se *StructuralError
	if errors.As(err, &se) {
		return se.Offset, true
	}
	return 0, false
}
