package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnknownCommand", ErrUnknownCommand},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrPlayerUnresolved", ErrPlayerUnresolved},
		{"ErrBinarySave", ErrBinarySave},
		{"ErrParse", ErrParse},
		{"ErrStructural", ErrStructural},
		{"ErrSectionNotFound", ErrSectionNotFound},
		{"ErrEmpireNotFound", ErrEmpireNotFound},
		{"ErrTimeout", ErrTimeout},
		{"ErrSerialization", ErrSerialization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestTypedErrors_MatchSentinels tests errors.Is through wrapping
func TestTypedErrors_MatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		kind     string
	}{
		{"parse", &ParseError{Offset: 12, Msg: "unterminated string"}, ErrParse, KindParse},
		{"structural", &StructuralError{Offset: 3, Section: "war"}, ErrStructural, KindStructural},
		{"section", &SectionNotFoundError{Section: "leaders"}, ErrSectionNotFound, KindSectionNotFound},
		{"empire", &EmpireNotFoundError{Name: "Nobody"}, ErrEmpireNotFound, KindEmpireNotFound},
		{"timeout", &TimeoutError{After: time.Second}, ErrTimeout, KindTimeout},
		{"serialization", &SerializationError{Msg: "bad json"}, ErrSerialization, KindSerialization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.Equal(t, tt.kind, ErrorKind(wrapped))
		})
	}
}

// TestErrorKind_Fallbacks tests kinds for plain and context errors
func TestErrorKind_Fallbacks(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, KindInternal, ErrorKind(errors.New("boom")))
	assert.Equal(t, KindTimeout, ErrorKind(context.DeadlineExceeded))
	assert.Equal(t, KindCanceled, ErrorKind(context.Canceled))
	assert.Equal(t, KindInvalidInput, ErrorKind(fmt.Errorf("x: %w", ErrUnsupportedFormat)))
}

// TestRetryable tests which failures are safe to retry
func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(&TimeoutError{After: time.Second}))
	assert.True(t, Retryable(context.Canceled))
	assert.False(t, Retryable(&ParseError{Offset: 1}))
	assert.False(t, Retryable(ErrInvalidInput))
}

// TestErrorOffset tests offset extraction
func TestErrorOffset(t *testing.T) {
	off, ok := ErrorOffset(fmt.Errorf("wrap: %w", &StructuralError{Offset: 42}))
	require.True(t, ok)
	assert.Equal(t, 42, off)

	_, ok = ErrorOffset(ErrNotFound)
	assert.False(t, ok)
}

// TestParseError_Message tests the section is named when known
func TestParseError_Message(t *testing.T) {
	assert.Equal(t, "parse error at offset 5: bad", (&ParseError{Offset: 5, Msg: "bad"}).Error())
	assert.Equal(t, "parse error in war at offset 5: bad", (&ParseError{Offset: 5, Section: "war", Msg: "bad"}).Error())
}

// TestNewErrorBody tests the wire rendering of errors
func TestNewErrorBody(t *testing.T) {
	body := NewErrorBody(&ParseError{Offset: 7, Msg: "bad number"})
	assert.Equal(t, KindParse, body.Kind)
	require.NotNil(t, body.Offset)
	assert.Equal(t, 7, *body.Offset)
	assert.False(t, body.Retryable)

	body = NewErrorBody(&TimeoutError{After: time.Second})
	assert.Nil(t, body.Offset)
	assert.True(t, body.Retryable)
}
