package filter

import (
	"errors"
	"fmt"
)

// Error is a structural filter error. Structural errors abort compilation;
// no part of the filter is applied.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Token is the offending fragment of the filter, when one is known.
	Token string
}

// ErrorCode categorizes filter errors.
type ErrorCode string

const (
	// ErrCodeMalformed indicates unbalanced parentheses or an unparseable pair.
	ErrCodeMalformed ErrorCode = "MALFORMED_FILTER"

	// ErrCodeAmbiguous indicates AND and OR mixed at one level without grouping.
	ErrCodeAmbiguous ErrorCode = "AMBIGUOUS_EXPRESSION"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s: %s (near %q)", e.Code, e.Message, e.Token)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMalformed returns true if err is a MalformedFilter error.
// Uses errors.As to handle wrapped errors.
func IsMalformed(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code == ErrCodeMalformed
	}
	return false
}

// IsAmbiguous returns true if err is an AmbiguousExpression error.
// Uses errors.As to handle wrapped errors.
func IsAmbiguous(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code == ErrCodeAmbiguous
	}
	return false
}

// NewMalformedError creates an Error for a structurally broken filter.
func NewMalformedError(message, token string) *Error {
	return &Error{Code: ErrCodeMalformed, Message: message, Token: token}
}

// NewAmbiguousError creates an Error for mixed combinators at one level.
func NewAmbiguousError(token string) *Error {
	return &Error{
		Code:    ErrCodeAmbiguous,
		Message: "mixed AND/OR without grouping",
		Token:   token,
	}
}
