package sexp

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnterminatedString = errors.New("unterminated string")
	ErrUnterminatedSymbol = errors.New("unterminated symbol")
	ErrOverflow           = errors.New("numeric overflow")
	ErrSyntax             = errors.New("parse error")
	ErrNoMemory           = errors.New("out of memory")
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrNotString          = errors.New("value is not a string")
	ErrImproperList       = errors.New("improper list")
)

// ParseError is returned by a Parser when input could not be read.
// Offset is the index into the buffer being read when the failure was
// noticed; Pos counts bytes since the session began.
type ParseError struct {
	Err    error
	Offset int
	Pos    int64
	Token  string
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%v at position %d: %q", e.Err, e.Pos, e.Token)
	}
	return fmt.Sprintf("%v at position %d", e.Err, e.Pos)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
