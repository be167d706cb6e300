package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDigit reports a digit outside the range accepted by the operation.
	ErrInvalidDigit = errors.New("invalid digit")
	// ErrInvalidCoordinate reports a row or column outside [0,8].
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrMalformedSave reports an encoded save that cannot be parsed.
	ErrMalformedSave = errors.New("malformed save")
	// ErrGameNotFound is returned by stores when a saved game does not exist.
	ErrGameNotFound = errors.New("saved game not found")
)

// DigitError describes a rejected digit.
type DigitError struct {
	Digit int
	Min   int
	Max   int
}

func (e DigitError) Error() string {
	return fmt.Sprintf("%s %d: must be in [%d,%d]", ErrInvalidDigit, e.Digit, e.Min, e.Max)
}

// Is lets errors.Is match ErrInvalidDigit.
func (e DigitError) Is(target error) bool { return target == ErrInvalidDigit }

// CoordinateError describes a rejected cell address.
type CoordinateError struct {
	Row int
	Col int
}

func (e CoordinateError) Error() string {
	return fmt.Sprintf("%s (%d,%d): row and column must be in [0,%d]", ErrInvalidCoordinate, e.Row, e.Col, GridSize-1)
}

// Is lets errors.Is match ErrInvalidCoordinate.
func (e CoordinateError) Is(target error) bool { return target == ErrInvalidCoordinate }

// MalformedSaveError pinpoints the token that broke decoding. Pos is the
// zero-based index of the token within the stream.
type MalformedSaveError struct {
	Field  string
	Pos    int
	Token  string
	Reason string
}

func (e MalformedSaveError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: %s at token %d: %s", ErrMalformedSave, e.Field, e.Pos, e.Reason)
	}
	return fmt.Sprintf("%s: %s at token %d (%q): %s", ErrMalformedSave, e.Field, e.Pos, e.Token, e.Reason)
}

// Is lets errors.Is match ErrMalformedSave.
func (e MalformedSaveError) Is(target error) bool { return target == ErrMalformedSave }
