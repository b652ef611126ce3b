package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedModelOutput means the reply could not be parsed as a JSON
	// object, even after stripping code fences.
	ErrMalformedModelOutput = errors.New("malformed model output")

	// ErrIncompleteModelOutput means the reply parsed but lacks a required key.
	// The concrete error is *IncompleteOutputError.
	ErrIncompleteModelOutput = errors.New("incomplete model output")
)

// IncompleteOutputError names the first required key missing from the reply.
type IncompleteOutputError struct {
	Key string
}

func (e *IncompleteOutputError) Error() string {
	return fmt.Sprintf("%s: missing key %q", ErrIncompleteModelOutput, e.Key)
}

// Is lets errors.Is match ErrIncompleteModelOutput.
func (e *IncompleteOutputError) Is(target error) bool {
	return target == ErrIncompleteModelOutput
}
