package request

import (
	"errors"
	"fmt"
)

// InputError is a malformed or missing input. It is the only error the
// engine reports; no-match outcomes are results, not errors.
type InputError struct {
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// IsInputError reports whether err is or wraps an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// ErrorObject is the structured error returned in place of a result.
type ErrorObject struct {
	Error string `json:"error" yaml:"error"`
}

// ErrorObjectFrom wraps err for serialization.
func ErrorObjectFrom(err error) ErrorObject {
	return ErrorObject{Error: err.Error()}
}
