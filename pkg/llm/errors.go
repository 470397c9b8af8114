package llm

import (
	"fmt"

	"github.com/pkg/errors"
)

// GenerationError means the remote call could not complete: network, auth,
// rate limiting, cancellation or an empty reply.
type GenerationError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *GenerationError) Error() (msg string) {
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s generation failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
		return msg
	}
	msg = fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
	return msg
}

// Unwrap supports errors.Is and errors.As.
func (e *GenerationError) Unwrap() (err error) {
	err = e.Err
	return err
}

// Cause supports errors.Cause from github.com/pkg/errors.
func (e *GenerationError) Cause() (err error) {
	err = e.Err
	return err
}

// IsGenerationError reports whether err, or anything it wraps, is a GenerationError.
func IsGenerationError(err error) (ok bool) {
	var genErr *GenerationError
	ok = errors.As(err, &genErr)
	return ok
}
