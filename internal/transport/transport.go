package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrUnsupportedScheme is returned for URLs the opener cannot retrieve.
var ErrUnsupportedScheme = errors.New("unsupported url scheme")

// ErrBodyTooLarge is returned by a body reader once the size limit is exceeded.
var ErrBodyTooLarge = errors.New("response body too large")

// Opener opens an absolute URL as a byte stream. Callers must close the stream.
type Opener interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Transient reports whether the status may succeed on retry.
func (e *StatusError) Transient() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
