package gallery

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrTimeout marks requests aborted by their deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrMalformed marks 2xx responses whose body could not be understood.
	ErrMalformed = errors.New("malformed response")
)

// StatusError reports a non-2xx HTTP status.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// AppError reports a well-formed payload carrying success=false.
type AppError struct {
	Op      string
	Message string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return e.Op + " failed"
	}
	return e.Message
}

// IsTimeout reports whether err was caused by a request deadline.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsNetwork reports whether err happened before any HTTP response arrived.
func IsNetwork(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	var appErr *AppError
	if errors.As(err, &statusErr) || errors.As(err, &appErr) || errors.Is(err, ErrMalformed) {
		return false
	}
	return true
}
