package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrConfigurationNotFound = errors.New("configuration not found")

// RemoteError reports a failed call to the ticket service, either a transport
// failure (StatusCode 0) or a non-2xx response.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
	}

	msg := fmt.Sprintf("remote %s: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
