package errors

// HTTPError is an error that already knows how it is rendered to an HTTP client.
type HTTPError struct {
	Code       int
	Message    string
	StatusCode int
	Details    any
}

func NewHTTPError(statusCode int, code int, message string) *HTTPError {
	return &HTTPError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails returns a copy of e carrying details.
func (e *HTTPError) WithDetails(details any) *HTTPError {
	cp := *e
	cp.Details = details
	return &cp
}

func (e *HTTPError) Error() string {
	return e.Message
}
