package source

import "fmt"

// TransportError is the only failure the job source client reports. Network
// failures, non-2xx statuses and malformed bodies all map to it; Status is
// informational and 0 when no response was read.
type TransportError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

func networkErr(op string, err error) *TransportError {
	return &TransportError{Op: op, Message: err.Error(), Err: err}
}

func malformed(op string, format string, args ...any) *TransportError {
	return &TransportError{Op: op, Message: "malformed response: " + fmt.Sprintf(format, args...)}
}
