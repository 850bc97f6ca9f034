package client

import "fmt"

// TransportError means no HTTP response was obtained: connection refused,
// DNS failure, timeout, or a short read of the body.
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("logseq API %s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError means the Logseq API answered with a non-2xx status. The body
// is kept verbatim; Logseq error payloads are free-form text.
type RemoteError struct {
	Method string
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("logseq API %s returned %d: %s", e.Method, e.Status, e.Body)
}
