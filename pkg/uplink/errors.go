package uplink

import (
	"errors"
	"fmt"
)

// Kind classifies why an upload failed
type Kind int

const (
	// KindTimeout means the abort timer fired before the server answered
	KindTimeout Kind = iota + 1
	// KindTransport means the request never produced a response
	KindTransport
	// KindStatus means the server answered with a non-2xx status
	KindStatus
	// KindRejected means a 2xx answer reported success=false
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindRejected:
		return "rejected"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ErrTimeout is matched by errors.Is for every KindTimeout error
var ErrTimeout = errors.New("Uplink timed out: the cloud cluster did not respond in time.")

const defaultRejectedMessage = "Uplink to storage failed."

// Error is returned by every failed upload
type Error struct {
	Kind    Kind
	Status  int // HTTP status for KindStatus and KindRejected
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func timeoutError() *Error {
	return &Error{Kind: KindTimeout, Message: ErrTimeout.Error(), Err: ErrTimeout}
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: "upload failed: " + err.Error(), Err: err}
}

func statusError(status int, serverMsg string) *Error {
	msg := serverMsg
	if msg == "" {
		msg = fmt.Sprintf("HTTP status %d", status)
	}
	return &Error{Kind: KindStatus, Status: status, Message: msg}
}

func rejectedError(status int, serverMsg string) *Error {
	msg := serverMsg
	if msg == "" {
		msg = defaultRejectedMessage
	}
	return &Error{Kind: KindRejected, Status: status, Message: msg}
}

// IsKind reports whether err is an upload Error of kind k
func IsKind(err error, k Kind) bool {
	var ue *Error
	return errors.As(err, &ue) && ue.Kind == k
}

// OrphanError means the object was stored but registering the submission
// failed, so nothing references URL.
type OrphanError struct {
	URL string
	Err error
}

func (e *OrphanError) Error() string {
	return fmt.Sprintf("stored %s but failed to register submission: %v", e.URL, e.Err)
}

func (e *OrphanError) Unwrap() error {
	return e.Err
}
