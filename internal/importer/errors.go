package importer

import (
	"errors"
	"fmt"
)

// ErrEmptyInput signals an upload that decoded to zero lines. Callers turn it
// into a zero-created response with the empty-file message, not a failure.
var ErrEmptyInput = errors.New("empty input")

// DecodeError signals a blob that could not be decoded as delimited text.
// It is unrecoverable: the whole request fails.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode failed: %s: %v", e.Reason, e.Err)
	}
	return "decode failed: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EventCreationError signals a storage failure while materializing missing
// events. The whole import is aborted and rolled back.
type EventCreationError struct {
	Err error
}

func (e *EventCreationError) Error() string { return "event creation failed: " + e.Err.Error() }
func (e *EventCreationError) Unwrap() error { return e.Err }

// WriteError signals a storage failure during the final batch write. The whole
// batch is rolled back; nothing is partially committed.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return "batch write failed: " + e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }
