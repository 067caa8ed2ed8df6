package session

import (
	"errors"
	"fmt"
)

var (
	ErrNotConnected = errors.New("session: not connected")
	ErrNotFound     = errors.New("session: not found")
	ErrExists       = errors.New("session: already registered")
)

// SequenceGapError reports inbound numbers that were skipped.
type SequenceGapError struct {
	Expected int
	Received int
}

func (e *SequenceGapError) Error() string {
	return fmt.Sprintf("session: sequence gap, expected %d received %d", e.Expected, e.Received)
}

// SequenceTooLowError reports an inbound number below the expected one
// without PossDupFlag.
type SequenceTooLowError struct {
	Expected int
	Received int
}

func (e *SequenceTooLowError) Error() string {
	return fmt.Sprintf("MsgSeqNum too low, expecting %d but received %d", e.Expected, e.Received)
}

// LogonError ends a logon attempt.
type LogonError struct {
	Reason string
}

func (e *LogonError) Error() string {
	return "session: logon failed: " + e.Reason
}

// TimeoutError reports an expired logon, logout or test request deadline.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return "session: " + e.Op + " timed out"
}
