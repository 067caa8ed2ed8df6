package session

import (
	"errors"
	"fmt"

	"fixengine/internal/fix"
)

//go:generate mockgen -source=application.go -destination=mock/application.go

// Application receives session events and messages. FromAdmin and FromApp may
// refuse a message by returning a MessageRejectError.
type Application interface {
	OnCreate(id fix.SessionID)
	OnLogon(id fix.SessionID)
	OnLogout(id fix.SessionID)
	ToAdmin(msg *fix.Message, id fix.SessionID)
	ToApp(msg *fix.Message, id fix.SessionID) error
	FromAdmin(msg *fix.Message, id fix.SessionID) MessageRejectError
	FromApp(msg *fix.Message, id fix.SessionID) MessageRejectError
}

// EarlyInterceptor is implemented by applications that want to see inbound
// traffic before validation.
type EarlyInterceptor interface {
	// FromEvenEarlierIntercept may rewrite the raw frame before it is decoded.
	// Any change invalidates BodyLength and CheckSum; use it for diagnostics only.
	FromEvenEarlierIntercept(raw string, id fix.SessionID) string
	// FromEarlyIntercept sees the decoded message after checksum verification
	// and before sequence and dictionary checks.
	FromEarlyIntercept(msg *fix.Message, id fix.SessionID)
}

// ErrorHandler is implemented by applications that want every session failure.
type ErrorHandler interface {
	OnError(id fix.SessionID, err error)
}

// ErrDoNotSend returned from ToApp drops the message. During a resend the slot
// is gap filled instead.
var ErrDoNotSend = errors.New("session: do not send")

// MessageRejectError refuses an inbound message.
type MessageRejectError interface {
	error
	RejectReason() int
	RefTagID() fix.Tag
	IsBusinessReject() bool
	// IsLogonReject answers with a Logout and drops the connection instead
	// of sending a Reject.
	IsLogonReject() bool
}

type messageRejectError struct {
	text     string
	reason   int
	refTagID fix.Tag
	business bool
	logon    bool
}

func (e messageRejectError) Error() string          { return e.text }
func (e messageRejectError) RejectReason() int      { return e.reason }
func (e messageRejectError) RefTagID() fix.Tag      { return e.refTagID }
func (e messageRejectError) IsBusinessReject() bool { return e.business }
func (e messageRejectError) IsLogonReject() bool    { return e.logon }

// NewMessageRejectError answers with a session level Reject (35=3).
// refTagID may be zero.
func NewMessageRejectError(text string, reason int, refTagID fix.Tag) MessageRejectError {
	return messageRejectError{text: text, reason: reason, refTagID: refTagID}
}

// NewBusinessMessageRejectError answers with a BusinessMessageReject (35=j).
func NewBusinessMessageRejectError(text string, reason int, refTagID fix.Tag) MessageRejectError {
	return messageRejectError{text: text, reason: reason, refTagID: refTagID, business: true}
}

// RejectLogon refuses a Logon, or ends a logged on session when returned for
// any other message. The peer receives a Logout carrying text.
func RejectLogon(text string) MessageRejectError {
	return messageRejectError{text: text, logon: true}
}

func UnsupportedMessageType() MessageRejectError {
	return NewBusinessMessageRejectError("Unsupported Message Type", fix.BusinessRejectUnsupportedMessageType, 0)
}

func RequiredTagMissing(t fix.Tag) MessageRejectError {
	return NewMessageRejectError(fmt.Sprintf("Required tag missing: %d", t), fix.RejectRequiredTagMissing, t)
}

func ValueIsIncorrect(t fix.Tag) MessageRejectError {
	return NewMessageRejectError(fmt.Sprintf("Value is incorrect (out of range) for this tag: %d", t), fix.RejectValueIncorrect, t)
}
