package dictionary

import (
	"fmt"

	"fixengine/internal/fix"
)

type Kind int

const (
	MissingRequiredField Kind = iota + 1
	UnknownField
	FieldOutOfOrder
	InvalidValue
	RepeatingGroupCountMismatch
	UnsupportedMessageType
	DuplicateField
)

func (k Kind) String() string {
	switch k {
	case MissingRequiredField:
		return "MissingRequiredField"
	case UnknownField:
		return "UnknownField"
	case FieldOutOfOrder:
		return "FieldOutOfOrder"
	case InvalidValue:
		return "InvalidValue"
	case RepeatingGroupCountMismatch:
		return "RepeatingGroupCountMismatch"
	case UnsupportedMessageType:
		return "UnsupportedMessageType"
	case DuplicateField:
		return "DuplicateField"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Violation is the first problem found in a message. RejectReason is the
// SessionRejectReason (373) to send back.
type Violation struct {
	Kind         Kind
	Tag          fix.Tag
	MsgType      string
	Reason       string
	RejectReason int
}

func (v *Violation) Error() string {
	if v.Tag == 0 {
		return fmt.Sprintf("dictionary: msg_type=%s %s: %s", v.MsgType, v.Kind, v.Reason)
	}
	return fmt.Sprintf("dictionary: msg_type=%s tag=%d %s: %s", v.MsgType, v.Tag, v.Kind, v.Reason)
}

func (v *Violation) Is(target error) bool {
	t, ok := target.(*Violation)
	return ok && t.Kind == v.Kind
}

func violation(kind Kind, t fix.Tag, msgType string, code int, reason string) *Violation {
	return &Violation{Kind: kind, Tag: t, MsgType: msgType, Reason: reason, RejectReason: code}
}
