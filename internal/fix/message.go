package fix

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Message is a FIX message split into header, body and trailer.
type Message struct {
	Header  FieldMap
	Body    FieldMap
	Trailer FieldMap

	// ReceiveTime is stamped by the session on receipt.
	ReceiveTime time.Time

	raw        []byte
	outOfOrder Tag
	// header and body field counts when outOfOrder was read
	lateHeader, lateBody int
}

func NewMessage(msgType string) *Message {
	m := &Message{}
	m.Header.Set(TagMsgType, msgType)
	return m
}

func (m *Message) MsgType() string {
	v, _ := m.Header.Get(TagMsgType)
	return v
}

func (m *Message) IsMsgTypeOf(msgType string) bool {
	return m.MsgType() == msgType
}

func (m *Message) IsAdmin() bool {
	return IsAdminMsgType(m.MsgType())
}

// SeqNum returns MsgSeqNum, or 0 when missing or malformed.
func (m *Message) SeqNum() int {
	n, err := m.Header.GetInt(TagMsgSeqNum)
	if err != nil {
		return 0
	}
	return n
}

// PossDup reports PossDupFlag=Y.
func (m *Message) PossDup() bool {
	v, _ := m.Header.GetBool(TagPossDupFlag)
	return v
}

// Raw returns the bytes the message was decoded from, if any.
func (m *Message) Raw() []byte {
	return m.raw
}

// OutOfOrderTag returns the first header tag seen after a body field, or 0.
func (m *Message) OutOfOrderTag() Tag {
	return m.outOfOrder
}

// OutOfOrderPos returns how many header and body fields preceded the tag
// reported by OutOfOrderTag.
func (m *Message) OutOfOrderPos() (header, body int) {
	return m.lateHeader, m.lateBody
}

// SessionID returns the session as seen by the sender of the message.
func (m *Message) SessionID() SessionID {
	begin, _ := m.Header.Get(TagBeginString)
	sender, _ := m.Header.Get(TagSenderCompID)
	target, _ := m.Header.Get(TagTargetCompID)
	return SessionID{BeginString: begin, SenderCompID: sender, TargetCompID: target}
}

// ReverseSessionID returns the session as seen by the receiver.
func (m *Message) ReverseSessionID() SessionID {
	return m.SessionID().Reverse()
}

func (m *Message) Copy() *Message {
	c := &Message{ReceiveTime: m.ReceiveTime, outOfOrder: m.outOfOrder, lateHeader: m.lateHeader, lateBody: m.lateBody}
	c.Header.copyFrom(&m.Header)
	c.Body.copyFrom(&m.Body)
	c.Trailer.copyFrom(&m.Trailer)
	if m.raw != nil {
		c.raw = append([]byte(nil), m.raw...)
	}
	return c
}

// String renders the message with '|' in place of SOH.
func (m *Message) String() string {
	if m.raw != nil {
		return string(bytes.ReplaceAll(m.raw, []byte{soh}, []byte{'|'}))
	}
	var b strings.Builder
	for _, fm := range []*FieldMap{&m.Header, &m.Body, &m.Trailer} {
		for _, f := range fm.fields {
			fmt.Fprintf(&b, "%d=%s|", f.Tag, f.Value)
		}
	}
	return b.String()
}

// SessionID identifies one logical session.
type SessionID struct {
	BeginString  string
	SenderCompID string
	TargetCompID string
	Qualifier    string
}

func (s SessionID) String() string {
	id := s.BeginString + ":" + s.SenderCompID + "->" + s.TargetCompID
	if s.Qualifier != "" {
		id += ":" + s.Qualifier
	}
	return id
}

func (s SessionID) Reverse() SessionID {
	return SessionID{
		BeginString:  s.BeginString,
		SenderCompID: s.TargetCompID,
		TargetCompID: s.SenderCompID,
		Qualifier:    s.Qualifier,
	}
}

func (s SessionID) IsZero() bool {
	return s == SessionID{}
}

// ParseSessionID parses the form produced by SessionID.String.
func ParseSessionID(v string) (SessionID, error) {
	colon := strings.Index(v, ":")
	if colon < 0 {
		return SessionID{}, fmt.Errorf("fix: invalid session id %q", v)
	}
	id := SessionID{BeginString: v[:colon]}
	rest := v[colon+1:]
	if q := strings.LastIndex(rest, ":"); q >= 0 {
		id.Qualifier = rest[q+1:]
		rest = rest[:q]
	}
	parts := strings.SplitN(rest, "->", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || id.BeginString == "" {
		return SessionID{}, fmt.Errorf("fix: invalid session id %q", v)
	}
	id.SenderCompID, id.TargetCompID = parts[0], parts[1]
	return id, nil
}
