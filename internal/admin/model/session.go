package model

import "time"

type LogoutRequest struct {
	Reason string `json:"reason"`
}

type SetSequences struct {
	NextSender int `json:"nextSender" validate:"gte=0"`
	NextTarget int `json:"nextTarget" validate:"gte=0"`
}

type MessagesQuery struct {
	From int `form:"from" validate:"gte=0"`
	To   int `form:"to" validate:"gte=0"`
}

// StoredMessage is an outbound message as kept for resend, with SOH shown as '|'.
type StoredMessage struct {
	SeqNum    int       `json:"seqNum"`
	MsgType   string    `json:"msgType"`
	Raw       string    `json:"raw"`
	Timestamp time.Time `json:"timestamp"`
}
