package gateway

import (
	"github.com/shopspring/decimal"
)

// OrderEvent is an inbound order message as published to Kafka.
type OrderEvent struct {
	Session      string           `json:"session"`
	MsgType      string           `json:"msgType"`
	SeqNum       int              `json:"seqNum"`
	ClOrdID      string           `json:"clOrdID"`
	OrigClOrdID  string           `json:"origClOrdID,omitempty"`
	Account      string           `json:"account,omitempty"`
	Symbol       string           `json:"symbol,omitempty"`
	Side         string           `json:"side,omitempty"`
	OrdType      string           `json:"ordType,omitempty"`
	OrderQty     *decimal.Decimal `json:"orderQty,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	TimeInForce  string           `json:"timeInForce,omitempty"`
	TransactTime string           `json:"transactTime,omitempty"`
	ReceivedAt   int64            `json:"receivedAt"`
}

const (
	EventCreated = "created"
	EventLogon   = "logon"
	EventLogout  = "logout"
	EventError   = "error"
)

// SessionEvent reports a change in the life of a session.
type SessionEvent struct {
	Session   string `json:"session"`
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ExecutionReport is consumed from Kafka and sent to the session it names.
type ExecutionReport struct {
	Session     string          `json:"session" validate:"required"`
	OrderID     string          `json:"orderID" validate:"required"`
	ExecID      string          `json:"execID" validate:"required"`
	ClOrdID     string          `json:"clOrdID"`
	OrigClOrdID string          `json:"origClOrdID,omitempty"`
	ExecType    string          `json:"execType" validate:"required,len=1"`
	OrdStatus   string          `json:"ordStatus" validate:"required,len=1"`
	Symbol      string          `json:"symbol" validate:"required"`
	Side        string          `json:"side" validate:"required,len=1"`
	OrderQty    decimal.Decimal `json:"orderQty"`
	LastQty     decimal.Decimal `json:"lastQty"`
	LastPx      decimal.Decimal `json:"lastPx"`
	LeavesQty   decimal.Decimal `json:"leavesQty"`
	CumQty      decimal.Decimal `json:"cumQty"`
	AvgPx       decimal.Decimal `json:"avgPx"`
	Text        string          `json:"text,omitempty"`
}
