package session

import (
	"time"

	"fixengine/internal/fix"
	"fixengine/pkg/utils"
)

const (
	SeqTooLowIgnore = "ignore"
	SeqTooLowLogout = "logout"

	// EscalateAll makes every dictionary violation fatal for the connection.
	EscalateAll = "*"
)

const (
	DefaultHeartBtInt    = 30 * time.Second
	DefaultLogonTimeout  = 10 * time.Second
	DefaultLogoutTimeout = 2 * time.Second
	DefaultResendTimeout = 30 * time.Second
	DefaultTickInterval  = time.Second
)

type Settings struct {
	SessionID fix.SessionID
	Initiator bool

	HeartBtInt    time.Duration
	LogonTimeout  time.Duration
	LogoutTimeout time.Duration
	// TestRequestGrace is how long a TestRequest may stay unanswered. Zero means HeartBtInt.
	TestRequestGrace time.Duration
	ResendTimeout    time.Duration
	// MaxLatency bounds |SendingTime - receive time|. Zero disables the check.
	MaxLatency   time.Duration
	TickInterval time.Duration

	ResetOnLogon bool
	Username     string
	Password     string

	EscalateViolations        []string
	SeqTooLowPolicy           string
	DisconnectOnChecksumError bool
}

func (s Settings) withDefaults() Settings {
	if s.HeartBtInt <= 0 {
		s.HeartBtInt = DefaultHeartBtInt
	}
	if s.LogonTimeout <= 0 {
		s.LogonTimeout = DefaultLogonTimeout
	}
	if s.LogoutTimeout <= 0 {
		s.LogoutTimeout = DefaultLogoutTimeout
	}
	if s.TestRequestGrace <= 0 {
		s.TestRequestGrace = s.HeartBtInt
	}
	if s.ResendTimeout < 0 {
		s.ResendTimeout = 0
	}
	if s.TickInterval <= 0 {
		s.TickInterval = DefaultTickInterval
	}
	if s.SeqTooLowPolicy == "" {
		s.SeqTooLowPolicy = SeqTooLowIgnore
	}
	return s
}

func (s Settings) escalates(msgType string) bool {
	if msgType == fix.MsgTypeLogon {
		return true
	}
	return utils.ArrContains(s.EscalateViolations, EscalateAll) || utils.ArrContains(s.EscalateViolations, msgType)
}
