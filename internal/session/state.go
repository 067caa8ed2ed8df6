package session

import "fmt"

type State int

const (
	Disconnected State = iota
	LogonPending
	LoggedOn
	LogoutPending
	PendingReconnect
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case LogonPending:
		return "logon_pending"
	case LoggedOn:
		return "logged_on"
	case LogoutPending:
		return "logout_pending"
	case PendingReconnect:
		return "pending_reconnect"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// connected reports whether a logon handshake has completed on the current connection.
func (s State) connected() bool {
	return s == LoggedOn || s == LogoutPending
}
