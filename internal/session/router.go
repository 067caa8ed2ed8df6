package session

import (
	"fixengine/internal/fix"
)

// MessageRoute handles one application message type.
type MessageRoute func(msg *fix.Message, id fix.SessionID) MessageRejectError

type routeKey struct {
	beginString string
	msgType     string
}

// MessageRouter dispatches application messages by BeginString and MsgType.
// Applications typically call Route from FromApp.
type MessageRouter struct {
	routes map[routeKey]MessageRoute
}

func NewMessageRouter() *MessageRouter {
	return &MessageRouter{routes: make(map[routeKey]MessageRoute)}
}

func (r *MessageRouter) AddRoute(beginString, msgType string, route MessageRoute) {
	r.routes[routeKey{beginString: beginString, msgType: msgType}] = route
}

// Route calls the matching route. Unrouted admin messages are accepted;
// unrouted application messages are refused as unsupported.
func (r *MessageRouter) Route(msg *fix.Message, id fix.SessionID) MessageRejectError {
	begin, _ := msg.Header.Get(fix.TagBeginString)
	msgType := msg.MsgType()
	if route, ok := r.routes[routeKey{beginString: begin, msgType: msgType}]; ok {
		return route(msg, id)
	}
	if fix.IsAdminMsgType(msgType) {
		return nil
	}
	return UnsupportedMessageType()
}
