// Package gateway connects FIX sessions to Kafka: inbound orders and session
// events are published, execution reports are consumed and sent back.
package gateway

import (
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/tag"

	"fixengine/internal/fix"
	"fixengine/internal/session"
	"fixengine/pkg/logs"
	"fixengine/pkg/utils"
)

// Publisher is satisfied by the Kafka producer.
type Publisher interface {
	Publish(topic, key string, v interface{}) error
}

type Topics struct {
	Orders string
	Events string
}

var orderVersions = []string{"FIX.4.2", "FIX.4.3", "FIX.4.4"}

// Application publishes the order flow of every session it serves.
type Application struct {
	*session.MessageRouter
	publisher Publisher
	topics    Topics
	now       func() time.Time
}

func NewApplication(p Publisher, topics Topics) *Application {
	app := &Application{
		MessageRouter: session.NewMessageRouter(),
		publisher:     p,
		topics:        topics,
		now:           time.Now,
	}
	for _, begin := range orderVersions {
		app.AddRoute(begin, string(enum.MsgType_ORDER_SINGLE), app.onOrder)
		app.AddRoute(begin, string(enum.MsgType_ORDER_CANCEL_REQUEST), app.onOrder)
		app.AddRoute(begin, string(enum.MsgType_ORDER_CANCEL_REPLACE_REQUEST), app.onOrder)
	}
	return app
}

func (a *Application) OnCreate(id fix.SessionID) {
	a.publishEvent(id, EventCreated, "")
}

func (a *Application) OnLogon(id fix.SessionID) {
	a.publishEvent(id, EventLogon, "")
}

func (a *Application) OnLogout(id fix.SessionID) {
	a.publishEvent(id, EventLogout, "")
}

func (a *Application) ToAdmin(msg *fix.Message, id fix.SessionID) {}

func (a *Application) ToApp(msg *fix.Message, id fix.SessionID) error {
	return nil
}

func (a *Application) FromAdmin(msg *fix.Message, id fix.SessionID) session.MessageRejectError {
	return nil
}

func (a *Application) FromApp(msg *fix.Message, id fix.SessionID) session.MessageRejectError {
	return a.Route(msg, id)
}

// OnError publishes session failures as events.
func (a *Application) OnError(id fix.SessionID, err error) {
	a.publishEvent(id, EventError, err.Error())
}

func (a *Application) onOrder(msg *fix.Message, id fix.SessionID) session.MessageRejectError {
	clOrdID, ok := msg.Body.Get(fix.Tag(tag.ClOrdID))
	if !ok || clOrdID == "" {
		return session.RequiredTagMissing(fix.Tag(tag.ClOrdID))
	}

	event := OrderEvent{
		Session:    id.String(),
		MsgType:    msg.MsgType(),
		SeqNum:     msg.SeqNum(),
		ClOrdID:    clOrdID,
		ReceivedAt: utils.MakeTimestamp(msg.ReceiveTime),
	}
	event.OrigClOrdID, _ = msg.Body.Get(fix.Tag(tag.OrigClOrdID))
	event.Account, _ = msg.Body.Get(fix.Tag(tag.Account))
	event.Symbol, _ = msg.Body.Get(fix.Tag(tag.Symbol))
	event.Side, _ = msg.Body.Get(fix.Tag(tag.Side))
	event.OrdType, _ = msg.Body.Get(fix.Tag(tag.OrdType))
	event.TimeInForce, _ = msg.Body.Get(fix.Tag(tag.TimeInForce))
	event.TransactTime, _ = msg.Body.Get(fix.Tag(tag.TransactTime))

	if msg.Body.Has(fix.Tag(tag.OrderQty)) {
		qty, err := msg.Body.GetDecimal(fix.Tag(tag.OrderQty))
		if err != nil {
			return session.ValueIsIncorrect(fix.Tag(tag.OrderQty))
		}
		event.OrderQty = &qty
	}
	if msg.Body.Has(fix.Tag(tag.Price)) {
		px, err := msg.Body.GetDecimal(fix.Tag(tag.Price))
		if err != nil {
			return session.ValueIsIncorrect(fix.Tag(tag.Price))
		}
		event.Price = &px
	}

	if err := a.publisher.Publish(a.topics.Orders, id.String(), event); err != nil {
		logs.Log.Error().Err(err).Str("session", id.String()).Str("clOrdID", clOrdID).Msg("failed to publish order")
		return session.NewBusinessMessageRejectError("Application not available", fix.BusinessRejectApplicationNotAvailable, fix.Tag(tag.ClOrdID))
	}
	return nil
}

func (a *Application) publishEvent(id fix.SessionID, kind, text string) {
	event := SessionEvent{
		Session:   id.String(),
		Type:      kind,
		Text:      text,
		Timestamp: utils.MakeTimestamp(a.now()),
	}
	if err := a.publisher.Publish(a.topics.Events, id.String(), event); err != nil {
		logs.Log.Error().Err(err).Str("session", id.String()).Str("event", kind).Msg("failed to publish session event")
	}
}

type logPublisher struct{}

func (logPublisher) Publish(topic, key string, v interface{}) error {
	logs.Log.Debug().Str("topic", topic).Str("key", key).Interface("event", v).Msg("kafka disabled")
	return nil
}

// LogPublisher stands in for Kafka when no broker is configured.
var LogPublisher Publisher = logPublisher{}
