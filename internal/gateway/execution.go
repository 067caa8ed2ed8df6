package gateway

import (
	"encoding/json"
	"time"

	"github.com/Shopify/sarama"
	"github.com/go-playground/validator/v10"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/tag"
	"github.com/shopspring/decimal"

	"fixengine/internal/fix"
	"fixengine/pkg/logs"
)

// Sender delivers an application message to a session.
type Sender interface {
	SendToTarget(msg *fix.Message, id fix.SessionID) error
}

// Executions turns consumed execution reports into FIX messages.
type Executions struct {
	sender   Sender
	validate *validator.Validate
	now      func() time.Time
}

func NewExecutions(sender Sender) *Executions {
	return &Executions{
		sender:   sender,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (e *Executions) HandleConsume(message *sarama.ConsumerMessage) {
	var report ExecutionReport
	if err := json.Unmarshal(message.Value, &report); err != nil {
		logs.Log.Error().Err(err).Str("topic", message.Topic).Int64("offset", message.Offset).Msg("invalid execution report")
		return
	}
	if err := e.Send(report); err != nil {
		logs.Log.Error().Err(err).Str("session", report.Session).Str("execID", report.ExecID).Msg("failed to send execution report")
	}
}

// Send validates the report and queues it on its session.
func (e *Executions) Send(report ExecutionReport) error {
	if err := e.validate.Struct(report); err != nil {
		return err
	}
	id, err := fix.ParseSessionID(report.Session)
	if err != nil {
		return err
	}
	return e.sender.SendToTarget(e.build(report), id)
}

func (e *Executions) build(r ExecutionReport) *fix.Message {
	msg := fix.NewMessage(string(enum.MsgType_EXECUTION_REPORT))
	body := &msg.Body
	body.Set(fix.Tag(tag.OrderID), r.OrderID)
	body.Set(fix.Tag(tag.ExecID), r.ExecID)
	if r.ClOrdID != "" {
		body.Set(fix.Tag(tag.ClOrdID), r.ClOrdID)
	}
	if r.OrigClOrdID != "" {
		body.Set(fix.Tag(tag.OrigClOrdID), r.OrigClOrdID)
	}
	body.Set(fix.Tag(tag.ExecType), r.ExecType)
	body.Set(fix.Tag(tag.OrdStatus), r.OrdStatus)
	body.Set(fix.Tag(tag.Symbol), r.Symbol)
	body.Set(fix.Tag(tag.Side), r.Side)
	setDecimal(body, fix.Tag(tag.OrderQty), r.OrderQty)
	setDecimal(body, fix.Tag(tag.LastQty), r.LastQty)
	setDecimal(body, fix.Tag(tag.LastPx), r.LastPx)
	setDecimal(body, fix.Tag(tag.LeavesQty), r.LeavesQty)
	setDecimal(body, fix.Tag(tag.CumQty), r.CumQty)
	setDecimal(body, fix.Tag(tag.AvgPx), r.AvgPx)
	if r.Text != "" {
		body.Set(fix.Tag(tag.Text), r.Text)
	}
	body.SetTime(fix.Tag(tag.TransactTime), e.now())
	return msg
}

func setDecimal(m *fix.FieldMap, t fix.Tag, v decimal.Decimal) {
	scale := -v.Exponent()
	if scale < 0 {
		scale = 0
	}
	m.SetDecimal(t, v, scale)
}
