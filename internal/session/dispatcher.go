package session

import (
	"strconv"
	"time"

	"fixengine/internal/dictionary"
	"fixengine/internal/fix"
	"fixengine/pkg/collector"
)

// deliver runs a message that is next in sequence through validation and
// routes it to the admin handlers or to the application.
func (s *Session) deliver(msg *fix.Message) {
	msgType := msg.MsgType()

	if msg.PossDup() && msgType != fix.MsgTypeSequenceReset && !msg.Header.Has(fix.TagOrigSendingTime) {
		s.sendReject(msg, fix.RejectRequiredTagMissing, fix.TagOrigSendingTime, "Required tag missing")
		s.advance()
		return
	}

	if v := s.validate(msg); v != nil {
		s.report(v)
		s.rejectViolation(msg, v)
		s.advance()
		if s.settings.escalates(msgType) {
			s.logoutAndDisconnect(v.Reason)
		}
		return
	}

	if msgType == fix.MsgTypeSequenceReset {
		s.onGapFill(msg)
		return
	}
	if !s.advance() {
		return
	}

	if fix.IsAdminMsgType(msgType) {
		s.fromAdmin(msg)
		return
	}
	if rej := s.app.FromApp(msg, s.id); rej != nil {
		s.onRejectError(msg, rej)
	}
}

func (s *Session) validate(msg *fix.Message) *dictionary.Violation {
	if s.dict == nil {
		return nil
	}
	return dictionary.Validate(msg, s.dict)
}

func (s *Session) rejectViolation(msg *fix.Message, v *dictionary.Violation) {
	if v.Kind == dictionary.UnsupportedMessageType && !msg.IsAdmin() && s.supportsRejectFields() {
		s.sendBusinessReject(msg, fix.BusinessRejectUnsupportedMessageType, "Unsupported Message Type")
		return
	}
	s.sendReject(msg, v.RejectReason, v.Tag, v.Reason)
}

func (s *Session) onRejectError(msg *fix.Message, rej MessageRejectError) {
	if rej.IsLogonReject() {
		s.report(&LogonError{Reason: rej.Error()})
		s.logoutAndDisconnect(rej.Error())
		return
	}
	s.report(rej)
	if rej.IsBusinessReject() && s.supportsRejectFields() {
		s.sendBusinessReject(msg, rej.RejectReason(), rej.Error())
		return
	}
	s.sendReject(msg, rej.RejectReason(), rej.RefTagID(), rej.Error())
}

// supportsRejectFields reports whether RefTagID, RefMsgType, SessionRejectReason
// and BusinessMessageReject exist in this FIX version.
func (s *Session) supportsRejectFields() bool {
	switch s.id.BeginString {
	case "FIX.4.0", "FIX.4.1":
		return false
	}
	return true
}

func (s *Session) sendReject(ref *fix.Message, reason int, t fix.Tag, text string) {
	if ref.IsMsgTypeOf(fix.MsgTypeReject) {
		s.log.Warn().Str("text", text).Msg("not rejecting a Reject")
		return
	}

	msg := fix.NewMessage(fix.MsgTypeReject)
	msg.Body.SetInt(fix.TagRefSeqNum, ref.SeqNum())
	if s.supportsRejectFields() {
		if t != 0 {
			msg.Body.SetInt(fix.TagRefTagID, int(t))
		}
		if msgType := ref.MsgType(); msgType != "" {
			msg.Body.Set(fix.TagRefMsgType, msgType)
		}
		msg.Body.SetInt(fix.TagSessionRejectReason, reason)
	}
	if text != "" {
		msg.Body.Set(fix.TagText, text)
	}

	collector.RejectCounter.WithLabelValues(s.id.String(), strconv.Itoa(reason)).Inc()
	s.log.Warn().Int("ref_seq_num", ref.SeqNum()).Int("reason", reason).Int("tag", int(t)).Str("text", text).Msg("sending reject")
	s.send(msg)
}

func (s *Session) sendBusinessReject(ref *fix.Message, reason int, text string) {
	msg := fix.NewMessage(fix.MsgTypeBusinessReject)
	msg.Body.SetInt(fix.TagRefSeqNum, ref.SeqNum())
	msg.Body.Set(fix.TagRefMsgType, ref.MsgType())
	msg.Body.SetInt(fix.TagBusinessRejectReason, reason)
	if text != "" {
		msg.Body.Set(fix.TagText, text)
	}

	collector.RejectCounter.WithLabelValues(s.id.String(), "business_"+strconv.Itoa(reason)).Inc()
	s.log.Warn().Int("ref_seq_num", ref.SeqNum()).Int("reason", reason).Str("text", text).Msg("sending business reject")
	s.send(msg)
}

// Send completes the header of msg, numbers it, stores it and hands it to the
// transport. Messages sent while not logged on are stored only and go out with
// the next resend. ErrDoNotSend from ToApp is returned unchanged.
func (s *Session) Send(msg *fix.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.send(msg)
}

func (s *Session) send(msg *fix.Message) error {
	now := s.now()
	s.fillHeader(msg, now)

	msgType := msg.MsgType()
	if fix.IsAdminMsgType(msgType) {
		s.app.ToAdmin(msg, s.id)
	} else if err := s.app.ToApp(msg, s.id); err != nil {
		return err
	}

	ctx, cancel := storeContext()
	defer cancel()
	seq, raw, err := s.seq.OnOutbound(ctx, func(seq int) ([]byte, error) {
		msg.Header.SetInt(fix.TagMsgSeqNum, seq)
		return fix.Encode(msg)
	})
	if err != nil {
		s.report(err)
		return err
	}

	if !s.canTransmit(msgType) {
		s.log.Debug().Int("seq", seq).Str("msg_type", msgType).Msg("stored for resend")
		return nil
	}
	return s.transmit(raw, msgType, now)
}

func (s *Session) fillHeader(msg *fix.Message, now time.Time) {
	msg.Header.Set(fix.TagBeginString, s.id.BeginString)
	msg.Header.Set(fix.TagSenderCompID, s.id.SenderCompID)
	msg.Header.Set(fix.TagTargetCompID, s.id.TargetCompID)
	msg.Header.SetTime(fix.TagSendingTime, now)
}

func (s *Session) canTransmit(msgType string) bool {
	if s.responder == nil {
		return false
	}
	if s.state.connected() {
		return true
	}
	return msgType == fix.MsgTypeLogon || msgType == fix.MsgTypeLogout
}

func (s *Session) transmit(raw []byte, msgType string, now time.Time) error {
	if s.responder == nil {
		return ErrNotConnected
	}
	if err := s.responder.Send(raw); err != nil {
		s.report(err)
		return err
	}
	s.lastSent = now
	collector.CountMessage(s.id.String(), collector.Outbound, msgType)
	s.log.Trace().Str("msg", string(raw)).Msg("sent")
	return nil
}
