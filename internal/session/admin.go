package session

import (
	"fmt"
	"strconv"
	"time"

	"fixengine/internal/fix"
)

func (s *Session) fromAdmin(msg *fix.Message) {
	rej := s.app.FromAdmin(msg, s.id)
	if rej != nil && !msg.IsMsgTypeOf(fix.MsgTypeLogout) {
		s.onRejectError(msg, rej)
		return
	}

	switch msg.MsgType() {
	case fix.MsgTypeHeartbeat:
		s.onHeartbeat(msg)
	case fix.MsgTypeTestRequest:
		s.onTestRequest(msg)
	case fix.MsgTypeResendRequest:
		s.onResendRequest(msg)
	case fix.MsgTypeReject:
		text, _ := msg.Body.Get(fix.TagText)
		ref, _ := msg.Body.Get(fix.TagRefSeqNum)
		s.log.Warn().Str("ref_seq_num", ref).Str("text", text).Msg("reject received")
	case fix.MsgTypeLogout:
		s.onLogout(msg)
	}
}

func (s *Session) onHeartbeat(msg *fix.Message) {
	if s.testRequestID == "" {
		return
	}
	if id, _ := msg.Body.Get(fix.TagTestReqID); id == s.testRequestID {
		s.clearTestRequest()
	}
}

func (s *Session) onTestRequest(msg *fix.Message) {
	id, err := msg.Body.GetString(fix.TagTestReqID)
	if err != nil {
		s.sendReject(msg, fix.RejectRequiredTagMissing, fix.TagTestReqID, "Required tag missing")
		return
	}
	s.sendHeartbeat(id)
}

func (s *Session) onLogout(msg *fix.Message) {
	text, _ := msg.Body.Get(fix.TagText)
	if s.state == LogoutPending {
		s.log.Info().Str("text", text).Msg("logout acknowledged")
		s.disconnect()
		return
	}
	s.log.Info().Str("text", text).Msg("logout received")
	s.sendLogout("")
	s.setState(LogoutPending)
	s.disconnect()
}

// onGapFill handles SequenceReset-GapFill arriving in sequence.
func (s *Session) onGapFill(msg *fix.Message) {
	if rej := s.app.FromAdmin(msg, s.id); rej != nil {
		s.onRejectError(msg, rej)
		s.advance()
		return
	}
	newSeq, err := msg.Body.GetInt(fix.TagNewSeqNo)
	if err != nil {
		s.sendReject(msg, fix.RejectRequiredTagMissing, fix.TagNewSeqNo, "Required tag missing")
		s.advance()
		return
	}
	if newSeq <= msg.SeqNum() {
		s.sendReject(msg, fix.RejectValueIncorrect, fix.TagNewSeqNo,
			fmt.Sprintf("Attempt to lower sequence number, invalid value NewSeqNo=%d", newSeq))
		s.advance()
		return
	}

	ctx, cancel := storeContext()
	defer cancel()
	if err := s.seq.SetNextTarget(ctx, newSeq); err != nil {
		s.report(err)
		return
	}
	s.log.Debug().Int("seq", msg.SeqNum()).Int("new_seq", newSeq).Msg("gap filled")
}

// onSequenceReset handles reset mode, which ignores MsgSeqNum.
func (s *Session) onSequenceReset(msg *fix.Message) {
	if v := s.validate(msg); v != nil {
		s.report(v)
		s.sendReject(msg, v.RejectReason, v.Tag, v.Reason)
		return
	}
	if rej := s.app.FromAdmin(msg, s.id); rej != nil {
		s.onRejectError(msg, rej)
		return
	}
	newSeq, err := msg.Body.GetInt(fix.TagNewSeqNo)
	if err != nil {
		s.sendReject(msg, fix.RejectRequiredTagMissing, fix.TagNewSeqNo, "Required tag missing")
		return
	}

	expected := s.seq.NextTarget()
	switch {
	case newSeq > expected:
		ctx, cancel := storeContext()
		defer cancel()
		if err := s.seq.SetNextTarget(ctx, newSeq); err != nil {
			s.report(err)
			return
		}
		s.log.Info().Int("new_seq", newSeq).Msg("sequence reset")
	case newSeq < expected:
		s.sendReject(msg, fix.RejectValueIncorrect, fix.TagNewSeqNo,
			fmt.Sprintf("Attempt to lower sequence number, invalid value NewSeqNo=%d", newSeq))
	}
}

func (s *Session) sendHeartbeat(testReqID string) {
	msg := fix.NewMessage(fix.MsgTypeHeartbeat)
	if testReqID != "" {
		msg.Body.Set(fix.TagTestReqID, testReqID)
	}
	s.send(msg)
}

func (s *Session) sendTestRequest(now time.Time) {
	s.testRequests++
	id := "TEST-" + strconv.Itoa(s.testRequests)

	msg := fix.NewMessage(fix.MsgTypeTestRequest)
	msg.Body.Set(fix.TagTestReqID, id)
	if err := s.send(msg); err != nil {
		return
	}
	s.testRequestID = id
	s.testRequestSent = now
	s.testRequestDeadline = now.Add(s.settings.TestRequestGrace)
}

func (s *Session) sendResendRequest(from, to int) {
	msg := fix.NewMessage(fix.MsgTypeResendRequest)
	msg.Body.SetInt(fix.TagBeginSeqNo, from)
	msg.Body.SetInt(fix.TagEndSeqNo, to)
	s.log.Info().Int("from", from).Int("to", to).Msg("requesting resend")
	s.send(msg)
}

func (s *Session) sendLogout(text string) {
	msg := fix.NewMessage(fix.MsgTypeLogout)
	if text != "" {
		msg.Body.Set(fix.TagText, text)
	}
	s.send(msg)
}
