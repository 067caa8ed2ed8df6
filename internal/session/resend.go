package session

import (
	"errors"

	"fixengine/internal/fix"
	"fixengine/pkg/collector"
)

// onResendRequest replays stored application messages in [BeginSeqNo, EndSeqNo].
// Admin messages, missing slots and messages vetoed by ToApp become
// SequenceReset-GapFill runs.
func (s *Session) onResendRequest(msg *fix.Message) {
	begin, err := msg.Body.GetInt(fix.TagBeginSeqNo)
	if err != nil {
		s.sendReject(msg, fix.RejectRequiredTagMissing, fix.TagBeginSeqNo, "Required tag missing")
		return
	}
	end, err := msg.Body.GetInt(fix.TagEndSeqNo)
	if err != nil {
		s.sendReject(msg, fix.RejectRequiredTagMissing, fix.TagEndSeqNo, "Required tag missing")
		return
	}

	last := s.seq.NextSender() - 1
	if end == 0 || end > last {
		end = last
	}
	if begin < 1 {
		begin = 1
	}
	if begin > end {
		s.log.Debug().Int("begin", begin).Int("end", end).Msg("nothing to resend")
		return
	}

	collector.ResendCounter.WithLabelValues(s.id.String()).Inc()
	s.log.Info().Int("begin", begin).Int("end", end).Msg("serving resend request")

	ctx, cancel := storeContext()
	defer cancel()
	stored, err := s.seq.Retrieve(ctx, begin, end)
	if err != nil {
		s.report(err)
		s.sendGapFill(begin, end+1)
		return
	}

	next := begin
	for _, sm := range stored {
		if sm.SeqNum < next || sm.SeqNum > end {
			continue
		}
		raw, msgType, ok := s.prepareResend(sm.Raw)
		if !ok {
			continue
		}
		if next < sm.SeqNum {
			s.sendGapFill(next, sm.SeqNum)
		}
		if err := s.transmit(raw, msgType, s.now()); err != nil {
			return
		}
		next = sm.SeqNum + 1
	}
	if next <= end {
		s.sendGapFill(next, end+1)
	}
}

// prepareResend marks a stored application message as a possible duplicate.
// ok is false when the slot has to be gap filled.
func (s *Session) prepareResend(stored []byte) ([]byte, string, bool) {
	msg, _, err := fix.Decode(stored)
	if err != nil {
		s.report(err)
		return nil, "", false
	}
	if msg.IsAdmin() {
		return nil, "", false
	}

	if orig, ok := msg.Header.Get(fix.TagSendingTime); ok {
		msg.Header.Set(fix.TagOrigSendingTime, orig)
	}
	msg.Header.SetBool(fix.TagPossDupFlag, true)
	msg.Header.SetTime(fix.TagSendingTime, s.now())

	if err := s.app.ToApp(msg, s.id); err != nil {
		if !errors.Is(err, ErrDoNotSend) {
			s.report(err)
		}
		return nil, "", false
	}

	raw, err := fix.Encode(msg)
	if err != nil {
		s.report(err)
		return nil, "", false
	}
	return raw, msg.MsgType(), true
}

// sendGapFill covers [seq, newSeq) with one SequenceReset-GapFill numbered seq.
// It is not stored.
func (s *Session) sendGapFill(seq, newSeq int) {
	now := s.now()
	msg := fix.NewMessage(fix.MsgTypeSequenceReset)
	s.fillHeader(msg, now)
	msg.Header.SetInt(fix.TagMsgSeqNum, seq)
	msg.Header.SetBool(fix.TagPossDupFlag, true)
	msg.Header.SetTime(fix.TagOrigSendingTime, now)
	msg.Body.SetBool(fix.TagGapFillFlag, true)
	msg.Body.SetInt(fix.TagNewSeqNo, newSeq)
	s.app.ToAdmin(msg, s.id)

	raw, err := fix.Encode(msg)
	if err != nil {
		s.report(err)
		return
	}
	s.transmit(raw, fix.MsgTypeSequenceReset, now)
}
