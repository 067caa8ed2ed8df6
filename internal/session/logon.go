package session

import (
	"fmt"
	"time"

	"fixengine/internal/dictionary"
	"fixengine/internal/fix"
	"fixengine/internal/sequence"
)

func (s *Session) sendLogon(now time.Time) error {
	reset := s.settings.ResetOnLogon
	if reset {
		ctx, cancel := storeContext()
		defer cancel()
		if err := s.seq.Reset(ctx); err != nil {
			s.report(err)
			return err
		}
	}

	msg := fix.NewMessage(fix.MsgTypeLogon)
	msg.Body.SetInt(fix.TagEncryptMethod, 0)
	msg.Body.SetInt(fix.TagHeartBtInt, int(s.settings.HeartBtInt/time.Second))
	if reset {
		msg.Body.SetBool(fix.TagResetSeqNumFlag, true)
	}
	if s.settings.Username != "" {
		msg.Body.Set(fix.TagUsername, s.settings.Username)
		msg.Body.Set(fix.TagPassword, s.settings.Password)
	}

	s.setState(LogonPending)
	s.resetSent = reset
	s.logonDeadline = now.Add(s.settings.LogonTimeout)
	return s.send(msg)
}

func (s *Session) onLogon(msg *fix.Message, now time.Time) {
	if s.state.connected() {
		s.report(&LogonError{Reason: "Logon received while logged on"})
		if s.seq.OnInbound(msg.SeqNum()).Verdict == sequence.Accept {
			s.advance()
		}
		return
	}
	if s.settings.Initiator && s.state != LogonPending {
		s.report(&LogonError{Reason: "unexpected Logon"})
		s.disconnect()
		return
	}
	if !s.settings.Initiator {
		s.setState(LogonPending)
	}

	sender, _ := msg.Header.Get(fix.TagSenderCompID)
	target, _ := msg.Header.Get(fix.TagTargetCompID)
	if sender != s.id.TargetCompID || target != s.id.SenderCompID {
		s.report(&LogonError{Reason: fmt.Sprintf("CompID problem sender=%q target=%q", sender, target)})
		s.disconnect()
		return
	}

	if s.dict != nil {
		if v := dictionary.Validate(msg, s.dict); v != nil {
			s.report(v)
			s.rejectLogon(v.Reason)
			return
		}
	}

	hb, err := msg.Body.GetInt(fix.TagHeartBtInt)
	if err != nil || hb < 0 {
		s.rejectLogon("invalid HeartBtInt")
		return
	}

	if !s.settings.Initiator && s.settings.Username != "" {
		user, _ := msg.Body.Get(fix.TagUsername)
		pass, _ := msg.Body.Get(fix.TagPassword)
		if user != s.settings.Username || pass != s.settings.Password {
			s.rejectLogon("invalid credentials")
			return
		}
	}

	resetRequested, _ := msg.Body.GetBool(fix.TagResetSeqNumFlag)
	resetNow := resetRequested && !s.resetSent
	if !s.settings.Initiator && s.settings.ResetOnLogon {
		resetNow = true
	}
	if resetNow {
		ctx, cancel := storeContext()
		err := s.seq.Reset(ctx)
		cancel()
		if err != nil {
			s.report(err)
			s.disconnect()
			return
		}
		s.log.Info().Msg("sequence numbers reset by logon")
	}

	if rej := s.app.FromAdmin(msg, s.id); rej != nil {
		if rej.IsLogonReject() {
			s.rejectLogon(rej.Error())
			return
		}
		s.report(&LogonError{Reason: rej.Error()})
		s.disconnect()
		return
	}

	seq := msg.SeqNum()
	r := s.seq.OnInbound(seq)
	if r.Verdict == sequence.Duplicate {
		s.rejectLogon((&SequenceTooLowError{Expected: r.Expected, Received: r.Received}).Error())
		return
	}

	if !s.settings.Initiator {
		s.heartBtInt = time.Duration(hb) * time.Second
		reply := fix.NewMessage(fix.MsgTypeLogon)
		reply.Body.SetInt(fix.TagEncryptMethod, 0)
		reply.Body.SetInt(fix.TagHeartBtInt, int(s.heartBtInt/time.Second))
		if resetNow {
			reply.Body.SetBool(fix.TagResetSeqNumFlag, true)
		}
		if err := s.send(reply); err != nil {
			s.disconnect()
			return
		}
	}

	s.setState(LoggedOn)
	s.logonDeadline = time.Time{}
	s.lastReceived = now
	s.log.Info().Int("heartbeat", int(s.heartBtInt/time.Second)).Msg("logged on")
	s.app.OnLogon(s.id)

	switch r.Verdict {
	case sequence.Accept:
		s.advance()
	case sequence.Gap:
		s.logonSeq = seq
		s.onGap(msg, r, now)
	}
}

// rejectLogon answers a refused Logon with a Logout and drops the connection.
func (s *Session) rejectLogon(text string) {
	s.report(&LogonError{Reason: text})
	s.sendLogout(text)
	s.disconnect()
}
