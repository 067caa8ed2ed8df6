// Package session runs the FIX session layer for one counterparty: logon,
// heartbeats, gap recovery, resends and logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"fixengine/internal/dictionary"
	"fixengine/internal/fix"
	"fixengine/internal/sequence"
	"fixengine/internal/store"
	"fixengine/pkg/collector"
	"fixengine/pkg/logs"
)

const storeTimeout = 5 * time.Second

// Responder is the transport side of a connected session. Disconnect must not
// block on the reader of the connection.
type Responder interface {
	Send(raw []byte) error
	Disconnect()
}

// Status is a snapshot of a session for monitoring.
type Status struct {
	ID           string    `json:"id"`
	State        string    `json:"state"`
	Initiator    bool      `json:"initiator"`
	Connected    bool      `json:"connected"`
	NextSender   int       `json:"nextSender"`
	NextTarget   int       `json:"nextTarget"`
	HeartBtInt   int       `json:"heartBtInt"`
	LastSent     time.Time `json:"lastSent"`
	LastReceived time.Time `json:"lastReceived"`
	CreatedAt    time.Time `json:"createdAt"`
	Buffered     []int     `json:"buffered,omitempty"`
}

// Session holds the state of one SessionID. All exported methods are safe for
// concurrent use; inbound processing, outbound sends and timers are serialized.
//
// Application callbacks run while the session lock is held and must not call
// back into the same Session synchronously.
type Session struct {
	mu sync.Mutex

	id       fix.SessionID
	settings Settings
	app      Application
	dict     *dictionary.Dictionary
	seq      *sequence.Manager
	log      zerolog.Logger
	now      func() time.Time

	state      State
	responder  Responder
	heartBtInt time.Duration

	lastSent     time.Time
	lastReceived time.Time

	logonDeadline  time.Time
	logoutDeadline time.Time

	testRequestID       string
	testRequestSent     time.Time
	testRequestDeadline time.Time
	testRequests        int

	resetSent     bool
	logonSeq      int
	servedResends map[int]bool
}

type Option func(*Session)

// WithDictionary validates inbound messages against d.
func WithDictionary(d *dictionary.Dictionary) Option {
	return func(s *Session) { s.dict = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New loads the persisted counters for settings.SessionID from st.
func New(ctx context.Context, settings Settings, st store.MessageStore, app Application, opts ...Option) (*Session, error) {
	if settings.SessionID.IsZero() {
		return nil, errors.New("session: empty session id")
	}
	if app == nil {
		return nil, errors.New("session: nil application")
	}
	settings = settings.withDefaults()

	seq, err := sequence.NewManager(ctx, settings.SessionID, st)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:            settings.SessionID,
		settings:      settings,
		app:           app,
		seq:           seq,
		log:           logs.Session(settings.SessionID.String()),
		now:           time.Now,
		heartBtInt:    settings.HeartBtInt,
		servedResends: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setState(Disconnected)
	return s, nil
}

func (s *Session) ID() fix.SessionID {
	return s.id
}

func (s *Session) Settings() Settings {
	return s.settings
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		ID:           s.id.String(),
		State:        s.state.String(),
		Initiator:    s.settings.Initiator,
		Connected:    s.responder != nil,
		NextSender:   s.seq.NextSender(),
		NextTarget:   s.seq.NextTarget(),
		HeartBtInt:   int(s.heartBtInt / time.Second),
		LastSent:     s.lastSent,
		LastReceived: s.lastReceived,
		CreatedAt:    s.seq.CreatedAt(),
		Buffered:     s.seq.Buffered(),
	}
}

// Connect binds a transport. An initiator sends its Logon immediately; an
// acceptor waits for the counterparty's Logon.
func (s *Session) Connect(r Responder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.responder != nil {
		return fmt.Errorf("session: %s already connected", s.id)
	}
	s.responder = r
	now := s.now()
	s.lastSent, s.lastReceived = now, now
	s.log.Info().Bool("initiator", s.settings.Initiator).Msg("connected")

	if !s.settings.Initiator {
		return nil
	}
	return s.sendLogon(now)
}

// Disconnected is called by the transport when r is gone. Counters stay valid;
// a session that was logged on moves to PendingReconnect.
func (s *Session) Disconnected(r Responder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.responder == nil || s.responder != r {
		return
	}
	s.responder = nil
	wasLoggedOn := s.state.connected()
	if s.state == LoggedOn {
		s.setState(PendingReconnect)
	} else {
		s.setState(Disconnected)
	}
	s.clearTimers()
	s.log.Info().Msg("transport closed")
	if wasLoggedOn {
		s.app.OnLogout(s.id)
	}
}

// Receive processes one framed message from the transport.
func (s *Session) Receive(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer collector.ObserveProcess(time.Now())
	now := s.now()

	interceptor, hasInterceptor := s.app.(EarlyInterceptor)
	if hasInterceptor {
		raw = []byte(interceptor.FromEvenEarlierIntercept(string(raw), s.id))
	}

	msg, _, err := fix.Decode(raw)
	if err != nil {
		s.onDecodeError(err)
		return
	}
	msg.ReceiveTime = now
	s.lastReceived = now
	collector.CountMessage(s.id.String(), collector.Inbound, msg.MsgType())
	s.log.Trace().Str("msg", msg.String()).Msg("received")

	if hasInterceptor {
		interceptor.FromEarlyIntercept(msg, s.id)
	}

	s.process(msg, now)
	s.drain()
}

// Garbled reports bytes the transport skipped while framing.
func (s *Session) Garbled(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDecodeError(err)
}

// Tick evaluates the session timers against now.
func (s *Session) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case LogonPending:
		if !s.logonDeadline.IsZero() && !now.Before(s.logonDeadline) {
			s.report(&TimeoutError{Op: "logon"})
			s.disconnect()
		}
	case LogoutPending:
		if !now.Before(s.logoutDeadline) {
			s.report(&TimeoutError{Op: "logout"})
			s.disconnect()
		}
	case LoggedOn:
		s.checkLiveness(now)
	}
}

// Run ticks the session until ctx is done.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(s.settings.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(s.now())
		}
	}
}

// Logout starts a graceful logout. A session that is still logging on is
// disconnected.
func (s *Session) Logout(reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.state.connected():
		s.initiateLogout(reason)
	case s.responder != nil:
		s.disconnect()
	default:
		return ErrNotConnected
	}
	return nil
}

// Close logs out and drops the transport immediately.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.responder != nil {
		s.logoutAndDisconnect("session closed")
	}
	s.setState(Disconnected)
}

// Reset logs out a connected session and sets both counters to 1.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.responder != nil {
		s.logoutAndDisconnect("sequence reset")
	}
	ctx, cancel := storeContext()
	defer cancel()
	if err := s.seq.Reset(ctx); err != nil {
		return err
	}
	s.log.Info().Msg("sequence numbers reset")
	return nil
}

// SetSequences overrides the counters. Zero leaves a counter unchanged.
func (s *Session) SetSequences(nextSender, nextTarget int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := storeContext()
	defer cancel()
	if nextSender > 0 {
		if err := s.seq.SetNextSender(ctx, nextSender); err != nil {
			return err
		}
	}
	if nextTarget > 0 {
		if err := s.seq.SetNextTarget(ctx, nextTarget); err != nil {
			return err
		}
	}
	s.log.Info().Int("next_sender", s.seq.NextSender()).Int("next_target", s.seq.NextTarget()).Msg("sequence numbers set")
	return nil
}

func (s *Session) onDecodeError(err error) {
	kind := "garbled"
	var me *fix.MalformedError
	if errors.As(err, &me) && me.Kind != nil {
		kind = me.Kind.Error()
	}
	collector.DecodeErrorCounter.WithLabelValues(s.id.String(), kind).Inc()
	s.report(err)

	switch {
	case errors.Is(err, fix.ErrChecksum):
		if s.settings.DisconnectOnChecksumError {
			s.disconnect()
		}
	case !s.state.connected():
		s.disconnect()
	}
}

func (s *Session) process(msg *fix.Message, now time.Time) {
	msgType := msg.MsgType()

	if begin, _ := msg.Header.Get(fix.TagBeginString); begin != s.id.BeginString {
		err := &LogonError{Reason: fmt.Sprintf("incorrect BeginString %q", begin)}
		s.report(err)
		if s.state.connected() {
			s.logoutAndDisconnect("Incorrect BeginString")
			return
		}
		s.disconnect()
		return
	}

	if msgType == fix.MsgTypeLogon {
		s.onLogon(msg, now)
		return
	}
	if !s.state.connected() {
		s.report(&LogonError{Reason: "received " + msgType + " before Logon"})
		s.disconnect()
		return
	}
	if !s.verifyHeader(msg, now) {
		return
	}

	if msgType == fix.MsgTypeSequenceReset {
		if gapFill, _ := msg.Body.GetBool(fix.TagGapFillFlag); !gapFill {
			s.onSequenceReset(msg)
			return
		}
	}

	seq := msg.SeqNum()
	if seq <= 0 {
		s.sendReject(msg, fix.RejectRequiredTagMissing, fix.TagMsgSeqNum, "MsgSeqNum missing")
		return
	}

	r := s.seq.OnInbound(seq)
	switch r.Verdict {
	case sequence.Gap:
		s.onGap(msg, r, now)
	case sequence.Duplicate:
		s.onTooLow(msg, r)
	default:
		s.deliver(msg)
	}
}

// verifyHeader checks CompIDs and SendingTime accuracy. A failure rejects the
// message and starts a logout.
func (s *Session) verifyHeader(msg *fix.Message, now time.Time) bool {
	sender, _ := msg.Header.Get(fix.TagSenderCompID)
	target, _ := msg.Header.Get(fix.TagTargetCompID)
	if sender != s.id.TargetCompID || target != s.id.SenderCompID {
		s.report(fmt.Errorf("session: CompID problem sender=%q target=%q", sender, target))
		s.sendReject(msg, fix.RejectCompIDProblem, fix.TagSenderCompID, "CompID problem")
		s.initiateLogout("CompID problem")
		return false
	}

	if s.settings.MaxLatency <= 0 {
		return true
	}
	sent, err := msg.Header.GetTime(fix.TagSendingTime)
	if err != nil {
		return true
	}
	latency := now.Sub(sent)
	if latency < 0 {
		latency = -latency
	}
	if latency > s.settings.MaxLatency {
		s.report(fmt.Errorf("session: SendingTime off by %s", latency))
		s.sendReject(msg, fix.RejectSendingTimeAccuracy, fix.TagSendingTime, "SendingTime accuracy problem")
		s.initiateLogout("SendingTime accuracy problem")
		return false
	}
	return true
}

func (s *Session) onGap(msg *fix.Message, r sequence.Result, now time.Time) {
	collector.GapCounter.WithLabelValues(s.id.String()).Inc()
	s.report(&SequenceGapError{Expected: r.Expected, Received: r.Received})
	s.seq.Buffer(msg)

	if rng, ok := s.seq.OpenResend(r.From, r.To, now); ok {
		s.sendResendRequest(rng.From, rng.To)
	}
	// Serving the peer's ResendRequest cannot wait for our own gap to close.
	if msg.IsMsgTypeOf(fix.MsgTypeResendRequest) {
		s.onResendRequest(msg)
		s.servedResends[r.Received] = true
	}
}

func (s *Session) onTooLow(msg *fix.Message, r sequence.Result) {
	if msg.PossDup() {
		s.log.Debug().Int("seq", r.Received).Int("expected", r.Expected).Msg("duplicate ignored")
		return
	}
	err := &SequenceTooLowError{Expected: r.Expected, Received: r.Received}
	s.report(err)
	if s.settings.SeqTooLowPolicy == SeqTooLowLogout {
		s.logoutAndDisconnect(err.Error())
	}
}

// drain delivers buffered messages that have become next in sequence.
func (s *Session) drain() {
	for s.state.connected() {
		msg, ok := s.seq.Next()
		if !ok {
			return
		}
		seq := msg.SeqNum()
		switch {
		case s.logonSeq == seq && msg.IsMsgTypeOf(fix.MsgTypeLogon):
			s.logonSeq = 0
			s.advance()
		case s.servedResends[seq] && msg.IsMsgTypeOf(fix.MsgTypeResendRequest):
			delete(s.servedResends, seq)
			s.advance()
		default:
			s.deliver(msg)
		}
	}
}

func (s *Session) checkLiveness(now time.Time) {
	if s.seq.ExpireResend(now, s.settings.ResendTimeout) {
		s.report(&TimeoutError{Op: "resend"})
	}

	if s.testRequestID != "" {
		if s.lastReceived.After(s.testRequestSent) {
			s.clearTestRequest()
		} else if !now.Before(s.testRequestDeadline) {
			s.report(&TimeoutError{Op: "test request"})
			s.disconnect()
			return
		}
	}

	// HeartBtInt=0 turns heartbeats and test requests off.
	if s.heartBtInt <= 0 {
		return
	}
	if now.Sub(s.lastSent) >= s.heartBtInt {
		s.sendHeartbeat("")
	}
	if s.testRequestID == "" && now.Sub(s.lastReceived) >= s.heartBtInt {
		s.sendTestRequest(now)
	}
}

func (s *Session) initiateLogout(text string) {
	if !s.state.connected() {
		if s.responder != nil {
			s.disconnect()
		}
		return
	}
	if s.state == LogoutPending {
		return
	}
	s.sendLogout(text)
	s.setState(LogoutPending)
	s.logoutDeadline = s.now().Add(s.settings.LogoutTimeout)
}

func (s *Session) logoutAndDisconnect(text string) {
	if s.responder != nil && s.state != Disconnected && s.state != PendingReconnect {
		s.sendLogout(text)
	}
	s.disconnect()
}

func (s *Session) disconnect() {
	wasLoggedOn := s.state.connected()
	if r := s.responder; r != nil {
		s.responder = nil
		r.Disconnect()
	}
	s.setState(Disconnected)
	s.clearTimers()
	s.log.Info().Msg("disconnected")
	if wasLoggedOn {
		s.app.OnLogout(s.id)
	}
}

func (s *Session) clearTimers() {
	s.logonDeadline = time.Time{}
	s.logoutDeadline = time.Time{}
	s.clearTestRequest()
	s.logonSeq = 0
	s.resetSent = false
	s.servedResends = make(map[int]bool)
	s.heartBtInt = s.settings.HeartBtInt
	s.seq.CancelResend()
}

func (s *Session) clearTestRequest() {
	s.testRequestID = ""
	s.testRequestSent = time.Time{}
	s.testRequestDeadline = time.Time{}
}

func (s *Session) setState(st State) {
	if s.state != st {
		s.log.Debug().Str("from", s.state.String()).Str("to", st.String()).Msg("state change")
	}
	s.state = st
	collector.SessionState.WithLabelValues(s.id.String()).Set(float64(st))
}

func (s *Session) advance() bool {
	ctx, cancel := storeContext()
	defer cancel()
	if err := s.seq.Advance(ctx); err != nil {
		s.report(err)
		return false
	}
	return true
}

// report logs err and hands it to the application when it asks for errors.
func (s *Session) report(err error) {
	ev := s.log.Warn()
	var (
		gap *SequenceGapError
		low *SequenceTooLowError
	)
	switch {
	case errors.As(err, &gap), errors.As(err, &low):
		ev = s.log.Info()
	case errors.Is(err, fix.ErrChecksum), errors.Is(err, fix.ErrGarbled):
		ev = s.log.Error()
	}
	ev.Err(err).Str("state", s.state.String()).Msg("session error")

	if h, ok := s.app.(ErrorHandler); ok {
		h.OnError(s.id, err)
	}
}

func storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
