// Package sequence tracks the inbound and outbound sequence numbers of one session.
package sequence

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fixengine/internal/fix"
	"fixengine/internal/store"
)

type Verdict int

const (
	Accept Verdict = iota
	Duplicate
	Gap
)

func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case Duplicate:
		return "duplicate"
	case Gap:
		return "gap"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// Result of checking an inbound sequence number. From and To are only set for Gap.
type Result struct {
	Verdict  Verdict
	Expected int
	Received int
	From     int
	To       int
}

// Range is an inclusive span of sequence numbers.
type Range struct {
	From int
	To   int
}

// Manager owns the counters of one session. Counter changes are persisted to
// the store before they become visible.
type Manager struct {
	mu    sync.Mutex
	id    fix.SessionID
	store store.MessageStore
	seqs  store.Sequences

	buffer      map[int]*fix.Message
	resend      *Range
	resendSince time.Time
}

// NewManager loads the persisted counters for id.
func NewManager(ctx context.Context, id fix.SessionID, st store.MessageStore) (*Manager, error) {
	seqs, err := st.Sequences(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sequence: load %s: %w", id, err)
	}
	return &Manager{id: id, store: st, seqs: seqs, buffer: make(map[int]*fix.Message)}, nil
}

// OnInbound classifies seq against the expected next number without changing it.
func (m *Manager) OnInbound(seq int) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	expected := m.seqs.NextTarget
	r := Result{Expected: expected, Received: seq}
	switch {
	case seq == expected:
		r.Verdict = Accept
	case seq < expected:
		r.Verdict = Duplicate
	default:
		r.Verdict = Gap
		r.From, r.To = expected, seq-1
	}
	return r
}

// Advance moves the expected inbound number forward by one.
func (m *Manager) Advance(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setNextTarget(ctx, m.seqs.NextTarget+1)
}

func (m *Manager) SetNextTarget(ctx context.Context, next int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setNextTarget(ctx, next)
}

func (m *Manager) setNextTarget(ctx context.Context, next int) error {
	seqs := m.seqs
	seqs.NextTarget = next
	if err := m.store.SetSequences(ctx, m.id, seqs); err != nil {
		return fmt.Errorf("sequence: persist %s: %w", m.id, err)
	}
	m.seqs = seqs
	for seq := range m.buffer {
		if seq < next {
			delete(m.buffer, seq)
		}
	}
	if m.resend != nil && next > m.resend.To {
		m.resend = nil
	}
	return nil
}

func (m *Manager) SetNextSender(ctx context.Context, next int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seqs := m.seqs
	seqs.NextSender = next
	if err := m.store.SetSequences(ctx, m.id, seqs); err != nil {
		return fmt.Errorf("sequence: persist %s: %w", m.id, err)
	}
	m.seqs = seqs
	return nil
}

func (m *Manager) NextTarget() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seqs.NextTarget
}

func (m *Manager) NextSender() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seqs.NextSender
}

func (m *Manager) CreatedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seqs.CreatedAt
}

// OnOutbound allocates the next outbound number, encodes with it and appends
// the result to the store. The number is consumed only if both succeed.
func (m *Manager) OnOutbound(ctx context.Context, encode func(seq int) ([]byte, error)) (int, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seq := m.seqs.NextSender
	raw, err := encode(seq)
	if err != nil {
		return 0, nil, err
	}
	if err := m.store.Append(ctx, m.id, seq, raw); err != nil {
		return 0, nil, fmt.Errorf("sequence: store %s seq %d: %w", m.id, seq, err)
	}

	seqs := m.seqs
	seqs.NextSender = seq + 1
	if err := m.store.SetSequences(ctx, m.id, seqs); err != nil {
		return 0, nil, fmt.Errorf("sequence: persist %s: %w", m.id, err)
	}
	m.seqs = seqs
	return seq, raw, nil
}

// Reset clears the store and sets both counters to 1.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Reset(ctx, m.id); err != nil {
		return fmt.Errorf("sequence: reset %s: %w", m.id, err)
	}
	seqs, err := m.store.Sequences(ctx, m.id)
	if err != nil {
		return fmt.Errorf("sequence: reload %s: %w", m.id, err)
	}
	m.seqs = seqs
	m.buffer = make(map[int]*fix.Message)
	m.resend = nil
	return nil
}

// Buffer holds a message that arrived ahead of a gap. The first copy of a
// sequence number wins.
func (m *Manager) Buffer(msg *fix.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seq := msg.SeqNum()
	if seq < m.seqs.NextTarget {
		return
	}
	if _, ok := m.buffer[seq]; !ok {
		m.buffer[seq] = msg
	}
}

// Next pops the buffered message carrying the expected inbound number.
func (m *Manager) Next() (*fix.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.buffer[m.seqs.NextTarget]
	if ok {
		delete(m.buffer, m.seqs.NextTarget)
	}
	return msg, ok
}

// Buffered returns the sequence numbers currently held, lowest first.
func (m *Manager) Buffered() []int {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]int, 0, len(m.buffer))
	for seq := range m.buffer {
		out = append(out, seq)
	}
	sort.Ints(out)
	return out
}

// OpenResend records that [from, to] is missing and returns the range that
// still has to be requested. ok is false when an open request or the buffer
// already covers it.
func (m *Manager) OpenResend(from, to int, now time.Time) (r Range, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resend == nil {
		m.resend = &Range{From: from, To: to}
		m.resendSince = now
		return *m.resend, true
	}
	if to <= m.resend.To {
		return Range{}, false
	}
	r = Range{From: m.resend.To + 1, To: to}
	if r.From < from {
		r.From = from
	}
	m.resend.To = to
	for r.From <= r.To && m.buffer[r.From] != nil {
		r.From++
	}
	if r.From > r.To {
		return Range{}, false
	}
	m.resendSince = now
	return r, true
}

func (m *Manager) ResendInProgress() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resend != nil
}

func (m *Manager) ResendRange() (Range, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resend == nil {
		return Range{}, false
	}
	return *m.resend, true
}

// ExpireResend drops the open range and the buffer when the gap has stayed
// open for longer than timeout.
func (m *Manager) ExpireResend(now time.Time, timeout time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resend == nil || timeout <= 0 || now.Sub(m.resendSince) < timeout {
		return false
	}
	m.resend = nil
	m.buffer = make(map[int]*fix.Message)
	return true
}

// Retrieve loads stored outbound messages for a resend. to == 0 means up to
// the last number sent.
func (m *Manager) Retrieve(ctx context.Context, from, to int) ([]store.StoredMessage, error) {
	m.mu.Lock()
	last := m.seqs.NextSender - 1
	m.mu.Unlock()

	if to == 0 || to > last {
		to = last
	}
	if from < 1 {
		from = 1
	}
	return m.store.Get(ctx, m.id, from, to)
}

// CancelResend forgets the open range and everything buffered behind it.
func (m *Manager) CancelResend() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resend = nil
	m.buffer = make(map[int]*fix.Message)
}
