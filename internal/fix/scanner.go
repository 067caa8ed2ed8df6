package fix

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var beginMarker = []byte("8=FIX")

// Scanner splits a byte stream into raw FIX frames. Bytes that cannot start a
// frame are discarded up to the next 8=FIX and reported as ErrGarbled.
type Scanner struct {
	r    io.Reader
	buf  []byte
	read []byte
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: r, read: make([]byte, 4096)}
}

// Next returns the next complete frame. A *MalformedError wrapping ErrGarbled
// means bytes were skipped and scanning may continue; any other error is from
// the underlying reader.
func (s *Scanner) Next() ([]byte, error) {
	for {
		n, err := Frame(s.buf)
		switch {
		case err == nil:
			frame := append([]byte(nil), s.buf[:n]...)
			s.buf = s.buf[n:]
			return frame, nil
		case errors.Is(err, ErrIncomplete):
			if err := s.fill(); err != nil {
				return nil, err
			}
		default:
			return nil, s.resync(err)
		}
	}
}

func (s *Scanner) fill() error {
	n, err := s.r.Read(s.read)
	if n > 0 {
		s.buf = append(s.buf, s.read[:n]...)
		return nil
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) && len(s.buf) > 0 {
		return io.ErrUnexpectedEOF
	}
	return err
}

func (s *Scanner) resync(cause error) error {
	skip := len(s.buf)
	if at := bytes.Index(s.buf[1:], beginMarker); at >= 0 {
		skip = at + 1
	} else {
		for k := len(beginMarker) - 1; k > 0; k-- {
			if k <= len(s.buf) && bytes.HasPrefix(beginMarker, s.buf[len(s.buf)-k:]) {
				skip = len(s.buf) - k
				break
			}
		}
	}
	if skip == 0 {
		skip = 1
	}
	s.buf = s.buf[skip:]

	e := &MalformedError{Kind: ErrGarbled, Reason: fmt.Sprintf("discarded %d bytes", skip)}
	var m *MalformedError
	if errors.As(cause, &m) {
		e.Tag = m.Tag
		e.Reason = fmt.Sprintf("%s; discarded %d bytes", m.Error(), skip)
	}
	return e
}
