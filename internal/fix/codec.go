package fix

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

const soh = 0x01

// MaxBodyLength bounds the BodyLength a peer may declare.
const MaxBodyLength = 1 << 20

var (
	// ErrIncomplete means the buffer holds the start of a message but not all of it.
	ErrIncomplete = errors.New("fix: incomplete message")

	ErrGarbled     = errors.New("fix: garbled message")
	ErrBodyLength  = errors.New("fix: body length mismatch")
	ErrChecksum    = errors.New("fix: checksum mismatch")
	ErrFieldFormat = errors.New("fix: malformed field")
	ErrEncode      = errors.New("fix: cannot encode message")
)

// MalformedError describes a message that cannot be decoded.
type MalformedError struct {
	Kind     error
	Tag      Tag
	Expected string
	Actual   string
	Reason   string
}

func (e *MalformedError) Error() string {
	msg := e.Kind.Error()
	if e.Tag != 0 {
		msg += fmt.Sprintf(" (tag %d)", e.Tag)
	}
	if e.Expected != "" || e.Actual != "" {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Actual)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *MalformedError) Unwrap() error {
	return e.Kind
}

func malformed(kind error, t Tag, reason string) *MalformedError {
	return &MalformedError{Kind: kind, Tag: t, Reason: reason}
}

// CheckSum is the byte sum of b modulo 256.
func CheckSum(b []byte) int {
	var sum int
	for _, c := range b {
		sum += int(c)
	}
	return sum % 256
}

func formatCheckSum(sum int) string {
	return fmt.Sprintf("%03d", sum)
}

// Frame returns the length of the first complete message in buf. It checks the
// 8= and 9= prefix and the position of the trailing 10= field; it does not
// verify the checksum value.
func Frame(buf []byte) (int, error) {
	begin := []byte("8=")
	if len(buf) < len(begin) {
		if bytes.HasPrefix(begin, buf) {
			return 0, ErrIncomplete
		}
		return 0, malformed(ErrGarbled, TagBeginString, "message must start with 8=")
	}
	if !bytes.HasPrefix(buf, begin) {
		return 0, malformed(ErrGarbled, TagBeginString, "message must start with 8=")
	}

	beginEnd := bytes.IndexByte(buf, soh)
	if beginEnd < 0 {
		if len(buf) > 32 {
			return 0, malformed(ErrGarbled, TagBeginString, "unterminated BeginString")
		}
		return 0, ErrIncomplete
	}

	rest := buf[beginEnd+1:]
	if len(rest) < 2 {
		return 0, ErrIncomplete
	}
	if !bytes.HasPrefix(rest, []byte("9=")) {
		return 0, malformed(ErrGarbled, TagBodyLength, "BodyLength must be the second field")
	}
	lenEnd := bytes.IndexByte(rest, soh)
	if lenEnd < 0 {
		if len(rest) > 12 {
			return 0, malformed(ErrBodyLength, TagBodyLength, "unterminated BodyLength")
		}
		return 0, ErrIncomplete
	}
	raw := string(rest[2:lenEnd])
	bodyLen, err := strconv.Atoi(raw)
	if err != nil || bodyLen < 0 {
		return 0, &MalformedError{Kind: ErrBodyLength, Tag: TagBodyLength, Reason: "non-numeric BodyLength", Actual: raw}
	}
	if bodyLen > MaxBodyLength {
		return 0, &MalformedError{Kind: ErrBodyLength, Tag: TagBodyLength, Reason: "BodyLength too large", Actual: raw}
	}

	bodyStart := beginEnd + 1 + lenEnd + 1
	bodyEnd := bodyStart + bodyLen
	total := bodyEnd + len("10=000") + 1
	if len(buf) < total {
		return 0, ErrIncomplete
	}
	if !bytes.HasPrefix(buf[bodyEnd:], []byte("10=")) || buf[total-1] != soh {
		e := &MalformedError{Kind: ErrBodyLength, Tag: TagBodyLength, Expected: raw}
		if at := bytes.Index(buf[bodyStart:], []byte("\x0110=")); at >= 0 {
			e.Actual = strconv.Itoa(at + 1)
		} else {
			e.Actual = "unknown"
		}
		return 0, e
	}
	return total, nil
}

// Decode reads one message from the front of buf. On a checksum or field error
// the returned length still covers the offending frame so the caller can skip it.
func Decode(buf []byte) (*Message, int, error) {
	n, err := Frame(buf)
	if err != nil {
		return nil, 0, err
	}
	frame := buf[:n]

	declared := string(frame[n-4 : n-1])
	want, err := strconv.Atoi(declared)
	if err != nil {
		return nil, n, &MalformedError{Kind: ErrChecksum, Tag: TagCheckSum, Actual: declared, Reason: "non-numeric CheckSum"}
	}
	if got := CheckSum(frame[:n-len("10=000")-1]); got != want {
		return nil, n, &MalformedError{
			Kind:     ErrChecksum,
			Tag:      TagCheckSum,
			Expected: formatCheckSum(got),
			Actual:   declared,
		}
	}

	msg, err := parseFields(frame)
	if err != nil {
		return nil, n, err
	}
	msg.raw = append([]byte(nil), frame...)
	return msg, n, nil
}

func parseFields(frame []byte) (*Message, error) {
	msg := &Message{}
	var pos, index int
	var inBody bool
	dataLen, dataTag := -1, Tag(0)
	for pos < len(frame) {
		eq := bytes.IndexByte(frame[pos:], '=')
		if eq <= 0 {
			return nil, malformed(ErrFieldFormat, 0, fmt.Sprintf("missing tag at offset %d", pos))
		}
		t, err := parseTag(frame[pos : pos+eq])
		if err != nil {
			return nil, err
		}
		valStart := pos + eq + 1

		var valEnd int
		if t == dataTag && dataLen >= 0 {
			valEnd = valStart + dataLen
			if valEnd >= len(frame) || frame[valEnd] != soh {
				return nil, malformed(ErrFieldFormat, t, "data field length mismatch")
			}
		} else {
			end := bytes.IndexByte(frame[valStart:], soh)
			if end < 0 {
				return nil, malformed(ErrFieldFormat, t, "unterminated field")
			}
			valEnd = valStart + end
		}
		value := string(frame[valStart:valEnd])
		pos = valEnd + 1

		dataLen, dataTag = -1, 0
		if next, ok := dataTags[t]; ok {
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return nil, &MalformedError{Kind: ErrFieldFormat, Tag: t, Actual: value, Reason: "invalid data length"}
			}
			dataLen, dataTag = n, next
		}

		switch index {
		case 0, 1:
			// 8 and 9 were checked by Frame.
			msg.Header.Add(t, value)
		case 2:
			if t != TagMsgType {
				return nil, &MalformedError{Kind: ErrGarbled, Tag: TagMsgType, Actual: t.String(), Reason: "MsgType must be the third field"}
			}
			msg.Header.Add(t, value)
		default:
			switch {
			case IsTrailerTag(t):
				msg.Trailer.Add(t, value)
			case IsHeaderTag(t):
				if inBody && msg.outOfOrder == 0 {
					msg.outOfOrder = t
					msg.lateHeader, msg.lateBody = len(msg.Header.fields), len(msg.Body.fields)
				}
				msg.Header.Add(t, value)
			default:
				inBody = true
				msg.Body.Add(t, value)
			}
		}
		index++
	}
	return msg, nil
}

func parseTag(b []byte) (Tag, error) {
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, malformed(ErrFieldFormat, 0, fmt.Sprintf("invalid tag %q", b))
		}
		n = n*10 + int(c-'0')
		if n > 1<<30 {
			return 0, malformed(ErrFieldFormat, 0, fmt.Sprintf("invalid tag %q", b))
		}
	}
	if n == 0 {
		return 0, malformed(ErrFieldFormat, 0, fmt.Sprintf("invalid tag %q", b))
	}
	return Tag(n), nil
}

// Encode serializes m, recomputing BodyLength and CheckSum. The header is
// rewritten as 8, 9, 35 followed by the remaining header fields in insertion
// order; body and trailer order are kept as given.
func Encode(m *Message) ([]byte, error) {
	begin, ok := m.Header.Get(TagBeginString)
	if !ok || begin == "" {
		return nil, fmt.Errorf("%w: missing BeginString", ErrEncode)
	}
	msgType, ok := m.Header.Get(TagMsgType)
	if !ok || msgType == "" {
		return nil, fmt.Errorf("%w: missing MsgType", ErrEncode)
	}

	var rest []Field
	for _, f := range m.Header.fields {
		switch f.Tag {
		case TagBeginString, TagBodyLength, TagMsgType:
			continue
		}
		rest = append(rest, f)
	}
	var trailer []Field
	for _, f := range m.Trailer.fields {
		if f.Tag != TagCheckSum {
			trailer = append(trailer, f)
		}
	}

	var body bytes.Buffer
	writeField(&body, TagMsgType, msgType)
	for _, group := range [][]Field{rest, m.Body.fields, trailer} {
		for _, f := range group {
			if err := checkValue(f); err != nil {
				return nil, err
			}
			writeField(&body, f.Tag, f.Value)
		}
	}

	var out bytes.Buffer
	writeField(&out, TagBeginString, begin)
	writeField(&out, TagBodyLength, strconv.Itoa(body.Len()))
	out.Write(body.Bytes())
	sum := formatCheckSum(CheckSum(out.Bytes()))
	writeField(&out, TagCheckSum, sum)

	header := []Field{
		{Tag: TagBeginString, Value: begin},
		{Tag: TagBodyLength, Value: strconv.Itoa(body.Len())},
		{Tag: TagMsgType, Value: msgType},
	}
	m.Header.fields = append(header, rest...)
	m.Trailer.fields = append(trailer, Field{Tag: TagCheckSum, Value: sum})
	m.raw = out.Bytes()
	return m.raw, nil
}

func checkValue(f Field) error {
	if IsDataTag(f.Tag) {
		return nil
	}
	if bytes.IndexByte([]byte(f.Value), soh) >= 0 {
		return fmt.Errorf("%w: field %d contains SOH", ErrEncode, f.Tag)
	}
	return nil
}

func writeField(b *bytes.Buffer, t Tag, value string) {
	b.WriteString(strconv.Itoa(int(t)))
	b.WriteByte('=')
	b.WriteString(value)
	b.WriteByte(soh)
}
