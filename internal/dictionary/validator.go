package dictionary

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fixengine/internal/fix"
)

// Validate checks msg against d and returns the first violation found, or nil.
// Header, body and trailer are walked in that order; missing required fields
// are reported after the walk. A header field read after the body is reported
// unless a field ahead of it on the wire already fails.
func Validate(msg *fix.Message, d *Dictionary) *Violation {
	msgType := msg.MsgType()
	if msgType == "" {
		return violation(MissingRequiredField, fix.TagMsgType, msgType, fix.RejectRequiredTagMissing, "MsgType missing")
	}
	def, ok := d.Messages[msgType]
	if !ok {
		return violation(UnsupportedMessageType, fix.TagMsgType, msgType, fix.RejectInvalidMsgType, "message type not supported")
	}

	v := &validator{dict: d, msgType: msgType}

	headerFields, bodyFields := msg.Header.Fields(), msg.Body.Fields()
	header, viol := v.section(headerFields, d.Header)
	late := msg.OutOfOrderTag()
	if late == 0 {
		if viol != nil {
			return viol
		}
	} else {
		lateHeader, lateBody := msg.OutOfOrderPos()
		if viol != nil && firstIndex(headerFields, viol.Tag) < lateHeader {
			return viol
		}
		if _, bodyViol := v.section(bodyFields, def.Layout); bodyViol != nil && firstIndex(bodyFields, bodyViol.Tag) < lateBody {
			return bodyViol
		}
		return violation(FieldOutOfOrder, late, msgType, fix.RejectTagOutOfRequiredOrder, "header field after body")
	}
	body, viol := v.section(bodyFields, def.Layout)
	if viol != nil {
		return viol
	}
	trailer, viol := v.section(msg.Trailer.Fields(), d.Trailer)
	if viol != nil {
		return viol
	}

	if viol := v.required(d.Header, header); viol != nil {
		return viol
	}
	if viol := v.required(def.Layout, body); viol != nil {
		return viol
	}
	return v.required(d.Trailer, trailer)
}

// firstIndex returns the position of t in fields, or len(fields).
func firstIndex(fields []fix.Field, t fix.Tag) int {
	for i, f := range fields {
		if f.Tag == t {
			return i
		}
	}
	return len(fields)
}

type validator struct {
	dict    *Dictionary
	msgType string
}

func (v *validator) fail(kind Kind, t fix.Tag, code int, format string, args ...interface{}) *Violation {
	return violation(kind, t, v.msgType, code, fmt.Sprintf(format, args...))
}

func (v *validator) section(fields []fix.Field, layout *Layout) (map[fix.Tag]bool, *Violation) {
	seen := make(map[fix.Tag]bool, len(fields))
	for i := 0; i < len(fields); {
		f := fields[i]
		m, _, inLayout := layout.Member(f.Tag)
		if viol := v.known(f.Tag, inLayout); viol != nil {
			return nil, viol
		}
		if inLayout {
			if seen[f.Tag] {
				return nil, v.fail(DuplicateField, f.Tag, fix.RejectTagAppearsMoreThanOnce, "tag appears more than once")
			}
			seen[f.Tag] = true
		}
		if viol := v.value(f); viol != nil {
			return nil, viol
		}
		i++
		if inLayout && m.Group != nil {
			n, viol := v.group(fields[i:], m.Group, f)
			if viol != nil {
				return nil, viol
			}
			i += n
		}
	}
	return seen, nil
}

// group consumes the repetitions following a count field and returns how many
// fields belonged to the group.
func (v *validator) group(fields []fix.Field, g *GroupDef, countField fix.Field) (int, *Violation) {
	count, err := strconv.Atoi(countField.Value)
	if err != nil || count < 0 {
		return 0, v.fail(InvalidValue, g.CountTag, fix.RejectIncorrectDataFormat, "invalid NumInGroup %q", countField.Value)
	}

	var (
		reps int
		last int
		seen map[fix.Tag]bool
	)
	i := 0
	for i < len(fields) {
		f := fields[i]
		m, pos, ok := g.Member(f.Tag)
		if !ok {
			break
		}
		switch {
		case f.Tag == g.Delimiter:
			if reps > 0 {
				if viol := v.required(g.Layout, seen); viol != nil {
					return 0, viol
				}
			}
			reps++
			seen = make(map[fix.Tag]bool, len(g.Members))
			last = -1
		case reps == 0:
			return 0, v.fail(FieldOutOfOrder, f.Tag, fix.RejectGroupFieldsOutOfOrder,
				"repetition of group %d does not start with delimiter %d", g.CountTag, g.Delimiter)
		case seen[f.Tag]:
			return 0, v.fail(FieldOutOfOrder, f.Tag, fix.RejectGroupFieldsOutOfOrder,
				"repetition of group %d is missing delimiter %d", g.CountTag, g.Delimiter)
		case v.dict.CheckFieldOrder && pos < last:
			return 0, v.fail(FieldOutOfOrder, f.Tag, fix.RejectGroupFieldsOutOfOrder,
				"field out of order in group %d", g.CountTag)
		}
		seen[f.Tag] = true
		last = pos

		if viol := v.value(f); viol != nil {
			return 0, viol
		}
		i++
		if m.Group != nil {
			n, viol := v.group(fields[i:], m.Group, f)
			if viol != nil {
				return 0, viol
			}
			i += n
		}
	}
	if reps > 0 {
		if viol := v.required(g.Layout, seen); viol != nil {
			return 0, viol
		}
	}
	if reps != count {
		return 0, v.fail(RepeatingGroupCountMismatch, g.CountTag, fix.RejectIncorrectNumInGroupCount,
			"declared %d repetitions, found %d", count, reps)
	}
	return i, nil
}

func (v *validator) known(t fix.Tag, inLayout bool) *Violation {
	if !v.dict.Strict {
		return nil
	}
	if _, ok := v.dict.Fields[t]; !ok {
		return v.fail(UnknownField, t, fix.RejectInvalidTagNumber, "invalid tag number")
	}
	if !inLayout {
		return v.fail(UnknownField, t, fix.RejectTagNotDefinedForMsgType, "tag not defined for this message type")
	}
	return nil
}

func (v *validator) required(layout *Layout, seen map[fix.Tag]bool) *Violation {
	for _, m := range layout.Members {
		if m.Required && !seen[m.Tag] {
			return v.fail(MissingRequiredField, m.Tag, fix.RejectRequiredTagMissing, "required tag missing")
		}
	}
	return nil
}

func (v *validator) value(f fix.Field) *Violation {
	def, ok := v.dict.Fields[f.Tag]
	if !ok {
		return nil
	}
	if f.Value == "" {
		return v.fail(InvalidValue, f.Tag, fix.RejectTagWithoutValue, "tag specified without a value")
	}
	if !validFormat(def.Type, f.Value) {
		return v.fail(InvalidValue, f.Tag, fix.RejectIncorrectDataFormat, "incorrect data format for %s %q", def.Type, f.Value)
	}
	if len(def.Enums) == 0 || f.Tag == fix.TagMsgType {
		return nil
	}
	values := []string{f.Value}
	if def.Type == TypeMultipleValue || def.Type == TypeMultipleChar {
		values = strings.Fields(f.Value)
	}
	for _, val := range values {
		if _, ok := def.Enums[val]; !ok {
			return v.fail(InvalidValue, f.Tag, fix.RejectValueIncorrect, "value %q out of range", val)
		}
	}
	return nil
}

func validFormat(typ, value string) bool {
	switch typ {
	case TypeInt:
		_, err := strconv.Atoi(value)
		return err == nil
	case TypeLength, TypeSeqNum, TypeNumInGroup, TypeTagNum, TypeDayOfMonth:
		n, err := strconv.Atoi(value)
		return err == nil && n >= 0
	case TypeFloat, TypePrice, TypeQty, TypeAmt, TypePriceOffset, TypePercentage:
		if strings.ContainsAny(value, "eE") {
			return false
		}
		_, err := decimal.NewFromString(value)
		return err == nil
	case TypeBoolean:
		return value == "Y" || value == "N"
	case TypeChar:
		return len(value) == 1
	case TypeUTCTimestamp:
		_, err := fix.ParseUTCTimestamp(value)
		return err == nil
	case TypeUTCTimeOnly:
		for _, layout := range []string{"15:04:05", "15:04:05.000"} {
			if _, err := time.Parse(layout, value); err == nil {
				return true
			}
		}
		return false
	case TypeUTCDateOnly, TypeLocalMktDate:
		_, err := time.Parse("20060102", value)
		return err == nil
	case TypeMonthYear:
		if len(value) < 6 {
			return false
		}
		_, err := time.Parse("200601", value[:6])
		return err == nil
	}
	return true
}
