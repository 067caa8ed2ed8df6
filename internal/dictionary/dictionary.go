// Package dictionary loads FIX data dictionaries and validates messages against them.
package dictionary

import (
	"fixengine/internal/fix"
)

// Field data types understood by the validator.
const (
	TypeString        = "STRING"
	TypeChar          = "CHAR"
	TypeInt           = "INT"
	TypeLength        = "LENGTH"
	TypeSeqNum        = "SEQNUM"
	TypeNumInGroup    = "NUMINGROUP"
	TypeTagNum        = "TAGNUM"
	TypeDayOfMonth    = "DAYOFMONTH"
	TypeFloat         = "FLOAT"
	TypePrice         = "PRICE"
	TypeQty           = "QTY"
	TypeAmt           = "AMT"
	TypePriceOffset   = "PRICEOFFSET"
	TypePercentage    = "PERCENTAGE"
	TypeBoolean       = "BOOLEAN"
	TypeUTCTimestamp  = "UTCTIMESTAMP"
	TypeUTCTimeOnly   = "UTCTIMEONLY"
	TypeUTCDateOnly   = "UTCDATEONLY"
	TypeLocalMktDate  = "LOCALMKTDATE"
	TypeMonthYear     = "MONTHYEAR"
	TypeMultipleValue = "MULTIPLEVALUESTRING"
	TypeMultipleChar  = "MULTIPLECHARVALUE"
	TypeData          = "DATA"
)

// FieldDef is one entry of the <fields> section.
type FieldDef struct {
	Tag   fix.Tag
	Name  string
	Type  string
	Enums map[string]string
}

// Member is a field, or a repeating group keyed by its count tag, inside a layout.
type Member struct {
	Tag      fix.Tag
	Required bool
	Group    *GroupDef
}

// Layout is an ordered set of members with a position index.
type Layout struct {
	Members []Member
	index   map[fix.Tag]int
}

func newLayout(members []Member) *Layout {
	l := &Layout{Members: members, index: make(map[fix.Tag]int, len(members))}
	for i, m := range members {
		if _, dup := l.index[m.Tag]; !dup {
			l.index[m.Tag] = i
		}
	}
	return l
}

// Member returns the member for t and its position.
func (l *Layout) Member(t fix.Tag) (*Member, int, bool) {
	i, ok := l.index[t]
	if !ok {
		return nil, 0, false
	}
	return &l.Members[i], i, true
}

// GroupDef describes a repeating group. The first member is the delimiter.
type GroupDef struct {
	*Layout
	CountTag  fix.Tag
	Delimiter fix.Tag
}

type MessageDef struct {
	*Layout
	Name    string
	MsgType string
	Admin   bool
}

// Dictionary is immutable once loaded and safe to share between sessions.
type Dictionary struct {
	BeginString     string
	Strict          bool
	CheckFieldOrder bool

	Fields   map[fix.Tag]*FieldDef
	Header   *Layout
	Trailer  *Layout
	Messages map[string]*MessageDef

	byName map[string]*FieldDef
}

// Option configures a loaded dictionary.
type Option func(*Dictionary)

// WithStrict rejects fields the dictionary does not define for a message.
func WithStrict(strict bool) Option {
	return func(d *Dictionary) { d.Strict = strict }
}

// WithCheckFieldOrder enforces member order inside repeating groups.
func WithCheckFieldOrder(check bool) Option {
	return func(d *Dictionary) { d.CheckFieldOrder = check }
}

func (d *Dictionary) Field(t fix.Tag) (*FieldDef, bool) {
	f, ok := d.Fields[t]
	return f, ok
}

func (d *Dictionary) FieldByName(name string) (*FieldDef, bool) {
	f, ok := d.byName[name]
	return f, ok
}

func (d *Dictionary) Message(msgType string) (*MessageDef, bool) {
	m, ok := d.Messages[msgType]
	return m, ok
}
