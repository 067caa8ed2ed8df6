package dictionary

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixengine/internal/fix"
)

func header(msgType string) *fix.Message {
	m := fix.NewMessage(msgType)
	m.Header.Set(fix.TagBeginString, "FIX.4.4")
	m.Header.Set(fix.TagSenderCompID, "CLIENT")
	m.Header.Set(fix.TagTargetCompID, "SERVER")
	m.Header.SetInt(fix.TagMsgSeqNum, 3)
	m.Header.SetTime(fix.TagSendingTime, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))
	return m
}

type field struct {
	tag   fix.Tag
	value string
}

func newOrderSingle(body ...field) *fix.Message {
	m := header("D")
	if body == nil {
		body = []field{
			{11, "ord-1"},
			{453, "2"},
			{448, "desk"}, {447, "D"}, {452, "1"},
			{448, "trader"}, {447, "D"}, {452, "11"}, {802, "1"}, {523, "ops"}, {803, "4"},
			{55, "BTC-PERP"},
			{54, "1"},
			{60, "20240102-10:00:00.000"},
			{38, "2"},
			{40, "2"},
			{44, "42000.5"},
		}
	}
	for _, f := range body {
		m.Body.Add(f.tag, f.value)
	}
	return m
}

// roundTrip encodes and decodes so BodyLength and CheckSum are present.
func roundTrip(t *testing.T, m *fix.Message) *fix.Message {
	t.Helper()
	raw, err := fix.Encode(m)
	require.NoError(t, err)
	out, _, err := fix.Decode(raw)
	require.NoError(t, err)
	return out
}

func replace(fields []field, tag fix.Tag, value string) []field {
	out := make([]field, 0, len(fields))
	for _, f := range fields {
		if f.tag == tag {
			if value == "-" {
				continue
			}
			f.value = value
		}
		out = append(out, f)
	}
	return out
}

var orderBody = []field{
	{11, "ord-1"},
	{453, "1"},
	{448, "desk"}, {447, "D"}, {452, "1"},
	{55, "BTC-PERP"},
	{54, "1"},
	{60, "20240102-10:00:00.000"},
	{40, "2"},
	{44, "100.25"},
}

func TestDefault_Loads(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "FIX.4.4", d.BeginString)

	logon, ok := d.Message(fix.MsgTypeLogon)
	require.True(t, ok)
	assert.True(t, logon.Admin)

	order, ok := d.Message("D")
	require.True(t, ok)
	m, _, ok := order.Member(453)
	require.True(t, ok)
	require.NotNil(t, m.Group)
	assert.Equal(t, fix.Tag(448), m.Group.Delimiter)

	sub, _, ok := m.Group.Member(802)
	require.True(t, ok)
	require.NotNil(t, sub.Group)
	assert.Equal(t, fix.Tag(523), sub.Group.Delimiter)

	symbol, _, ok := order.Member(55)
	require.True(t, ok)
	assert.True(t, symbol.Required)

	side, ok := d.FieldByName("Side")
	require.True(t, ok)
	assert.Equal(t, "BUY", side.Enums["1"])
}

func TestValidate_Valid(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	assert.Nil(t, Validate(roundTrip(t, newOrderSingle()), d))

	logon := header(fix.MsgTypeLogon)
	logon.Body.Set(fix.TagEncryptMethod, "0")
	logon.Body.SetInt(fix.TagHeartBtInt, 30)
	logon.Body.SetBool(fix.TagResetSeqNumFlag, true)
	assert.Nil(t, Validate(roundTrip(t, logon), d))
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name     string
		body     []field
		kind     Kind
		tag      fix.Tag
		reason   int
		strict   bool
		ordering bool
	}{
		{
			name:   "missing required body field",
			body:   replace(orderBody, 11, "-"),
			kind:   MissingRequiredField,
			tag:    11,
			reason: fix.RejectRequiredTagMissing,
		},
		{
			name:   "missing required component field",
			body:   replace(orderBody, 55, "-"),
			kind:   MissingRequiredField,
			tag:    55,
			reason: fix.RejectRequiredTagMissing,
		},
		{
			name:   "enum out of range",
			body:   replace(orderBody, 54, "9"),
			kind:   InvalidValue,
			tag:    54,
			reason: fix.RejectValueIncorrect,
		},
		{
			name:   "bad price format",
			body:   replace(orderBody, 44, "abc"),
			kind:   InvalidValue,
			tag:    44,
			reason: fix.RejectIncorrectDataFormat,
		},
		{
			name:   "bad timestamp",
			body:   replace(orderBody, 60, "2024-01-02"),
			kind:   InvalidValue,
			tag:    60,
			reason: fix.RejectIncorrectDataFormat,
		},
		{
			name:   "empty value",
			body:   append(replace(orderBody, 0, ""), field{58, ""}),
			kind:   InvalidValue,
			tag:    58,
			reason: fix.RejectTagWithoutValue,
		},
		{
			name:   "duplicate field",
			body:   append(replace(orderBody, 0, ""), field{55, "ETH-PERP"}),
			kind:   DuplicateField,
			tag:    55,
			reason: fix.RejectTagAppearsMoreThanOnce,
		},
		{
			name:   "group count too high",
			body:   replace(orderBody, 453, "2"),
			kind:   RepeatingGroupCountMismatch,
			tag:    453,
			reason: fix.RejectIncorrectNumInGroupCount,
		},
		{
			name: "repetition without delimiter",
			body: []field{
				{11, "ord-1"}, {453, "2"},
				{448, "desk"}, {447, "D"}, {447, "D"},
				{55, "BTC-PERP"}, {54, "1"}, {60, "20240102-10:00:00.000"}, {40, "2"},
			},
			kind:   FieldOutOfOrder,
			tag:    447,
			reason: fix.RejectGroupFieldsOutOfOrder,
		},
		{
			name: "repetition starts with non delimiter",
			body: []field{
				{11, "ord-1"}, {453, "1"},
				{447, "D"}, {448, "desk"},
				{55, "BTC-PERP"}, {54, "1"}, {60, "20240102-10:00:00.000"}, {40, "2"},
			},
			kind:   FieldOutOfOrder,
			tag:    447,
			reason: fix.RejectGroupFieldsOutOfOrder,
		},
		{
			name: "nested group count mismatch",
			body: []field{
				{11, "ord-1"}, {453, "1"},
				{448, "desk"}, {802, "2"}, {523, "a"}, {803, "1"},
				{55, "BTC-PERP"}, {54, "1"}, {60, "20240102-10:00:00.000"}, {40, "2"},
			},
			kind:   RepeatingGroupCountMismatch,
			tag:    802,
			reason: fix.RejectIncorrectNumInGroupCount,
		},
		{
			name: "group order enforced",
			body: []field{
				{11, "ord-1"}, {453, "1"},
				{448, "desk"}, {452, "1"}, {447, "D"},
				{55, "BTC-PERP"}, {54, "1"}, {60, "20240102-10:00:00.000"}, {40, "2"},
			},
			kind:     FieldOutOfOrder,
			tag:      447,
			reason:   fix.RejectGroupFieldsOutOfOrder,
			ordering: true,
		},
		{
			name:   "unknown tag in strict mode",
			body:   append(replace(orderBody, 0, ""), field{9999, "x"}),
			kind:   UnknownField,
			tag:    9999,
			reason: fix.RejectInvalidTagNumber,
			strict: true,
		},
		{
			name:   "tag not defined for message in strict mode",
			body:   append(replace(orderBody, 0, ""), field{fix.TagHeartBtInt, "30"}),
			kind:   UnknownField,
			tag:    fix.TagHeartBtInt,
			reason: fix.RejectTagNotDefinedForMsgType,
			strict: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Default(WithStrict(tt.strict), WithCheckFieldOrder(tt.ordering))
			require.NoError(t, err)

			got := Validate(roundTrip(t, newOrderSingle(tt.body...)), d)
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind, got.Error())
			assert.Equal(t, tt.tag, got.Tag, got.Error())
			assert.Equal(t, tt.reason, got.RejectReason)
			assert.Equal(t, "D", got.MsgType)
		})
	}
}

func TestValidate_Lenient(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	body := append(replace(orderBody, 0, ""), field{9999, "x"}, field{fix.TagHeartBtInt, "30"})
	assert.Nil(t, Validate(roundTrip(t, newOrderSingle(body...)), d))

	unordered := []field{
		{11, "ord-1"}, {453, "1"},
		{448, "desk"}, {452, "1"}, {447, "D"},
		{55, "BTC-PERP"}, {54, "1"}, {60, "20240102-10:00:00.000"}, {40, "2"},
	}
	assert.Nil(t, Validate(roundTrip(t, newOrderSingle(unordered...)), d))
}

func TestValidate_UnsupportedMessageType(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	got := Validate(roundTrip(t, header("ZZ")), d)
	require.NotNil(t, got)
	assert.Equal(t, UnsupportedMessageType, got.Kind)
	assert.Equal(t, fix.TagMsgType, got.Tag)
	assert.Equal(t, fix.RejectInvalidMsgType, got.RejectReason)
}

func TestValidate_Header(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	m := header(fix.MsgTypeHeartbeat)
	m.Header.Remove(fix.TagSendingTime)
	got := Validate(roundTrip(t, m), d)
	require.NotNil(t, got)
	assert.Equal(t, MissingRequiredField, got.Kind)
	assert.Equal(t, fix.TagSendingTime, got.Tag)

	m = header(fix.MsgTypeHeartbeat)
	m.Header.Set(fix.TagPossDupFlag, "maybe")
	got = Validate(roundTrip(t, m), d)
	require.NotNil(t, got)
	assert.Equal(t, InvalidValue, got.Kind)
	assert.Equal(t, fix.TagPossDupFlag, got.Tag)
}

func TestValidate_HeaderFieldAfterBody(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	body := "35=0\x0149=CLIENT\x0134=3\x0152=20240102-10:00:00.000\x01112=ping\x0156=SERVER\x01"
	head := "8=FIX.4.4\x019=" + strconv.Itoa(len(body)) + "\x01"
	sum := fix.CheckSum([]byte(head + body))
	raw := head + body + "10=" + leftPad(sum) + "\x01"

	m, _, err := fix.Decode([]byte(raw))
	require.NoError(t, err)
	got := Validate(m, d)
	require.NotNil(t, got)
	assert.Equal(t, FieldOutOfOrder, got.Kind)
	assert.Equal(t, fix.TagTargetCompID, got.Tag)
	assert.Equal(t, fix.RejectTagOutOfRequiredOrder, got.RejectReason)
}

func TestValidate_HeaderFieldAfterBody_WireOrder(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	frame := func(body string) *fix.Message {
		head := "8=FIX.4.4\x019=" + strconv.Itoa(len(body)) + "\x01"
		sum := fix.CheckSum([]byte(head + body))
		m, _, err := fix.Decode([]byte(head + body + "10=" + leftPad(sum) + "\x01"))
		require.NoError(t, err)
		return m
	}

	tests := []struct {
		name string
		body string
		kind Kind
		tag  fix.Tag
	}{
		{
			name: "body violation ahead of late header field",
			body: "35=D\x0149=CLIENT\x0156=SERVER\x0134=3\x0111=ord\x0154=Z\x0152=20240102-10:00:00.000\x0155=X\x01",
			kind: InvalidValue,
			tag:  54,
		},
		{
			name: "body violation behind late header field",
			body: "35=D\x0149=CLIENT\x0156=SERVER\x0134=3\x0111=ord\x0152=20240102-10:00:00.000\x0154=Z\x0155=X\x01",
			kind: FieldOutOfOrder,
			tag:  fix.TagSendingTime,
		},
		{
			name: "header violation ahead of late header field",
			body: "35=D\x0149=CLIENT\x0156=SERVER\x0134=3\x0143=maybe\x0111=ord\x0152=20240102-10:00:00.000\x0154=1\x01",
			kind: InvalidValue,
			tag:  fix.TagPossDupFlag,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(frame(tt.body), d)
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.tag, got.Tag)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{name: "not xml", xml: "nope"},
		{name: "missing version", xml: `<fix><fields/></fix>`},
		{
			name: "unknown field",
			xml: `<fix major="4" minor="2"><header/><trailer/>
				<messages><message name="Heartbeat" msgtype="0" msgcat="admin"><field name="Nope" required="N"/></message></messages>
				<components/><fields/></fix>`,
		},
		{
			name: "unknown component",
			xml: `<fix major="4" minor="2"><header/><trailer/>
				<messages><message name="Heartbeat" msgtype="0" msgcat="admin"><component name="Nope" required="N"/></message></messages>
				<components/><fields/></fix>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.xml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FIX42(t *testing.T) {
	xml := `<fix major="4" minor="2">
		<header><field name="BeginString" required="Y"/><field name="MsgType" required="Y"/></header>
		<trailer><field name="CheckSum" required="Y"/></trailer>
		<messages><message name="Heartbeat" msgtype="0" msgcat="admin"><field name="TestReqID" required="N"/></message></messages>
		<components/>
		<fields>
			<field number="8" name="BeginString" type="STRING"/>
			<field number="10" name="CheckSum" type="STRING"/>
			<field number="35" name="MsgType" type="STRING"/>
			<field number="112" name="TestReqID" type="STRING"/>
		</fields></fix>`
	d, err := Load(strings.NewReader(xml))
	require.NoError(t, err)
	assert.Equal(t, "FIX.4.2", d.BeginString)
	_, ok := d.Message(fix.MsgTypeHeartbeat)
	assert.True(t, ok)
}

func leftPad(n int) string {
	s := strconv.Itoa(n)
	return strings.Repeat("0", 3-len(s)) + s
}
