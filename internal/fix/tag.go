package fix

import (
	"strconv"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/tag"
)

// Tag is a FIX field number.
type Tag int

func (t Tag) String() string {
	return strconv.Itoa(int(t))
}

// Session level tags used by the engine.
const (
	TagBeginString            = Tag(tag.BeginString)
	TagBodyLength             = Tag(tag.BodyLength)
	TagMsgType                = Tag(tag.MsgType)
	TagMsgSeqNum              = Tag(tag.MsgSeqNum)
	TagSenderCompID           = Tag(tag.SenderCompID)
	TagTargetCompID           = Tag(tag.TargetCompID)
	TagSenderSubID            = Tag(tag.SenderSubID)
	TagTargetSubID            = Tag(tag.TargetSubID)
	TagSendingTime            = Tag(tag.SendingTime)
	TagOrigSendingTime        = Tag(tag.OrigSendingTime)
	TagPossDupFlag            = Tag(tag.PossDupFlag)
	TagPossResend             = Tag(tag.PossResend)
	TagCheckSum               = Tag(tag.CheckSum)
	TagSignatureLength        = Tag(tag.SignatureLength)
	TagSignature              = Tag(tag.Signature)
	TagSecureDataLen          = Tag(tag.SecureDataLen)
	TagSecureData             = Tag(tag.SecureData)
	TagXmlDataLen             = Tag(tag.XmlDataLen)
	TagXmlData                = Tag(tag.XmlData)
	TagRawDataLength          = Tag(tag.RawDataLength)
	TagRawData                = Tag(tag.RawData)
	TagEncryptMethod          = Tag(tag.EncryptMethod)
	TagHeartBtInt             = Tag(tag.HeartBtInt)
	TagResetSeqNumFlag        = Tag(tag.ResetSeqNumFlag)
	TagTestReqID              = Tag(tag.TestReqID)
	TagBeginSeqNo             = Tag(tag.BeginSeqNo)
	TagEndSeqNo               = Tag(tag.EndSeqNo)
	TagNewSeqNo               = Tag(tag.NewSeqNo)
	TagGapFillFlag            = Tag(tag.GapFillFlag)
	TagRefSeqNum              = Tag(tag.RefSeqNum)
	TagRefTagID               = Tag(tag.RefTagID)
	TagRefMsgType             = Tag(tag.RefMsgType)
	TagSessionRejectReason    = Tag(tag.SessionRejectReason)
	TagBusinessRejectReason   = Tag(tag.BusinessRejectReason)
	TagBusinessRejectRefID    = Tag(tag.BusinessRejectRefID)
	TagText                   = Tag(tag.Text)
	TagUsername               = Tag(tag.Username)
	TagPassword               = Tag(tag.Password)
	TagOnBehalfOfCompID       = Tag(tag.OnBehalfOfCompID)
	TagDeliverToCompID        = Tag(tag.DeliverToCompID)
	TagLastMsgSeqNumProcessed = Tag(tag.LastMsgSeqNumProcessed)
	TagDefaultApplVerID       = Tag(tag.DefaultApplVerID)
	TagApplVerID              = Tag(tag.ApplVerID)
)

// Administrative message types.
const (
	MsgTypeHeartbeat      = string(enum.MsgType_HEARTBEAT)
	MsgTypeTestRequest    = string(enum.MsgType_TEST_REQUEST)
	MsgTypeResendRequest  = string(enum.MsgType_RESEND_REQUEST)
	MsgTypeReject         = string(enum.MsgType_REJECT)
	MsgTypeSequenceReset  = string(enum.MsgType_SEQUENCE_RESET)
	MsgTypeLogout         = string(enum.MsgType_LOGOUT)
	MsgTypeLogon          = string(enum.MsgType_LOGON)
	MsgTypeBusinessReject = string(enum.MsgType_BUSINESS_MESSAGE_REJECT)
)

// IsAdminMsgType reports whether msgType belongs to the session layer.
func IsAdminMsgType(msgType string) bool {
	switch msgType {
	case MsgTypeHeartbeat, MsgTypeTestRequest, MsgTypeResendRequest,
		MsgTypeReject, MsgTypeSequenceReset, MsgTypeLogout, MsgTypeLogon:
		return true
	}
	return false
}

var headerTags = map[Tag]struct{}{
	TagBeginString: {}, TagBodyLength: {}, TagMsgType: {}, TagSenderCompID: {},
	TagTargetCompID: {}, TagOnBehalfOfCompID: {}, TagDeliverToCompID: {},
	TagSecureDataLen: {}, TagSecureData: {}, TagMsgSeqNum: {}, TagSenderSubID: {},
	142: {}, TagTargetSubID: {}, 143: {}, 116: {}, 144: {}, 129: {}, 145: {},
	TagPossDupFlag: {}, TagPossResend: {}, TagSendingTime: {}, TagOrigSendingTime: {},
	TagXmlDataLen: {}, TagXmlData: {}, 347: {}, TagLastMsgSeqNumProcessed: {},
	627: {}, 628: {}, 629: {}, 630: {}, TagApplVerID: {}, 1129: {}, 1156: {},
}

var trailerTags = map[Tag]struct{}{
	TagSignatureLength: {}, TagSignature: {}, TagCheckSum: {},
}

// IsHeaderTag reports whether t is a standard header field.
func IsHeaderTag(t Tag) bool {
	_, ok := headerTags[t]
	return ok
}

// IsTrailerTag reports whether t is a standard trailer field.
func IsTrailerTag(t Tag) bool {
	_, ok := trailerTags[t]
	return ok
}

// dataTags maps a length field to the data field whose value it sizes.
var dataTags = map[Tag]Tag{
	TagRawDataLength:   TagRawData,
	TagSignatureLength: TagSignature,
	TagSecureDataLen:   TagSecureData,
	TagXmlDataLen:      TagXmlData,

	Tag(tag.EncodedTextLen):                   Tag(tag.EncodedText),
	Tag(tag.EncodedIssuerLen):                 Tag(tag.EncodedIssuer),
	Tag(tag.EncodedSecurityDescLen):           Tag(tag.EncodedSecurityDesc),
	Tag(tag.EncodedListExecInstLen):           Tag(tag.EncodedListExecInst),
	Tag(tag.EncodedSubjectLen):                Tag(tag.EncodedSubject),
	Tag(tag.EncodedHeadlineLen):               Tag(tag.EncodedHeadline),
	Tag(tag.EncodedAllocTextLen):              Tag(tag.EncodedAllocText),
	Tag(tag.EncodedUnderlyingIssuerLen):       Tag(tag.EncodedUnderlyingIssuer),
	Tag(tag.EncodedUnderlyingSecurityDescLen): Tag(tag.EncodedUnderlyingSecurityDesc),
	Tag(tag.EncodedListStatusTextLen):         Tag(tag.EncodedListStatusText),
	Tag(tag.EncodedLegIssuerLen):              Tag(tag.EncodedLegIssuer),
	Tag(tag.EncodedLegSecurityDescLen):        Tag(tag.EncodedLegSecurityDesc),
}

// IsDataTag reports whether t carries a length-prefixed value.
func IsDataTag(t Tag) bool {
	for _, data := range dataTags {
		if data == t {
			return true
		}
	}
	return false
}

// SessionRejectReason values (tag 373).
const (
	RejectInvalidTagNumber         = 0
	RejectRequiredTagMissing       = 1
	RejectTagNotDefinedForMsgType  = 2
	RejectUndefinedTag             = 3
	RejectTagWithoutValue          = 4
	RejectValueIncorrect           = 5
	RejectIncorrectDataFormat      = 6
	RejectCompIDProblem            = 9
	RejectSendingTimeAccuracy      = 10
	RejectInvalidMsgType           = 11
	RejectTagAppearsMoreThanOnce   = 13
	RejectTagOutOfRequiredOrder    = 14
	RejectGroupFieldsOutOfOrder    = 15
	RejectIncorrectNumInGroupCount = 16
	RejectOther                    = 99
)

// BusinessRejectReason values (tag 380).
const (
	BusinessRejectOther                   = 0
	BusinessRejectUnknownID               = 1
	BusinessRejectUnsupportedMessageType  = 3
	BusinessRejectApplicationNotAvailable = 4
	BusinessRejectConditionallyRequired   = 5
)
