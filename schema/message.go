package schema

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-memdb"
)

// Message is one stored outbound message.
type Message struct {
	ID        string    `json:"id" bson:"_id"`
	Session   string    `json:"session" bson:"session"`
	SeqNum    int       `json:"seq_num" bson:"seq_num"`
	Raw       []byte    `json:"raw" bson:"raw"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Session holds the persisted sequence counters of one session.
type Session struct {
	ID         string    `json:"id" bson:"_id"`
	NextSender int       `json:"next_sender" bson:"next_sender"`
	NextTarget int       `json:"next_target" bson:"next_target"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// MessageKey sorts lexically in sequence order within a session.
func MessageKey(session string, seq int) string {
	return fmt.Sprintf("%s|%020d", session, seq)
}

var MessageSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"messages": {
			Name: "messages",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"session": {
					Name:    "session",
					Unique:  false,
					Indexer: &memdb.StringFieldIndex{Field: "Session"},
				},
			},
		},
	},
}

var SessionSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"sessions": {
			Name: "sessions",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
			},
		},
	},
}
