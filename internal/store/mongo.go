package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fixengine/internal/fix"
	pkgmongo "fixengine/pkg/mongo"
	"fixengine/schema"
)

const (
	messagesCollection = "fix_messages"
	sessionsCollection = "fix_sessions"
)

// MongoStore keeps messages in one collection and sequence numbers in another.
type MongoStore struct {
	db       *pkgmongo.Database
	messages *mongo.Collection
	sessions *mongo.Collection
	now      func() time.Time
}

func DialMongo(ctx context.Context, uri, name string) (*MongoStore, error) {
	db, err := pkgmongo.InitConnection(ctx, uri, name)
	if err != nil {
		return nil, err
	}
	s := NewMongoStore(db.InitCollection(messagesCollection), db.InitCollection(sessionsCollection))
	s.db = db

	_, err = s.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "session", Value: 1}, {Key: "seq_num", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func NewMongoStore(messages, sessions *mongo.Collection) *MongoStore {
	return &MongoStore{messages: messages, sessions: sessions, now: time.Now}
}

func (s *MongoStore) Append(ctx context.Context, id fix.SessionID, seq int, raw []byte) error {
	key := id.String()
	doc := schema.Message{
		ID:        schema.MessageKey(key, seq),
		Session:   key,
		SeqNum:    seq,
		Raw:       raw,
		Timestamp: s.now().UTC(),
	}
	_, err := s.messages.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Get(ctx context.Context, id fix.SessionID, from, to int) ([]StoredMessage, error) {
	if to < from {
		return nil, nil
	}
	filter := bson.M{
		"session": id.String(),
		"seq_num": bson.M{"$gte": from, "$lte": to},
	}
	cur, err := s.messages.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "seq_num", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []StoredMessage
	for cur.Next(ctx) {
		var doc schema.Message
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, StoredMessage{SeqNum: doc.SeqNum, Raw: doc.Raw, Timestamp: doc.Timestamp})
	}
	return out, cur.Err()
}

func (s *MongoStore) Reset(ctx context.Context, id fix.SessionID) error {
	if _, err := s.messages.DeleteMany(ctx, bson.M{"session": id.String()}); err != nil {
		return err
	}
	return s.SetSequences(ctx, id, InitialSequences(s.now().UTC()))
}

func (s *MongoStore) Sequences(ctx context.Context, id fix.SessionID) (Sequences, error) {
	var doc schema.Session
	err := s.sessions.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return InitialSequences(s.now().UTC()), nil
	}
	if err != nil {
		return Sequences{}, err
	}
	return Sequences{NextSender: doc.NextSender, NextTarget: doc.NextTarget, CreatedAt: doc.CreatedAt}, nil
}

func (s *MongoStore) SetSequences(ctx context.Context, id fix.SessionID, seqs Sequences) error {
	if seqs.CreatedAt.IsZero() {
		seqs.CreatedAt = s.now().UTC()
	}
	update := bson.M{
		"$set": bson.M{
			"next_sender": seqs.NextSender,
			"next_target": seqs.NextTarget,
			"created_at":  seqs.CreatedAt,
		},
	}
	_, err := s.sessions.UpdateOne(ctx, bson.M{"_id": id.String()}, update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) Close() error {
	if s.db == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.db.Close(ctx)
}
