package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"fixengine/schema"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	ts := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	mt.Run("get returns documents in order", func(mt *mtest.T) {
		s := NewMongoStore(mt.Coll, mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: schema.MessageKey(sessionA.String(), 2)}, {Key: "session", Value: sessionA.String()}, {Key: "seq_num", Value: 2}, {Key: "raw", Value: []byte("two")}, {Key: "timestamp", Value: ts}},
				bson.D{{Key: "_id", Value: schema.MessageKey(sessionA.String(), 3)}, {Key: "session", Value: sessionA.String()}, {Key: "seq_num", Value: 3}, {Key: "raw", Value: []byte("three")}, {Key: "timestamp", Value: ts}},
			),
		)

		got, err := s.Get(context.Background(), sessionA, 2, 3)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 2, got[0].SeqNum)
		assert.Equal(t, []byte("three"), got[1].Raw)
	})

	mt.Run("missing sequences default to one", func(mt *mtest.T) {
		s := NewMongoStore(mt.Coll, mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		seqs, err := s.Sequences(context.Background(), sessionA)
		require.NoError(t, err)
		assert.Equal(t, 1, seqs.NextSender)
		assert.Equal(t, 1, seqs.NextTarget)
	})

	mt.Run("append upserts", func(mt *mtest.T) {
		s := NewMongoStore(mt.Coll, mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(t, s.Append(context.Background(), sessionA, 1, []byte("one")))
	})
}
