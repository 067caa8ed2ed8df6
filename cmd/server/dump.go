package server

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"fixengine/internal/fix"
	"fixengine/internal/store"
	"fixengine/pkg/utils"
)

// Dump writes the sequences of id and its stored messages from..to, one per
// line with SOH shown as '|'.
func Dump(ctx context.Context, w io.Writer, st store.MessageStore, id fix.SessionID, from, to int) error {
	seqs, err := st.Sequences(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "session %s\n", id)
	fmt.Fprintf(w, "next sender %d, next target %d, created %s\n",
		seqs.NextSender, seqs.NextTarget, seqs.CreatedAt.UTC().Format(time.RFC3339))

	if from < 1 {
		from = 1
	}
	if to == 0 {
		to = math.MaxInt32
	}
	msgs, err := st.Get(ctx, id, from, to)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		fmt.Fprintf(w, "%d\t%s\n", m.SeqNum, utils.Printable(m.Raw))
	}
	return nil
}
