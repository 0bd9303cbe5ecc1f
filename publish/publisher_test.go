package publish_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/rfp/publish"
	"github.com/tailored-agentic-units/rfp/workflow"
)

type fakeConn struct {
	msgs       []*nats.Msg
	publishErr error
	flushes    int
	closed     bool
}

func (f *fakeConn) PublishMsg(m *nats.Msg) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.msgs = append(f.msgs, m)
	return nil
}

func (f *fakeConn) FlushWithContext(ctx context.Context) error {
	f.flushes++
	return ctx.Err()
}

func (f *fakeConn) Close() { f.closed = true }

func TestPublisher_Subject(t *testing.T) {
	tests := []struct {
		prefix  string
		outcome workflow.Outcome
		want    string
	}{
		{"", workflow.OutcomeApproved, "rfp.bids.approved"},
		{"sales.rfp.", workflow.OutcomeEscalated, "sales.rfp.escalated"},
		{"bids", workflow.OutcomeFailed, "bids.failed"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p := publish.New(&fakeConn{}, tt.prefix)
			assert.Equal(t, tt.want, p.Subject(tt.outcome))
		})
	}
}

func TestPublisher_Emit(t *testing.T) {
	conn := &fakeConn{}
	p := publish.New(conn, "rfp.bids")

	bid := &workflow.ConsolidatedBid{RunID: "run-1", RFPID: "RFP-GOV-2025-001", Outcome: workflow.OutcomeDeclined, Reasons: []string{"disqualified"}}
	require.NoError(t, p.Emit(context.Background(), bid))

	require.Len(t, conn.msgs, 1)
	msg := conn.msgs[0]
	assert.Equal(t, "rfp.bids.declined", msg.Subject)
	assert.Equal(t, "run-1", msg.Header.Get(nats.MsgIdHdr))
	assert.Equal(t, "Declined", msg.Header.Get(publish.HeaderOutcome))
	assert.Equal(t, "RFP-GOV-2025-001", msg.Header.Get(publish.HeaderRFPID))
	assert.Equal(t, 1, conn.flushes)

	var got workflow.ConsolidatedBid
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, bid.Reasons, got.Reasons)

	p.Close()
	assert.True(t, conn.closed)
}

func TestPublisher_Emit_Errors(t *testing.T) {
	bid := &workflow.ConsolidatedBid{RunID: "run-1", Outcome: workflow.OutcomeApproved}

	t.Run("cancelled context", func(t *testing.T) {
		conn := &fakeConn{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := publish.New(conn, "").Emit(ctx, bid)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, conn.msgs)
	})

	t.Run("publish failure", func(t *testing.T) {
		conn := &fakeConn{publishErr: nats.ErrConnectionClosed}
		err := publish.New(conn, "").Emit(context.Background(), bid)
		assert.True(t, errors.Is(err, nats.ErrConnectionClosed))
		assert.Zero(t, conn.flushes)
	})
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := publish.Connect("nats://127.0.0.1:1", "")
	assert.Error(t, err)
}
