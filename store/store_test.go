package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/rfp/orchestrate/state"
	"github.com/tailored-agentic-units/rfp/pricing"
	"github.com/tailored-agentic-units/rfp/risk"
	"github.com/tailored-agentic-units/rfp/store"
	"github.com/tailored-agentic-units/rfp/workflow"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func open(t *testing.T) *store.SQLStore {
	t.Helper()
	s, err := store.Open("sqlite", filepath.Join(t.TempDir(), "data", "rfp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func bid(runID, rfpID string, outcome workflow.Outcome, at time.Time) *workflow.ConsolidatedBid {
	return &workflow.ConsolidatedBid{
		RunID:         runID,
		RFPID:         rfpID,
		Client:        "State Utility",
		Outcome:       outcome,
		Reasons:       []string{"decision recorded"},
		Qualification: &risk.Result{Score: 3, Level: risk.LevelMedium, Qualifies: true},
		Pricing:       &pricing.Result{Currency: "INR", GrandTotal: decimal.RequireFromString("1234567.891")},
		Audit:         []workflow.AuditEntry{{Timestamp: at, From: "decided", To: "decided", Reason: "done"}},
		DecidedAt:     at,
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := store.Open("postgres", "ignored")
	require.Error(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rfp.db")

	s, err := store.Open("sqlite", path)
	require.NoError(t, err)
	require.NoError(t, s.Emit(context.Background(), bid("run-1", "RFP-1", workflow.OutcomeApproved, epoch)))
	require.NoError(t, s.Close())

	s, err = store.Open("sqlite", path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Bid(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "RFP-1", got.RFPID)
}

func TestSQLStore_Bids(t *testing.T) {
	s := open(t)
	ctx := context.Background()

	require.NoError(t, s.Emit(ctx, bid("run-1", "RFP-1", workflow.OutcomeApproved, epoch)))
	require.NoError(t, s.Emit(ctx, bid("run-2", "RFP-2", workflow.OutcomeDeclined, epoch.Add(time.Hour))))
	require.NoError(t, s.Emit(ctx, bid("run-3", "RFP-1", workflow.OutcomeEscalated, epoch.Add(2*time.Hour))))

	t.Run("round trip", func(t *testing.T) {
		got, err := s.Bid(ctx, "run-1")
		require.NoError(t, err)
		assert.Equal(t, workflow.OutcomeApproved, got.Outcome)
		assert.True(t, got.Pricing.GrandTotal.Equal(decimal.RequireFromString("1234567.891")))
		assert.Len(t, got.Audit, 1)
		assert.True(t, got.DecidedAt.Equal(epoch))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.Bid(ctx, "missing")
		assert.True(t, errors.Is(err, store.ErrNotFound))
	})

	t.Run("list all newest first", func(t *testing.T) {
		got, err := s.ListBids(ctx, store.Filter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "run-3", got[0].RunID)
		assert.Equal(t, "1234567.89", got[0].GrandTotal)
		require.NotNil(t, got[0].RiskScore)
		assert.Equal(t, 3.0, *got[0].RiskScore)
	})

	t.Run("filter by rfp", func(t *testing.T) {
		got, err := s.ListBids(ctx, store.Filter{RFPID: "RFP-1"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("filter by outcome with limit", func(t *testing.T) {
		got, err := s.ListBids(ctx, store.Filter{Outcome: workflow.OutcomeDeclined, Limit: 5})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "run-2", got[0].RunID)
	})

	t.Run("replace on same run", func(t *testing.T) {
		require.NoError(t, s.Emit(ctx, bid("run-1", "RFP-1", workflow.OutcomeFailed, epoch)))
		got, err := s.Bid(ctx, "run-1")
		require.NoError(t, err)
		assert.Equal(t, workflow.OutcomeFailed, got.Outcome)
	})
}

func TestSQLStore_Emit_FailedBidWithoutPricing(t *testing.T) {
	s := open(t)
	ctx := context.Background()

	failed := &workflow.ConsolidatedBid{RunID: "run-f", RFPID: "RFP-F", Outcome: workflow.OutcomeFailed, DecidedAt: epoch}
	require.NoError(t, s.Emit(ctx, failed))

	got, err := s.ListBids(ctx, store.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].RiskScore)
	assert.Empty(t, got[0].GrandTotal)
}

func TestSQLStore_Checkpoints(t *testing.T) {
	s := open(t)

	cp := state.Checkpoint{RunID: "run-b", Node: "matching", Timestamp: epoch, Data: []byte(`{"id":"run-b"}`)}
	require.NoError(t, s.Save(cp))
	require.NoError(t, s.Save(state.Checkpoint{RunID: "run-a", Node: "pricing", Timestamp: epoch, Data: []byte(`{}`)}))

	got, err := s.Load("run-b")
	require.NoError(t, err)
	assert.Equal(t, "matching", got.Node)
	assert.Equal(t, cp.Data, got.Data)
	assert.True(t, got.Timestamp.Equal(epoch))

	ids, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"run-a", "run-b"}, ids)

	cp.Node = "pricing_check"
	require.NoError(t, s.Save(cp))
	got, err = s.Load("run-b")
	require.NoError(t, err)
	assert.Equal(t, "pricing_check", got.Node)

	require.NoError(t, s.Delete("run-b"))
	require.NoError(t, s.Delete("run-b"))

	_, err = s.Load("run-b")
	assert.True(t, errors.Is(err, state.ErrCheckpointNotFound))
}

func TestMySQLDSN(t *testing.T) {
	got := store.MySQLDSN("rfp", "secret", "db", "3306", "bids")
	assert.Equal(t, "rfp:secret@tcp(db:3306)/bids?parseTime=true&loc=Local", got)
}
