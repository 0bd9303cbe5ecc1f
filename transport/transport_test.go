package transport_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/rfp/archive"
	"github.com/tailored-agentic-units/rfp/observability"
	"github.com/tailored-agentic-units/rfp/pricing"
	"github.com/tailored-agentic-units/rfp/rfp"
	"github.com/tailored-agentic-units/rfp/transport"
	"github.com/tailored-agentic-units/rfp/workflow"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeEvaluator struct {
	sinkErr error
	got     rfp.Request
}

func (f *fakeEvaluator) Run(_ context.Context, req rfp.Request) (*workflow.State, error) {
	f.got = req
	st := &workflow.State{ID: "run-1", Request: req}
	st.Bid = &workflow.ConsolidatedBid{
		RunID:     st.ID,
		RFPID:     req.ID,
		Outcome:   workflow.OutcomeApproved,
		Pricing:   &pricing.Result{Currency: "INR", GrandTotal: decimal.RequireFromString("11284375.5")},
		DecidedAt: epoch,
	}
	return st, f.sinkErr
}

type recorder struct {
	mu     sync.Mutex
	events []observability.Event
}

func (r *recorder) OnEvent(_ context.Context, e observability.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func request() rfp.Request {
	return rfp.Request{
		ID:      "RFP-GOV-2025-001",
		Client:  "State Power Utility",
		DueDate: "2025-02-20",
		Lines: []rfp.LineItem{
			{Line: 1, Quantity: 5000, Material: "Copper", Insulation: "XLPE", Cores: 4, SizeMM2: 95, VoltageKV: 1.1},
		},
		Tests: []string{"High Voltage Dielectric Test"},
	}
}

func serve(t *testing.T, eval transport.Evaluator, lookup transport.BidLookup, obs observability.Observer) *transport.Client {
	t.Helper()
	srv := httptest.NewServer(transport.NewHandler(eval, lookup, obs))
	t.Cleanup(srv.Close)
	return transport.NewClient(srv.Client(), srv.URL+"/")
}

func TestEvaluate(t *testing.T) {
	eval := &fakeEvaluator{}
	obs := &recorder{}
	client := serve(t, eval, nil, obs)

	bid, err := client.Evaluate(context.Background(), request())
	require.NoError(t, err)

	assert.Equal(t, "RFP-GOV-2025-001", bid.RFPID)
	assert.Equal(t, workflow.OutcomeApproved, bid.Outcome)
	assert.True(t, bid.Pricing.GrandTotal.Equal(decimal.RequireFromString("11284375.5")))
	assert.True(t, bid.DecidedAt.Equal(epoch))

	assert.Equal(t, 4, eval.got.Lines[0].Cores)
	assert.Equal(t, 1.1, eval.got.Lines[0].VoltageKV)
	assert.Equal(t, []string{"High Voltage Dielectric Test"}, eval.got.Tests)

	require.Len(t, obs.events, 1)
	assert.Equal(t, transport.EventRPCCall, obs.events[0].Type)
	assert.Equal(t, transport.EvaluateProcedure, obs.events[0].Data["procedure"])
	assert.Equal(t, "ok", obs.events[0].Data["code"])
}

func TestEvaluate_SinkFailure(t *testing.T) {
	client := serve(t, &fakeEvaluator{sinkErr: errors.New("disk full")}, nil, nil)

	_, err := client.Evaluate(context.Background(), request())
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))
}

func TestGetBid(t *testing.T) {
	arch := archive.NewArchive(archive.NewFileStore(t.TempDir()))
	require.NoError(t, arch.Emit(context.Background(), &workflow.ConsolidatedBid{
		RunID: "run-7", RFPID: "RFP-PSU-2025-002", Outcome: workflow.OutcomeDeclined, DecidedAt: epoch,
	}))

	obs := &recorder{}
	client := serve(t, &fakeEvaluator{}, arch, obs)

	t.Run("found", func(t *testing.T) {
		bid, err := client.GetBid(context.Background(), "run-7")
		require.NoError(t, err)
		assert.Equal(t, "RFP-PSU-2025-002", bid.RFPID)
		assert.Equal(t, workflow.OutcomeDeclined, bid.Outcome)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.GetBid(context.Background(), "run-404")
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	})

	t.Run("missing run id", func(t *testing.T) {
		_, err := client.GetBid(context.Background(), "")
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	assert.Equal(t, "not_found", obs.events[1].Data["code"])
}

func TestGetBid_NoLookup(t *testing.T) {
	client := serve(t, &fakeEvaluator{}, nil, nil)

	_, err := client.GetBid(context.Background(), "run-1")
	assert.Equal(t, connect.CodeUnimplemented, connect.CodeOf(err))
}
