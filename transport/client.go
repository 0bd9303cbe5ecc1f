package transport

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/rfp/rfp"
	"github.com/tailored-agentic-units/rfp/workflow"
)

// Client calls a remote BidService.
type Client struct {
	evaluate *connect.Client[structpb.Struct, structpb.Struct]
	getBid   *connect.Client[structpb.Struct, structpb.Struct]
}

// NewClient creates a Client for the service at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &Client{
		evaluate: connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+EvaluateProcedure, opts...),
		getBid:   connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+GetBidProcedure, opts...),
	}
}

// Evaluate submits a request and returns the consolidated bid.
func (c *Client) Evaluate(ctx context.Context, req rfp.Request) (*workflow.ConsolidatedBid, error) {
	msg, err := toStruct(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.evaluate.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}
	var bid workflow.ConsolidatedBid
	if err := fromStruct(resp.Msg, &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}

// GetBid fetches a stored bid by run ID.
func (c *Client) GetBid(ctx context.Context, runID string) (*workflow.ConsolidatedBid, error) {
	msg, err := structpb.NewStruct(map[string]any{"run_id": runID})
	if err != nil {
		return nil, err
	}
	resp, err := c.getBid.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}
	var bid workflow.ConsolidatedBid
	if err := fromStruct(resp.Msg, &bid); err != nil {
		return nil, err
	}
	return &bid, nil
}
