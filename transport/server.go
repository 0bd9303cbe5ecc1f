// Package transport exposes the workflow over Connect RPC. Messages are
// google.protobuf.Struct values carrying the JSON form of requests and
// consolidated bids, so the service speaks the Connect, gRPC and gRPC-Web
// protocols without generated stubs.
package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/rfp/archive"
	"github.com/tailored-agentic-units/rfp/observability"
	"github.com/tailored-agentic-units/rfp/rfp"
	"github.com/tailored-agentic-units/rfp/store"
	"github.com/tailored-agentic-units/rfp/workflow"
)

const (
	ServiceName       = "rfp.v1.BidService"
	EvaluateProcedure = "/" + ServiceName + "/Evaluate"
	GetBidProcedure   = "/" + ServiceName + "/GetBid"
)

const EventRPCCall observability.EventType = "rpc.call"

// Evaluator runs one request through the workflow.
type Evaluator interface {
	Run(ctx context.Context, req rfp.Request) (*workflow.State, error)
}

// BidLookup retrieves a previously consolidated bid.
type BidLookup interface {
	Bid(ctx context.Context, runID string) (*workflow.ConsolidatedBid, error)
}

type server struct {
	eval   Evaluator
	lookup BidLookup
}

// NewHandler returns an http.Handler serving the BidService procedures.
// lookup may be nil, in which case GetBid reports Unimplemented.
func NewHandler(eval Evaluator, lookup BidLookup, observer observability.Observer, opts ...connect.HandlerOption) http.Handler {
	s := &server{eval: eval, lookup: lookup}

	if observer != nil {
		opts = append(opts, connect.WithInterceptors(observe(observer)))
	}

	mux := http.NewServeMux()
	mux.Handle(EvaluateProcedure, connect.NewUnaryHandler(EvaluateProcedure, s.evaluate, opts...))
	mux.Handle(GetBidProcedure, connect.NewUnaryHandler(GetBidProcedure, s.getBid, opts...))
	return mux
}

func (s *server) evaluate(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var r rfp.Request
	if err := fromStruct(req.Msg, &r); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	st, err := s.eval.Run(ctx, r)
	if err != nil && (st == nil || st.Bid == nil) {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if err != nil {
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	msg, err := toStruct(st.Bid)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

func (s *server) getBid(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	if s.lookup == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("no bid store configured"))
	}

	runID := req.Msg.GetFields()["run_id"].GetStringValue()
	if runID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("run_id is required"))
	}

	bid, err := s.lookup.Bid(ctx, runID)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, archive.ErrKeyNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	msg, err := toStruct(bid)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

// observe reports every unary call to observer with its procedure, result
// code and duration.
func observe(observer observability.Observer) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			level := observability.LevelInfo
			if err != nil {
				code = connect.CodeOf(err).String()
				level = observability.LevelWarning
			}

			observer.OnEvent(ctx, observability.Event{
				Type:      EventRPCCall,
				Level:     level,
				Timestamp: time.Now(),
				Source:    ServiceName,
				Data: map[string]any{
					"procedure":                 req.Spec().Procedure,
					"code":                      code,
					observability.KeyDurationMS: time.Since(start).Milliseconds(),
				},
			})
			return resp, err
		}
	}
}
