// Package publish announces consolidated bids on NATS so downstream systems
// (CRM, approval queues, dashboards) can react to finished runs.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/tailored-agentic-units/rfp/workflow"
)

// Header keys set on every published message.
const (
	HeaderMsgID   = nats.MsgIdHdr
	HeaderOutcome = "Rfp-Outcome"
	HeaderRFPID   = "Rfp-Id"
)

// Conn is the subset of *nats.Conn the publisher uses.
type Conn interface {
	PublishMsg(m *nats.Msg) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// Publisher implements workflow.Sink over a NATS connection.
type Publisher struct {
	conn   Conn
	prefix string
}

// New creates a Publisher that publishes to <prefix>.<outcome>.
func New(conn Conn, prefix string) *Publisher {
	if prefix == "" {
		prefix = "rfp.bids"
	}
	return &Publisher{conn: conn, prefix: strings.TrimSuffix(prefix, ".")}
}

// Connect dials the NATS server at url and returns a Publisher over the
// connection.
func Connect(url, prefix string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("rfp"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return New(nc, prefix), nil
}

// Subject returns the subject a bid with outcome is published on.
func (p *Publisher) Subject(outcome workflow.Outcome) string {
	return p.prefix + "." + strings.ToLower(string(outcome))
}

// Emit publishes the bid as JSON and flushes the connection. The run ID is
// the message ID so JetStream streams deduplicate redelivered bids.
func (p *Publisher) Emit(ctx context.Context, bid *workflow.ConsolidatedBid) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(bid)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	msg := nats.NewMsg(p.Subject(bid.Outcome))
	msg.Data = data
	msg.Header.Set(HeaderMsgID, bid.RunID)
	msg.Header.Set(HeaderOutcome, string(bid.Outcome))
	msg.Header.Set(HeaderRFPID, bid.RFPID)

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Subject, err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", msg.Subject, err)
	}
	return nil
}

// Close closes the underlying connection.
func (p *Publisher) Close() {
	p.conn.Close()
}

var _ workflow.Sink = (*Publisher)(nil)
