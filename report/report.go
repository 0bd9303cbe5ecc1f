// Package report renders consolidated bids as terminal or Markdown tables.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tailored-agentic-units/rfp/workflow"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// ParseMode maps "text", "ascii", "markdown" and "md" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "text", "ascii":
		return ASCII, nil
	case "markdown", "md":
		return Markdown, nil
	default:
		return ASCII, fmt.Errorf("unknown report format: %s", s)
	}
}

func newTable(title string, m Mode) table.Writer {
	w := table.NewWriter()
	w.SetTitle(title)
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return w
}

func render(w table.Writer, m Mode) string {
	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

func right(cols ...int) []table.ColumnConfig {
	cfgs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		cfgs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight, AlignFooter: text.AlignRight}
	}
	return cfgs
}

// Bid writes every section of a consolidated bid that has data.
func Bid(out io.Writer, bid *workflow.ConsolidatedBid, m Mode) error {
	sections := []string{summary(bid, m)}
	if len(bid.Matches) > 0 {
		sections = append(sections, matches(bid, m))
	}
	if bid.Pricing != nil {
		sections = append(sections, pricingTable(bid, m))
	}
	if bid.Advisory != nil {
		sections = append(sections, sensitivity(bid, m))
	}
	sections = append(sections, audit(bid, m))

	_, err := io.WriteString(out, strings.Join(sections, "\n\n")+"\n")
	return err
}

func summary(bid *workflow.ConsolidatedBid, m Mode) string {
	w := newTable("Bid "+bid.RFPID, m)
	w.AppendRow(table.Row{"Run", bid.RunID})
	if bid.Title != "" {
		w.AppendRow(table.Row{"Title", bid.Title})
	}
	if bid.Client != "" {
		w.AppendRow(table.Row{"Client", bid.Client})
	}
	w.AppendRow(table.Row{"Outcome", bid.Outcome})
	if q := bid.Qualification; q != nil {
		w.AppendRow(table.Row{"Risk", fmt.Sprintf("%.1f (%s, %s)", q.Score, q.Level, q.Priority)})
		w.AppendRow(table.Row{"Days to due", q.DaysToDue})
	}
	if p := bid.Pricing; p != nil {
		w.AppendRow(table.Row{"Grand total", fmt.Sprintf("%s %s", p.GrandTotal.StringFixed(2), p.Currency)})
	}
	if a := bid.Advisory; a != nil {
		w.AppendRow(table.Row{"Win probability gain", fmt.Sprintf("%.1f%%", a.Competitive.WinProbabilityGain)})
	}
	if f := bid.Failure; f != nil {
		w.AppendRow(table.Row{"Failure", fmt.Sprintf("%s at %s: %s", f.Kind, f.Stage, f.Message)})
	}
	for _, r := range bid.Reasons {
		w.AppendRow(table.Row{"Reason", r})
	}
	w.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 72}})
	return render(w, m)
}

func matches(bid *workflow.ConsolidatedBid, m Mode) string {
	w := newTable("Technical match", m)
	w.AppendHeader(table.Row{"Line", "SKU", "Score", "Status", "Attempt"})
	for _, r := range bid.Matches {
		sku := "-"
		if r.Candidate != nil {
			sku = r.Candidate.ID
		}
		w.AppendRow(table.Row{r.Line, sku, fmt.Sprintf("%.1f", r.Score), r.Status, r.Attempt})
	}
	w.SetColumnConfigs(right(1, 3, 5))
	return render(w, m)
}

func pricingTable(bid *workflow.ConsolidatedBid, m Mode) string {
	p := bid.Pricing
	w := newTable("Pricing ("+p.Currency+")", m)
	w.AppendHeader(table.Row{"Line", "SKU", "Quantity", "Unit price", "Material", "Services", "Subtotal"})
	for _, l := range p.Lines {
		w.AppendRow(table.Row{
			l.Line, l.SKU, l.Quantity.String(), l.UnitPrice.StringFixed(2),
			l.MaterialCost.StringFixed(2), l.ServiceCost.StringFixed(2), l.Subtotal.StringFixed(2),
		})
	}
	w.AppendFooter(table.Row{"", "", "", "", "", "Margin", p.Margin.StringFixed(2)})
	w.AppendFooter(table.Row{"", "", "", "", "", "Risk premium", p.RiskPremium.StringFixed(2)})
	w.AppendFooter(table.Row{"", "", "", "", "", "Grand total", p.GrandTotal.StringFixed(2)})
	w.SetColumnConfigs(right(1, 3, 4, 5, 6, 7))
	return render(w, m)
}

func sensitivity(bid *workflow.ConsolidatedBid, m Mode) string {
	a := bid.Advisory
	w := newTable("Commodity sensitivity", m)
	w.AppendHeader(table.Row{"Shift", "Grand total", "Delta", "Margin delta"})
	for _, s := range a.Sensitivity {
		w.AppendRow(table.Row{
			fmt.Sprintf("%+.0f%%", s.ShiftPercent), s.GrandTotal.StringFixed(2),
			s.Delta.StringFixed(2), s.MarginDelta.StringFixed(2),
		})
	}
	w.AppendFooter(table.Row{"ROI", fmt.Sprintf("%.2f saved", a.ROI.Savings), fmt.Sprintf("%.1f%%", a.ROI.SavingsPercent), ""})
	w.SetColumnConfigs(right(1, 2, 3, 4))
	return render(w, m)
}

func audit(bid *workflow.ConsolidatedBid, m Mode) string {
	w := newTable("Audit", m)
	w.AppendHeader(table.Row{"#", "Time", "From", "To", "Reason"})
	for i, e := range bid.Audit {
		w.AppendRow(table.Row{i + 1, e.Timestamp.UTC().Format(time.RFC3339), e.From, e.To, e.Reason})
	}
	w.SetColumnConfigs(append(right(1), table.ColumnConfig{Number: 5, WidthMax: 60}))
	return render(w, m)
}

// Batch writes one summary row per bid with outcome totals in the footer.
func Batch(out io.Writer, bids []*workflow.ConsolidatedBid, m Mode) error {
	w := newTable("Batch", m)
	w.AppendHeader(table.Row{"RFP", "Client", "Outcome", "Risk", "Grand total", "Reasons"})

	counts := make(map[workflow.Outcome]int)
	for _, b := range bids {
		counts[b.Outcome]++

		risk, total := "-", "-"
		if b.Qualification != nil {
			risk = fmt.Sprintf("%.1f", b.Qualification.Score)
		}
		if b.Pricing != nil {
			total = b.Pricing.GrandTotal.StringFixed(2)
		}
		w.AppendRow(table.Row{b.RFPID, b.Client, b.Outcome, risk, total, strings.Join(b.Reasons, "; ")})
	}

	w.AppendFooter(table.Row{
		fmt.Sprintf("%d runs", len(bids)), "",
		fmt.Sprintf("%d approved / %d escalated / %d declined / %d failed",
			counts[workflow.OutcomeApproved], counts[workflow.OutcomeEscalated],
			counts[workflow.OutcomeDeclined], counts[workflow.OutcomeFailed]),
		"", "", "",
	})
	w.SetColumnConfigs(append(right(4, 5), table.ColumnConfig{Number: 6, WidthMax: 50}))

	_, err := io.WriteString(out, render(w, m)+"\n")
	return err
}
