package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tailored-agentic-units/rfp/catalog"
	"github.com/tailored-agentic-units/rfp/commodity"
	"github.com/tailored-agentic-units/rfp/rfp"
	"github.com/tailored-agentic-units/rfp/store"
)

// Rates writes a commodity snapshot.
func Rates(out io.Writer, snap commodity.Snapshot, m Mode) error {
	w := newTable(fmt.Sprintf("Commodity rates (%s per tonne)", snap.Currency), m)
	w.AppendHeader(table.Row{"Material", "Rate"})
	for _, name := range snap.Materials() {
		w.AppendRow(table.Row{name, fmt.Sprintf("%.2f", snap.Rates[name])})
	}
	w.AppendFooter(table.Row{"Source", snap.Source})
	w.SetColumnConfigs(right(2))

	_, err := io.WriteString(out, render(w, m)+"\n")
	return err
}

// Catalog writes the product range followed by the acceptance-test price
// list.
func Catalog(out io.Writer, products []rfp.CandidateSKU, costs *catalog.TestCosts, m Mode) error {
	pw := newTable("Products", m)
	pw.AppendHeader(table.Row{"SKU", "Material", "Insulation", "Cores", "Size mm²", "kV", "Base price", "Metal kg/km", "Certifications"})
	for _, p := range products {
		pw.AppendRow(table.Row{
			p.ID, p.Material, p.Insulation, p.Cores, p.SizeMM2, p.VoltageKV,
			fmt.Sprintf("%.2f", p.BasePrice), p.MetalWeightKgPerKm, strings.Join(p.Certifications, ", "),
		})
	}
	pw.SetColumnConfigs(right(4, 5, 6, 7, 8))

	tw := newTable("Acceptance tests", m)
	tw.AppendHeader(table.Row{"Test", "Cost"})
	for _, name := range costs.Names() {
		cost, _ := costs.CostOf(name)
		tw.AppendRow(table.Row{name, fmt.Sprintf("%.2f", cost)})
	}
	tw.SetColumnConfigs(right(2))

	_, err := io.WriteString(out, render(pw, m)+"\n\n"+render(tw, m)+"\n")
	return err
}

// Summaries writes stored bid index rows.
func Summaries(out io.Writer, rows []store.Summary, m Mode) error {
	w := newTable("Stored bids", m)
	w.AppendHeader(table.Row{"Run", "RFP", "Client", "Outcome", "Risk", "Grand total", "Decided"})
	for _, r := range rows {
		risk, total := "-", "-"
		if r.RiskScore != nil {
			risk = fmt.Sprintf("%.1f", *r.RiskScore)
		}
		if r.GrandTotal != "" {
			total = r.GrandTotal
		}
		w.AppendRow(table.Row{r.RunID, r.RFPID, r.Client, r.Outcome, risk, total, r.DecidedAt.UTC().Format(time.RFC3339)})
	}
	w.AppendFooter(table.Row{fmt.Sprintf("%d bids", len(rows))})
	w.SetColumnConfigs(right(5, 6))

	_, err := io.WriteString(out, render(w, m)+"\n")
	return err
}
