// Package pdf renders a party statement as a printable PDF.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/gautampharma/ledger/pkg/ledger"
)

const dateLayout = "02/01/2006"

// Render lays out the statement as a single table with a closing-balance
// line. The rupee sign is not in the core fonts, so amounts print bare.
func Render(st ledger.Statement) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Statement - %s", st.Party), false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, "Gautam Pharma", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 8, fmt.Sprintf("Statement of Account: %s", st.Party), "", 1, "C", false, 0, "")
	if !st.From.IsZero() || !st.To.IsZero() {
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, 6, fmt.Sprintf("Period: %s to %s", formatDate(st, true), formatDate(st, false)), "", 1, "C", false, 0, "")
	}
	doc.Ln(4)

	widths := []float64{25, 75, 30, 30, 30}
	headers := []string{"Date", "Description", "Debit", "Credit", "Balance"}

	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	for i, h := range headers {
		doc.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	if len(st.Entries) == 0 {
		doc.CellFormat(sum(widths), 8, "No transactions in this period", "1", 1, "C", false, 0, "")
	}
	for _, e := range st.Entries {
		doc.CellFormat(widths[0], 7, e.Date.Format(dateLayout), "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[1], 7, e.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[2], 7, e.Debit.StringFixed(2), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], 7, e.Credit.StringFixed(2), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[4], 7, e.Running.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 11)
	label := "Closing Balance (receivable)"
	if st.Balance.IsNegative() {
		label = "Closing Balance (payable)"
	}
	doc.CellFormat(0, 8, fmt.Sprintf("%s: %s", label, st.Balance.StringFixed(2)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func formatDate(st ledger.Statement, from bool) string {
	d := st.To
	if from {
		d = st.From
	}
	if d.IsZero() {
		return "-"
	}
	return d.Format(dateLayout)
}

func sum(ws []float64) float64 {
	var total float64
	for _, w := range ws {
		total += w
	}
	return total
}
