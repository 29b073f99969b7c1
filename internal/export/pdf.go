package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/ovaphlow/pitchfork/service-investment-go/internal/investment/entity"
)

const reportTitle = "Renewable Investments Report"

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PDF renders a one-column A4 report: a centered title, then four lines
// per record.
func PDF(recs []entity.Investment) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(reportTitle, true)
	// core fonts are cp1252; the translator maps € into it
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, tr(reportTitle), "", 1, "C", false, 0, "")
	doc.Ln(6)

	for i, r := range recs {
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 7, tr(fmt.Sprintf("%d. %s", i+1, r.ProjectName)), "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.CellFormat(0, 6, tr("Invested: "+num(r.AmountInvested)+" €"), "", 1, "L", false, 0, "")
		doc.CellFormat(0, 6, tr("Generated: "+num(r.EnergyGenerated)+" kWh"), "", 1, "L", false, 0, "")
		doc.CellFormat(0, 6, tr("Returns: "+num(r.Returns)+"%"), "", 1, "L", false, 0, "")
		doc.Ln(4)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
