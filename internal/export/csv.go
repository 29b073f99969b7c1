// Package export renders an owner's investment records as downloadable
// CSV and PDF documents.
package export

import (
	"bytes"
	"fmt"

	"github.com/gocarina/gocsv"

	"github.com/ovaphlow/pitchfork/service-investment-go/internal/investment/entity"
)

const (
	CSVFilename = "investments.csv"
	PDFFilename = "investments.pdf"
)

type csvRow struct {
	ProjectName     string  `csv:"projectName"`
	AmountInvested  float64 `csv:"amountInvested"`
	EnergyGenerated float64 `csv:"energyGenerated"`
	Returns         float64 `csv:"returns"`
}

// CSV writes a header line plus one line per record, in input order.
func CSV(recs []entity.Investment) ([]byte, error) {
	rows := make([]csvRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, csvRow{
			ProjectName:     r.ProjectName,
			AmountInvested:  r.AmountInvested,
			EnergyGenerated: r.EnergyGenerated,
			Returns:         r.Returns,
		})
	}
	var buf bytes.Buffer
	if err := gocsv.Marshal(rows, &buf); err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}
	return buf.Bytes(), nil
}
