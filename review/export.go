package review

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WritePredictionsCSV writes one line per dataset prediction, errors included.
func WritePredictionsCSV(w io.Writer, cols Columns, rows []RowPrediction) error {
	writer := csv.NewWriter(w)
	header := []string{"row", cols.Insurer, cols.Review, cols.Rating, "prediction", "error"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		rating := ""
		if r.Record.HasRating {
			rating = FormatRating(r.Record.Rating)
		}
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		record := []string{strconv.Itoa(r.Row + 1), r.Record.Insurer, r.Record.Review, rating, r.Label, errText}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush predictions: %w", err)
	}
	return nil
}
