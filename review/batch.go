package review

import (
	"context"
	"errors"
	"strings"
)

// Labeler classifies trusted text.
type Labeler interface {
	Label(ctx context.Context, text string) (string, error)
}

// RowPrediction pairs a dataset row with its predicted label or error.
type RowPrediction struct {
	Row    int
	Record Record
	Label  string
	Err    error
}

var errBlankReview = errors.New("review text is blank")

// PredictDataset labels the first n rows of t. A failing row keeps its error and
// the remaining rows are still processed.
func PredictDataset(ctx context.Context, l Labeler, t *Table, cols Columns, n int, progress func(done, total int)) []RowPrediction {
	head := t.Head(n)
	total := head.Len()
	out := make([]RowPrediction, total)
	for i := 0; i < total; i++ {
		rec := head.Record(i, cols)
		row := RowPrediction{Row: i, Record: rec}
		switch {
		case ctx.Err() != nil:
			row.Err = ctx.Err()
		case strings.TrimSpace(rec.Review) == "":
			row.Err = errBlankReview
		default:
			row.Label, row.Err = l.Label(ctx, rec.Review)
		}
		out[i] = row
		if progress != nil {
			progress(i+1, total)
		}
	}
	return out
}
