package app

import (
	"fmt"

	"fyne.io/fyne/v2/widget"

	"yashubustudio/reviewlens/review"
)

const noExample = "(aucun exemple)"

const (
	msgPrediction = "Le modèle prédit : %s"
	msgEmptyInput = "Veuillez entrer un avis avant de prédire."
	msgNotEnglish = "Veuillez entrer un avis rédigé en anglais."
	msgError      = "Erreur : %v"
)

// resultMessage renders a prediction for the result label.
func resultMessage(pred review.Prediction) (string, widget.Importance) {
	switch pred.Outcome {
	case review.OutcomeClassified:
		return fmt.Sprintf(msgPrediction, pred.Label), widget.SuccessImportance
	case review.OutcomeEmptyInput:
		return msgEmptyInput, widget.WarningImportance
	case review.OutcomeRejected:
		return msgNotEnglish, widget.WarningImportance
	default:
		return fmt.Sprintf(msgError, pred.Err), widget.DangerImportance
	}
}

func reviewHeaders(cols review.Columns) []string {
	return []string{cols.Date, cols.Product, cols.Review}
}

func buildTableData(t *review.Table, cols review.Columns) [][]string {
	return t.Project(reviewHeaders(cols)...)
}

func predictionHeaders(cols review.Columns) []string {
	return []string{cols.Insurer, cols.Review, cols.Rating, "prédiction"}
}

func buildPredictionTable(rows []review.RowPrediction) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		rating := ""
		if r.Record.HasRating {
			rating = review.FormatRating(r.Record.Rating)
		}
		label := r.Label
		if r.Err != nil {
			label = fmt.Sprintf(msgError, r.Err)
		}
		out[i] = []string{r.Record.Insurer, r.Record.Review, rating, label}
	}
	return out
}

func insurerOptions(t *review.Table, cols review.Columns) []string {
	return append([]string{review.AllInsurers}, review.Insurers(t, cols)...)
}

func exampleOptions(t *review.Table, cols review.Columns, n int) []string {
	return append([]string{noExample}, review.ExampleReviews(t, cols, n)...)
}
