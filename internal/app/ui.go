package app

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"yashubustudio/reviewlens/review"
)

type uiState struct {
	actx   *review.AppContext
	ctx    context.Context
	logger *zap.Logger
	w      fyne.Window

	// async runs inference off the UI goroutine; do returns to it.
	async func(func())
	do    func(func())

	insurerSel *widget.Select
	dataNotice *widget.Label
	tableTitle *widget.Label
	reviewTbl  *widget.Table
	headers    []string
	rows       [][]string
	chart      *ratingChart

	exampleSel *widget.Select
	input      *widget.Entry
	predictBtn *widget.Button
	result     *widget.Label

	compareChk    *widget.Check
	compareStatus *widget.Label
	compareTbl    *widget.Table
	compareHdr    []string
	compareRows   [][]string
	compareGen    int
	predictions   []review.RowPrediction
	exportBtn     *widget.Button

	logBind binding.String
}

func newUIState(a fyne.App, actx *review.AppContext, logger *zap.Logger) *uiState {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &uiState{
		actx:   actx,
		ctx:    context.Background(),
		logger: logger,
		w:      a.NewWindow("Prédiction d'avis assureurs"),
		async:  func(f func()) { go f() },
		do:     fyne.Do,
	}
}

func buildUI(a fyne.App, actx *review.AppContext, logger *zap.Logger, capture *LogCapture) *uiState {
	u := newUIState(a, actx, logger)
	u.build(capture)
	return u
}

func (u *uiState) build(capture *LogCapture) {
	cols := u.actx.Columns

	u.insurerSel = widget.NewSelect(nil, u.onInsurerChanged)
	u.dataNotice = widget.NewLabel("")
	u.dataNotice.Wrapping = fyne.TextWrapWord
	u.dataNotice.Hide()
	u.tableTitle = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	u.headers = reviewHeaders(cols)
	u.reviewTbl = newGridTable(func() []string { return u.headers }, func() [][]string { return u.rows })
	u.reviewTbl.SetColumnWidth(0, 130)
	u.reviewTbl.SetColumnWidth(1, 110)
	u.reviewTbl.SetColumnWidth(2, 420)
	u.chart = newRatingChart()

	u.exampleSel = widget.NewSelect(nil, u.onExampleSelected)
	u.exampleSel.PlaceHolder = noExample
	u.input = widget.NewMultiLineEntry()
	u.input.Wrapping = fyne.TextWrapWord
	u.input.SetPlaceHolder("Entrez votre avis (en anglais)")
	u.predictBtn = widget.NewButtonWithIcon("Prédire", theme.ConfirmIcon(), u.onPredict)
	u.result = widget.NewLabel("")
	u.result.Wrapping = fyne.TextWrapWord

	u.compareHdr = predictionHeaders(cols)
	u.compareChk = widget.NewCheck("Afficher les prédictions pour des exemples du dataset", u.onCompareToggled)
	u.compareStatus = widget.NewLabel("")
	u.compareTbl = newGridTable(func() []string { return u.compareHdr }, func() [][]string { return u.compareRows })
	u.compareTbl.SetColumnWidth(0, 140)
	u.compareTbl.SetColumnWidth(1, 420)
	u.compareTbl.SetColumnWidth(2, 60)
	u.compareTbl.SetColumnWidth(3, 160)
	u.compareTbl.Hide()
	u.exportBtn = widget.NewButtonWithIcon("Exporter CSV", theme.DocumentSaveIcon(), u.onExport)
	u.exportBtn.Disable()

	u.logBind = binding.NewString()
	logView := widget.NewEntryWithData(u.logBind)
	logView.MultiLine = true
	logView.Wrapping = fyne.TextWrapWord
	logView.Disable()
	if capture != nil {
		capture.Attach(u.logBind)
	}

	sidebar := container.NewVBox(
		widget.NewLabelWithStyle("Filtres", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Sélectionnez un assureur :"),
		u.insurerSel,
		u.dataNotice,
	)
	panes := container.NewGridWithColumns(2,
		container.NewBorder(u.tableTitle, nil, nil, nil, u.reviewTbl),
		container.NewVScroll(u.chart.object()),
	)
	prediction := container.NewVBox(
		widget.NewLabelWithStyle("Prédiction d'un avis", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Sélectionnez un exemple d'avis :"),
		u.exampleSel,
		u.input,
		u.predictBtn,
		u.result,
		widget.NewSeparator(),
		u.compareChk,
		container.NewBorder(nil, nil, nil, u.exportBtn, u.compareStatus),
	)
	dashboard := container.NewVSplit(panes, container.NewBorder(prediction, nil, nil, nil, u.compareTbl))
	dashboard.Offset = 0.45
	layout := container.NewHSplit(sidebar, dashboard)
	layout.Offset = 0.2

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Tableau de bord", theme.HomeIcon(), layout),
		container.NewTabItemWithIcon("Journal", theme.ListIcon(), logView),
	)
	u.w.SetContent(tabs)
	u.w.Resize(fyne.NewSize(1280, 820))

	u.applyDataState()
	u.applyModelState()
}

func newGridTable(headers func() []string, rows func() [][]string) *widget.Table {
	t := widget.NewTableWithHeaders(
		func() (int, int) { return len(rows()), len(headers()) },
		func() fyne.CanvasObject {
			lbl := widget.NewLabel("")
			lbl.Truncation = fyne.TextTruncateEllipsis
			return lbl
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			data := rows()
			if id.Row >= len(data) || id.Col >= len(data[id.Row]) {
				lbl.SetText("")
				return
			}
			lbl.SetText(data[id.Row][id.Col])
		},
	)
	t.ShowHeaderColumn = false
	t.CreateHeader = func() fyne.CanvasObject {
		return widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	}
	t.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		lbl := obj.(*widget.Label)
		names := headers()
		if id.Row < 0 && id.Col >= 0 && id.Col < len(names) {
			lbl.SetText(names[id.Col])
			return
		}
		lbl.SetText("")
	}
	return t
}

func (u *uiState) applyDataState() {
	if u.actx.DataErr != nil || u.actx.Data == nil {
		u.dataNotice.SetText(fmt.Sprintf("Jeu de données indisponible : %v", u.actx.DataErr))
		u.dataNotice.Importance = widget.DangerImportance
		u.dataNotice.Show()
		u.insurerSel.Disable()
		u.exampleSel.Disable()
		u.compareChk.Disable()
		u.chart.showMessage("Aucune donnée chargée.")
		return
	}
	u.insurerSel.Options = insurerOptions(u.actx.Data, u.actx.Columns)
	u.insurerSel.SetSelected(review.AllInsurers)
}

func (u *uiState) applyModelState() {
	if u.actx.ModelErr == nil && u.actx.Pipeline != nil {
		return
	}
	u.predictBtn.Disable()
	u.compareChk.Disable()
	u.setResult(fmt.Sprintf("Prédiction indisponible : %v", u.actx.ModelErr), widget.DangerImportance)
}

// filtered re-derives the current view from the selector.
func (u *uiState) filtered() *review.Table {
	return review.FilterByInsurer(u.actx.Data, u.actx.Columns, u.insurerSel.Selected)
}

func (u *uiState) onInsurerChanged(selection string) {
	view := u.filtered()
	cols := u.actx.Columns
	u.logger.Debug("insurer filter changed", zap.String("insurer", selection), zap.Int("rows", view.Len()))

	u.tableTitle.SetText(fmt.Sprintf("Avis pour l'assureur : %s", selection))
	u.rows = buildTableData(view, cols)
	u.reviewTbl.Refresh()

	if buckets, ok := review.RatingDistribution(view, cols); ok {
		u.chart.update(buckets)
	} else {
		u.chart.showMessage("Aucune colonne de note dans le jeu de données.")
	}

	u.exampleSel.Options = exampleOptions(view, cols, u.actx.Config.ExampleCount)
	u.exampleSel.ClearSelected()
	u.exampleSel.Refresh()

	if u.compareChk.Checked {
		u.refreshComparison()
	}
}

func (u *uiState) onExampleSelected(example string) {
	if example == noExample {
		example = ""
	}
	u.input.SetText(example)
}

func (u *uiState) onPredict() {
	p := u.actx.Pipeline
	if p == nil {
		return
	}
	text := u.input.Text
	u.predictBtn.Disable()
	u.setResult("Prédiction en cours...", widget.MediumImportance)
	u.async(func() {
		pred := p.Classify(u.ctx, text)
		u.logger.Info("prediction",
			zap.Stringer("outcome", pred.Outcome),
			zap.String("language", pred.Language),
			zap.String("label", pred.Label))
		u.do(func() {
			msg, imp := resultMessage(pred)
			u.setResult(msg, imp)
			u.predictBtn.Enable()
		})
	})
}

func (u *uiState) setResult(text string, imp widget.Importance) {
	u.result.Importance = imp
	u.result.SetText(text)
}

func (u *uiState) onCompareToggled(on bool) {
	if !on {
		u.compareGen++
		u.compareTbl.Hide()
		u.compareStatus.SetText("")
		u.predictions = nil
		u.exportBtn.Disable()
		return
	}
	u.refreshComparison()
}

func (u *uiState) refreshComparison() {
	p := u.actx.Pipeline
	if p == nil || u.actx.Data == nil {
		return
	}
	u.compareGen++
	gen := u.compareGen
	view := u.filtered()
	cols := u.actx.Columns
	n := u.actx.Config.PreviewRows
	u.compareStatus.SetText("Calcul des prédictions...")
	u.compareTbl.Show()
	u.exportBtn.Disable()

	u.async(func() {
		rows := review.PredictDataset(u.ctx, p, view, cols, n, func(done, total int) {
			u.do(func() {
				if gen == u.compareGen {
					u.compareStatus.SetText(fmt.Sprintf("Prédictions %d/%d", done, total))
				}
			})
		})
		failed := 0
		for _, r := range rows {
			if r.Err != nil {
				failed++
			}
		}
		u.logger.Info("dataset predictions", zap.Int("rows", len(rows)), zap.Int("failed", failed))
		u.do(func() {
			if gen != u.compareGen {
				return
			}
			u.predictions = rows
			u.compareRows = buildPredictionTable(rows)
			u.compareTbl.Refresh()
			u.compareStatus.SetText("Comparaison entre les avis et les prédictions")
			u.exportBtn.Enable()
		})
	})
}

func (u *uiState) onExport() {
	if len(u.predictions) == 0 {
		dialog.ShowInformation("Information", "Aucune prédiction à exporter", u.w)
		return
	}
	rows := u.predictions
	cols := u.actx.Columns
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil || uc == nil {
			return
		}
		defer uc.Close()
		if err := review.WritePredictionsCSV(uc, cols, rows); err != nil {
			u.logger.Error("export predictions", zap.Error(err))
			dialog.ShowError(err, u.w)
			return
		}
		u.logger.Info("predictions exported", zap.String("uri", uc.URI().String()), zap.Int("rows", len(rows)))
	}, u.w)
	fd.SetFileName("predictions.csv")
	fd.Show()
}
