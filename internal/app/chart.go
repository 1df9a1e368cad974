package app

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/reviewlens/review"
)

// ratingChart draws one horizontal bar per rating value.
type ratingChart struct {
	box  *fyne.Container
	note *widget.Label
	bars []*widget.ProgressBar
}

func newRatingChart() *ratingChart {
	c := &ratingChart{
		box:  container.NewVBox(),
		note: widget.NewLabel(""),
	}
	c.note.Wrapping = fyne.TextWrapWord
	return c
}

func (c *ratingChart) object() fyne.CanvasObject {
	return container.NewVBox(
		widget.NewLabelWithStyle("Distribution des notes", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		c.note,
		c.box,
	)
}

func (c *ratingChart) showMessage(msg string) {
	c.bars = nil
	c.box.RemoveAll()
	c.note.SetText(msg)
	c.note.Show()
}

func (c *ratingChart) update(buckets []review.RatingBucket) {
	if len(buckets) == 0 {
		c.showMessage("Aucune note à afficher.")
		return
	}
	peak := 0
	for _, b := range buckets {
		if b.Count > peak {
			peak = b.Count
		}
	}
	c.note.Hide()
	c.box.RemoveAll()
	c.bars = c.bars[:0]
	for _, b := range buckets {
		count := b.Count
		bar := widget.NewProgressBar()
		bar.Max = float64(peak)
		bar.TextFormatter = func() string { return strconv.Itoa(count) }
		bar.SetValue(float64(count))
		c.bars = append(c.bars, bar)
		label := widget.NewLabel(fmt.Sprintf("Note %s", b.Label))
		c.box.Add(container.NewBorder(nil, nil, label, nil, bar))
	}
	c.box.Refresh()
}
