package app

import (
	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"yashubustudio/reviewlens/review"
)

const fyneAppID = "studio.yashubu.reviewlens"

// Run shows the dashboard for actx and blocks until the window is closed.
func Run(actx *review.AppContext, logger *zap.Logger, capture *LogCapture) error {
	a := fyneapp.NewWithID(fyneAppID)
	u := buildUI(a, actx, logger, capture)
	u.w.ShowAndRun()
	return nil
}
