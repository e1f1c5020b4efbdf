package gui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/slideshow/internal/config"
	"github.com/kikiluvv/slideshow/internal/i18n"
)

const appID = "io.github.kikiluvv.slideshow"

// Run opens the form and blocks until the window is closed
func Run(ctx context.Context, logger zerolog.Logger, cfg *config.Config, creator Creator) error {
	catalog, err := i18n.New(cfg.Language)
	if err != nil {
		return err
	}

	a := app.NewWithID(appID)
	w := a.NewWindow("")
	// 80% of 1900x1200
	w.Resize(fyne.NewSize(1520, 960))

	form := NewForm(ctx, logger, w, creator, catalog, cfg)
	w.SetContent(form.Content())
	w.SetCloseIntercept(form.confirmExit)

	logger.Info().Str("language", catalog.Language()).Msg("opening slideshow form")
	w.ShowAndRun()
	return nil
}
