package cli

import (
	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/ytget/yt-studio/internal/app"
	"github.com/ytget/yt-studio/internal/config"
	"github.com/ytget/yt-studio/internal/ui"
)

func runGUI(e *env, version string) error {
	e.logger.WithField("version", version).Info("starting")

	a := fyneapp.NewWithID(AppID)
	a.Settings().SetTheme(ui.NewCompactTheme())
	window := a.NewWindow(AppName)
	window.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	settings := config.NewSettings(a)
	svc := newServices(e)
	defer svc.close(e)

	var root *ui.RootUI
	cfg := svc.studioConfig(e, fyne.Do)
	cfg.DownloadDir = func() string { return downloadDir(e, settings.GetDownloadDirectory) }
	cfg.Language = settings.GetTranscriptLanguage
	cfg.AutoReveal = settings.GetAutoRevealOnComplete
	cfg.Notify = func(msg string) {
		if root != nil {
			root.Notify(msg)
		}
	}

	studio := app.New(cfg)
	root = ui.NewRootUI(window, studio, settings, e.logger)
	if err := studio.Start(); err != nil {
		return err
	}
	defer studio.Close()

	window.ShowAndRun()
	return nil
}
