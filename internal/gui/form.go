package gui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/slideshow/internal/config"
	"github.com/kikiluvv/slideshow/internal/ffmpeg"
	"github.com/kikiluvv/slideshow/internal/i18n"
	"github.com/kikiluvv/slideshow/internal/pipeline"
	"github.com/kikiluvv/slideshow/internal/slideshow"
	"github.com/kikiluvv/slideshow/pkg/util"
)

// Creator builds a slideshow
type Creator interface {
	Create(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Form is the slideshow parameter form
type Form struct {
	ctx     context.Context
	logger  zerolog.Logger
	window  fyne.Window
	creator Creator
	catalog *i18n.Catalog
	exts    []string

	// notify shows a modal message; replaced in tests
	notify func(title, message string)

	ImageDir   *widget.Entry
	AudioFile  *widget.Entry
	OutputDir  *widget.Entry
	OutputFile *widget.Entry
	Duration   *widget.Entry
	EndTime    *widget.Entry

	imageFiles *widget.Label
	audioName  *widget.Label

	imageDirLabel   *widget.Label
	audioLabel      *widget.Label
	outputDirLabel  *widget.Label
	outputFileLabel *widget.Label
	durationLabel   *widget.Label
	endTimeLabel    *widget.Label

	imageButton  *widget.Button
	audioButton  *widget.Button
	outputButton *widget.Button
	createButton *widget.Button
	langButton   *widget.Button
	aboutButton  *widget.Button

	progress *widget.ProgressBar
}

// NewForm builds the form inside w, filled with the configured defaults.
func NewForm(ctx context.Context, logger zerolog.Logger, w fyne.Window, creator Creator, catalog *i18n.Catalog, cfg *config.Config) *Form {
	f := &Form{
		ctx:     ctx,
		logger:  logger.With().Str("component", "gui").Logger(),
		window:  w,
		creator: creator,
		catalog: catalog,
		exts:    cfg.Slideshow.Extensions,

		ImageDir:   widget.NewEntry(),
		AudioFile:  widget.NewEntry(),
		OutputDir:  widget.NewEntry(),
		OutputFile: widget.NewEntry(),
		Duration:   widget.NewEntry(),
		EndTime:    widget.NewEntry(),

		imageFiles: widget.NewLabel(""),
		audioName:  widget.NewLabel(""),

		imageDirLabel:   widget.NewLabel(""),
		audioLabel:      widget.NewLabel(""),
		outputDirLabel:  widget.NewLabel(""),
		outputFileLabel: widget.NewLabel(""),
		durationLabel:   widget.NewLabel(""),
		endTimeLabel:    widget.NewLabel(""),

		progress: widget.NewProgressBar(),
	}
	f.notify = func(title, message string) {
		dialog.ShowInformation(title, message, f.window)
	}

	f.imageFiles.Wrapping = fyne.TextWrapWord
	f.progress.Hide()

	f.imageButton = widget.NewButton("", f.browseImageDir)
	f.audioButton = widget.NewButton("", f.browseAudioFile)
	f.outputButton = widget.NewButton("", f.browseOutputDir)
	f.createButton = widget.NewButton("", f.create)
	f.createButton.Importance = widget.HighImportance
	f.langButton = widget.NewButton("", f.ToggleLanguage)
	f.aboutButton = widget.NewButton("", f.showAbout)

	s := cfg.Slideshow
	f.ImageDir.SetText(s.ImageDir)
	f.AudioFile.SetText(s.AudioFile)
	f.OutputDir.SetText(s.OutputDir)
	f.OutputFile.SetText(slideshow.SuggestOutputFilename(s.OutputDir))
	f.Duration.SetText(strconv.Itoa(int(s.ImageDuration.Seconds())))
	f.EndTime.SetText(strconv.Itoa(int(s.EndTime.Seconds())))

	f.applyLabels()
	return f
}

// Content returns the form's widget tree
func (f *Form) Content() fyne.CanvasObject {
	row := func(entry *widget.Entry, button *widget.Button) fyne.CanvasObject {
		return container.NewBorder(nil, nil, nil, button, entry)
	}

	fields := container.New(layout.NewFormLayout(),
		f.imageDirLabel, container.NewVBox(row(f.ImageDir, f.imageButton), f.imageFiles),
		f.audioLabel, container.NewVBox(row(f.AudioFile, f.audioButton), f.audioName),
		f.outputDirLabel, row(f.OutputDir, f.outputButton),
		f.outputFileLabel, f.OutputFile,
		f.durationLabel, f.Duration,
		f.endTimeLabel, f.EndTime,
	)

	return container.NewPadded(container.NewVBox(
		fields,
		f.progress,
		f.createButton,
		f.langButton,
		f.aboutButton,
	))
}

// ToggleLanguage swaps every label to the other language. Field values are
// left untouched.
func (f *Form) ToggleLanguage() {
	lang := f.catalog.Toggle()
	f.logger.Debug().Str("language", lang).Msg("language changed")
	f.applyLabels()
}

func (f *Form) applyLabels() {
	t := f.catalog.T

	f.window.SetTitle(t(i18n.MsgTitle))
	f.imageDirLabel.SetText(t(i18n.MsgImageDir))
	f.audioLabel.SetText(t(i18n.MsgAudioFile))
	f.outputDirLabel.SetText(t(i18n.MsgOutputDir))
	f.outputFileLabel.SetText(t(i18n.MsgOutputFile))
	f.durationLabel.SetText(t(i18n.MsgDuration))
	f.endTimeLabel.SetText(t(i18n.MsgEndTime))
	if f.createButton.Disabled() {
		f.createButton.SetText(t(i18n.MsgCreating))
	} else {
		f.createButton.SetText(t(i18n.MsgCreateSlideshow))
	}
	f.langButton.SetText(t(i18n.MsgChangeLang))
	f.imageButton.SetText(t(i18n.MsgSelect))
	f.audioButton.SetText(t(i18n.MsgSelect))
	f.outputButton.SetText(t(i18n.MsgSelect))
	f.aboutButton.SetText(t(i18n.MsgAbout))
}

// SetImageDir fills the image directory and lists the images it holds.
func (f *Form) SetImageDir(dir string) {
	f.ImageDir.SetText(dir)
	f.imageFiles.SetText(strings.Join(slideshow.ImageNames(dir, f.exts), ", "))
}

// SetAudioFile fills the audio file and shows its name.
func (f *Form) SetAudioFile(path string) {
	f.AudioFile.SetText(path)
	f.audioName.SetText(filepath.Base(path))
}

// SetOutputDir fills the output directory and suggests a fresh file name in it.
func (f *Form) SetOutputDir(dir string) {
	f.OutputDir.SetText(dir)
	f.OutputFile.SetText(slideshow.SuggestOutputFilename(dir))
}

// Request reads the form into a pipeline request. Durations are whole seconds.
func (f *Form) Request() (pipeline.Request, error) {
	duration, err := positiveSeconds(f.Duration.Text)
	if err != nil {
		return pipeline.Request{}, fmt.Errorf("duration per image: %w", err)
	}
	endTime, err := positiveSeconds(f.EndTime.Text)
	if err != nil {
		return pipeline.Request{}, fmt.Errorf("end time: %w", err)
	}

	return pipeline.Request{
		ImageDir:      strings.TrimSpace(f.ImageDir.Text),
		AudioFile:     strings.TrimSpace(f.AudioFile.Text),
		Output:        strings.TrimSpace(f.OutputFile.Text),
		ImageDuration: duration,
		EndTime:       endTime,
	}, nil
}

func (f *Form) create() {
	req, err := f.Request()
	if err != nil {
		f.logger.Warn().Err(err).Msg("invalid form input")
		f.notify(f.catalog.T(i18n.MsgError), f.catalog.T(i18n.MsgInvalidNumber))
		return
	}

	req.ProgressFunc = func(p *ffmpeg.Progress) {
		fyne.Do(func() {
			f.progress.SetValue(p.Percentage / 100)
		})
	}

	f.setBusy(true)
	go func() {
		res, err := f.creator.Create(f.ctx, req)
		fyne.Do(func() {
			f.setBusy(false)
			f.finish(res, err)
		})
	}()
}

func (f *Form) setBusy(busy bool) {
	if busy {
		f.createButton.Disable()
		f.progress.SetValue(0)
		f.progress.Show()
	} else {
		f.createButton.Enable()
		f.progress.Hide()
	}
	f.applyLabels()
}

// finish reports the outcome of a create call to the user
func (f *Form) finish(res *pipeline.Result, err error) {
	t := f.catalog.T

	switch {
	case errors.Is(err, slideshow.ErrNoImages):
		f.notify(t(i18n.MsgError), t(i18n.MsgNoImages))
	case err != nil:
		f.logger.Error().Err(err).Msg("slideshow creation failed")
		f.notify(t(i18n.MsgError), err.Error())
	default:
		f.logger.Info().Str("output", res.Output).Dur("duration", res.Duration).Msg("slideshow created")
		// next run must not overwrite this one
		f.OutputFile.SetText(slideshow.SuggestOutputFilename(filepath.Dir(res.Output)))
		f.notify(t(i18n.MsgSuccess), t(i18n.MsgVideoCreated))
	}
}

func (f *Form) showAbout() {
	f.notify(f.catalog.T(i18n.MsgAbout), f.catalog.T(i18n.MsgAboutText))
}

func (f *Form) confirmExit() {
	dialog.ShowConfirm(f.catalog.T(i18n.MsgExit), f.catalog.T(i18n.MsgExitConfirm), func(ok bool) {
		if ok {
			f.window.Close()
		}
	}, f.window)
}

func (f *Form) browseImageDir() {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			f.logger.Warn().Err(err).Msg("folder dialog failed")
			return
		}
		if uri == nil {
			return
		}
		f.SetImageDir(uri.Path())
	}, f.window)
	f.startIn(fd, f.ImageDir.Text)
	fd.Show()
}

func (f *Form) browseAudioFile() {
	fd := dialog.NewFileOpen(func(ur fyne.URIReadCloser, err error) {
		if err != nil {
			f.logger.Warn().Err(err).Msg("file dialog failed")
			return
		}
		if ur == nil {
			return
		}
		defer ur.Close()
		f.SetAudioFile(ur.URI().Path())
	}, f.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".mp3", ".wav"}))
	f.startIn(fd, filepath.Dir(f.AudioFile.Text))
	fd.Show()
}

func (f *Form) browseOutputDir() {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			f.logger.Warn().Err(err).Msg("folder dialog failed")
			return
		}
		if uri == nil {
			return
		}
		f.SetOutputDir(uri.Path())
	}, f.window)
	f.startIn(fd, f.OutputDir.Text)
	fd.Show()
}

// startIn opens the dialog in dir when it exists
func (f *Form) startIn(fd *dialog.FileDialog, dir string) {
	if dir == "" || !util.IsDir(dir) {
		return
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(abs))
	if err != nil {
		return
	}
	fd.SetLocation(lister)
}

func positiveSeconds(text string) (time.Duration, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", text)
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return time.Duration(n) * time.Second, nil
}
