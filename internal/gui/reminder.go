package gui

import (
	"context"
	"fmt"
	"image/color"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/keepgenius/jira-notify/internal/booking"
	"github.com/keepgenius/jira-notify/internal/constants"
	"github.com/keepgenius/jira-notify/internal/logging"
)

var (
	headerColor  = color.NRGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}
	messageColor = color.White
)

// ReminderOptions configures the reminder window.
type ReminderOptions struct {
	Title         string
	Message       string
	Link          string
	MediaPath     string
	PlayerCommand string
}

// ReminderPresenter shows the undecorated reminder window. It satisfies the
// polling loop's Presenter.
type ReminderPresenter struct {
	app    fyne.App
	opts   ReminderOptions
	logger *logging.Logger

	// Replaceable in tests.
	openURL   func(*url.URL) error
	newPlayer func(command, media string, logger *logging.Logger) (Player, error)

	mu     sync.Mutex
	active *reminderWindow
}

// reminderWindow is one open reminder.
type reminderWindow struct {
	window fyne.Window
	button *widget.Button
	player Player
	done   chan struct{}
	once   sync.Once
}

// NewReminderPresenter creates a presenter on a running fyne app.
func NewReminderPresenter(a fyne.App, opts ReminderOptions, logger *logging.Logger) *ReminderPresenter {
	if opts.Title == "" {
		opts.Title = constants.AppName
	}
	if opts.Link == "" {
		opts.Link = constants.DefaultReminderLink
	}
	if opts.Message == "" {
		opts.Message = constants.DefaultReminderMessage
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &ReminderPresenter{
		app:       a,
		opts:      opts,
		logger:    logger,
		openURL:   a.OpenURL,
		newPlayer: NewPlayer,
	}
}

// Present opens the reminder and blocks until the button is pressed or ctx ends.
func (p *ReminderPresenter) Present(ctx context.Context, res booking.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log := logging.FromContext(ctx, p.logger)

	var rw *reminderWindow
	fyne.DoAndWait(func() {
		rw = p.open(log)
	})

	select {
	case <-rw.done:
		log.Info().Str("date", res.Date).Msg("Reminder dismissed")
		return nil
	case <-ctx.Done():
		fyne.DoAndWait(func() {
			p.dismiss(rw)
		})
		return ctx.Err()
	}
}

// Active returns the open reminder window, if any.
func (p *ReminderPresenter) Active() fyne.Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return nil
	}
	return p.active.window
}

// open builds and shows the window. Must run on the fyne goroutine.
func (p *ReminderPresenter) open(log *logging.Logger) *reminderWindow {
	rw := &reminderWindow{done: make(chan struct{})}

	player, err := p.newPlayer(p.opts.PlayerCommand, p.opts.MediaPath, log)
	if err != nil {
		log.Warn().Err(err).Msg("Reminder media unavailable")
		player = nopPlayer{}
	}
	rw.player = player

	rw.window = p.newWindow()
	rw.button = widget.NewButton(constants.ReminderButtonLabel, func() {
		p.visitAndClose(rw, log)
	})
	rw.window.SetContent(p.content(rw.button))
	rw.window.Resize(fyne.NewSize(constants.ReminderWidth, constants.ReminderHeight))
	rw.window.CenterOnScreen()
	rw.window.Show()
	rw.window.RequestFocus()

	if err := rw.player.Start(); err != nil {
		log.Warn().Err(err).Msg("Media player could not be started")
	}

	p.mu.Lock()
	p.active = rw
	p.mu.Unlock()

	log.Debug().Str("media", p.opts.MediaPath).Msg("Reminder window shown")
	return rw
}

// newWindow prefers a borderless splash window; drivers without one get a
// fixed-size window that ignores the close button.
func (p *ReminderPresenter) newWindow() fyne.Window {
	if drv, ok := p.app.Driver().(desktop.Driver); ok {
		w := drv.CreateSplashWindow()
		w.SetTitle(p.opts.Title)
		return w
	}

	w := p.app.NewWindow(p.opts.Title)
	w.SetFixedSize(true)
	w.SetCloseIntercept(func() {})
	return w
}

func (p *ReminderPresenter) content(button *widget.Button) fyne.CanvasObject {
	header := canvas.NewText(p.opts.Title, color.White)
	header.TextSize = 24
	header.TextStyle = fyne.TextStyle{Bold: true}
	header.Alignment = fyne.TextAlignCenter
	headerBar := container.NewStack(canvas.NewRectangle(headerColor), container.NewPadded(header))

	lines := container.NewVBox()
	for _, line := range strings.Split(p.opts.Message, "\n") {
		text := canvas.NewText(line, messageColor)
		text.TextSize = 16
		text.Alignment = fyne.TextAlignCenter
		lines.Add(text)
	}

	top := container.NewVBox(headerBar, container.NewPadded(lines))
	bottom := container.NewCenter(container.NewPadded(button))

	return container.NewStack(
		canvas.NewRectangle(color.Black),
		container.NewBorder(top, bottom, nil, nil, p.media()),
	)
}

// media is the centre area: the image itself, or a caption while the video
// plays in its own window.
func (p *ReminderPresenter) media() fyne.CanvasObject {
	if p.opts.MediaPath == "" {
		return canvas.NewRectangle(color.Black)
	}
	if isImage(p.opts.MediaPath) {
		img := canvas.NewImageFromFile(p.opts.MediaPath)
		img.FillMode = canvas.ImageFillContain
		return img
	}

	caption := canvas.NewText(fmt.Sprintf("▶ %s", filepath.Base(p.opts.MediaPath)), color.Gray{Y: 0xAA})
	caption.Alignment = fyne.TextAlignCenter
	return container.NewCenter(caption)
}

// visitAndClose is the button action: open the timesheet, stop playback, close.
func (p *ReminderPresenter) visitAndClose(rw *reminderWindow, log *logging.Logger) {
	u, err := url.Parse(p.opts.Link)
	if err != nil {
		log.Error().Err(err).Str("link", p.opts.Link).Msg("Invalid reminder link")
	} else if err := p.openURL(u); err != nil {
		log.Error().Err(err).Str("link", p.opts.Link).Msg("Failed to open browser")
	} else {
		log.Info().Str("link", p.opts.Link).Msg("Website opened and window closed")
	}
	p.dismiss(rw)
}

// dismiss stops playback and closes the window once.
func (p *ReminderPresenter) dismiss(rw *reminderWindow) {
	rw.once.Do(func() {
		rw.player.Stop()
		rw.window.Close()

		p.mu.Lock()
		if p.active == rw {
			p.active = nil
		}
		p.mu.Unlock()

		close(rw.done)
	})
}
