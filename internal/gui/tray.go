package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/keepgenius/jira-notify/internal/constants"
	"github.com/keepgenius/jira-notify/internal/daemon"
)

// tray owns the system tray menu: a read-only status line and Exit.
type tray struct {
	menu   *fyne.Menu
	status *fyne.MenuItem
	exit   *fyne.MenuItem
}

// newTray builds the menu. onExit runs when Exit is chosen.
func newTray(onExit func()) *tray {
	t := &tray{}

	t.status = fyne.NewMenuItem("Status: Waiting for first check", nil)
	t.status.Disabled = true

	t.exit = fyne.NewMenuItem("Exit", onExit)
	t.exit.IsQuit = true

	t.menu = fyne.NewMenu(constants.TrayTitle, t.status, fyne.NewMenuItemSeparator(), t.exit)
	return t
}

// install attaches the menu and icon. Reports false when the app has no tray.
func (t *tray) install(a fyne.App, icon fyne.Resource) bool {
	desk, ok := a.(desktop.App)
	if !ok {
		return false
	}
	desk.SetSystemTrayMenu(t.menu)
	desk.SetSystemTrayIcon(icon)
	return true
}

// update shows s in the status line. Safe to call from any goroutine.
func (t *tray) update(s daemon.Status) {
	label := "Status: " + s.Summary()
	fyne.Do(func() {
		t.status.Label = label
		t.menu.Refresh()
	})
}
