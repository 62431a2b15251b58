package gui

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/keepgenius/jira-notify/internal/booking"
	"github.com/keepgenius/jira-notify/internal/daemon"
	"github.com/keepgenius/jira-notify/internal/logging"
)

type fakePlayer struct {
	mu      sync.Mutex
	started bool
	stopped bool
}

func (f *fakePlayer) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	return nil
}

func (f *fakePlayer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakePlayer) state() (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started, f.stopped
}

func newTestPresenter(t *testing.T, player *fakePlayer) (*ReminderPresenter, *[]string) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	p := NewReminderPresenter(a, ReminderOptions{
		Message:   "line one\nline two",
		Link:      "https://tempo.example/my-work/week?type=TIME",
		MediaPath: "clip.mp4",
	}, nil)

	var opened []string
	var mu sync.Mutex
	p.openURL = func(u *url.URL) error {
		mu.Lock()
		defer mu.Unlock()
		opened = append(opened, u.String())
		return nil
	}
	p.newPlayer = func(command, media string, logger *logging.Logger) (Player, error) {
		return player, nil
	}
	return p, &opened
}

// waitActive polls until the presenter has a window open.
func waitActive(t *testing.T, p *ReminderPresenter) *reminderWindow {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		p.mu.Lock()
		rw := p.active
		p.mu.Unlock()
		if rw != nil {
			return rw
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("reminder window never opened")
	return nil
}

func TestReminderButtonOpensLinkAndCloses(t *testing.T) {
	player := &fakePlayer{}
	p, opened := newTestPresenter(t, player)

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Present(context.Background(), booking.Result{Date: "2026-10-14"})
	}()

	rw := waitActive(t, p)
	if rw.button.Text != "Visit Website and Close" {
		t.Errorf("Unexpected button label %q", rw.button.Text)
	}
	if started, _ := player.state(); !started {
		t.Error("Expected media player to be started")
	}

	test.Tap(rw.button)

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Present returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Present did not return after the button was tapped")
	}

	if len(*opened) != 1 || (*opened)[0] != "https://tempo.example/my-work/week?type=TIME" {
		t.Errorf("Unexpected opened URLs %v", *opened)
	}
	if _, stopped := player.state(); !stopped {
		t.Error("Expected media player to be stopped")
	}
	if p.Active() != nil {
		t.Error("Expected no active window after dismissal")
	}
}

func TestReminderCancelledContextClosesWindow(t *testing.T) {
	player := &fakePlayer{}
	p, opened := newTestPresenter(t, player)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Present(ctx, booking.Result{Date: "2026-10-14"})
	}()

	waitActive(t, p)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Present did not return after cancellation")
	}

	if len(*opened) != 0 {
		t.Errorf("Cancellation must not open the browser, opened %v", *opened)
	}
	if _, stopped := player.state(); !stopped {
		t.Error("Expected media player to be stopped")
	}
}

func TestReminderMediaFailureStillShowsWindow(t *testing.T) {
	p, _ := newTestPresenter(t, nil)
	p.newPlayer = func(command, media string, logger *logging.Logger) (Player, error) {
		return nil, errors.New("no media player found")
	}

	go func() { _ = p.Present(context.Background(), booking.Result{}) }()

	rw := waitActive(t, p)
	if _, ok := rw.player.(nopPlayer); !ok {
		t.Errorf("Expected nop player fallback, got %T", rw.player)
	}
	test.Tap(rw.button)
}

func TestExpandArgs(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   []string
	}{
		{"placeholder", []string{"vlc", "--loop", "{file}"}, []string{"vlc", "--loop", "/tmp/a b.mp4"}},
		{"appended", []string{"mpv", "--loop=inf"}, []string{"mpv", "--loop=inf", "/tmp/a b.mp4"}},
		{"embedded", []string{"player", "--input={file}"}, []string{"player", "--input=/tmp/a b.mp4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandArgs(tt.fields, "/tmp/a b.mp4")
			if err != nil {
				t.Fatalf("expandArgs failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("arg %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}

	if _, err := expandArgs(nil, "x"); err == nil {
		t.Error("Expected error for empty command")
	}
}

func TestDefaultPlayerArgsPrefersFirstFound(t *testing.T) {
	lookPath := func(name string) (string, error) {
		if name == "mpv" {
			return "/usr/bin/mpv", nil
		}
		return "", errors.New("not found")
	}

	got := defaultPlayerArgs(lookPath)
	if len(got) == 0 || got[0] != "/usr/bin/mpv" {
		t.Fatalf("Expected mpv, got %v", got)
	}
	if got[len(got)-1] != fileToken {
		t.Errorf("Expected file placeholder last, got %v", got)
	}
}

func TestNewPlayer(t *testing.T) {
	p, err := NewPlayer("", "", nil)
	if err != nil {
		t.Fatalf("Empty media should not fail: %v", err)
	}
	if _, ok := p.(nopPlayer); !ok {
		t.Errorf("Expected nop player for empty media, got %T", p)
	}

	p, err = NewPlayer("vlc {file}", "/does/not/matter.PNG", nil)
	if err != nil {
		t.Fatalf("Image media should not fail: %v", err)
	}
	if _, ok := p.(nopPlayer); !ok {
		t.Errorf("Expected nop player for image, got %T", p)
	}

	if _, err := NewPlayer("vlc {file}", filepath.Join(t.TempDir(), "missing.mp4"), nil); err == nil {
		t.Error("Expected error for missing video file")
	}

	video := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(video, []byte("not really a video"), 0600); err != nil {
		t.Fatal(err)
	}
	p, err = NewPlayer("vlc --loop {file}", video, nil)
	if err != nil {
		t.Fatalf("NewPlayer failed: %v", err)
	}
	ext, ok := p.(*externalPlayer)
	if !ok {
		t.Fatalf("Expected external player, got %T", p)
	}
	if ext.args[len(ext.args)-1] != video {
		t.Errorf("Expected media path substituted, got %v", ext.args)
	}
}

func TestGeneratedIconQuadrants(t *testing.T) {
	data := generatedIcon(64, iconBackground, iconForeground)

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Generated icon is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("Unexpected icon size %v", b)
	}

	checks := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, iconBackground},
		{63, 0, iconForeground},
		{0, 63, iconForeground},
		{63, 63, iconBackground},
	}
	for _, c := range checks {
		got := color.NRGBAModel.Convert(img.At(c.x, c.y)).(color.NRGBA)
		if got != c.want {
			t.Errorf("Pixel (%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestTrayIconPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.png")
	if err := os.WriteFile(path, []byte("custom"), 0600); err != nil {
		t.Fatal(err)
	}

	if got := trayIcon(path); string(got.Content()) != "custom" {
		t.Error("Expected icon loaded from file")
	}
	if got := trayIcon(filepath.Join(t.TempDir(), "missing.png")); len(got.Content()) == 0 {
		t.Error("Expected generated fallback icon")
	}
}

func TestTrayStatusAndExit(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	exited := false
	tr := newTray(func() { exited = true })

	if !tr.status.Disabled {
		t.Error("Status item must be read-only")
	}
	if tr.exit.Label != "Exit" {
		t.Errorf("Unexpected exit label %q", tr.exit.Label)
	}

	res := booking.Result{Outcome: booking.Booked, Date: "2026-10-14", Message: booking.MsgBooked}
	tr.update(daemon.Status{Phase: daemon.Idle, LastResult: &res})
	if tr.status.Label != "Status: 2026-10-14: "+booking.MsgBooked {
		t.Errorf("Unexpected status label %q", tr.status.Label)
	}

	tr.exit.Action()
	if !exited {
		t.Error("Exit action did not run")
	}
}
