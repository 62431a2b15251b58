package gui

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/keepgenius/jira-notify/internal/logging"
)

// fileToken is replaced by the media path in a player command.
const fileToken = "{file}"

// minPlayerRuntime is how long a player must have run before it is restarted
// after exiting on its own. Shorter runs mean the command is broken.
const minPlayerRuntime = 2 * time.Second

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

// isImage reports whether path can be shown inline instead of through a player.
func isImage(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// Player plays the reminder media until stopped.
type Player interface {
	Start() error
	Stop()
}

// nopPlayer is used for images and when no media is configured.
type nopPlayer struct{}

func (nopPlayer) Start() error { return nil }
func (nopPlayer) Stop()        {}

// externalPlayer runs a media player process and restarts it if it exits while
// the reminder is still open.
type externalPlayer struct {
	args   []string
	logger *logging.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	stopped bool
}

// expandArgs substitutes the media path into a player command. The path is
// appended when the command has no {file} placeholder.
func expandArgs(fields []string, file string) ([]string, error) {
	if len(fields) == 0 {
		return nil, errors.New("player command is empty")
	}

	args := make([]string, len(fields))
	substituted := false
	for i, f := range fields {
		args[i] = f
		if strings.Contains(f, fileToken) {
			args[i] = strings.ReplaceAll(f, fileToken, file)
			substituted = true
		}
	}
	if !substituted {
		args = append(args, file)
	}
	return args, nil
}

// defaultPlayerArgs picks the first known player found on this machine.
func defaultPlayerArgs(lookPath func(string) (string, error)) []string {
	candidates := [][]string{
		{"vlc", "--loop", "--no-video-title-show", fileToken},
		{"mpv", "--loop=inf", "--really-quiet", fileToken},
		{"ffplay", "-loop", "0", "-loglevel", "quiet", fileToken},
	}
	for _, c := range candidates {
		if path, err := lookPath(c[0]); err == nil {
			return append([]string{path}, c[1:]...)
		}
	}

	// VLC installs outside PATH on Windows and macOS
	var fallback string
	switch runtime.GOOS {
	case "windows":
		fallback = `C:\Program Files\VideoLAN\VLC\vlc.exe`
	case "darwin":
		fallback = "/Applications/VLC.app/Contents/MacOS/VLC"
	}
	if fallback != "" {
		if _, err := os.Stat(fallback); err == nil {
			return []string{fallback, "--loop", "--no-video-title-show", fileToken}
		}
	}
	return nil
}

// NewPlayer returns the player for media. Images and an empty path get a no-op
// player; anything else runs command (or the platform default). The command is
// split on whitespace.
func NewPlayer(command, media string, logger *logging.Logger) (Player, error) {
	if media == "" || isImage(media) {
		return nopPlayer{}, nil
	}
	if _, err := os.Stat(media); err != nil {
		return nil, fmt.Errorf("media file not accessible: %w", err)
	}

	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = defaultPlayerArgs(exec.LookPath)
		if fields == nil {
			return nil, errors.New("no media player found; set player_command in the [reminder] section")
		}
	}

	args, err := expandArgs(fields, media)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &externalPlayer{args: args, logger: logger}, nil
}

func (p *externalPlayer) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = false
	return p.startLocked()
}

func (p *externalPlayer) startLocked() error {
	cmd := exec.Command(p.args[0], p.args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start media player %s: %w", p.args[0], err)
	}
	p.cmd = cmd
	p.logger.Debug().Str("player", p.args[0]).Int("pid", cmd.Process.Pid).Msg("Media player started")

	started := time.Now()
	go p.supervise(cmd, started)
	return nil
}

// supervise waits for cmd and restarts it unless Stop was called.
func (p *externalPlayer) supervise(cmd *exec.Cmd, started time.Time) {
	err := cmd.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.cmd != cmd {
		return
	}
	if time.Since(started) < minPlayerRuntime {
		p.logger.Warn().Err(err).Str("player", p.args[0]).Msg("Media player exited immediately, not restarting")
		p.cmd = nil
		return
	}
	p.logger.Debugf("Media player exited after %s, restarting", time.Since(started).Round(time.Second))
	if err := p.startLocked(); err != nil {
		p.logger.Warn().Err(err).Msg("Media player restart failed")
	}
}

func (p *externalPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	if p.cmd != nil && p.cmd.Process != nil {
		if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			p.logger.Debug().Err(err).Msg("Media player already gone")
		}
	}
	p.cmd = nil
}
