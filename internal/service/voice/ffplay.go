package voice

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// FFPlayPlayer plays encoded audio clips by piping them to an ffplay
// subprocess, one process per clip. ffplay exits on its own at end of input
// thanks to -autoexit, which gives us the playback-finished event.
type FFPlayPlayer struct {
	path     string
	logLevel string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewFFPlayPlayer builds a player around the given ffplay binary. An empty
// path falls back to "ffplay" on PATH.
func NewFFPlayPlayer(path string) *FFPlayPlayer {
	if path == "" {
		path = "ffplay"
	}
	return &FFPlayPlayer{path: path, logLevel: "error"}
}

// Play starts a subprocess for the clip and reports completion through done.
// The process is started and registered before Play returns, so a Stop that
// follows Play always has a handle to kill. done is always delivered from a
// separate goroutine, as the Player contract requires. Only one clip is ever
// playing; the output queue guarantees callers never overlap Play calls.
func (p *FFPlayPlayer) Play(audio []byte, done func(error)) {
	cmd := exec.Command(p.path,
		"-hide_banner",
		"-loglevel", p.logLevel,
		"-nostats",
		"-nodisp",
		"-autoexit",
		"-i", "-",
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		go done(fmt.Errorf("ffplay stdin: %w", err))
		return
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		go done(fmt.Errorf("ffplay start: %w", err))
		return
	}

	p.mu.Lock()
	p.cmd = cmd
	p.mu.Unlock()

	go func() {
		_, werr := stdin.Write(audio)
		_ = stdin.Close()

		err := cmd.Wait()
		p.mu.Lock()
		if p.cmd == cmd {
			p.cmd = nil
		}
		p.mu.Unlock()

		if err == nil && werr != nil {
			done(fmt.Errorf("ffplay write: %w", werr))
			return
		}
		done(err)
	}()
}

// Stop kills the clip currently playing, if any. The pending done callback
// fires with the process error, which the queue treats like completion.
func (p *FFPlayPlayer) Stop() {
	p.mu.Lock()
	cmd := p.cmd
	p.cmd = nil
	p.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
