package voice

import (
	"bytes"
	"os/exec"
	"strings"
	"sync"
)

// ExecDevice runs an external one-shot transcriber command, typically a
// script that records from the microphone and prints the transcript on
// stdout (a whisper wrapper, for example). The requested language is passed
// as the command's single argument.
type ExecDevice struct {
	command string
	args    []string

	mu      sync.Mutex
	cmd     *exec.Cmd
	aborted bool
}

// NewExecDevice builds a device from a command line. Returns nil (capability
// unavailable) when the command is empty.
func NewExecDevice(command string, args ...string) *ExecDevice {
	if strings.TrimSpace(command) == "" {
		return nil
	}
	return &ExecDevice{command: command, args: args}
}

// Capture launches the transcriber and delivers its trimmed stdout through
// done. The process is started before Capture returns, so an Abort that
// follows Capture always finds a live process; an Abort that interleaves
// with the start is caught by the aborted flag and kills the process before
// it records anything. One capture at a time; the adapter enforces that.
func (d *ExecDevice) Capture(language string, done func(string, error)) {
	args := append(append([]string{}, d.args...), language)
	cmd := exec.Command(d.command, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	d.mu.Lock()
	d.aborted = false
	d.mu.Unlock()

	if err := cmd.Start(); err != nil {
		go done("", err)
		return
	}

	d.mu.Lock()
	if d.aborted {
		d.mu.Unlock()
		_ = cmd.Process.Kill()
	} else {
		d.cmd = cmd
		d.mu.Unlock()
	}

	go func() {
		err := cmd.Wait()
		d.mu.Lock()
		if d.cmd == cmd {
			d.cmd = nil
		}
		d.mu.Unlock()
		done(strings.TrimSpace(out.String()), err)
	}()
}

// Abort kills an in-flight transcriber process. When it races with a Capture
// that has not registered its process yet, the flag makes Capture finish the
// kill itself.
func (d *ExecDevice) Abort() {
	d.mu.Lock()
	cmd := d.cmd
	d.cmd = nil
	d.aborted = true
	d.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
