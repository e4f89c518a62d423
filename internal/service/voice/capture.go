package voice

import "sync"

// Device is a one-shot voice capture device. Capture activates the device and
// later invokes done exactly once with either a transcript or an error; there
// is no continuous recognition. Abort cancels an active capture, after which
// the pending done call reports an error.
type Device interface {
	Capture(language string, done func(transcript string, err error))
	Abort()
}

// Capture wraps a one-shot capture device in an explicit idle/listening state
// machine. Transcripts are delivered to the callback as candidate input text,
// never auto-submitted.
type Capture struct {
	device       Device
	onTranscript func(string)

	mu        sync.Mutex
	listening bool
	attempt   int
}

// NewCapture builds the adapter. A nil device means the capability is
// unavailable on this host and StartListening becomes a no-op.
func NewCapture(device Device, onTranscript func(string)) *Capture {
	return &Capture{device: device, onTranscript: onTranscript}
}

// Available reports whether a capture device exists on this host.
func (c *Capture) Available() bool {
	return c.device != nil
}

// Listening reports whether a capture session is active.
func (c *Capture) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listening
}

// StartListening activates the device. It is a no-op while already listening
// or when no device is available. Exactly one of three events ends the
// session: a transcript, a device error, or StopListening.
func (c *Capture) StartListening(language string) {
	if c.device == nil {
		return
	}

	c.mu.Lock()
	if c.listening {
		c.mu.Unlock()
		return
	}
	c.listening = true
	c.attempt++
	attempt := c.attempt
	c.mu.Unlock()

	c.device.Capture(language, func(transcript string, err error) {
		c.mu.Lock()
		// StopListening already ended this attempt.
		if !c.listening || c.attempt != attempt {
			c.mu.Unlock()
			return
		}
		c.listening = false
		c.mu.Unlock()

		// A device error returns silently to idle; the user may retry.
		if err != nil || transcript == "" {
			return
		}
		if c.onTranscript != nil {
			c.onTranscript(transcript)
		}
	})
}

// StopListening deactivates the device and returns to idle without a
// transcript.
func (c *Capture) StopListening() {
	c.mu.Lock()
	if !c.listening {
		c.mu.Unlock()
		return
	}
	c.listening = false
	c.mu.Unlock()

	c.device.Abort()
}
