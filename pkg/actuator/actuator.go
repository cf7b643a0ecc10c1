// Package actuator provides the one-directional command channel to the
// Arduino servo controller. Commands are short ASCII strings terminated
// by a carriage return at 9600 baud.
//
// Device absence is modeled as an explicit channel variant: when no
// serial device can be opened, Connect returns a demo channel that logs
// every command and reports success, so call sites never deal with a
// missing device.
package actuator

import (
	"io"
	"path/filepath"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/e-yang6/stop-dont-go-on/internal/log"
)

// BaudRate used by the Arduino sketch.
const BaudRate = 9600

// Alternate port patterns probed when the primary port is absent.
var alternatePorts = []string{
	"/dev/cu.usbmodem*",
	"/dev/ttyUSB0",
	"/dev/ttyACM0",
}

// Channel is a one-directional text-command sink.
type Channel interface {
	// Send writes the command followed by a carriage return.
	// Returns false only on a write failure; demo channels always
	// report success.
	Send(command string) bool

	// Connected reports whether a physical device is attached.
	Connected() bool

	// Close releases the underlying device.
	Close() error
}

// Connect probes the primary port, then the alternates, and returns a
// serial channel for the first device that opens. When nothing opens it
// returns a demo channel; a missing device is never an error.
func Connect(primary string) Channel {
	candidates := []string{primary}
	for _, pattern := range alternatePorts {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		candidates = append(candidates, matches...)
	}

	mode := &serial.Mode{BaudRate: BaudRate}
	for _, name := range candidates {
		port, err := serial.Open(name, mode)
		if err != nil {
			continue
		}

		// Give the Arduino time to finish its post-open reset
		time.Sleep(2 * time.Second)

		log.Info("arduino connected", "port", name)
		return &serialChannel{name: name, port: port}
	}

	log.Info("no arduino found, running in demo mode")
	return &demoChannel{}
}

// serialChannel writes commands to an open serial port.
type serialChannel struct {
	name string
	mu   sync.Mutex
	port io.WriteCloser
}

func (c *serialChannel) Send(command string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port == nil {
		return false
	}

	if _, err := c.port.Write([]byte(command + "\r")); err != nil {
		log.Error("arduino write failed", "command", command, "error", err)
		return false
	}
	return true
}

func (c *serialChannel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port != nil
}

func (c *serialChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port == nil {
		return nil
	}
	err := c.port.Close()
	c.port = nil
	return err
}

// demoChannel logs commands instead of sending them.
type demoChannel struct{}

func (demoChannel) Send(command string) bool {
	log.Info("demo mode", "command", command)
	return true
}

func (demoChannel) Connected() bool { return false }
func (demoChannel) Close() error    { return nil }

// NewDemo returns a channel that logs commands and reports success.
func NewDemo() Channel {
	return &demoChannel{}
}
