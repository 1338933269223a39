package midi

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-resonate/debug"
)

// ErrPortsTimeout is returned when the MIDI driver does not answer in time
var ErrPortsTimeout = errors.New("midi: listing ports timed out")

// portsTimeout bounds a port scan (CoreMIDI can hang)
const portsTimeout = 3 * time.Second

// DeviceEvent is emitted when the surface port connects/disconnects
type DeviceEvent struct {
	Type DeviceEventType
	Port string
	Err  error // set when a matching port could not be opened
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
	DeviceFailed
)

func (t DeviceEventType) String() string {
	switch t {
	case DeviceConnected:
		return "connected"
	case DeviceDisconnected:
		return "disconnected"
	}
	return "failed"
}

// DeviceManager keeps the surface attached to the configured input port,
// following hot-plugs
type DeviceManager struct {
	surface  *Surface
	match    string
	attached string
	mu       sync.RWMutex
	events   chan DeviceEvent
	pollRate time.Duration
}

// NewDeviceManager creates a manager for the port named by the surface mapping
func NewDeviceManager(s *Surface) *DeviceManager {
	return &DeviceManager{
		surface:  s,
		match:    strings.ToLower(s.Mapping().PortName),
		events:   make(chan DeviceEvent, 16),
		pollRate: time.Second,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Port returns the attached port name, or "" when nothing is connected
func (dm *DeviceManager) Port() string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.attached
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.surface.Detach()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

// InPorts lists the MIDI input ports, giving up after a few seconds
func InPorts() ([]drivers.In, error) {
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- gomidi.GetInPorts()
	}()

	select {
	case ports := <-ch:
		return ports, nil
	case <-time.After(portsTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, ErrPortsTimeout
	}
}

func (dm *DeviceManager) scan() {
	ports, err := InPorts()
	if err != nil {
		debug.Log("midi", "scan: %v", err)
		return
	}

	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.String()
	}

	dm.mu.RLock()
	attached := dm.attached
	dm.mu.RUnlock()

	if attached != "" {
		for _, n := range names {
			if n == attached {
				return
			}
		}
		dm.surface.Detach()
		dm.setAttached("")
		dm.emit(DeviceEvent{Type: DeviceDisconnected, Port: attached})
	}

	i := matchPort(names, dm.match)
	if i < 0 {
		return
	}
	if err := dm.surface.Attach(ports[i]); err != nil {
		dm.emit(DeviceEvent{Type: DeviceFailed, Port: names[i], Err: err})
		return
	}
	dm.setAttached(names[i])
	dm.emit(DeviceEvent{Type: DeviceConnected, Port: names[i]})
}

func (dm *DeviceManager) setAttached(name string) {
	dm.mu.Lock()
	dm.attached = name
	dm.mu.Unlock()
}

func (dm *DeviceManager) emit(ev DeviceEvent) {
	debug.Log("midi", "%s %s", ev.Type, ev.Port)
	select {
	case dm.events <- ev:
	default:
	}
}

// matchPort returns the index of the first port whose name contains match
// (case-insensitive). An empty match takes the first port.
func matchPort(names []string, match string) int {
	match = strings.ToLower(match)
	for i, n := range names {
		if strings.Contains(strings.ToLower(n), match) {
			return i
		}
	}
	return -1
}
