package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-resonate/midi"
	"go-resonate/patch"
	"go-resonate/theme"
	"go-resonate/ui"
	"go-resonate/widgets"
)

// PollInterval is how often the UI drains the event queue (the panel
// display refreshes at the same rate)
const PollInterval = 50 * time.Millisecond

// KnobReader gives the live knob positions for display
type KnobReader interface {
	KnobValue(i int) float32
}

type Model struct {
	Menu      *ui.Menu
	Events    *ui.EventQueue
	Settings  *patch.Settings
	Knobs     KnobReader
	DeviceMgr *midi.DeviceManager // may be nil
	Theme     *theme.Theme

	port     string
	lastErr  string
	quitting bool
}

type tickMsg time.Time

type DeviceEventMsg midi.DeviceEvent

func NewModel(menu *ui.Menu, events *ui.EventQueue, s *patch.Settings, knobs KnobReader, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	return Model{
		Menu:      menu,
		Events:    events,
		Settings:  s,
		Knobs:     knobs,
		DeviceMgr: deviceMgr,
		Theme:     th,
	}
}

func tick() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	if deviceMgr == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tick(),
		ListenForDevices(m.DeviceMgr),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		default:
			m.Menu.HandleKey(msg.String())
		}

	case tickMsg:
		m.Menu.Drain(m.Events)
		return m, tick()

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			m.port = event.Port
			m.lastErr = ""
		case midi.DeviceDisconnected:
			if m.port == event.Port {
				m.port = ""
			}
		case midi.DeviceFailed:
			m.lastErr = event.Err.Error()
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.Settings.Snapshot()
	poly := patch.ClampPolyphonyIndex(snap.PolyphonyIndex)

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	var engine string
	if snap.Mode == patch.ModeAmbient {
		engine = patch.ClampFx(snap.Fx).String()
	} else {
		engine = patch.ClampModel(snap.Model).String()
	}

	surface := "no surface"
	if m.port != "" {
		surface = m.port
	}

	header := headerStyle.Render(fmt.Sprintf("go-resonate  %s  %s  %dv", snap.Mode, engine, patch.Voices(poly)))
	status := dimStyle.Render(surface)
	if m.lastErr != "" {
		status = warnStyle.Render(m.lastErr)
	}

	menu := widgets.RenderMenu(m.Menu.Title(), m.Menu.Items(), widgets.MenuStyle{
		Cursor:    m.Theme.Symbols.Cursor,
		Editing:   m.Theme.Symbols.Editing,
		Checked:   m.Theme.Symbols.Checked,
		Unchecked: m.Theme.Symbols.Unchecked,
		SubPage:   m.Theme.Symbols.SubPage,
		Normal:    lipgloss.NewStyle().Foreground(m.Theme.FG()),
		Selected:  lipgloss.NewStyle().Foreground(m.Theme.Cursor()),
		Value:     lipgloss.NewStyle().Foreground(m.Theme.Active()),
	})

	var knobs []string
	for i, p := range snap.ChannelMap {
		var v float32
		if m.Knobs != nil {
			v = m.Knobs.KnobValue(i)
		}
		knobs = append(knobs, widgets.RenderKnob(p.String(), v, 16,
			m.Theme.Symbols.BarFull, m.Theme.Symbols.BarEmpty, m.Theme.Accent(), m.Theme.Muted()))
	}

	help := dimStyle.Render("j/k:move  h/l:change  enter:ok  esc:back  q:quit")

	// Build output
	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("  ")
	out.WriteString(status)
	out.WriteString("\n\n")
	out.WriteString(menu)
	out.WriteString("\n\n")
	out.WriteString(strings.Join(knobs, "\n"))
	out.WriteString("\n\n")
	out.WriteString(help)

	return out.String()
}
