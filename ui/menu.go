package ui

import (
	"go-resonate/debug"
	"go-resonate/patch"
)

// PageID identifies a menu page
type PageID int

const (
	PageMain PageID = iota
	PageControls
	PageMode
	PageNormalize

	numPages
)

var pageTitles = [numPages]string{"Resonate", "Controls", "Mode", "Normalize"}

// ItemKind identifies what pressing OK on an item does
type ItemKind int

const (
	ItemOpenPage ItemKind = iota
	ItemCheckbox
	ItemValue
	ItemClose
)

type item struct {
	kind ItemKind
	text string

	page PageID // ItemOpenPage

	checked func() bool // ItemCheckbox
	toggle  func(bool)

	options []string // ItemValue
	index   func() int
	setIdx  func(int)
}

// ItemView is the render data for one menu line
type ItemView struct {
	Kind     ItemKind
	Text     string
	Value    string
	Checked  bool
	Selected bool
	Editing  bool
}

// maxDepth bounds the page stack (main plus one sub page is all we need)
const maxDepth = 4

// Menu is the settings menu. It runs in the UI loop and is the only writer of
// the patch.Settings it was built with.
type Menu struct {
	settings *patch.Settings
	pages    [numPages][]item
	cursor   [numPages]int
	stack    [maxDepth]PageID
	depth    int
	editing  bool
}

// NewMenu builds the menu tree over settings
func NewMenu(s *patch.Settings) *Menu {
	m := &Menu{settings: s, depth: 1}
	m.stack[0] = PageMain

	m.pages[PageMain] = []item{
		{kind: ItemOpenPage, text: "Controls", page: PageControls},
		{kind: ItemOpenPage, text: "Mode", page: PageMode},
		{kind: ItemOpenPage, text: "Normalize", page: PageNormalize},
		{kind: ItemCheckbox, text: "Easter Egg", checked: s.Ambient, toggle: m.setAmbient},
	}

	knobs := []string{"Knob One", "Knob Two", "Knob Three", "Knob Four"}
	for i, name := range knobs {
		knob := i
		m.pages[PageControls] = append(m.pages[PageControls], item{
			kind:    ItemValue,
			text:    name,
			options: patch.ParamNames,
			index:   func() int { return int(s.Channel(knob)) },
			setIdx:  func(v int) { s.SetChannel(knob, patch.Param(v)) },
		})
	}
	m.pages[PageControls] = append(m.pages[PageControls], item{kind: ItemClose, text: "Back"})

	m.pages[PageMode] = []item{
		{kind: ItemValue, text: "Polyphony", options: patch.PolyphonyNames, index: s.PolyphonyIndex, setIdx: s.SetPolyphonyIndex},
		{kind: ItemValue, text: "Model", options: patch.ModelNames, index: s.Model, setIdx: s.SetModel},
		{kind: ItemValue, text: "Effects", options: patch.FxNames, index: s.Fx, setIdx: s.SetFx},
		{kind: ItemClose, text: "Back"},
	}

	m.pages[PageNormalize] = []item{
		{kind: ItemCheckbox, text: "Exciter", checked: s.ExciterIn, toggle: s.SetExciterIn},
		{kind: ItemCheckbox, text: "Strum", checked: s.StrumIn, toggle: s.SetStrumIn},
		{kind: ItemCheckbox, text: "Note", checked: s.NoteIn, toggle: s.SetNoteIn},
		{kind: ItemClose, text: "Back"},
	}

	return m
}

// Page returns the page currently shown
func (m *Menu) Page() PageID {
	return m.stack[m.depth-1]
}

// Title returns the title of the current page
func (m *Menu) Title() string {
	return pageTitles[m.Page()]
}

// Editing reports whether the encoder is currently changing a value
func (m *Menu) Editing() bool {
	return m.editing
}

// Items returns the render data for the current page
func (m *Menu) Items() []ItemView {
	page := m.Page()
	views := make([]ItemView, len(m.pages[page]))
	for i, it := range m.pages[page] {
		v := ItemView{Kind: it.kind, Text: it.text, Selected: i == m.cursor[page]}
		switch it.kind {
		case ItemCheckbox:
			v.Checked = it.checked()
		case ItemValue:
			idx := it.index()
			if idx >= 0 && idx < len(it.options) {
				v.Value = it.options[idx]
			}
			v.Editing = v.Selected && m.editing
		}
		views[i] = v
	}
	return views
}

func (m *Menu) selected() *item {
	page := m.Page()
	return &m.pages[page][m.cursor[page]]
}

// HandleEvent applies one control-surface event
func (m *Menu) HandleEvent(e Event) {
	switch e.Kind {
	case EncoderTurned:
		if e.ID != EncoderMain {
			return
		}
		if m.editing {
			m.step(e.Increment)
		} else {
			m.move(e.Increment)
		}
	case ButtonPressed:
		if e.ID == ButtonEncoder {
			m.ok()
		}
	}
}

// Drain applies every queued event and reports whether any arrived
func (m *Menu) Drain(q *EventQueue) bool {
	changed := false
	for {
		e, ok := q.Next()
		if !ok {
			return changed
		}
		m.HandleEvent(e)
		changed = true
	}
}

// HandleKey applies a keyboard key (bubbletea key names)
func (m *Menu) HandleKey(key string) {
	switch key {
	case "k", "up":
		if m.editing {
			m.step(-1)
		} else {
			m.move(-1)
		}
	case "j", "down":
		if m.editing {
			m.step(1)
		} else {
			m.move(1)
		}
	case "h", "left":
		m.step(-1)
	case "l", "right":
		m.step(1)
	case "enter", " ":
		m.ok()
	case "esc", "backspace":
		m.back()
	}
}

func (m *Menu) move(delta int) {
	page := m.Page()
	c := m.cursor[page] + delta
	if c < 0 {
		c = 0
	}
	if c >= len(m.pages[page]) {
		c = len(m.pages[page]) - 1
	}
	m.cursor[page] = c
}

// step changes the selected value item, clamping at both ends
func (m *Menu) step(delta int) {
	it := m.selected()
	if it.kind != ItemValue {
		return
	}
	v := it.index() + delta
	if v < 0 {
		v = 0
	}
	if v >= len(it.options) {
		v = len(it.options) - 1
	}
	it.setIdx(v)
}

func (m *Menu) ok() {
	it := m.selected()
	switch it.kind {
	case ItemOpenPage:
		if m.depth < maxDepth {
			m.stack[m.depth] = it.page
			m.depth++
			m.cursor[it.page] = 0
		}
	case ItemCheckbox:
		it.toggle(!it.checked())
	case ItemValue:
		m.editing = !m.editing
	case ItemClose:
		m.back()
	}
}

// setAmbient flips the operating mode; the audio side picks it up next block
func (m *Menu) setAmbient(on bool) {
	m.settings.SetAmbient(on)
	mode := patch.ModeNormal
	if on {
		mode = patch.ModeAmbient
	}
	debug.Log("mode", "switching to %v", mode)
}

func (m *Menu) back() {
	if m.editing {
		m.editing = false
		return
	}
	if m.depth > 1 {
		m.depth--
	}
}
