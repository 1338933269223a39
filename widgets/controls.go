package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderBar renders a horizontal value bar: value in 0..1 over width cells
func RenderBar(value float32, width int, full, empty rune, fg, bg lipgloss.Color) string {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	n := int(value*float32(width) + 0.5)
	on := lipgloss.NewStyle().Foreground(fg).Render(strings.Repeat(string(full), n))
	off := lipgloss.NewStyle().Foreground(bg).Render(strings.Repeat(string(empty), width-n))
	return on + off
}

// RenderKnob renders "label  bar  0.42"
func RenderKnob(label string, value float32, width int, full, empty rune, fg, bg lipgloss.Color) string {
	return fmt.Sprintf("%-12s %s %4.2f", label, RenderBar(value, width, full, empty, fg, bg), value)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
