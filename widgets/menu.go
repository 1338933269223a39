package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-resonate/ui"
)

// MenuStyle holds what RenderMenu needs from the theme
type MenuStyle struct {
	Cursor, Editing, Checked, Unchecked, SubPage rune

	Normal, Selected, Value lipgloss.Style
}

// RenderMenu renders one menu page, one item per line
func RenderMenu(title string, items []ui.ItemView, st MenuStyle) string {
	lines := []string{st.Value.Render(title)}
	for _, it := range items {
		marker := ' '
		if it.Selected {
			marker = st.Cursor
			if it.Editing {
				marker = st.Editing
			}
		}

		var text string
		switch it.Kind {
		case ui.ItemCheckbox:
			box := st.Unchecked
			if it.Checked {
				box = st.Checked
			}
			text = fmt.Sprintf("%c %s", box, it.Text)
		case ui.ItemValue:
			text = fmt.Sprintf("%-12s %s", it.Text, st.Value.Render(it.Value))
		case ui.ItemOpenPage:
			text = fmt.Sprintf("%s %c", it.Text, st.SubPage)
		default:
			text = it.Text
		}

		style := st.Normal
		if it.Selected {
			style = st.Selected
		}
		lines = append(lines, fmt.Sprintf("%c %s", marker, style.Render(text)))
	}
	return strings.Join(lines, "\n")
}
