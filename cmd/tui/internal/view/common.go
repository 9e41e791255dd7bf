package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// CommonModel tracks the terminal size shared by every screen.
type CommonModel struct {
	Width  int
	Height int
}

// Resize records the new terminal size.
func (c *CommonModel) Resize(msg tea.WindowSizeMsg) {
	c.Width = msg.Width
	c.Height = msg.Height
}

// Rows is the height left for a table once reserved lines are taken,
// never less than five.
func (c CommonModel) Rows(reserved int) int {
	return max(c.Height-reserved, 5)
}

// BackMsg returns to the main menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
