package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// CommonModel holds the terminal size shared by every screen.
type CommonModel struct {
	Width  int
	Height int
}

func (c *CommonModel) SetSize(width, height int) {
	c.Width = width
	c.Height = height
}

// BackMsg returns the program to the main menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
