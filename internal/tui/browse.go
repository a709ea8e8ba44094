// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package tui is the interactive package browser behind the browse command.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/staranto/condadoc/internal/pkgset"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f6be00")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)
)

// Model is the bubbletea model for the package browser. It holds the full
// merged row set and re-filters in place as the visibility toggles change.
type Model struct {
	env   string
	rows  []pkgset.Row
	opts  pkgset.Options
	table table.Model
}

// NewModel builds a browser over the merged package rows of one environment.
func NewModel(env string, rows []pkgset.Row) Model {
	columns := []table.Column{
		{Title: "Name", Width: columnWidth(rows, "Name", 4)},
		{Title: "Version", Width: columnWidth(rows, "Version", 7)},
		{Title: "Build", Width: columnWidth(rows, "Build", 5)},
		{Title: "Channel", Width: columnWidth(rows, "Channel", 7)},
		{Title: "Origin", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20), //nolint:mnd
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := Model{
		env:   env,
		rows:  rows,
		table: t,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Leave room for the title and help lines.
		m.table.SetHeight(msg.Height - 4) //nolint:mnd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "e":
			m.opts.HideExplicit = !m.opts.HideExplicit
			m.refresh()
		case "i":
			m.opts.HideImplicit = !m.opts.HideImplicit
			m.refresh()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	title := titleStyle.Render(fmt.Sprintf("%s (%d packages)", m.env, len(m.table.Rows())))
	help := helpStyle.Render("e toggle explicit • i toggle implicit • q quit")
	return title + "\n" + m.table.View() + "\n" + help
}

// refresh re-applies the visibility filter to the full row set.
func (m *Model) refresh() {
	filtered := pkgset.Filter(m.rows, m.opts)

	rows := make([]table.Row, len(filtered))
	for i, row := range filtered {
		rows[i] = table.Row{row.Name, row.Version, row.Build, row.Channel, row.Origin.String()}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// Browse runs the interactive package browser until the user quits.
func Browse(env string, rows []pkgset.Row) error {
	p := tea.NewProgram(NewModel(env, rows), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

// columnWidth sizes a column to its widest value, with a floor of the title
// width.
func columnWidth(rows []pkgset.Row, column string, floor int) int {
	width := floor
	for _, row := range rows {
		var value string
		switch column {
		case "Name":
			value = row.Name
		case "Version":
			value = row.Version
		case "Build":
			value = row.Build
		case "Channel":
			value = row.Channel
		}
		if len(value) > width {
			width = len(value)
		}
	}
	return width
}
