// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
// no-cloc

package doctree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlign(t *testing.T) {
	tests := []struct {
		value   string
		want    Align
		wantErr bool
	}{
		{"", AlignDefault, false},
		{"default", AlignDefault, false},
		{"left", AlignLeft, false},
		{"center", AlignCenter, false},
		{"right", AlignRight, false},
		{"middle", AlignDefault, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseAlign(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderMarkdown_Document(t *testing.T) {
	doc := &Document{
		Children: []Node{
			&Section{
				Title: "data-science",
				Level: 1,
				Children: []Node{
					&Paragraph{Text: "An environment for notebooks.\n"},
					&CodeBlock{Language: "yaml", Source: "name: ds\n"},
				},
			},
		},
	}

	got := RenderMarkdown(doc)
	assert.Contains(t, got, "# data-science\n\n")
	assert.Contains(t, got, "An environment for notebooks.\n\n")
	assert.Contains(t, got, "```yaml\nname: ds\n```\n\n")
}

func TestRenderMarkdown_SectionLevels(t *testing.T) {
	assert.True(t, strings.HasPrefix(RenderMarkdown(&Section{Title: "T", Level: 3}), "### T\n"))
	// Level zero is clamped to an H1.
	assert.True(t, strings.HasPrefix(RenderMarkdown(&Section{Title: "T"}), "# T\n"))
}

func TestRenderMarkdown_Table(t *testing.T) {
	table := &Table{
		Title:   "Packages",
		Columns: []string{"name", "version"},
		Rows: [][]string{
			{"numpy", "1.26.4"},
			{"libblas", "3.9.0"},
		},
	}

	got := RenderMarkdown(table)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, 6)

	assert.Equal(t, "**Packages**", lines[0])
	assert.Equal(t, "", lines[1])
	// Cells pad to the widest value in the column.
	assert.Equal(t, "| name    | version |", lines[2])
	assert.Equal(t, "| ------- | ------- |", lines[3])
	assert.Equal(t, "| numpy   | 1.26.4  |", lines[4])
	assert.Equal(t, "| libblas | 3.9.0   |", lines[5])
}

func TestRenderMarkdown_TableAlign(t *testing.T) {
	table := &Table{
		Columns: []string{"name"},
		Align:   AlignRight,
		Rows:    [][]string{{"numpy"}},
	}
	assert.Contains(t, RenderMarkdown(table), "| -----:|")

	table.Align = AlignCenter
	assert.Contains(t, RenderMarkdown(table), "|:-----:|")

	table.Align = AlignLeft
	assert.Contains(t, RenderMarkdown(table), "|:----- |")
}

func TestRenderMarkdown_TableMinWidths(t *testing.T) {
	table := &Table{
		Columns: []string{"name"},
		Widths:  []int{10},
		Rows:    [][]string{{"x"}},
	}

	got := RenderMarkdown(table)
	assert.Contains(t, got, "| name       |")
	assert.Contains(t, got, "| x          |")
}

func TestRenderMarkdown_TableWidthHint(t *testing.T) {
	table := &Table{
		Columns: []string{"a", "b"},
		Widths:  []int{30, 30},
		Width:   "30",
		Rows:    [][]string{{"x", "y"}},
	}

	// The numeric hint shaves the padding down to the budget.
	for _, line := range strings.Split(strings.TrimRight(RenderMarkdown(table), "\n"), "\n") {
		assert.LessOrEqual(t, len(line), 30)
	}

	// A percentage hint has no markdown rendering and changes nothing.
	table.Width = "100%"
	lines := strings.Split(strings.TrimRight(RenderMarkdown(table), "\n"), "\n")
	assert.Len(t, lines[0], 67)
}

func TestRenderMarkdown_TableShortRow(t *testing.T) {
	table := &Table{
		Columns: []string{"name", "version"},
		Rows:    [][]string{{"numpy"}},
	}

	// A short row pads out with empty cells rather than panicking.
	got := RenderMarkdown(table)
	assert.Contains(t, got, "| numpy |         |")
}

func TestRenderMarkdown_EmptyTable(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(&Table{}))
}
