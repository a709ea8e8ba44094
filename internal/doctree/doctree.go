// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package doctree is the generic output node tree produced by the
// documentation build. Nodes are pure values; rendering is a separate,
// side-effect free transformation.
package doctree

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is any element of the output tree.
type Node interface {
	node()
}

// Document is the root of a rendered page.
type Document struct {
	Children []Node
}

// Section is a titled subtree. Level 1 renders as an H1.
type Section struct {
	Title    string
	Level    int
	Children []Node
}

// Paragraph is a run of markdown text carried through unchanged.
type Paragraph struct {
	Text string
}

// CodeBlock is a fenced source listing.
type CodeBlock struct {
	Language string
	Source   string
}

// Table is the generic tabular node. Origin information never reaches this
// layer; rows are plain cells.
type Table struct {
	Title   string
	Columns []string
	// Widths are minimum column widths in characters; nil means auto.
	Widths []int
	// Width is an overall width hint. Numeric values ("80") cap the padded
	// line width; percentage forms have no markdown rendering and pass
	// through untouched.
	Width string
	Align Align
	Rows  [][]string
}

func (*Document) node()  {}
func (*Section) node()   {}
func (*Paragraph) node() {}
func (*CodeBlock) node() {}
func (*Table) node()     {}

// Align is the fixed set of table alignment options.
type Align int

const (
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// ParseAlign maps a directive option value onto an Align.
func ParseAlign(value string) (Align, error) {
	switch value {
	case "", "default":
		return AlignDefault, nil
	case "left":
		return AlignLeft, nil
	case "center":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return AlignDefault, fmt.Errorf("invalid align value %q (want left, center or right)", value)
	}
}

// RenderMarkdown renders the node tree as GitHub-flavored markdown.
func RenderMarkdown(n Node) string {
	var sb strings.Builder
	renderMarkdown(&sb, n)
	return sb.String()
}

func renderMarkdown(sb *strings.Builder, n Node) {
	switch node := n.(type) {
	case *Document:
		for _, child := range node.Children {
			renderMarkdown(sb, child)
		}
	case *Section:
		level := node.Level
		if level < 1 {
			level = 1
		}
		fmt.Fprintf(sb, "%s %s\n\n", strings.Repeat("#", level), node.Title)
		for _, child := range node.Children {
			renderMarkdown(sb, child)
		}
	case *Paragraph:
		sb.WriteString(strings.TrimRight(node.Text, "\n"))
		sb.WriteString("\n\n")
	case *CodeBlock:
		fmt.Fprintf(sb, "```%s\n%s\n```\n\n", node.Language, strings.TrimRight(node.Source, "\n"))
	case *Table:
		renderMarkdownTable(sb, node)
	}
}

func renderMarkdownTable(sb *strings.Builder, t *Table) {
	if t.Title != "" {
		fmt.Fprintf(sb, "**%s**\n\n", t.Title)
	}
	if len(t.Columns) == 0 {
		return
	}

	widths := columnWidths(t)
	if budget, err := strconv.Atoi(t.Width); err == nil && budget > 0 {
		fitBudget(widths, budget)
	}

	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i := range t.Columns {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			fmt.Fprintf(sb, " %-*s |", widths[i], cell)
		}
		sb.WriteString("\n")
	}

	writeRow(t.Columns)

	sb.WriteString("|")
	for i := range t.Columns {
		sb.WriteString(separator(t.Align, widths[i]))
		sb.WriteString("|")
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		writeRow(row)
	}
	sb.WriteString("\n")
}

// separator builds a header separator cell with alignment markers.
func separator(align Align, width int) string {
	dashes := strings.Repeat("-", max(width, 3))
	switch align {
	case AlignLeft:
		return ":" + dashes + " "
	case AlignCenter:
		return ":" + dashes + ":"
	case AlignRight:
		return " " + dashes + ":"
	default:
		return " " + dashes + " "
	}
}

// fitBudget shaves padding off the widest columns until the rendered line
// width fits the hint. Columns never shrink below the separator minimum, and
// cells longer than their column still render unclipped.
func fitBudget(widths []int, budget int) {
	overhead := 3*len(widths) + 1
	sum := 0
	for _, w := range widths {
		sum += w
	}
	for sum+overhead > budget {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 3 {
			break
		}
		widths[widest]--
		sum--
	}
}

// columnWidths returns the effective width of each column: the longest cell,
// the header, or the configured minimum, whichever wins.
func columnWidths(t *Table) []int {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = len(col)
		if i < len(t.Widths) && t.Widths[i] > widths[i] {
			widths[i] = t.Widths[i]
		}
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}
