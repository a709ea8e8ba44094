// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package directive scans markdown documents for colon-fenced block
// directives of the form
//
//	::::{environment} data-science
//	:yamlfile: ./environment.yml
//	:lockfile: ./conda-linux-64.lock
//
//	body content
//
//	:::{packagelist} Packages
//	:hide-implicit:
//	:::
//	::::
//
// An opening fence is three or more colons followed by the braced directive
// name; option lines follow immediately; the body runs until a fence of the
// same length. Nested directives use shorter fences than their parent.
package directive

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	openRe  = regexp.MustCompile(`^(:{3,})\{([a-z][a-z0-9-]*)\}\s*(.*)$`)
	optRe   = regexp.MustCompile(`^:([a-z][a-z0-9-]*):\s*(.*)$`)
	fenceRe = regexp.MustCompile(`^:{3,}\s*$`)
)

// Directive is one parsed block directive.
type Directive struct {
	Name    string
	Arg     string
	Options map[string]string
	// Body holds the raw body lines; parse them with Chunks when nested
	// directives are expected.
	Body []string
	// Line is the 1-based line of the opening fence in the source document.
	Line     int
	bodyLine int
}

// Option returns the named option value and whether it was present.
func (d *Directive) Option(name string) (string, bool) {
	value, ok := d.Options[name]
	return value, ok
}

// Flag reports whether a valueless option was present.
func (d *Directive) Flag(name string) bool {
	_, ok := d.Options[name]
	return ok
}

// Chunks parses the directive body into its own chunk sequence, preserving
// source line numbers.
func (d *Directive) Chunks() ([]Chunk, error) {
	return parseLines(d.Body, d.bodyLine)
}

// Chunk is either a run of plain markdown lines or a directive.
type Chunk struct {
	Text []string
	Dir  *Directive
}

// Parse splits a document into chunks of plain text and top-level
// directives.
func Parse(doc string) ([]Chunk, error) {
	return parseLines(strings.Split(doc, "\n"), 1)
}

func parseLines(lines []string, base int) ([]Chunk, error) {
	//nolint:prealloc
	var chunks []Chunk
	var text []string

	flush := func() {
		if len(text) > 0 {
			chunks = append(chunks, Chunk{Text: text})
			text = nil
		}
	}

	i := 0
	for i < len(lines) {
		m := openRe.FindStringSubmatch(lines[i])
		if m == nil {
			text = append(text, lines[i])
			i++
			continue
		}
		flush()

		d := &Directive{
			Name:    m[2],
			Arg:     strings.TrimSpace(m[3]),
			Options: map[string]string{},
			Line:    base + i,
		}
		fence := len(m[1])
		i++

		// Option lines follow the opening fence immediately.
		for i < len(lines) {
			om := optRe.FindStringSubmatch(lines[i])
			if om == nil {
				break
			}
			d.Options[om[1]] = strings.TrimSpace(om[2])
			i++
		}
		d.bodyLine = base + i

		// Collect the body until the fence that closes this directive.
		// Nested openings push onto the stack so their (shorter) closing
		// fences don't end the outer body early.
		stack := []int{fence}
		closed := false
		for i < len(lines) {
			line := lines[i]

			if fenceRe.MatchString(line) {
				n := len(strings.TrimSpace(line))
				if n == stack[len(stack)-1] {
					stack = stack[:len(stack)-1]
					if len(stack) == 0 {
						closed = true
						i++
						break
					}
					d.Body = append(d.Body, line)
					i++
					continue
				}
			}

			if nested := openRe.FindStringSubmatch(line); nested != nil {
				stack = append(stack, len(nested[1]))
			}
			d.Body = append(d.Body, line)
			i++
		}

		if !closed {
			return nil, &ScanError{
				Line:  d.Line,
				Cause: fmt.Sprintf("unclosed %q directive", d.Name),
			}
		}

		chunks = append(chunks, Chunk{Dir: d})
	}
	flush()

	return chunks, nil
}
