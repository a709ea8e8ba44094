// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package conda holds the error types shared by the environment file and
// lockfile parsers.
package conda

import "fmt"

// ParseError reports malformed content in an input file. File and Line point
// at the offending entry.
type ParseError struct {
	File  string
	Line  int
	Cause string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Cause)
}

// MissingSourceError reports a referenced source file that does not exist.
// This is a distinct condition from a parse failure so callers can decide
// whether a source was optional.
type MissingSourceError struct {
	Path string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("source file does not exist: %s", e.Path)
}
