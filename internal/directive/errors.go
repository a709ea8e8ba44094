// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package directive

import "fmt"

// ScanError reports a malformed directive block.
type ScanError struct {
	Line  int
	Cause string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Cause)
}

// ReferenceError reports a packagelist directive with no enclosing
// environment directive to resolve against.
type ReferenceError struct {
	Doc  string
	Line int
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf(
		"%s:%d: packagelist directive is not nested inside an environment directive",
		e.Doc, e.Line)
}
