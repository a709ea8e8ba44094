// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package util holds small helpers shared by the parsers and commands.
package util

import "strings"

// SplitPad is the same as strings.SplitN but always returns a slice of
// length maxsplit+1, padded with empty strings. Callers can destructure the
// result without checking the length.
func SplitPad(s string, sep string, maxsplit int) []string {
	parts := strings.SplitN(s, sep, maxsplit+1)
	for len(parts) < maxsplit+1 {
		parts = append(parts, "")
	}
	return parts
}
