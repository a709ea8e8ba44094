// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Driller resolves a dotted attribute path against a JSON document. It
// behaves like gjson.Get with two conveniences: explicit array indexes may
// be written as key[0], and single-element arrays are drilled through
// transparently so paths don't need to care whether a level is wrapped.
func Driller(json string, path string) gjson.Result {
	current := gjson.Parse(json)

	for _, segment := range segments(path) {
		current = drillSingle(current)
		current = current.Get(segment)
		if !current.Exists() {
			return current
		}
	}

	return drillSingle(current)
}

// drillSingle unwraps an array of exactly one element.
func drillSingle(result gjson.Result) gjson.Result {
	if result.IsArray() {
		arr := result.Array()
		if len(arr) == 1 {
			return arr[0]
		}
	}
	return result
}

// segments normalizes key[3].sub into ["key", "3", "sub"].
func segments(path string) []string {
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")

	//nolint:prealloc
	var parts []string
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}
