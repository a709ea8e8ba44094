// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package differ compares two lockfiles and renders the delta.
package differ

import (
	"encoding/json"
	"fmt"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/staranto/condadoc/internal/lockfile"
)

// Diff compares two parsed lockfiles and returns a rendered ascii diff.
// Packages are keyed by name so reordering alone never shows as a change. An
// empty string means the lockfiles resolve identically.
func Diff(left, right *lockfile.File, color bool) (string, error) {
	leftBytes, err := json.Marshal(document(left))
	if err != nil {
		return "", fmt.Errorf("failed to marshal lockfile: %w", err)
	}
	rightBytes, err := json.Marshal(document(right))
	if err != nil {
		return "", fmt.Errorf("failed to marshal lockfile: %w", err)
	}

	delta, err := gojsondiff.New().Compare(leftBytes, rightBytes)
	if err != nil {
		return "", fmt.Errorf("failed to compare lockfiles: %w", err)
	}

	if !delta.Modified() {
		return "", nil
	}

	// The ascii formatter wants the left document back as a generic map so it
	// can show unchanged context.
	var leftDoc map[string]interface{}
	if err := json.Unmarshal(leftBytes, &leftDoc); err != nil {
		return "", fmt.Errorf("failed to unmarshal lockfile: %w", err)
	}

	out, err := formatter.NewAsciiFormatter(leftDoc, formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       color,
	}).Format(delta)
	if err != nil {
		return "", fmt.Errorf("failed to format diff: %w", err)
	}

	return out, nil
}

// document flattens a lockfile into a name-keyed map, which is the shape the
// diff is computed over.
func document(f *lockfile.File) map[string]interface{} {
	doc := make(map[string]interface{}, len(f.Packages))
	for _, pkg := range f.Packages {
		entry := map[string]interface{}{
			"version": pkg.Version,
		}
		if pkg.Build != "" {
			entry["build"] = pkg.Build
		}
		if pkg.Channel != "" {
			entry["channel"] = pkg.Channel
		}
		doc[pkg.Name] = entry
	}
	return doc
}
