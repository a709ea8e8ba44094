// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package envfile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/staranto/condadoc/internal/conda"
	"github.com/staranto/condadoc/internal/util"
)

// Requirement is a single entry from the dependencies list of an
// environment.yml. Constraint is everything after the first "=" and may be
// empty.
type Requirement struct {
	Name       string `attr:"name"`
	Constraint string `attr:"constraint"`
	// Pip is true when the requirement came from a flattened pip sub-list.
	Pip bool `attr:"pip"`
}

// File is a parsed environment.yml.
type File struct {
	Name         string
	Channels     []string
	Requirements []Requirement
}

// PipPolicy decides what happens to nested pip-style sub-lists under the
// dependencies key.
type PipPolicy string

const (
	// PipSkip ignores nested sub-lists entirely.
	PipSkip PipPolicy = "skip"
	// PipFlatten parses each nested entry into a Requirement.
	PipFlatten PipPolicy = "flatten"
)

// PipPolicyFromConfig maps a config value onto a PipPolicy, defaulting to
// skip for anything unrecognized.
func PipPolicyFromConfig(value string) PipPolicy {
	if PipPolicy(value) == PipFlatten {
		return PipFlatten
	}
	return PipSkip
}

// Options controls parsing behavior.
type Options struct {
	Pip PipPolicy
}

// Load reads and parses the environment file at path. A missing file is
// reported as a *conda.MissingSourceError, never as a parse error.
func Load(path string, opts Options) (*File, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &conda.MissingSourceError{Path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment file: %w", err)
	}

	return Parse(data, path, opts)
}

// Parse parses environment.yml content. The dependency list order is
// preserved. Entries that are nested sub-maps (eg. pip sub-lists) are
// skipped or flattened per opts.Pip.
func Parse(data []byte, filename string, opts Options) (*File, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &conda.ParseError{File: filename, Cause: err.Error()}
	}

	if len(root.Content) == 0 {
		// Empty file is a valid (if useless) environment.
		return &File{}, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, &conda.ParseError{
			File:  filename,
			Line:  doc.Line,
			Cause: "top level is not a mapping",
		}
	}

	f := &File{}

	// Mapping content alternates key, value.
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i]
		value := doc.Content[i+1]

		switch key.Value {
		case "name":
			f.Name = value.Value
		case "channels":
			channels, err := scalarSequence(value, filename)
			if err != nil {
				return nil, err
			}
			f.Channels = channels
		case "dependencies":
			reqs, err := parseDependencies(value, filename, opts)
			if err != nil {
				return nil, err
			}
			f.Requirements = reqs
		}
	}

	return f, nil
}

func parseDependencies(node *yaml.Node, filename string, opts Options) ([]Requirement, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, &conda.ParseError{
			File:  filename,
			Line:  node.Line,
			Cause: "dependencies is not a list",
		}
	}

	var reqs []Requirement
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			req, err := parseSpec(item, filename)
			if err != nil {
				return nil, err
			}
			reqs = append(reqs, req)
		case yaml.MappingNode:
			// A nested sub-map, eg. "pip:". Policy decides.
			if opts.Pip != PipFlatten {
				continue
			}
			flattened, err := flattenSubList(item, filename)
			if err != nil {
				return nil, err
			}
			reqs = append(reqs, flattened...)
		default:
			return nil, &conda.ParseError{
				File:  filename,
				Line:  item.Line,
				Cause: fmt.Sprintf("unexpected dependency entry kind %d", item.Kind),
			}
		}
	}

	return reqs, nil
}

// parseSpec splits a conda match spec like "numpy=1.26" or "python=3.11=h_1"
// into a name and the remainder as the constraint.
func parseSpec(node *yaml.Node, filename string) (Requirement, error) {
	spec := strings.TrimSpace(node.Value)
	if spec == "" {
		return Requirement{}, &conda.ParseError{
			File:  filename,
			Line:  node.Line,
			Cause: "empty dependency entry",
		}
	}

	parts := util.SplitPad(spec, "=", 1)
	return Requirement{Name: parts[0], Constraint: parts[1]}, nil
}

// flattenSubList turns each entry of a nested sub-list (pip style specs,
// "name==constraint") into a Requirement.
func flattenSubList(node *yaml.Node, filename string) ([]Requirement, error) {
	var reqs []Requirement

	for i := 0; i+1 < len(node.Content); i += 2 {
		value := node.Content[i+1]
		if value.Kind != yaml.SequenceNode {
			return nil, &conda.ParseError{
				File:  filename,
				Line:  value.Line,
				Cause: fmt.Sprintf("nested dependency block %q is not a list", node.Content[i].Value),
			}
		}

		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, &conda.ParseError{
					File:  filename,
					Line:  item.Line,
					Cause: "nested dependency entry is not a string",
				}
			}
			name, constraint := splitPipSpec(item.Value)
			if name == "" {
				return nil, &conda.ParseError{
					File:  filename,
					Line:  item.Line,
					Cause: "empty nested dependency entry",
				}
			}
			reqs = append(reqs, Requirement{Name: name, Constraint: constraint, Pip: true})
		}
	}

	return reqs, nil
}

// splitPipSpec splits a pip style spec on the first comparison operator.
func splitPipSpec(spec string) (string, string) {
	spec = strings.TrimSpace(spec)
	if idx := strings.IndexAny(spec, "=<>!~"); idx >= 0 {
		return strings.TrimSpace(spec[:idx]), strings.TrimSpace(spec[idx:])
	}
	return spec, ""
}

func scalarSequence(node *yaml.Node, filename string) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, &conda.ParseError{
			File:  filename,
			Line:  node.Line,
			Cause: "expected a list",
		}
	}
	values := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		values = append(values, item.Value)
	}
	return values, nil
}
