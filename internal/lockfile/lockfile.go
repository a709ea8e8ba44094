// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package lockfile

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/staranto/condadoc/internal/conda"
	"github.com/staranto/condadoc/internal/util"
)

// Package is a single resolved entry from a lockfile.
type Package struct {
	Name    string `attr:"name"`
	Version string `attr:"version"`
	Build   string `attr:"build"`
	Channel string `attr:"channel"`
	URL     string `attr:"url"`
	MD5     string `attr:"md5"`
	// Explicit is set when the lockfile format records whether the resolver
	// was asked for the package directly. Nil means the format doesn't say.
	Explicit *bool `attr:"explicit"`
}

// Format identifies which of the supported lockfile shapes a file had. It is
// resolved once at parse time, never re-sniffed.
type Format int

const (
	FormatUnknown Format = iota
	// FormatExplicitURLs is the line-oriented @EXPLICIT download list
	// written by conda list --explicit.
	FormatExplicitURLs
	// FormatManifest is the structured YAML manifest written by conda-lock.
	FormatManifest
	// FormatJSON is a JSON package manifest, eg. conda list --json output.
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatExplicitURLs:
		return "explicit-urls"
	case FormatManifest:
		return "manifest"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// File is a parsed lockfile. Packages preserve file order.
type File struct {
	Format   Format
	Packages []Package
}

// Load reads and parses the lockfile at path. A missing file is reported as
// a *conda.MissingSourceError.
func Load(filepath string) (*File, error) {
	if _, err := os.Stat(filepath); err != nil {
		return nil, &conda.MissingSourceError{Path: filepath}
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}

	return Parse(data, filepath)
}

// Parse sniffs the lockfile shape once and dispatches to the matching
// parser.
func Parse(data []byte, filename string) (*File, error) {
	switch sniff(data) {
	case FormatJSON:
		return parseJSON(data, filename)
	case FormatManifest:
		return parseManifest(data, filename)
	default:
		return parseExplicitURLs(data, filename)
	}
}

// sniff decides the lockfile shape. JSON is recognized by its first byte; a
// manifest by a top-level package key, which conda-lock writes after its
// version and metadata keys; anything else is treated as a URL list. Lines
// keep their indentation so a nested package key never matches.
func sniff(data []byte) Format {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return FormatJSON
	}
	for _, line := range strings.Split(trimmed, "\n") {
		if strings.HasPrefix(line, "package:") {
			return FormatManifest
		}
	}
	return FormatExplicitURLs
}

// parseExplicitURLs handles the line-oriented @EXPLICIT listing. Comment and
// blank lines are tolerated anywhere.
func parseExplicitURLs(data []byte, filename string) (*File, error) {
	f := &File{Format: FormatExplicitURLs}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.EqualFold(line, "@EXPLICIT") {
			continue
		}

		pkg, err := FromURL(line)
		if err != nil {
			return nil, &conda.ParseError{File: filename, Line: i + 1, Cause: err.Error()}
		}
		f.Packages = append(f.Packages, pkg)
	}

	return f, nil
}

// FromURL decodes a package download URL into a Package. Filenames look like
// hyphenated-name-version-build.conda, so the last two hyphens delimit the
// version and build.
func FromURL(url string) (Package, error) {
	parts := util.SplitPad(url, "#", 1)
	url, md5 := parts[0], parts[1]

	base := path.Base(url)
	switch {
	case strings.HasSuffix(base, ".conda"):
		base = strings.TrimSuffix(base, ".conda")
	case strings.HasSuffix(base, ".tar.bz2"):
		base = strings.TrimSuffix(base, ".tar.bz2")
	default:
		return Package{}, fmt.Errorf("not a conda package url: %s", url)
	}

	last := strings.LastIndex(base, "-")
	if last <= 0 {
		return Package{}, fmt.Errorf("malformed package filename: %s", base)
	}
	prev := strings.LastIndex(base[:last], "-")
	if prev <= 0 {
		return Package{}, fmt.Errorf("malformed package filename: %s", base)
	}

	return Package{
		Name:    base[:prev],
		Version: base[prev+1 : last],
		Build:   base[last+1:],
		Channel: channelFromURL(url),
		URL:     url,
		MD5:     md5,
	}, nil
}

// channelFromURL pulls the channel segment out of a download URL. Conda URLs
// are .../<channel>/<platform>/<filename>.
func channelFromURL(url string) string {
	segments := strings.Split(strings.TrimSuffix(url, "/"), "/")
	if len(segments) < 3 {
		return ""
	}
	return segments[len(segments)-3]
}

// manifest mirrors the conda-lock YAML schema, just deep enough for our
// needs.
type manifest struct {
	Package []manifestEntry `yaml:"package"`
}

type manifestEntry struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Category string `yaml:"category"`
	URL      string `yaml:"url"`
	Hash     struct {
		MD5 string `yaml:"md5"`
	} `yaml:"hash"`
}

// parseManifest handles the conda-lock structured manifest. The category
// field records whether the package was a direct request ("main") or pulled
// in transitively.
func parseManifest(data []byte, filename string) (*File, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &conda.ParseError{File: filename, Cause: err.Error()}
	}

	f := &File{Format: FormatManifest}
	for i, entry := range m.Package {
		if entry.Name == "" {
			return nil, &conda.ParseError{
				File:  filename,
				Cause: fmt.Sprintf("package entry %d has no name", i),
			}
		}

		pkg := Package{
			Name:    entry.Name,
			Version: entry.Version,
			Channel: channelFromURL(entry.URL),
			URL:     entry.URL,
			MD5:     entry.Hash.MD5,
		}

		// Recover the build string from the URL when it decodes cleanly.
		if decoded, err := FromURL(entry.URL); err == nil {
			pkg.Build = decoded.Build
		}

		if entry.Category != "" {
			explicit := entry.Category == "main"
			pkg.Explicit = &explicit
		}

		f.Packages = append(f.Packages, pkg)
	}

	return f, nil
}

// parseJSON handles a JSON package manifest of the shape conda list --json
// emits: an array of objects with name/version/build_string/channel.
func parseJSON(data []byte, filename string) (*File, error) {
	if !gjson.ValidBytes(data) {
		return nil, &conda.ParseError{File: filename, Cause: "invalid JSON"}
	}

	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return nil, &conda.ParseError{File: filename, Cause: "JSON manifest is not an array"}
	}

	f := &File{Format: FormatJSON}
	var parseErr error
	parsed.ForEach(func(_, entry gjson.Result) bool {
		name := entry.Get("name").String()
		if name == "" {
			parseErr = &conda.ParseError{
				File:  filename,
				Cause: fmt.Sprintf("entry %d has no name: %s", len(f.Packages), entry.Raw),
			}
			return false
		}

		build := entry.Get("build_string").String()
		if build == "" {
			build = entry.Get("build").String()
		}

		pkg := Package{
			Name:    name,
			Version: entry.Get("version").String(),
			Build:   build,
			Channel: entry.Get("channel").String(),
			URL:     entry.Get("base_url").String(),
		}

		if requested := entry.Get("requested_spec"); requested.Exists() && requested.String() != "" {
			explicit := true
			pkg.Explicit = &explicit
		}

		f.Packages = append(f.Packages, pkg)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return f, nil
}
