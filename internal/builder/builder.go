// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package builder orchestrates a documentation build: it walks the docs
// tree, processes environment and packagelist directives in each document,
// and emits the rendered pages plus the generated environment source pages
// and indexes.
package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/condadoc/internal/directive"
	"github.com/staranto/condadoc/internal/doctree"
	"github.com/staranto/condadoc/internal/envfile"
	"github.com/staranto/condadoc/internal/lockfile"
	"github.com/staranto/condadoc/internal/pkgset"
	"github.com/staranto/condadoc/internal/registry"
)

// EnvPagesDir is the subdirectory of the output tree that receives the
// generated per-environment source pages and indexes.
const EnvPagesDir = "_environments"

// Builder is a single documentation build. Each build constructs its own
// Registry; nothing is shared between builds.
type Builder struct {
	DocsDir string
	OutDir  string
	Pip     envfile.PipPolicy

	Registry *registry.Registry
}

func New(docsDir, outDir string, pip envfile.PipPolicy) *Builder {
	return &Builder{
		DocsDir:  docsDir,
		OutDir:   outDir,
		Pip:      pip,
		Registry: registry.New(),
	}
}

// Run processes every markdown document under DocsDir and then generates
// the environment pages. A failing document is reported and skipped; the
// remaining documents still build. The returned error joins all per-document
// failures.
func (b *Builder) Run() error {
	var failures []error

	outAbs, _ := filepath.Abs(b.OutDir)

	err := fs.WalkDir(os.DirFS(b.DocsDir), ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			abs, _ := filepath.Abs(filepath.Join(b.DocsDir, rel))
			if abs == outAbs || strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") {
				if rel != "." {
					return fs.SkipDir
				}
			}
			return nil
		}
		if !strings.HasSuffix(rel, ".md") {
			return nil
		}

		if docErr := b.processDoc(rel); docErr != nil {
			log.Errorf("%s: %v", rel, docErr)
			failures = append(failures, fmt.Errorf("%s: %w", rel, docErr))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk docs dir: %w", err)
	}

	if err := b.writeEnvironmentPages(); err != nil {
		failures = append(failures, err)
	}

	return errors.Join(failures...)
}

// processDoc renders one source document into the output tree.
func (b *Builder) processDoc(rel string) error {
	src := filepath.Join(b.DocsDir, rel)
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	chunks, err := directive.Parse(string(data))
	if err != nil {
		return err
	}

	doc := &doctree.Document{}
	children, err := b.renderChunks(chunks, rel, nil)
	if err != nil {
		return err
	}
	doc.Children = children

	return b.writePage(rel, doctree.RenderMarkdown(doc))
}

// renderChunks converts a chunk sequence into output nodes. env carries the
// enclosing environment directive context, nil at the top level.
func (b *Builder) renderChunks(
	chunks []directive.Chunk,
	docRel string,
	env *registry.Environment,
) ([]doctree.Node, error) {

	//nolint:prealloc
	var nodes []doctree.Node
	for _, chunk := range chunks {
		if chunk.Dir == nil {
			text := strings.Join(chunk.Text, "\n")
			if strings.TrimSpace(text) == "" {
				continue
			}
			nodes = append(nodes, &doctree.Paragraph{Text: text})
			continue
		}

		switch chunk.Dir.Name {
		case "environment":
			section, err := b.processEnvironment(chunk.Dir, docRel)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, section)
		case "packagelist":
			table, err := b.processPackageList(chunk.Dir, docRel, env)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, table)
		default:
			return nil, &directive.ScanError{
				Line:  chunk.Dir.Line,
				Cause: fmt.Sprintf("unknown directive %q", chunk.Dir.Name),
			}
		}
	}
	return nodes, nil
}

// processEnvironment loads the directive's sources, registers the
// environment, and renders the directive body beneath a section heading.
func (b *Builder) processEnvironment(d *directive.Directive, docRel string) (doctree.Node, error) {
	if d.Arg == "" {
		return nil, &directive.ScanError{Line: d.Line, Cause: "environment directive needs a name"}
	}

	env := &registry.Environment{
		Name: d.Arg,
		Doc:  docRel,
		Line: d.Line,
	}

	docDir := filepath.Dir(filepath.Join(b.DocsDir, docRel))

	if yamlfile, ok := d.Option("yamlfile"); ok {
		env.YamlPath = filepath.Join(docDir, yamlfile)
		parsed, err := envfile.Load(env.YamlPath, envfile.Options{Pip: b.Pip})
		if err != nil {
			return nil, fmt.Errorf("environment %q (line %d): %w", d.Arg, d.Line, err)
		}
		env.Env = parsed
	}

	if lockpath, ok := d.Option("lockfile"); ok {
		env.LockPath = filepath.Join(docDir, lockpath)
		parsed, err := lockfile.Load(env.LockPath)
		if err != nil {
			return nil, fmt.Errorf("environment %q (line %d): %w", d.Arg, d.Line, err)
		}
		env.Lock = parsed
	}

	if err := b.Registry.Add(env); err != nil {
		return nil, fmt.Errorf("line %d: %w", d.Line, err)
	}
	log.Debugf("registered environment %q from %s:%d", env.Name, docRel, d.Line)

	chunks, err := d.Chunks()
	if err != nil {
		return nil, err
	}
	children, err := b.renderChunks(chunks, docRel, env)
	if err != nil {
		return nil, err
	}

	return &doctree.Section{
		Title:    "environment " + d.Arg,
		Level:    2,
		Children: children,
	}, nil
}

// processPackageList resolves the enclosing environment and renders its
// merged package set as a table node.
func (b *Builder) processPackageList(
	d *directive.Directive,
	docRel string,
	env *registry.Environment,
) (doctree.Node, error) {

	if env == nil {
		return nil, &directive.ReferenceError{Doc: docRel, Line: d.Line}
	}

	rows := env.Rows(pkgset.Options{
		HideImplicit: d.Flag("hide-implicit"),
		HideExplicit: d.Flag("hide-explicit"),
	})

	table, err := packageTable(d, rows)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// packageTable builds the table node for a packagelist directive, honoring
// the pass-through formatting options.
func packageTable(d *directive.Directive, rows []pkgset.Row) (*doctree.Table, error) {
	align, err := doctree.ParseAlign(d.Options["align"])
	if err != nil {
		return nil, &directive.ScanError{Line: d.Line, Cause: err.Error()}
	}

	var widths []int
	if spec, ok := d.Option("widths"); ok && spec != "auto" {
		for _, field := range strings.Fields(spec) {
			w, convErr := strconv.Atoi(field)
			if convErr != nil {
				return nil, &directive.ScanError{
					Line:  d.Line,
					Cause: fmt.Sprintf("invalid widths value %q", spec),
				}
			}
			widths = append(widths, w)
		}
	}

	table := &doctree.Table{
		Title:   d.Arg,
		Columns: []string{"Name", "Version"},
		Widths:  widths,
		Width:   d.Options["width"],
		Align:   align,
	}

	// The build column is only worth showing when the lockfile provided it.
	withBuild := false
	for _, row := range rows {
		if row.Build != "" {
			withBuild = true
			break
		}
	}
	if withBuild {
		table.Columns = append(table.Columns, "Build")
	}

	for _, row := range rows {
		cells := []string{row.Name, row.Version}
		if withBuild {
			cells = append(cells, row.Build)
		}
		table.Rows = append(table.Rows, cells)
	}

	return table, nil
}

func (b *Builder) writePage(rel string, content string) error {
	dest := filepath.Join(b.OutDir, rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}

// sortedPackages flips the registry into a package -> environments view.
func sortedPackages(reg *registry.Registry) []string {
	set := map[string]bool{}
	for _, name := range reg.Names() {
		env, _ := reg.Get(name)
		for _, row := range env.Rows(pkgset.Options{}) {
			set[row.Name] = true
		}
	}
	packages := make([]string, 0, len(set))
	for pkg := range set {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)
	return packages
}
