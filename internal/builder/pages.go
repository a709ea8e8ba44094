// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package builder

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/staranto/condadoc/internal/doctree"
	"github.com/staranto/condadoc/internal/pkgset"
	"github.com/staranto/condadoc/internal/registry"
)

// writeEnvironmentPages emits the generated pages for every registered
// environment: one source page per environment, an environment index, and
// the package -> environments matrix.
func (b *Builder) writeEnvironmentPages() error {
	for _, name := range b.Registry.Names() {
		env, _ := b.Registry.Get(name)
		if err := b.writeSourcePage(name, env); err != nil {
			return err
		}
	}

	if len(b.Registry.Names()) == 0 {
		return nil
	}

	if err := b.writeEnvironmentIndex(); err != nil {
		return err
	}
	return b.writePackageIndex()
}

// writeSourcePage embeds the environment and lock file sources for one
// environment, in the manner of a viewcode page.
func (b *Builder) writeSourcePage(name string, env *registry.Environment) error {
	doc := &doctree.Document{}

	section := &doctree.Section{Title: name, Level: 1}
	section.Children = append(section.Children, &doctree.Paragraph{
		Text: fmt.Sprintf("Defined in [%s](%s).", env.Doc, backlinkPath(env.Doc)),
	})

	var sources [][2]string
	if env.YamlPath != "" {
		sources = append(sources, [2]string{env.YamlPath, "yaml"})
	}
	if env.LockPath != "" {
		sources = append(sources, [2]string{env.LockPath, "text"})
	}

	for _, source := range sources {
		sourcePath, language := source[0], source[1]
		data, err := os.ReadFile(sourcePath)
		if err != nil {
			// The source parsed earlier in this build, so this is unusual
			// but not worth failing the generated pages over.
			log.Errorf("failed to re-read %s: %v", sourcePath, err)
			continue
		}

		sub := &doctree.Section{
			Title: fmt.Sprintf("%s (%s)", filepath.Base(sourcePath), humanize.Bytes(uint64(len(data)))),
			Level: 2,
		}
		sub.Children = append(sub.Children, &doctree.CodeBlock{
			Language: language,
			Source:   string(data),
		})
		section.Children = append(section.Children, sub)
	}

	doc.Children = append(doc.Children, section)
	return b.writePage(filepath.Join(EnvPagesDir, name+".md"), doctree.RenderMarkdown(doc))
}

// writeEnvironmentIndex lists every environment with its package count and
// sources.
func (b *Builder) writeEnvironmentIndex() error {
	table := &doctree.Table{
		Columns: []string{"Environment", "Packages", "Sources"},
	}

	for _, name := range b.Registry.Names() {
		env, _ := b.Registry.Get(name)

		var sources []string
		if env.YamlPath != "" {
			sources = append(sources, filepath.Base(env.YamlPath))
		}
		if env.LockPath != "" {
			sources = append(sources, filepath.Base(env.LockPath))
		}

		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("[%s](%s.md)", name, name),
			humanize.Comma(int64(len(env.Rows(pkgset.Options{})))),
			strings.Join(sources, ", "),
		})
	}

	doc := &doctree.Document{Children: []doctree.Node{
		&doctree.Section{
			Title:    "Environments",
			Level:    1,
			Children: []doctree.Node{table},
		},
	}}

	return b.writePage(filepath.Join(EnvPagesDir, "index.md"), doctree.RenderMarkdown(doc))
}

// writePackageIndex emits the package matrix: every package, each
// environment that contains it, and the version it resolves to there.
func (b *Builder) writePackageIndex() error {
	table := &doctree.Table{
		Columns: []string{"Package", "Environment", "Version"},
	}

	for _, pkg := range sortedPackages(b.Registry) {
		for _, name := range b.Registry.Names() {
			env, _ := b.Registry.Get(name)
			for _, row := range env.Rows(pkgset.Options{}) {
				if row.Name != pkg {
					continue
				}
				table.Rows = append(table.Rows, []string{pkg, fmt.Sprintf("[%s](%s.md)", name, name), row.Version})
			}
		}
	}

	doc := &doctree.Document{Children: []doctree.Node{
		&doctree.Section{
			Title:    "Package Index",
			Level:    1,
			Children: []doctree.Node{table},
		},
	}}

	return b.writePage(filepath.Join(EnvPagesDir, "packages.md"), doctree.RenderMarkdown(doc))
}

// backlinkPath rewrites a doc-relative source location into a link target
// relative to the generated pages directory.
func backlinkPath(docRel string) string {
	return path.Join("..", filepath.ToSlash(docRel))
}
