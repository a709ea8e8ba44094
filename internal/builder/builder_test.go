// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package builder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/condadoc/internal/directive"
	"github.com/staranto/condadoc/internal/envfile"
)

const testEnvYaml = `name: ds
channels:
  - conda-forge
dependencies:
  - numpy=1.26
  - scipy
`

const testLock = `@EXPLICIT
https://conda.anaconda.org/conda-forge/linux-64/numpy-1.26.4-py311h64a7726_0.conda#abc123
https://conda.anaconda.org/conda-forge/linux-64/libblas-3.9.0-22_linux64_openblas.conda
`

func writeDocs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		dest := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
		require.NoError(t, os.WriteFile(dest, []byte(content), 0o644))
	}
	return dir
}

func readPage(t *testing.T, outDir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, rel))
	require.NoError(t, err)
	return string(data)
}

func TestBuilderRun(t *testing.T) {
	docsDir := writeDocs(t, map[string]string{
		"environment.yml": testEnvYaml,
		"conda.lock":      testLock,
		"index.md": `# Environments

::::{environment} data-science
:yamlfile: ./environment.yml
:lockfile: ./conda.lock

The main analysis stack.

:::{packagelist} Requested
:hide-implicit:
:::
::::
`,
	})
	outDir := filepath.Join(t.TempDir(), "_build")

	b := New(docsDir, outDir, envfile.PipSkip)
	require.NoError(t, b.Run())

	page := readPage(t, outDir, "index.md")
	assert.Contains(t, page, "# Environments")
	assert.Contains(t, page, "## environment data-science")
	assert.Contains(t, page, "The main analysis stack.")
	assert.Contains(t, page, "**Requested**")
	// hide-implicit keeps numpy, drops libblas, keeps the unresolved scipy.
	assert.Contains(t, page, "numpy")
	assert.NotContains(t, page, "libblas")
	assert.Contains(t, page, "scipy")
	assert.Contains(t, page, "unknown")
	// The lockfile provides build strings, so the Build column shows.
	assert.Contains(t, page, "py311h64a7726_0")

	// Generated environment pages.
	source := readPage(t, outDir, filepath.Join(EnvPagesDir, "data-science.md"))
	assert.Contains(t, source, "# data-science")
	assert.Contains(t, source, "Defined in [index.md](../index.md).")
	assert.Contains(t, source, "```yaml")
	assert.Contains(t, source, "name: ds")

	index := readPage(t, outDir, filepath.Join(EnvPagesDir, "index.md"))
	assert.Contains(t, index, "[data-science](data-science.md)")
	// numpy, libblas, and the unresolved scipy.
	assert.Contains(t, index, "3")

	packages := readPage(t, outDir, filepath.Join(EnvPagesDir, "packages.md"))
	assert.Contains(t, packages, "# Package Index")
	assert.Contains(t, packages, "libblas")
}

func TestBuilderRun_NoBuildColumn(t *testing.T) {
	docsDir := writeDocs(t, map[string]string{
		"environment.yml": testEnvYaml,
		"index.md": `::::{environment} ds
:yamlfile: ./environment.yml

:::{packagelist}
:::
::::
`,
	})
	outDir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, New(docsDir, outDir, envfile.PipSkip).Run())

	page := readPage(t, outDir, "index.md")
	assert.NotContains(t, page, "Build")
	assert.Contains(t, page, "numpy")
}

func TestBuilderRun_OrphanPackageList(t *testing.T) {
	docsDir := writeDocs(t, map[string]string{
		"bad.md": ":::{packagelist} Orphan\n:::\n",
	})
	outDir := filepath.Join(t.TempDir(), "out")

	err := New(docsDir, outDir, envfile.PipSkip).Run()
	require.Error(t, err)

	var rerr *directive.ReferenceError
	assert.ErrorAs(t, err, &rerr)
}

func TestBuilderRun_UnknownDirective(t *testing.T) {
	docsDir := writeDocs(t, map[string]string{
		"bad.md": ":::{mystery}\n:::\n",
	})
	outDir := filepath.Join(t.TempDir(), "out")

	err := New(docsDir, outDir, envfile.PipSkip).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown directive "mystery"`)
}

func TestBuilderRun_FailingDocDoesNotStopOthers(t *testing.T) {
	docsDir := writeDocs(t, map[string]string{
		"environment.yml": testEnvYaml,
		"bad.md":          ":::{packagelist} Orphan\n:::\n",
		"good.md": `::::{environment} ds
:yamlfile: ./environment.yml
::::
`,
	})
	outDir := filepath.Join(t.TempDir(), "out")

	err := New(docsDir, outDir, envfile.PipSkip).Run()
	require.Error(t, err)

	// good.md still built despite bad.md failing.
	page := readPage(t, outDir, "good.md")
	assert.Contains(t, page, "## environment ds")
}

func TestBuilderRun_DuplicateEnvironment(t *testing.T) {
	docsDir := writeDocs(t, map[string]string{
		"environment.yml": testEnvYaml,
		"a.md":            "::::{environment} ds\n:yamlfile: ./environment.yml\n::::\n",
		"b.md":            "::::{environment} ds\n:yamlfile: ./environment.yml\n::::\n",
	})
	outDir := filepath.Join(t.TempDir(), "out")

	err := New(docsDir, outDir, envfile.PipSkip).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defined")
}

func TestBuilderRun_MissingSource(t *testing.T) {
	docsDir := writeDocs(t, map[string]string{
		"index.md": "::::{environment} ds\n:yamlfile: ./nope.yml\n::::\n",
	})
	outDir := filepath.Join(t.TempDir(), "out")

	err := New(docsDir, outDir, envfile.PipSkip).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestBuilderRun_SkipsHiddenAndOutputDirs(t *testing.T) {
	docsDir := writeDocs(t, map[string]string{
		"index.md":       "# Hello\n",
		".git/skip.md":   ":::{mystery}\n:::\n",
		"_draft/skip.md": ":::{mystery}\n:::\n",
	})
	// The out dir nests inside the docs dir, as it does in real projects.
	outDir := filepath.Join(docsDir, "build")
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "stale.md"), []byte(":::{mystery}\n:::\n"), 0o644))

	err := New(docsDir, outDir, envfile.PipSkip).Run()
	require.NoError(t, err)

	page := readPage(t, outDir, "index.md")
	assert.Contains(t, page, "# Hello")
}

func TestBuilderRun_NonMarkdownIgnored(t *testing.T) {
	docsDir := writeDocs(t, map[string]string{
		"index.md":  "# Hello\n",
		"notes.txt": ":::{mystery}\n:::\n",
	})
	outDir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, New(docsDir, outDir, envfile.PipSkip).Run())
	_, err := os.Stat(filepath.Join(outDir, "notes.txt"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBuilderRun_PipFlatten(t *testing.T) {
	docsDir := writeDocs(t, map[string]string{
		"environment.yml": "name: ds\ndependencies:\n  - numpy\n  - pip:\n      - requests==2.31\n",
		"index.md": `::::{environment} ds
:yamlfile: ./environment.yml

:::{packagelist}
:::
::::
`,
	})
	outDir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, New(docsDir, outDir, envfile.PipFlatten).Run())
	page := readPage(t, outDir, "index.md")
	assert.Contains(t, page, "requests")

	// Same tree with the skip policy drops the pip entries.
	outDir2 := filepath.Join(t.TempDir(), "out2")
	require.NoError(t, New(docsDir, outDir2, envfile.PipSkip).Run())
	assert.NotContains(t, readPage(t, outDir2, "index.md"), "requests")
}

func TestSortedPackages(t *testing.T) {
	docsDir := writeDocs(t, map[string]string{
		"environment.yml": testEnvYaml,
		"conda.lock":      testLock,
		"index.md": `::::{environment} ds
:yamlfile: ./environment.yml
:lockfile: ./conda.lock
::::
`,
	})
	outDir := filepath.Join(t.TempDir(), "out")

	b := New(docsDir, outDir, envfile.PipSkip)
	require.NoError(t, b.Run())

	assert.Equal(t, []string{"libblas", "numpy", "scipy"}, sortedPackages(b.Registry))
}
