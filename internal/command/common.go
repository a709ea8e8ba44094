// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/condadoc/internal/attrs"
	"github.com/staranto/condadoc/internal/envfile"
	"github.com/staranto/condadoc/internal/lockfile"
	"github.com/staranto/condadoc/internal/meta"
	"github.com/staranto/condadoc/internal/output"
	"github.com/staranto/condadoc/internal/pkgset"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr condadoc <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "condadoc", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// DumpSchemaIfRequested prints the attribute schema for the provided type
// when --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema("", t)
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// EmitRows flattens a slice of attr-tagged rows and passes it to the common
// output routine.
func EmitRows(results any, al attrs.AttrList, cmd *cli.Command) error {
	raw := output.MarshalRows(results)
	output.SliceDiceSpit(raw, al, cmd, "", os.Stdout)
	return nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// LoadMergedRows resolves the --yamlfile and --lockfile flags into the merged
// package row set, honoring the hide-implicit/hide-explicit flags. At least
// one source flag must be set. The returned name is the environment name from
// the yamlfile when it has one, otherwise the source file basename.
func LoadMergedRows(cmd *cli.Command) ([]pkgset.Row, string, error) {
	yamlfile := cmd.String("yamlfile")
	lockpath := cmd.String("lockfile")
	if yamlfile == "" && lockpath == "" {
		return nil, "", errors.New("at least one of --yamlfile or --lockfile is required")
	}

	var (
		reqs     []envfile.Requirement
		resolved []lockfile.Package
		name     string
	)

	if yamlfile != "" {
		env, err := envfile.Load(yamlfile, envfile.Options{
			Pip: envfile.PipPolicyFromConfig(cmd.String("pip")),
		})
		if err != nil {
			return nil, "", err
		}
		reqs = env.Requirements
		name = env.Name
		if name == "" {
			name = trimExt(yamlfile)
		}
	}

	if lockpath != "" {
		lock, err := lockfile.Load(lockpath)
		if err != nil {
			return nil, "", err
		}
		resolved = lock.Packages
		if name == "" {
			name = trimExt(lockpath)
		}
	}

	rows := pkgset.Merge(reqs, resolved, pkgset.Options{
		HideImplicit: cmd.Bool("hide-implicit"),
		HideExplicit: cmd.Bool("hide-explicit"),
	})

	return rows, name, nil
}

func trimExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// QueryCommandBuilder is a helper that constructs a cli.Command for query
// subcommands (eq, lq, dq) using a consistent pattern. It accepts the command
// name, usage text, optional UsageText, custom flags, the action handler, and
// meta. The builder automatically wires metadata, adds tldr/schema flags,
// applies global flags, and sets up validators.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: append(qcb.Flags, append([]cli.Flag{
			tldrFlag,
			schemaFlag,
		}, NewGlobalFlags(qcb.Name)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}
