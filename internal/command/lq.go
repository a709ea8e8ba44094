// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/condadoc/internal/meta"
	"github.com/staranto/condadoc/internal/pkgset"
)

// LqCommandAction is the action handler for the "lq" subcommand. It merges
// the lockfile's resolved packages with the environment.yml requirements (when
// one is given) and emits the package rows per common flags.
func LqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "lq") {
		return nil
	}

	// Bail out early if we're just dumping the schema.
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(pkgset.Row{})) {
		return nil
	}

	attrs := BuildAttrs(cmd, "name", "version", "build", "channel")
	log.Debugf("attrs: %v", attrs)

	rows, name, err := LoadMergedRows(cmd)
	if err != nil {
		return err
	}
	log.Debugf("merged %d package rows for %s", len(rows), name)

	if err := EmitRows(rows, attrs, cmd); err != nil {
		return err
	}

	return nil
}

// LqCommandBuilder constructs the cli.Command for "lq", wiring metadata,
// flags, and action/validator handlers.
func LqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	qcb := QueryCommandBuilder{
		Name:      "lq",
		Usage:     "lockfile package query",
		UsageText: `condadoc lq --lockfile conda.lock [--yamlfile environment.yml] [options]`,
		Flags: []cli.Flag{
			NewYamlFileFlag("lq", meta.Config.Source),
			NewLockFileFlag("lq", meta.Config.Source),
			NewPipFlag("lq", meta.Config.Source),
			hideImplicitFlag,
			hideExplicitFlag,
		},
		Action: LqCommandAction,
		Meta:   meta,
	}
	return qcb.Build()
}
