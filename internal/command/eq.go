// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/condadoc/internal/envfile"
	"github.com/staranto/condadoc/internal/meta"
)

// EqCommandAction is the action handler for the "eq" subcommand. It lists the
// requirements declared in an environment.yml, supports --tldr/--schema
// short-circuits, and emits results per common flags.
func EqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "eq") {
		return nil
	}

	// Bail out early if we're just dumping the schema.
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(envfile.Requirement{})) {
		return nil
	}

	attrs := BuildAttrs(cmd, "name", "constraint")
	log.Debugf("attrs: %v", attrs)

	yamlfile := cmd.String("yamlfile")
	if yamlfile == "" {
		return errors.New("--yamlfile is required")
	}

	env, err := envfile.Load(yamlfile, envfile.Options{
		Pip: envfile.PipPolicyFromConfig(cmd.String("pip")),
	})
	if err != nil {
		return err
	}
	log.Debugf("loaded %d requirements from %s", len(env.Requirements), yamlfile)

	if err := EmitRows(env.Requirements, attrs, cmd); err != nil {
		return err
	}

	return nil
}

// EqCommandBuilder constructs the cli.Command for "eq", wiring metadata,
// flags, and action/validator handlers.
func EqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	qcb := QueryCommandBuilder{
		Name:      "eq",
		Usage:     "environment requirement query",
		UsageText: `condadoc eq --yamlfile environment.yml [options]`,
		Flags: []cli.Flag{
			NewYamlFileFlag("eq", meta.Config.Source),
			NewPipFlag("eq", meta.Config.Source),
		},
		Action: EqCommandAction,
		Meta:   meta,
	}
	return qcb.Build()
}
