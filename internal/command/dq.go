// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/condadoc/internal/differ"
	"github.com/staranto/condadoc/internal/lockfile"
	"github.com/staranto/condadoc/internal/meta"
)

// DqCommandAction is the action handler for the "dq" subcommand. It diffs two
// lockfiles by package name, so a bare re-sort of the file never reports a
// change.
func DqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "dq") {
		return nil
	}

	args := cmd.Args().Slice()
	if len(args) != 2 { //nolint:mnd
		return errors.New("dq needs exactly two lockfiles")
	}

	left, err := lockfile.Load(args[0])
	if err != nil {
		return err
	}
	right, err := lockfile.Load(args[1])
	if err != nil {
		return err
	}
	log.Debugf("diffing %s (%s) against %s (%s)",
		args[0], left.Format, args[1], right.Format)

	delta, err := differ.Diff(left, right, cmd.Bool("color"))
	if err != nil {
		return err
	}

	if delta == "" {
		log.Debugf("lockfiles resolve identically")
		return nil
	}

	fmt.Print(delta)
	return nil
}

// DqCommandBuilder constructs the cli.Command for "dq", wiring metadata,
// flags, and action/validator handlers.
func DqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	qcb := QueryCommandBuilder{
		Name:      "dq",
		Usage:     "lockfile diff query",
		UsageText: `condadoc dq old.lock new.lock [options]`,
		Action:    DqCommandAction,
		Meta:      meta,
	}
	return qcb.Build()
}
