// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/condadoc/internal/meta"
	"github.com/staranto/condadoc/internal/tui"
)

// BrowseCommandAction is the action handler for the "browse" subcommand. It
// opens the merged package rows in the interactive browser.
func BrowseCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "browse") {
		return nil
	}

	rows, name, err := LoadMergedRows(cmd)
	if err != nil {
		return err
	}
	log.Debugf("browsing %d package rows for %s", len(rows), name)

	return tui.Browse(name, rows)
}

// BrowseCommandBuilder constructs the cli.Command for "browse", wiring
// metadata, flags, and action handlers.
func BrowseCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "interactive package browser",
		UsageText: `condadoc browse --lockfile conda.lock [--yamlfile environment.yml]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			NewYamlFileFlag("browse", meta.Config.Source),
			NewLockFileFlag("browse", meta.Config.Source),
			NewPipFlag("browse", meta.Config.Source),
			hideImplicitFlag,
			hideExplicitFlag,
			tldrFlag,
		},
		Action: BrowseCommandAction,
	}
}
