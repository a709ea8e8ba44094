// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/condadoc/internal/builder"
	"github.com/staranto/condadoc/internal/envfile"
	"github.com/staranto/condadoc/internal/meta"
)

// BuildCommandAction is the action handler for the "build" subcommand. It
// processes every document under the docs dir and writes the rendered pages
// plus the generated environment pages into the output dir.
func BuildCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "build") {
		return nil
	}

	docsDir := "."
	if args := cmd.Args().Slice(); len(args) > 0 {
		docsDir = args[0]
	}

	b := builder.New(
		docsDir,
		cmd.String("out"),
		envfile.PipPolicyFromConfig(cmd.String("pip")),
	)
	log.Debugf("building %s into %s", docsDir, b.OutDir)

	return b.Run()
}

// BuildCommandBuilder constructs the cli.Command for "build", wiring
// metadata, flags, and action handlers.
func BuildCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "build the documentation tree",
		UsageText: `condadoc build [DocsDir] [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"O"},
				Usage:   "output directory for rendered pages",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("build.out", altsrc.StringSourcer(meta.Config.Source)),
					yaml.YAML("out", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: "_build",
			},
			NewPipFlag("build", meta.Config.Source),
			tldrFlag,
		},
		Action: BuildCommandAction,
	}
}
