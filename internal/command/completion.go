package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/condadoc/internal/meta"
)

const bashCompletionScript = `# bash completion for condadoc
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_condadoc()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "browse build dq eq lq completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
  local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --tldr"

    case "$cmd" in
    browse)
      local opts="--yamlfile -y --lockfile -l --pip --hide-implicit --hide-explicit --tldr"
            ;;
        build)
      local opts="--out -O --pip --tldr"
            ;;
        dq)
      local opts="$common"
            ;;
        eq)
      local opts="$common --schema --yamlfile -y --pip"
            ;;
        lq)
      local opts="$common --schema --yamlfile -y --lockfile -l --pip --hide-implicit --hide-explicit"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--pip" ]]; then
        COMPREPLY=( $(compgen -W "skip flatten" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--yamlfile" || "$prev" == "-y" || "$prev" == "--lockfile" || "$prev" == "-l" ]]; then
        COMPREPLY=( $(compgen -o filenames -- "$cur") )
        return 0
    fi

  if [[ "$cur" == -* ]]; then
    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
  fi

  # build takes an optional DocsDir positional, dq takes lockfiles
  case "$cmd" in
    build)
      COMPREPLY=( $(compgen -o dirnames -- "$cur") )
      ;;
    dq)
      COMPREPLY=( $(compgen -o filenames -- "$cur") )
      ;;
    *)
      COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
      ;;
  esac
  return 0
}

complete -F _condadoc condadoc
`

const zshCompletionScript = `#compdef condadoc

_condadoc() {
  local -a cmds
  cmds=(
    'browse:interactive package browser'
    'build:build the documentation tree'
    'dq:lockfile diff query'
    'eq:environment requirement query'
    'lq:lockfile package query'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'condadoc commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    browse)
      _arguments -C \
        '(-y --yamlfile)'{-y,--yamlfile}'[environment.yml]:file:_files' \
        '(-l --lockfile)'{-l,--lockfile}'[lockfile]:file:_files' \
        '--pip[pip sub-list policy]:policy:(skip flatten)' \
        '--hide-implicit[hide dependency packages]' \
        '--hide-explicit[hide requested packages]'
      ;;
    build)
      _arguments -C \
        '(-O --out)'{-O,--out}'[output directory]:directory:_directories' \
        '--pip[pip sub-list policy]:policy:(skip flatten)' \
        '::DocsDir:_directories'
      ;;
    dq)
      _arguments -C \
        $common \
        '1:old lockfile:_files' \
        '2:new lockfile:_files'
      ;;
    eq)
      _arguments -C \
        $common \
        '--schema[dump schema]' \
        '(-y --yamlfile)'{-y,--yamlfile}'[environment.yml]:file:_files' \
        '--pip[pip sub-list policy]:policy:(skip flatten)'
      ;;
    lq)
      _arguments -C \
        $common \
        '--schema[dump schema]' \
        '(-y --yamlfile)'{-y,--yamlfile}'[environment.yml]:file:_files' \
        '(-l --lockfile)'{-l,--lockfile}'[lockfile]:file:_files' \
        '--pip[pip sub-list policy]:policy:(skip flatten)' \
        '--hide-implicit[hide dependency packages]' \
        '--hide-explicit[hide requested packages]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _condadoc condadoc
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(os.Stdout, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(os.Stdout, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: condadoc completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "condadoc completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
