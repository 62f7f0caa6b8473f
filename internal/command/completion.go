// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/layerctl/internal/layers"
	"github.com/tfctl/layerctl/internal/meta"
)

const bashCompletionScript = `# bash completion for layerctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_layerctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "lookup list check diff verify publish completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local output="--attrs -a --color -c --filter -f --output -o --padding --sort -s --titles -t"

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml markdown hcl" -- "$cur") )
            return 0
            ;;
        --file|-F)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
        --region|-r|--only)
            COMPREPLY=( $(compgen -W "%[1]s" -- "$cur") )
            return 0
            ;;
    esac

    case "$cmd" in
        lookup)
            if [[ "$cur" != -* ]]; then
                COMPREPLY=( $(compgen -W "%[1]s" -- "$cur") )
                return 0
            fi
            local opts="--file -F --region -r --tldr"
            ;;
        list)
            local opts="$output --file -F --tldr"
            ;;
        check)
            local opts="--file -F --count --strict --tldr"
            ;;
        diff)
            if [[ "$cur" != -* ]]; then
                COMPREPLY=( $(compgen -f -- "$cur") )
                return 0
            fi
            local opts="$output --file -F --changes --exit-code --tldr"
            ;;
        verify)
            local opts="$output --file -F --profile --region -r --concurrency --no-cache --only --tldr"
            ;;
        publish)
            local opts="--bucket -b --key -k --profile --region -r --dry-run --path-style --tldr"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts=""
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _layerctl layerctl
`

const zshCompletionScript = `#compdef layerctl

_layerctl() {
  local -a cmds
  cmds=(
    'lookup:print the layer ARN for a region'
    'list:list the region to layer ARN table'
    'check:validate the table'
    'diff:compare the built-in table with a Markdown document'
    'verify:resolve every layer ARN against the Lambda API'
    'publish:upload the rendered layer table to S3'
    'completion:generate shell completion script'
  )

  local -a regions
  regions=(%[1]s)

  local -a output
  output=(
  '(-a --attrs)'{-a,--attrs}'[columns to include]:attrs'
  '(-c --color)'{-c,--color}'[force colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml markdown hcl)'
  '--padding[spaces between text columns]:padding'
  '(-s --sort)'{-s,--sort}'[sort columns]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'layerctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    lookup)
      _arguments -C \
        '(-F --file)'{-F,--file}'[Markdown document]:file:_files' \
        '(-r --region)'{-r,--region}'[region]:region:($regions)' \
        '--tldr[show tldr page]' \
        '*:region:($regions)'
      ;;
    list)
      _arguments -C \
        $output \
        '(-F --file)'{-F,--file}'[Markdown document]:file:_files' \
        '--tldr[show tldr page]'
      ;;
    check)
      _arguments -C \
        '(-F --file)'{-F,--file}'[Markdown document]:file:_files' \
        '--count[expected number of entries]:count' \
        '--strict[fail when layer versions diverge]' \
        '--tldr[show tldr page]'
      ;;
    diff)
      _arguments -C \
        $output \
        '(-F --file)'{-F,--file}'[Markdown document]:file:_files' \
        '--changes[list changed regions]' \
        '--exit-code[fail when the tables differ]' \
        '--tldr[show tldr page]' \
        '::FILE:_files'
      ;;
    verify)
      _arguments -C \
        $output \
        '(-F --file)'{-F,--file}'[Markdown document]:file:_files' \
        '--profile[AWS profile]:profile' \
        '(-r --region)'{-r,--region}'[AWS region]:region:($regions)' \
        '--concurrency[maximum concurrent Lambda calls]:concurrency' \
        '--no-cache[bypass cached results]' \
        '--only[regions to verify]:regions' \
        '--tldr[show tldr page]'
      ;;
    publish)
      _arguments -C \
        '(-b --bucket)'{-b,--bucket}'[S3 bucket]:bucket' \
        '(-k --key)'{-k,--key}'[S3 object key]:key' \
        '--profile[AWS profile]:profile' \
        '(-r --region)'{-r,--region}'[AWS region]:region' \
        '--dry-run[render without uploading]' \
        '--path-style[use path-style S3 addressing]' \
        '--tldr[show tldr page]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _layerctl layerctl
`

// completionScript returns the script for shell with the built-in regions
// filled in.
func completionScript(shell string) string {
	regions := strings.Join(layers.Default().Regions(), " ")
	switch shell {
	case "bash":
		return fmt.Sprintf(bashCompletionScript, regions)
	case "zsh":
		return fmt.Sprintf(zshCompletionScript, regions)
	}
	return ""
}

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := cmd.Args().First()
	if shell == "" {
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	script := completionScript(shell)
	if script == "" {
		fmt.Fprintln(stderr(cmd), "usage: layerctl completion [bash|zsh]")
		return nil
	}
	fmt.Fprint(stdout(cmd), script)
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "layerctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
