package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool   // accepts file arguments
	FilePattern string // glob for file arguments (e.g., "*.md")
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	FileGlob string // file glob pattern
	IsDir    bool   // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"config":     {FileGlob: "*.yaml,*.yml"},
	"style":      {FileGlob: "*.css"},
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			} else if meta.IsDir {
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// commandFlags returns completion flags for a command's real FlagSet.
func commandFlags(name string) []flagDef {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	switch name {
	case "build":
		registerBuildFlags(fs, &buildFlags{})
	case "rewrite":
		registerRewriteFlags(fs, &rewriteFlags{})
	case "verify":
		registerVerifyFlags(fs, &verifyFlags{})
	case "doctor":
		fs.Bool("json", false, "print diagnostics as JSON")
	case "config":
		fs.StringP("config", "c", "", "config file name or path")
	}
	return extractFlagsFromFlagSet(fs)
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSet.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:        "build",
			Desc:        "Build Markdown files into lightbox pages",
			Flags:       commandFlags("build"),
			TakesFiles:  true,
			FilePattern: "*.md,*.markdown",
		},
		{
			Name:        "rewrite",
			Desc:        "Add the lightbox to existing HTML pages",
			Flags:       commandFlags("rewrite"),
			TakesFiles:  true,
			FilePattern: "*.html,*.htm",
		},
		{
			Name:        "verify",
			Desc:        "Check lightbox pages in headless Chrome",
			Flags:       commandFlags("verify"),
			TakesFiles:  true,
			FilePattern: "*.html,*.htm",
		},
		{Name: "doctor", Desc: "Check system configuration", Flags: commandFlags("doctor")},
		{Name: "config", Desc: "Print the effective configuration", Flags: commandFlags("config")},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// commandNames joins the command names with sep.
func commandNames(cmds []commandDef, sep string) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, sep)
}

// globs splits a comma-separated glob list.
func globs(pattern string) []string {
	if pattern == "" {
		return nil
	}
	return strings.Split(pattern, ",")
}

// extensions turns "*.md,*.markdown" into "md|markdown".
func extensions(pattern string) string {
	var exts []string
	for _, g := range globs(pattern) {
		exts = append(exts, strings.TrimPrefix(g, "*."))
	}
	return strings.Join(exts, "|")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for lightbox\n\n")
	b.WriteString("_lightbox_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", commandNames(cmds, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && !c.TakesFiles {
			if c.Name == "completion" {
				b.WriteString("    completion)\n")
				b.WriteString("        COMPREPLY=($(compgen -W \"bash zsh fish powershell\" -- \"${cur}\"))\n")
				b.WriteString("        ;;\n")
			}
			continue
		}

		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        case \"${prev}\" in\n")
		for _, f := range c.Flags {
			switch f.Type {
			case flagFile:
				fmt.Fprintf(&b, "        %s)\n", bashFlagPattern(f))
				fmt.Fprintf(&b, "            COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"${cur}\") $(compgen -d -- \"${cur}\"))\n", extensions(f.FileGlob))
				b.WriteString("            return\n            ;;\n")
			case flagDir:
				fmt.Fprintf(&b, "        %s)\n", bashFlagPattern(f))
				b.WriteString("            COMPREPLY=($(compgen -d -- \"${cur}\"))\n")
				b.WriteString("            return\n            ;;\n")
			}
		}
		b.WriteString("        esac\n")

		var names []string
		for _, f := range c.Flags {
			names = append(names, "--"+f.Long)
			if f.Short != "" {
				names = append(names, "-"+f.Short)
			}
		}
		b.WriteString("        if [[ \"${cur}\" == -* ]]; then\n")
		fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(names, " "))
		if c.TakesFiles {
			b.WriteString("        else\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"${cur}\") $(compgen -d -- \"${cur}\"))\n", extensions(c.FilePattern))
		}
		b.WriteString("        fi\n")
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -F _lightbox_completions lightbox\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func bashFlagPattern(f flagDef) string {
	if f.Short != "" {
		return "--" + f.Long + "|-" + f.Short
	}
	return "--" + f.Long
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef lightbox\n\n")
	b.WriteString("_lightbox() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")

	for _, c := range cmds {
		switch {
		case c.Name == "completion":
			b.WriteString("    completion)\n")
			b.WriteString("        _values 'shell' bash zsh fish powershell\n")
			b.WriteString("        ;;\n")
			continue
		case len(c.Flags) == 0 && !c.TakesFiles:
			continue
		}

		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        _arguments \\\n")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "            %s \\\n", zshFlagSpec(f))
		}
		if c.TakesFiles {
			fmt.Fprintf(&b, "            '*:input:_files -g \"%s\"'\n", strings.Join(globs(c.FilePattern), " "))
		} else {
			b.WriteString("            && return\n")
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _lightbox lightbox\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshFlagSpec(f flagDef) string {
	desc := zshEscape(f.Desc)
	var action string
	switch f.Type {
	case flagBool:
	case flagFile:
		action = fmt.Sprintf(":%s:_files -g \"%s\"", f.Long, strings.Join(globs(f.FileGlob), " "))
	case flagDir:
		action = fmt.Sprintf(":%s:_directories", f.Long)
	default:
		action = fmt.Sprintf(":%s:", f.Long)
	}
	if f.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
	}
	return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for lightbox\n\n")
	b.WriteString("function __fish_lightbox_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_lightbox_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c lightbox -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c lightbox -n __fish_lightbox_needs_command -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}
	b.WriteString("\n")

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_lightbox_using_command %s'", c.Name)
		if c.Name == "completion" {
			fmt.Fprintf(&b, "complete -c lightbox -n %s -a 'bash zsh fish powershell'\n", cond)
			continue
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c lightbox -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagBool:
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -r -a '(__fish_complete_directories)'"
			default:
				line += " -r"
			}
			line += " -d " + fishQuote(f.Desc)
			b.WriteString(line + "\n")
		}
		if c.TakesFiles {
			fmt.Fprintf(&b, "complete -c lightbox -n %s -F\n", cond)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fishQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# PowerShell completion for lightbox\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName lightbox -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $elements = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    $commands = @{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s' = '%s'\n", c.Name, psEscape(c.Desc))
	}
	b.WriteString("    }\n")
	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		var names []string
		for _, f := range c.Flags {
			names = append(names, "'--"+f.Long+"'")
			if f.Short != "" {
				names = append(names, "'-"+f.Short+"'")
			}
		}
		if c.Name == "completion" {
			names = []string{"'bash'", "'zsh'", "'fish'", "'powershell'"}
		}
		fmt.Fprintf(&b, "        '%s' = @(%s)\n", c.Name, strings.Join(names, ", "))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    if ($elements.Count -le 1 -or ($elements.Count -eq 2 -and $wordToComplete)) {\n")
	b.WriteString("        $commands.Keys | Where-Object { $_ -like \"$wordToComplete*\" } | Sort-Object | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $commands[$_])\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $cmd = $elements[1]\n")
	b.WriteString("    if ($flags.ContainsKey($cmd)) {\n")
	b.WriteString("        $flags[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func psEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lightbox completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(lightbox completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(lightbox completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    lightbox completion fish > ~/.config/fish/completions/lightbox.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    lightbox completion powershell | Out-String | Invoke-Expression")
}
