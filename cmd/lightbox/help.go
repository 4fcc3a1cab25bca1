package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lightbox <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build       Build Markdown files into lightbox pages")
	fmt.Fprintln(w, "  rewrite     Add the lightbox to existing HTML pages")
	fmt.Fprintln(w, "  verify      Check lightbox pages in headless Chrome")
	fmt.Fprintln(w, "  doctor      Check system configuration")
	fmt.Fprintln(w, "  config      Print the effective configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'lightbox help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lightbox build <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Markdown files into standalone HTML pages whose images open in a lightbox.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Conversion timeout per page (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --title <s>           Page title (\"\" = first H1, then site.title, then file name)")
	fmt.Fprintln(w, "      --lang <s>            html lang attribute (default: en)")
	printLightboxFlagUsage(w)
	printOutputControlUsage(w)
}

// printRewriteUsage prints usage for the rewrite command.
func printRewriteUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lightbox rewrite <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Wrap the images of existing HTML pages and inject the lightbox resources.")
	fmt.Fprintln(w, "Pages are rewritten in place unless --output is set. Rewriting twice is a no-op.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    HTML file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output directory (default: in place)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Rewrite timeout per page (e.g., 30s, 2m)")
	printLightboxFlagUsage(w)
	printOutputControlUsage(w)
}

// printVerifyUsage prints usage for the verify command.
func printVerifyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lightbox verify <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Load pages in headless Chrome and check that images open, size and close.")
	fmt.Fprintln(w, "Requires Chrome or Chromium (see 'lightbox doctor').")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    HTML file or directory (optional if config has output.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel browsers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Browser timeout per page (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --json                Print reports as JSON")
	printOutputControlUsage(w)
}

func printLightboxFlagUsage(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Lightbox:")
	fmt.Fprintln(w, "      --style <s>           Extra CSS style name or file path")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "      --no-lightbox         Disable the image rewrite and its resources")
}

func printOutputControlUsage(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timing and image counts")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "rewrite":
		printRewriteUsage(env.Stdout)
	case "verify":
		printVerifyUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: lightbox doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check embedded assets, Chrome and the environment.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: lightbox version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: lightbox help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
