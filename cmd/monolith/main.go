package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vango-dev/monolith/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┬┐┌─┐┌┐┌┌─┐┬  ┬┌┬┐┬ ┬
  ││││ │││││ ││  │ │ ├─┤
  ┴ ┴└─┘┘└┘└─┘┴─┘┴ ┴ ┴ ┴
`

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the CLI with args and returns the process exit code. Errors
// are written to stderr in the format chosen by --error-format.
func run(args []string, stderr io.Writer) int {
	cmd := rootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		name, _ := cmd.PersistentFlags().GetString("error-format")
		format, ferr := errors.ParseOutputFormat(name)
		if ferr != nil {
			format = errors.OutputPretty
		}
		errors.FprintAs(stderr, err, format)
		return 1
	}
	return 0
}

func rootCmd() *cobra.Command {
	var (
		noColor     bool
		errorFormat string
	)

	cmd := &cobra.Command{
		Use:   "monolith",
		Short: "Server-driven UI over websockets",
		Long: `Monolith keeps the whole UI on the server.

Each browser connection is a session. The server renders a tree of
items, diffs it against what the client already shows and sends the
minimal set of patches. Client events come back over the same socket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				errors.DisableColors()
			}
			_, err := errors.ParseOutputFormat(errorFormat)
			return err
		},
	}

	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringVar(&errorFormat, "error-format", "pretty", "Error output: pretty, compact, json")

	cmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	return cmd
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(color.CyanString(banner))
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("%s %s\n", color.YellowString("⚠"), fmt.Sprintf(format, args...))
}
