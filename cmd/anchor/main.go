package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/anchor/internal/config"
	"github.com/vango-dev/anchor/internal/demo"
	"github.com/vango-dev/anchor/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌┐┌┌─┐┬ ┬┌─┐┬─┐
  ├─┤││││  ├─┤│ │├┬┘
  ┴ ┴┘└┘└─┘┴ ┴└─┘┴└─
`

func main() {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		errors.DisableColors()
	}
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every command.
type rootOptions struct {
	dir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "anchor",
		Short: "Fine-grained reactive rendering with hydration",
		Long: `Anchor renders a reactive todo application on the server,
hydrates server markup against it, and streams live updates
over WebSocket.

  • Signals, computeds and effects with synchronous propagation
  • Keyed list reconciliation that moves nodes instead of re-rendering
  • Hydration that claims server elements and text in place
  • Prometheus metrics and OpenTelemetry spans`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.dir, "config", "c", ".", "Directory containing "+config.ConfigFileName)

	rootCmd.AddCommand(
		renderCmd(opts),
		hydrateCmd(opts),
		serveCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration, falling back to defaults when the
// directory has no anchor.json.
func (o *rootOptions) load() (*config.Config, error) {
	return config.LoadOrDefault(o.dir)
}

// app builds the demo application described by cfg.
func app(cfg *config.Config) *demo.App {
	return demo.New(cfg.Demo.Title, cfg.Demo.Items)
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
