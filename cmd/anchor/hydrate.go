package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/anchor/internal/errors"
	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/hydrate"
	"github.com/vango-dev/anchor/pkg/render"
)

func hydrateCmd(opts *rootOptions) *cobra.Command {
	var printTree bool

	cmd := &cobra.Command{
		Use:   "hydrate [page.html]",
		Short: "Hydrate server markup against the application",
		Long: `Parse a rendered page (a file or stdin), restore the state payload
and hydrate the application container against it. Reports whether the
server tree was kept, and the diagnostic when it was not.

Examples:
  anchor render | anchor hydrate
  anchor hydrate page.html --print`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())

			markup, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			doc, err := dom.Parse(string(markup))
			if err != nil {
				return errors.New("E141").Wrap(err)
			}
			container := render.FindContainer(doc)
			if container == nil {
				return errors.New("E141").WithDetailf("no element with id %q", render.ContainerID)
			}

			hopts := []hydrate.Option{
				hydrate.WithLogger(logger),
				hydrate.WithRuntimeOptions(cfg.RuntimeOptions(logger)...),
			}
			if payload, err := hydrate.Extract(doc); err != nil {
				warn(cmd.ErrOrStderr(), "No state payload: %v", err)
			} else {
				hopts = append(hopts, hydrate.WithPayload(payload))
			}

			res := hydrate.Hydrate(cmd.Context(), container, app(cfg).Factory(), hopts...)
			defer res.Runtime.Dispose()

			w := cmd.OutOrStdout()
			if res.Diagnostic != nil {
				warn(w, "Hydration %s", res.Outcome)
				info(w, "%s", errors.FromError(res.Diagnostic, "E045").FormatCompact())
			} else {
				success(w, "Hydration %s", res.Outcome)
			}
			if printTree {
				fmt.Fprintln(w, dom.RenderString(container))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&printTree, "print", "p", false, "Print the hydrated container")

	return cmd
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.New("E141").Wrap(err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, errors.New("E141").Wrap(err)
	}
	return data, nil
}
