package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/anchor/internal/errors"
	"github.com/vango-dev/anchor/pkg/render"
)

func renderCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the application to an HTML page",
		Long: `Render the todo application once on the server and print the
complete page: markup with hydration keys plus the state payload.

Examples:
  anchor render
  anchor render --out page.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return errors.New("E141").Wrap(err)
				}
				defer f.Close()
				w = f
			}

			a := app(cfg)
			r := render.NewRenderer(render.RendererConfig{Logger: logger})
			res, err := r.SSR(a.Factory(), cfg.RuntimeOptions(logger)...)
			if err != nil {
				return err
			}

			bw := bufio.NewWriter(w)
			if err := r.RenderPage(bw, render.PageData{
				Title:   a.Title(),
				Body:    res.Container,
				Payload: res.Payload,
			}); err != nil {
				return err
			}
			if err := bw.Flush(); err != nil {
				return err
			}
			if out != "" {
				success(cmd.ErrOrStderr(), "Wrote %s", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the page to a file instead of stdout")

	return cmd
}
