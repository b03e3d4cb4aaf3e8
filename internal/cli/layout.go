package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jiapu/pkg/pipeline"
	"github.com/matzehuels/jiapu/pkg/render"
)

// layoutCommand lays out a family document from disk without contacting
// the service.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "layout <family.json>",
		Short: "Lay out a family document offline",
		Long: `Lay out a family document exported with 'jiapu families export'.

Layouts are cached by document content, so re-running on an unchanged
file is instant.`,
		Example: `  jiapu layout wang.json
  jiapu layout wang.json -f svg -o wang.svg
  jiapu layout wang.json -f dot | dot -Tpng > wang.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format, err := render.ParseFormat(flags.format)
			if err != nil {
				return err
			}
			d, err := readDocument(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, flags.noCache, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			var res *pipeline.Result
			err = withSpinner(ctx, "Laying out...", func(ctx context.Context) error {
				res, err = runner.Execute(ctx, pipeline.Options{Data: &d, Format: format})
				return err
			})
			if err != nil {
				return err
			}
			if err := writeResult(res, flags); err != nil {
				return err
			}
			if flags.output != "" {
				prog.done("laid out document", "file", args[0])
				printStats(res.Stats.Stats, res.CacheInfo.LayoutHit)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
