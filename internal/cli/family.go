package cli

import (
	"bytes"
	"context"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
	"github.com/matzehuels/jiapu/pkg/pipeline"
	"github.com/matzehuels/jiapu/pkg/render"
)

// familyCommand creates the family command for viewing one family.
func (c *CLI) familyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "family",
		Short: "Lay out and archive a family",
	}

	cmd.AddCommand(c.familyShowCommand())
	cmd.AddCommand(c.familySnapshotCommand())
	cmd.AddCommand(c.familySnapshotsCommand())

	return cmd
}

// renderFlags are shared by family show and layout.
type renderFlags struct {
	format  string
	output  string
	emoji   bool
	noCache bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", string(render.FormatText), "output format (text, json, dot, svg, pdf, png)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&f.emoji, "emoji", false, "show zodiac emoji instead of the animal name")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

func (c *CLI) familyShowCommand() *cobra.Command {
	var (
		flags   renderFlags
		refresh bool
	)
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Lay out a family generation by generation",
		Long: `Fetch a family from the service and lay it out.

Each generation is sorted by parent, birth order and birth year, and
spouses are grouped next to the member they married. Without an id an
interactive picker lists your families.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format, err := render.ParseFormat(flags.format)
			if err != nil {
				return err
			}

			var id string
			if len(args) == 1 {
				id = args[0]
			} else if id, err = c.pickFamily(ctx); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, flags.noCache, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			var res *pipeline.Result
			err = withSpinner(ctx, "Fetching family...", func(ctx context.Context) error {
				res, err = runner.Execute(ctx, pipeline.Options{FamilyID: id, Format: format, Refresh: refresh})
				return err
			})
			if err != nil {
				return err
			}
			c.Logger.Debug("pipeline finished",
				"fetch", res.Stats.FetchTime, "layout", res.Stats.LayoutTime, "render", res.Stats.RenderTime)
			if err := writeResult(res, flags); err != nil {
				return err
			}
			if flags.output != "" {
				prog.done("laid out family", "family", id)
				printStats(res.Stats.Stats, res.CacheInfo.FetchHit)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the cached family document")
	return cmd
}

func (c *CLI) familySnapshotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <id>",
		Short: "Archive the current state of a family in MongoDB",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, false, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			d, err := runner.Fetch(ctx, args[0], true)
			if err != nil {
				return err
			}
			store, err := c.snapshotStore(ctx)
			if err != nil {
				return err
			}
			defer c.closeStore(store)

			snap, err := store.Save(ctx, args[0], d)
			if err != nil {
				return err
			}
			printSuccess("Saved snapshot of %s", orDash(d.Settings.FamilyName))
			printKeyValue("Snapshot", snap.ID)
			printKeyValue("Members", strconv.Itoa(snap.Members))
			printKeyValue("Hash", snap.Hash[:12])
			return nil
		},
	}
}

func (c *CLI) familySnapshotsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots <id>",
		Short: "List archived snapshots of a family",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidateID("family", args[0]); err != nil {
				return err
			}
			store, err := c.snapshotStore(ctx)
			if err != nil {
				return err
			}
			defer c.closeStore(store)

			snaps, err := store.List(ctx, args[0])
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				printInfo("No snapshots of %s", args[0])
				printNextStep("Create one with", "jiapu family snapshot "+args[0])
				return nil
			}
			rows := make([][]string, len(snaps))
			for i, s := range snaps {
				rows[i] = []string{s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), strconv.Itoa(s.Members), s.Hash[:12]}
			}
			printTable([]string{"Snapshot", "Created", "Members", "Hash"}, rows)
			return nil
		},
	}
}

// =============================================================================
// Output
// =============================================================================

// writeResult writes the rendered output to flags.output, or to stdout.
// Text on a terminal is re-rendered with colors; binary formats are never
// written to a terminal.
func writeResult(res *pipeline.Result, flags renderFlags) error {
	if flags.output != "" {
		if err := errors.ValidatePath(flags.output); err != nil {
			return err
		}
		data := res.Output
		if res.Format == render.FormatText && flags.emoji {
			data = textBytes(res, flags.emoji)
		}
		if err := os.WriteFile(flags.output, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", flags.output)
		}
		printSuccess("Wrote %s", res.Format)
		printFile(flags.output)
		return nil
	}

	tty := isTerminal(stdout)
	switch {
	case res.Format == render.FormatText && (tty || flags.emoji):
		return render.Text(stdout, res.Layout, render.TextOptions{Emoji: flags.emoji})
	case res.Format.Binary() && tty:
		return errors.New(errors.ErrCodeInvalidInput, "refusing to write %s to a terminal; use -o", res.Format)
	default:
		_, err := stdout.Write(res.Output)
		return err
	}
}

func textBytes(res *pipeline.Result, emoji bool) []byte {
	var buf bytes.Buffer
	_ = render.Text(&buf, res.Layout, render.TextOptions{Emoji: emoji})
	return buf.Bytes()
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// invalidate drops the cached copy of a family after it was edited.
func (c *CLI) invalidate(ctx context.Context, familyID string) {
	runner, err := c.newRunner(ctx, false, false)
	if err != nil {
		return
	}
	defer runner.Close()
	if err := runner.Invalidate(ctx, familyID); err != nil {
		c.Logger.Debug("cache invalidation failed", "family", familyID, "err", err)
	}
}

// readDocument reads a family document from a file argument.
func readDocument(path string) (family.FamilyData, error) {
	if err := errors.ValidatePath(path); err != nil {
		return family.FamilyData{}, err
	}
	return readFamilyFile(path)
}
