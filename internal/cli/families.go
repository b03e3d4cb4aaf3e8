package cli

import (
	"context"
	stderrors "errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jiapu/pkg/api"
	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
)

// familiesCommand creates the families command for managing family trees
// on the service.
func (c *CLI) familiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "families",
		Aliases: []string{"ls"},
		Short:   "Manage your family trees",
	}

	cmd.AddCommand(c.familiesListCommand())
	cmd.AddCommand(c.familiesCreateCommand())
	cmd.AddCommand(c.familiesUpdateCommand())
	cmd.AddCommand(c.familiesDeleteCommand())
	cmd.AddCommand(c.familiesImportCommand())
	cmd.AddCommand(c.familiesExportCommand())

	return cmd
}

func (c *CLI) familiesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your families",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			var items []family.FamilyListItem
			err = withSpinner(cmd.Context(), "Loading families...", func(ctx context.Context) error {
				items, err = client.ListFamilies(ctx)
				return err
			})
			if err != nil {
				return err
			}
			if len(items) == 0 {
				printInfo("No families yet")
				printNextStep("Create one with", "jiapu families create <name>")
				return nil
			}
			rows := make([][]string, len(items))
			for i, f := range items {
				rows[i] = []string{f.ID, f.Name, orDash(f.Hometown), formatRelativeTime(f.UpdatedAt)}
			}
			printTable([]string{"ID", "Name", "Hometown", "Updated"}, rows)
			return nil
		},
	}
}

func (c *CLI) familiesCreateCommand() *cobra.Command {
	var in api.FamilyInput
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a family",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			in.Name = args[0]
			f, err := client.CreateFamily(cmd.Context(), in)
			if err != nil {
				return err
			}
			printSuccess("Created %s", f.Name)
			printKeyValue("ID", f.ID)
			printNextStep("Add the first generation with", "jiapu generation add "+f.ID+" 第一世")
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Subtitle, "subtitle", "", "subtitle, e.g. the hall name")
	cmd.Flags().StringVar(&in.Hometown, "hometown", "", "ancestral hometown")
	cmd.Flags().StringVar(&in.Theme, "theme", api.DefaultTheme, "display theme")
	return cmd
}

func (c *CLI) familiesUpdateCommand() *cobra.Command {
	var (
		name, subtitle, hometown, theme string
		connections                     bool
		zoom                            float64
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change family settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd api.FamilyUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				upd.Name = &name
			}
			if flags.Changed("subtitle") {
				upd.Subtitle = &subtitle
			}
			if flags.Changed("hometown") {
				upd.Hometown = &hometown
			}
			if flags.Changed("theme") {
				upd.Theme = &theme
			}
			if flags.Changed("connections") {
				upd.ShowConnections = &connections
			}
			if flags.Changed("zoom") {
				upd.ZoomLevel = &zoom
			}
			if upd == (api.FamilyUpdate{}) {
				return errors.New(errors.ErrCodeInvalidInput, "nothing to update")
			}

			client, err := c.apiClient()
			if err != nil {
				return err
			}
			f, err := client.UpdateFamily(cmd.Context(), args[0], upd)
			if err != nil {
				return err
			}
			c.invalidate(cmd.Context(), args[0])
			printSuccess("Updated %s", f.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "family name")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "subtitle")
	cmd.Flags().StringVar(&hometown, "hometown", "", "ancestral hometown")
	cmd.Flags().StringVar(&theme, "theme", "", "display theme")
	cmd.Flags().BoolVar(&connections, "connections", true, "show parent-child connections")
	cmd.Flags().Float64Var(&zoom, "zoom", 1, "zoom level")
	return cmd
}

func (c *CLI) familiesDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a family and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New(errors.ErrCodeInvalidInput, "refusing to delete family %s without --yes", args[0])
			}
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			if err := client.DeleteFamily(cmd.Context(), args[0]); err != nil {
				return err
			}
			c.invalidate(cmd.Context(), args[0])
			printSuccess("Deleted family %s", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}

func (c *CLI) familiesImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <id> <family.json>",
		Short: "Replace a family's generations with a local document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := readDocument(args[1])
			if err != nil {
				return err
			}
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			if err := client.ImportFamily(cmd.Context(), args[0], &d); err != nil {
				return err
			}
			c.invalidate(cmd.Context(), args[0])
			printSuccess("Imported %d generations, %d members", len(d.Generations), d.MemberCount())
			return nil
		},
	}
}

func (c *CLI) familiesExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a family document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), true, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			d, err := runner.Fetch(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			if output == "" {
				return family.Write(d, stdout)
			}
			if err := family.WriteFile(d, output); err != nil {
				return err
			}
			printSuccess("Exported %s", orDash(d.Settings.FamilyName))
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// readFamilyFile reads a family document, mapping a missing file to
// FILE_NOT_FOUND and bad JSON to INVALID_FORMAT.
func readFamilyFile(path string) (family.FamilyData, error) {
	d, err := family.ReadFile(path)
	switch {
	case err == nil:
		return d, nil
	case stderrors.Is(err, fs.ErrNotExist):
		return d, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s not found", path)
	default:
		return d, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", path)
	}
}
