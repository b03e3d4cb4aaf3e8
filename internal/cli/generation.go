package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jiapu/pkg/api"
	"github.com/matzehuels/jiapu/pkg/errors"
)

// generationCommand creates the generation command.
func (c *CLI) generationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generation",
		Aliases: []string{"gen"},
		Short:   "Add, rename and remove generations",
	}

	cmd.AddCommand(c.generationAddCommand())
	cmd.AddCommand(c.generationUpdateCommand())
	cmd.AddCommand(c.generationDeleteCommand())

	return cmd
}

func (c *CLI) generationAddCommand() *cobra.Command {
	var atTop bool
	cmd := &cobra.Command{
		Use:   "add <family-id> <name>",
		Short: "Append a generation (or prepend with --top)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			gen, err := client.AddGeneration(cmd.Context(), args[0], args[1], atTop)
			if err != nil {
				return err
			}
			c.invalidate(cmd.Context(), args[0])
			printSuccess("Added generation %s", gen.Name)
			printKeyValue("ID", gen.Key())
			return nil
		},
	}
	cmd.Flags().BoolVar(&atTop, "top", false, "insert above the oldest generation")
	return cmd
}

func (c *CLI) generationUpdateCommand() *cobra.Command {
	var (
		name  string
		order int
	)
	cmd := &cobra.Command{
		Use:   "update <generation-id>",
		Short: "Rename or reorder a generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd api.GenerationUpdate
			if cmd.Flags().Changed("name") {
				upd.Name = &name
			}
			if cmd.Flags().Changed("order") {
				upd.Order = &order
			}
			if upd == (api.GenerationUpdate{}) {
				return errors.New(errors.ErrCodeInvalidInput, "nothing to update")
			}
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			if err := client.UpdateGeneration(cmd.Context(), args[0], upd); err != nil {
				return err
			}
			printSuccess("Updated generation %s", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().IntVar(&order, "order", 0, "new position, 0 is the oldest")
	return cmd
}

func (c *CLI) generationDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <generation-id>",
		Short: "Remove a generation and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New(errors.ErrCodeInvalidInput, "refusing to delete generation %s without --yes", args[0])
			}
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			if err := client.DeleteGeneration(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted generation %s", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
