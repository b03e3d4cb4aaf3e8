package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jiapu/pkg/api"
	"github.com/matzehuels/jiapu/pkg/errors"
)

// feedbackCommand creates the feedback command.
func (c *CLI) feedbackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Send suggestions and bug reports",
	}

	cmd.AddCommand(c.feedbackCreateCommand())
	cmd.AddCommand(c.feedbackListCommand())
	cmd.AddCommand(c.feedbackShowCommand())
	cmd.AddCommand(c.feedbackDeleteCommand())

	return cmd
}

func (c *CLI) feedbackCreateCommand() *cobra.Command {
	var title, content, kind string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch kind {
			case api.FeedbackSuggestion, api.FeedbackBug, api.FeedbackOther:
			default:
				return errors.New(errors.ErrCodeInvalidInput, "unknown feedback type %q", kind)
			}
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			fb, err := client.CreateFeedback(cmd.Context(), title, content, kind)
			if err != nil {
				return err
			}
			printSuccess("Thanks, feedback received")
			printKeyValue("ID", fb.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "short summary")
	cmd.Flags().StringVar(&content, "content", "", "details")
	cmd.Flags().StringVar(&kind, "type", api.FeedbackSuggestion, "suggestion, bug or other")
	return cmd
}

func (c *CLI) feedbackListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			var items []api.Feedback
			err = withSpinner(cmd.Context(), "Loading feedback...", func(ctx context.Context) error {
				items, err = client.ListFeedback(ctx)
				return err
			})
			if err != nil {
				return err
			}
			if len(items) == 0 {
				printInfo("No feedback yet")
				return nil
			}
			rows := make([][]string, len(items))
			for i, fb := range items {
				rows[i] = []string{fb.ID, fb.Title, orDash(fb.Type), orDash(fb.Status)}
			}
			printTable([]string{"ID", "Title", "Type", "Status"}, rows)
			return nil
		},
	}
}

func (c *CLI) feedbackShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show feedback and any reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			fb, err := client.GetFeedback(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printKeyValue("Title", fb.Title)
			printKeyValue("Type", orDash(fb.Type))
			printKeyValue("Status", orDash(fb.Status))
			printKeyValue("Created", orDash(fb.CreatedAt))
			printNewline()
			printDetail("%s", fb.Content)
			if fb.Reply != "" {
				printNewline()
				printKeyValue("Reply", fb.Reply)
			}
			return nil
		},
	}
}

func (c *CLI) feedbackDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Withdraw feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			if err := client.DeleteFeedback(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted feedback %s", args[0])
			return nil
		},
	}
}
