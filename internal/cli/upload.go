package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jiapu/pkg/api"
	"github.com/matzehuels/jiapu/pkg/errors"
)

// uploadCommand creates the upload command for member photos.
func (c *CLI) uploadCommand() *cobra.Command {
	var folder string
	cmd := &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload an image and print its URL",
		Long: `Upload an image to the service. The printed URL can be set on a
member with 'jiapu member update <id> --photo <url>'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := errors.ValidatePath(path); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
			}
			defer f.Close()

			client, err := c.apiClient()
			if err != nil {
				return err
			}
			url, err := client.UploadImage(cmd.Context(), folder, filepath.Base(path), f)
			if err != nil {
				return err
			}
			printSuccess("Uploaded %s", filepath.Base(path))
			printKeyValue("URL", StyleLink.Render(url))
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", api.DefaultUploadFolder, "destination folder")
	return cmd
}
