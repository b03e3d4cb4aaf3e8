package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jiapu/pkg/server"
	"github.com/matzehuels/jiapu/pkg/storage"
)

// serveCommand runs the layout HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noSource bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Run an HTTP server that lays out family documents.

Routes:
  POST /layout                            lay out a posted document
  GET  /families/{id}/layout              fetch a family and lay it out
  GET  /snapshots/{familyID}              list archived snapshots
  GET  /snapshots/{familyID}/latest/layout  lay out the newest snapshot

Every layout route accepts ?format=json|text|dot|svg|pdf|png.
Snapshot routes need mongo.uri in the config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, false, !noSource)
			if err != nil {
				return err
			}
			defer runner.Close()

			var store storage.Store
			if cfg.Mongo.URI != "" {
				s, err := c.snapshotStore(ctx)
				if err != nil {
					printWarning("Snapshot store unavailable, snapshot routes disabled: %v", err)
				} else {
					defer c.closeStore(s)
					store = s
				}
			}

			printInfo("Listening on %s", addr)
			return server.New(runner, store, c.Logger).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noSource, "offline", false, "only serve POST /layout and snapshots")
	return cmd
}
