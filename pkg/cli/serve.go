package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mplm/rundash/pkg/server"
	"github.com/mplm/rundash/pkg/service"
	"github.com/mplm/rundash/pkg/view"
)

type serveFlags struct {
	sourceFlags

	address         string
	staticFolder    string
	autoSelectFirst bool
}

func newServeCommand(opts *globals) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.apply(cmd.Flags(), opts.config)

			if cmd.Flags().Changed("address") {
				opts.config.Address = flags.address
			}

			if cmd.Flags().Changed("static-folder") {
				opts.config.StaticFolder = flags.staticFolder
			}

			if cmd.Flags().Changed("auto-select-first") {
				autoSelectFirst := flags.autoSelectFirst
				opts.config.AutoSelectFirst = &autoSelectFirst
			}

			if err := opts.finalize(); err != nil {
				return err
			}

			loader, closeLoader, err := opts.newLoader()
			if err != nil {
				return err
			}
			defer closeLoader()

			state := view.New(opts.logger, loader, view.Options{AutoSelectFirst: opts.config.AutoSelect()})
			defer state.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// The dashboard starts empty when the first load fails; POST /api/reload retries.
			if _, err := state.Reload(ctx); err != nil && !errors.Is(err, view.ErrClosed) {
				opts.logger.Warnf("Initial load failed: %v", err)
			}

			dashboard := service.NewDashboardService(opts.logger, state, opts.config.Language())

			return server.Launch(ctx, opts.logger, opts.config, dashboard)
		},
	}

	flags.bind(cmd.Flags())
	cmd.Flags().StringVar(&flags.address, "address", "", "address to listen on (default localhost:5050)")
	cmd.Flags().StringVar(&flags.staticFolder, "static-folder", "", "folder with a static front-end to serve at /")
	cmd.Flags().BoolVar(&flags.autoSelectFirst, "auto-select-first", true, "select the first record after every load")

	return cmd
}
