package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mplm/rundash/pkg/contract"
	"github.com/mplm/rundash/pkg/service"
	"github.com/mplm/rundash/pkg/view"
)

type inspectFlags struct {
	sourceFlags

	sortBy   string
	desc     bool
	filter   string
	category string
}

func newInspectCommand(opts *globals) *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load the run records once and print the table and chart series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.apply(cmd.Flags(), opts.config)

			if err := opts.finalize(); err != nil {
				return err
			}

			loader, closeLoader, err := opts.newLoader()
			if err != nil {
				return err
			}
			defer closeLoader()

			state := view.New(opts.logger, loader, view.Options{})
			defer state.Close()

			dashboard := service.NewDashboardService(opts.logger, state, opts.config.Language())

			return inspect(cmd.Context(), cmd, dashboard, flags)
		},
	}

	flags.bind(cmd.Flags())
	cmd.Flags().StringVar(&flags.sortBy, "sort-by", "", "field to sort by")
	cmd.Flags().BoolVar(&flags.desc, "desc", false, "sort in descending order")
	cmd.Flags().StringVar(&flags.filter, "filter", "", "filter expression, e.g. \"accuracy_test > 0.8 AND llm_name LIKE 'gpt%'\"")
	cmd.Flags().StringVar(&flags.category, "category", "", "field to group chart series by (default llm_name)")

	return cmd
}

func inspect(ctx context.Context, cmd *cobra.Command, dashboard *service.DashboardService, flags *inspectFlags) error {
	if _, cErr := dashboard.Reload(ctx); cErr != nil {
		return cErr
	}

	order := "asc"
	if flags.desc {
		order = "desc"
	}

	records, cErr := dashboard.ListRecords(&contract.ListRecords{
		SortBy: flags.sortBy,
		Order:  order,
		Filter: flags.filter,
	})
	if cErr != nil {
		return cErr
	}

	chart, cErr := dashboard.GetSeries(&contract.GetSeries{Category: flags.category})
	if cErr != nil {
		return cErr
	}

	out := cmd.OutOrStdout()

	fmt.Fprint(out, renderRecords(records))
	fmt.Fprintln(out)
	fmt.Fprint(out, renderSeries(chart))
	fmt.Fprint(out, renderSkipped(records.Skipped))

	return nil
}
