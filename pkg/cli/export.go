package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mplm/rundash/pkg/ingest"
	"github.com/mplm/rundash/pkg/record"
)

type exportFlags struct {
	sourceFlags

	output string
}

func newExportCommand(opts *globals) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the run records as CSV",
		Long:  "Reads the configured source, typically the runs table through --store-url, and writes CSV that the dashboard can ingest.",
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

			result, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}

			if flags.output == "-" {
				return ingest.WriteCSV(cmd.OutOrStdout(), result.Records)
			}

			if err := writeFile(flags.output, result.Records); err != nil {
				return err
			}

			opts.logger.Infof("Exported %d run records to %s", len(result.Records), flags.output)

			return nil
		},
	}

	flags.bind(cmd.Flags())
	cmd.Flags().StringVarP(&flags.output, "output", "o", "-", "file to write, - for stdout")

	return cmd
}

func writeFile(path string, records []record.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := ingest.WriteCSV(file, records); err != nil {
		file.Close()

		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	return nil
}
