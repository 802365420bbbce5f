// Package cli wires the rundash commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mplm/rundash/pkg/config"
	"github.com/mplm/rundash/pkg/ingest"
	"github.com/mplm/rundash/pkg/store/sql"
)

// Version is set at build time.
var Version = "dev"

// globals are shared by every subcommand through the root command's persistent flags.
type globals struct {
	configFile string
	logLevel   string

	logger *logrus.Logger
	config *config.Config
}

// sourceFlags override the record source settings of the configuration file.
type sourceFlags struct {
	sourceURL    string
	storeURL     string
	cacheBust    bool
	fetchTimeout time.Duration
	locale       string
}

func (s *sourceFlags) bind(flags *pflag.FlagSet) {
	flags.StringVar(&s.sourceURL, "source-url", "", "CSV export to read, as an http(s) URL or a file path")
	flags.StringVar(&s.storeURL, "store-url", "", "read the runs table directly, e.g. sqlite:///runs.db")
	flags.BoolVar(&s.cacheBust, "cache-bust", true, "add a timestamp query parameter to http source URLs")
	flags.DurationVar(&s.fetchTimeout, "fetch-timeout", config.DefaultFetchTimeout, "timeout of a single fetch")
	flags.StringVar(&s.locale, "locale", config.DefaultLocale, "language tag used to order text columns")
}

func (s *sourceFlags) apply(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("source-url") {
		cfg.SourceURL = s.sourceURL
		cfg.StoreURL = ""
	}

	if flags.Changed("store-url") {
		cfg.StoreURL = s.storeURL
		cfg.SourceURL = ""
	}

	if flags.Changed("cache-bust") {
		cacheBust := s.cacheBust
		cfg.CacheBust = &cacheBust
	}

	if flags.Changed("fetch-timeout") {
		cfg.FetchTimeout.Duration = s.fetchTimeout
	}

	if flags.Changed("locale") {
		cfg.Locale = s.locale
	}
}

// finalize applies defaults, validates and raises the logger to the configured level.
func (g *globals) finalize() error {
	g.config.ApplyDefaults()

	if err := g.config.Validate(); err != nil {
		return err
	}

	g.logger.SetLevel(g.config.Level())

	return nil
}

// newLoader reads from the runs table when a store URL is configured and from
// the CSV source otherwise. The returned close function is never nil.
func (g *globals) newLoader() (ingest.Loader, func(), error) {
	if g.config.StoreURL != "" {
		store, err := sql.NewSQLStore(g.logger, g.config.StoreURL)
		if err != nil {
			return nil, nil, err
		}

		return store, func() {
			if err := store.Close(); err != nil {
				g.logger.Warnf("Failed to close store: %v", err)
			}
		}, nil
	}

	loader := ingest.NewSource(
		g.logger,
		g.config.SourceURL,
		g.config.CacheBustParameter(),
		g.config.FetchTimeout.Duration,
	)

	return loader, func() {}, nil
}

func NewRootCommand(stderr io.Writer) *cobra.Command {
	opts := &globals{
		logger: logrus.New(),
	}

	opts.logger.SetOutput(stderr)
	opts.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	root := &cobra.Command{
		Use:           "rundash",
		Short:         "Dashboard over machine-learning run records",
		Long:          "rundash ingests the CSV export of a training pipeline and serves tables, charts and a selection over the run records.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = opts.logLevel
			}

			if cfg.Version == "" {
				cfg.Version = Version
			}

			opts.config = cfg

			return nil
		},
	}

	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "YAML or JSON configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newServeCommand(opts),
		newInspectCommand(opts),
		newExportCommand(opts),
		newVersionCommand(),
	)

	return root
}

func Execute(ctx context.Context) error {
	root := NewRootCommand(os.Stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return err
	}

	return nil
}
