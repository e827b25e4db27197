package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wjt/sms-query/internal/config"
	"github.com/wjt/sms-query/internal/filter"
	"github.com/wjt/sms-query/internal/logger"
	"github.com/wjt/sms-query/internal/report"
	"github.com/wjt/sms-query/internal/sentry"
	"github.com/wjt/sms-query/internal/stats"
	"github.com/wjt/sms-query/internal/storage"
)

var (
	version = "0.2.0"
	commit  = "release"
	date    = "2026-08-27"
)

func main() {
	// Add panic recovery for better error reporting
	defer func() {
		if r := recover(); r != nil {
			if sentry.IsEnabled() {
				sentry.CaptureError(fmt.Errorf("panic: %v", r), "main", "panic_recovery")
				sentry.Flush(2 * time.Second)
			}
			fmt.Fprintf(os.Stderr, "sms-query encountered a fatal error: %v\n", r)
			os.Exit(1)
		}
	}()

	var noColor bool

	// Peek at --config before cobra parses flags so the loaded config
	// can feed the command constructors
	configPath := configPathFromArgs(os.Args[1:])

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Override database path if SMSQ_DB environment variable is set.
	// Useful when pointing the tool at a database copied off the phone.
	if dbPath := os.Getenv("SMSQ_DB"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Initialize logger
	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Initialize Sentry error monitoring (opt-in)
	if err := sentry.Initialize(cfg, version); err != nil {
		// Don't fail the invocation if error monitoring fails
		fmt.Fprintf(os.Stderr, "Warning: Failed to initialize error monitoring: %v\n", err)
	}
	defer func() {
		if sentry.IsEnabled() {
			sentry.Flush(2 * time.Second)
			sentry.Close()
		}
	}()

	root := rootCmd(cfg, &noColor)
	root.PersistentFlags().String("config", "", "Path to configuration file")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(statsCmd(cfg))
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		if sentry.IsEnabled() && !filter.IsInvalidArgument(err) {
			sentry.CaptureError(err, "main", "execute")
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootCmd builds the report command. Every positional argument is a
// filter token; their order does not matter.
func rootCmd(cfg *config.Config, noColor *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sms-query [filter]...",
		Short: "Query voice call and SMS history from an rtcom-eventlogger database",
		Long: `Query the voice/SMS event log of an rtcom-eventlogger (Nokia N900 style)
SQLite database and print a chronological, color-coded report.

Every argument is a filter token and the order of tokens does not matter:
  call, calls, missed, sms      restrict the event type
  in, incoming, out, outgoing   restrict the direction
  +4712345678, 12345678         restrict the remote phone number
  anything else                 matches contact names (substring)

Tokens of the same category combine with OR, categories combine with AND.
Without arguments the entire event log is printed.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cfg, args, *noColor)
		},
	}
	return cmd
}

// runReport executes the classify -> compose -> query -> render pipeline
func runReport(cfg *config.Config, tokens []string, noColor bool) error {
	start := time.Now()
	log := logger.GetLogger().WithRunID(uuid.New().String())

	classifier := filter.NewClassifier(cfg.Phone.CountryPrefix)
	if err := classifier.Classify(tokens); err != nil {
		return err
	}

	store, err := storage.NewStore(cfg, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	cursor, err := store.QueryEvents(predicaters(classifier))
	if err != nil {
		return err
	}
	defer cursor.Close()

	colors := report.NewColorFormatter(&cfg.Output)
	colors.SetNoColor(noColor)

	renderer := report.NewRenderer(os.Stdout, colors)
	renderer.RenderHeader(classifier.Descriptions())

	count, err := renderer.Render(cursor)
	if err != nil {
		return err
	}

	log.Performance("report", time.Since(start), map[string]interface{}{
		"tokens": len(tokens),
		"events": count,
	})
	return nil
}

// statsCmd builds the statistics command; it shares the report's token
// surface
func statsCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [filter]...",
		Short: "Show aggregate statistics for the filtered event set",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier := filter.NewClassifier(cfg.Phone.CountryPrefix)
			if err := classifier.Classify(args); err != nil {
				return err
			}

			store, err := storage.NewStore(cfg, nil)
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := stats.Calculate(store, predicaters(classifier))
			if err != nil {
				return err
			}

			stats.FormatText(os.Stdout, result, classifier.Descriptions())
			return nil
		},
	}
	return cmd
}

// versionCmd builds the version command
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sms-query %s (%s, built %s)\n", version, commit, date)
		},
	}
}

// configPathFromArgs extracts the --config flag value from raw arguments,
// accepting both the space-separated and the --config=path form. The last
// occurrence wins, matching pflag.
func configPathFromArgs(args []string) string {
	var path string
	for i, arg := range args {
		switch {
		case arg == "--config" && i+1 < len(args):
			path = args[i+1]
		case strings.HasPrefix(arg, "--config="):
			path = strings.TrimPrefix(arg, "--config=")
		}
	}
	return path
}

// predicaters adapts the classifier's active filters to the storage
// layer's predicate interface
func predicaters(c *filter.Classifier) []storage.Predicater {
	var preds []storage.Predicater
	for _, f := range c.Active() {
		preds = append(preds, f)
	}
	return preds
}
