package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/planetary-society/usaspending-orm-sub000/client"
	"github.com/planetary-society/usaspending-orm-sub000/config"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	apiClient *client.Client

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "usaspending",
	Short: "Query federal spending data from the USAspending API",
	Long: `usaspending is a CLI for the USAspending.gov API. It searches award,
transaction and recipient data with server-side filters, automatic
pagination, client-side rate limiting and retries.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion records build metadata shown by the version command.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	opts := []client.Option{
		client.WithTimeout(cfg.API.Timeout),
		client.WithMaxRetries(cfg.Retry.MaxRetries),
		client.WithRetryDelay(cfg.Retry.BaseDelay),
		client.WithBackoffFactor(cfg.Retry.BackoffFactor),
		client.WithSessionResetThreshold(cfg.Retry.SessionResetThreshold),
		client.WithRateLimit(cfg.Rate.MaxCalls, cfg.Rate.Period),
		client.WithLogger(logger),
	}
	if cfg.API.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(cfg.API.UserAgent))
	}

	apiClient, err = client.New(cfg.API.BaseURL, opts...)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only when stderr is a terminal
	color := cfg.Color && isatty.IsTerminal(os.Stderr.Fd())
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// versionCmd prints build metadata
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("usaspending %s (built %s)\n", version, buildTime)
	},
}
