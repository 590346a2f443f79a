package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsdb-labs/jsdb/internal/branding"
	"github.com/jsdb-labs/jsdb/internal/config"
	"github.com/jsdb-labs/jsdb/internal/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	// appFs is the filesystem every command works on; tests may swap it.
	appFs afero.Fs = afero.NewOsFs()

	settings *config.Settings
	logger   = zap.NewNop()

	settingsFile string
	logLevel     string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsFile, "config", config.FilePath(), "Path to the settings file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "Diagnostic log level (debug, info, warn, error)")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` CLI scaffolds a local project folder and deploys it to a
` + branding.DisplayName() + ` server as a zip bundle.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The settings file is read only by the commands that consume it.
		settings = config.New(settingsFile)
		if err := settings.BindFlags(cmd.Flags()); err != nil {
			return err
		}
		configureLogger(cmd)
		logger.Debug("command started", zap.String("command", cmd.CommandPath()))
		return nil
	},
}

// loadSettings reads and validates the settings file, then rebuilds the
// logger since the file may set log_level.
func loadSettings(cmd *cobra.Command) error {
	if err := settings.Load(); err != nil {
		return err
	}
	configureLogger(cmd)
	logger.Debug("settings loaded", zap.String("settings_file", settings.Path()))
	return nil
}

// configureLogger builds the logger at the resolved level. An unparsable
// level falls back to the default and is reported as a warning.
func configureLogger(cmd *cobra.Command) {
	w := cmd.ErrOrStderr()
	l, err := logging.New(settings.LogLevel(), w)
	if err != nil {
		l, _ = logging.New(logging.DefaultLevel, w)
		l.Warn("using default log level", zap.Error(err))
	}
	logger = l.Named(branding.CLIName())
}

// Execute runs the root command with build info injected via ldflags.
// SIGINT and SIGTERM cancel the command's context.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = displayVersion()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if syncErr := logging.Sync(logger); syncErr != nil {
		fmt.Fprintf(os.Stderr, "flushing logs: %v\n", syncErr)
	}
	return err
}
