package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jsdb-labs/jsdb/internal/branding"
	"github.com/jsdb-labs/jsdb/internal/bundle"
	"github.com/jsdb-labs/jsdb/internal/jsdb"
	"github.com/jsdb-labs/jsdb/internal/project"
	"github.com/spf13/cobra"
)

// bundlesCollection is the server collection deploys are appended to.
const bundlesCollection = "bundles"

var (
	deployBundlePath string
	deployKeep       bool
)

func init() {
	f := deployCmd.Flags()
	f.StringVar(&deployBundlePath, "bundlePath", "", "Path to "+branding.ProjectDir()+" folder (default: ./"+branding.ProjectDir()+")")
	f.String("serverUrl", "", branding.DisplayName()+" server URL (env "+branding.EnvVar("server_url")+")")
	f.String("apiKey", "", "API key (env "+branding.EnvVar("api_key")+")")
	f.Duration("timeout", jsdb.DefaultTimeout, "Maximum time to wait for the server")
	f.BoolVar(&deployKeep, "keep-bundle", false, "Keep "+branding.BundleName()+" after uploading")
	rootCmd.AddCommand(deployCmd)
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy to your " + branding.DisplayName() + " server",
	Long: `Bundle the ` + branding.ProjectDir() + ` folder into ` + branding.BundleName() + ` and append it to the
server's "` + bundlesCollection + `" collection.

--serverUrl and --apiKey fall back to ` + branding.EnvVar("server_url") + ` / ` + branding.EnvVar("api_key") + `
and then to the settings file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSettings(cmd); err != nil {
			return err
		}
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}

		cfg, err := settings.Connection()
		if err != nil {
			return err
		}
		client, err := jsdb.New(cfg,
			jsdb.WithUserAgent(userAgent()),
			jsdb.WithLogger(logger.Named("jsdb")),
		)
		if err != nil {
			return err
		}

		bundlePath := deployBundlePath
		if bundlePath == "" {
			bundlePath = project.Dir(cwd)
		}

		uploader := bundle.NewUploader(appFs, client.Collection(bundlesCollection),
			bundle.WithLogger(logger.Named("bundle")),
		)
		return bundle.Deploy(cmd.Context(), appFs, bundle.DeployOptions{
			BundlePath:  bundlePath,
			ArchivePath: filepath.Join(cwd, branding.BundleName()),
			KeepArchive: deployKeep,
		}, uploader, cmd.OutOrStdout())
	},
}
