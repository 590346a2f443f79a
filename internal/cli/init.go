package cli

import (
	"fmt"
	"os"

	"github.com/jsdb-labs/jsdb/internal/branding"
	"github.com/jsdb-labs/jsdb/internal/project"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var initProjectPath string

func init() {
	initCmd.Flags().StringVar(&initProjectPath, "projectPath", "", "Path to where you want to initialize "+branding.DisplayName()+" (default: current directory)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the " + branding.ProjectDir() + " file structure",
	Long: `Initialize the ` + branding.ProjectDir() + ` project folder.

Creates db/default/rules.js, functions/helloWorld.js and hosting/index.html
under ` + branding.ProjectDir() + `/. If the folder already exists nothing is written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectPath := initProjectPath
		if projectPath == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			projectPath = cwd
		}

		result, err := project.Init(appFs, projectPath, cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("initializing project: %w", err)
		}
		logger.Debug("init finished",
			zap.String("dir", result.Dir),
			zap.Bool("created", result.Created),
			zap.Strings("files", result.Files),
		)
		return nil
	},
}
