package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikogura/resume-forge/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config file",
	Long: `Write a starter config to $HOME/.resume-forge/config.json (or the path given
with --config). Existing files are never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	var path string
	path, err = config.InitConfig(getConfigFile())
	if err != nil {
		return err
	}

	fmt.Printf("Config written to: %s\n", path)
	fmt.Println("Edit it to set your name and API key, or export ANTHROPIC_API_KEY / GEMINI_API_KEY.")

	return err
}
