package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "resume-forge",
	Short: "Enrich and tailor a structured resume",
	Long: `resume-forge takes a structured JSON resume and enriches it with an LLM:
sparse experience and project entries get expanded, skills are regrouped into
coherent categories, and when a job description is attached the resume is
tailored to it and a skill gap report is produced.

Skills are never invented: every skill in the output already appears somewhere
in the input resume.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.resume-forge/config.json)")
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}

// newLogger builds the console logger used by library components.
// Only warnings surface unless --verbose is set.
func newLogger() (logger zerolog.Logger) {
	level := zerolog.WarnLevel
	if getVerbose() {
		level = zerolog.DebugLevel
	}

	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger
}
