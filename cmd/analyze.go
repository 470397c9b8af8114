package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/resume-forge/pkg/pipeline"
	"github.com/nikogura/resume-forge/pkg/resume"
)

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeJD string

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeOut string

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume.json>",
	Short: "Report which job description skills a resume covers",
	Long: `Compare a resume's skills with the requirements of a job description
without changing the resume.

Example:
  resume-forge analyze resume.json --jd jd.txt
  resume-forge analyze resume.json --jd https://example.com/jobs/123 --out gaps.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeJD, "jd", "", "Job description file or URL (default: job_description in the resume)")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "Write the report to this path")
}

func runAnalyze(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	var s session
	s, err = newSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	var r resume.Resume
	r, err = loadResume(args[0], analyzeJD)
	if err != nil {
		return err
	}

	var result pipeline.Result
	withSpinner("Analyzing skill coverage...", func() {
		result, err = s.pipeline.Analyze(ctx, r)
	})
	if err != nil {
		err = errors.Wrap(err, "analysis failed")
		return err
	}

	fmt.Print(result.Analysis.Report())

	if analyzeOut != "" {
		err = result.Analysis.WriteReport(analyzeOut)
		if err != nil {
			return err
		}
		fmt.Printf("\nGap analysis saved at: %s\n", analyzeOut)
	}

	if getVerbose() {
		fmt.Printf("\nJob description digest:\n%s\n", result.Digest)
	}

	fmt.Printf("\nRun %s  %s\n", result.RunID, result.Usage.Summary())

	return err
}
