package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/resume-forge/pkg/pipeline"
	"github.com/nikogura/resume-forge/pkg/renderer"
	"github.com/nikogura/resume-forge/pkg/resume"
	"github.com/nikogura/resume-forge/pkg/scorer"
)

//nolint:gochecknoglobals // Cobra boilerplate
var processJD string

//nolint:gochecknoglobals // Cobra boilerplate
var processOut string

//nolint:gochecknoglobals // Cobra boilerplate
var processAnalysis string

//nolint:gochecknoglobals // Cobra boilerplate
var processOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var processRender bool

//nolint:gochecknoglobals // Cobra boilerplate
var processKeepMarkdown bool

//nolint:gochecknoglobals // Cobra boilerplate
var processCmd = &cobra.Command{
	Use:   "process <resume.json>",
	Short: "Enrich a resume and tailor it to a job description",
	Long: `Run the full enrichment pipeline on a structured resume.

Sparse experience and project entries are expanded, skills are regrouped, and
when a job description is supplied (either with --jd or already present in the
resume's job_description field) the content is tailored to it and a skill gap
analysis is produced.

Example:
  resume-forge process resume.json
  resume-forge process resume.json --jd jd.txt --analysis gaps.txt
  resume-forge process resume.json --jd https://example.com/jobs/123 --render`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringVar(&processJD, "jd", "", "Job description file or URL (overrides job_description in the resume)")
	processCmd.Flags().StringVar(&processOut, "out", "", "Output path for the enriched resume JSON (default <output-dir>/<name>-enhanced.json)")
	processCmd.Flags().StringVar(&processAnalysis, "analysis", "", "Write the gap analysis report to this path")
	processCmd.Flags().StringVar(&processOutputDir, "output-dir", "", "Output directory (default from config)")
	processCmd.Flags().BoolVar(&processRender, "render", false, "Also render the enriched resume to PDF with pandoc")
	processCmd.Flags().BoolVar(&processKeepMarkdown, "keep-markdown", true, "Keep markdown files after PDF generation")
}

func runProcess(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	var s session
	s, err = newSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	var r resume.Resume
	r, err = loadResume(args[0], processJD)
	if err != nil {
		return err
	}

	if processRender {
		err = s.cfg.ValidatePandoc()
		if err != nil {
			return err
		}
	}

	var result pipeline.Result
	withSpinner("Enriching resume...", func() {
		result, err = s.pipeline.Process(ctx, r)
	})
	if err != nil {
		fmt.Printf("Token usage: %s\n", result.Usage.Summary())
		err = errors.Wrap(err, "processing failed")
		return err
	}

	outDir := getOutputDir(processOutputDir, s.cfg.Defaults.OutputDir)
	outPath := processOut
	if outPath == "" {
		outPath = defaultOutputPath(outDir, result.Resume.PersonalInfo.Name, "enhanced", ".json")
	}

	err = resume.Save(result.Resume, outPath)
	if err != nil {
		return err
	}
	fmt.Printf("Enriched resume saved at: %s\n", outPath)

	if result.Analysis != nil {
		printAnalysis(*result.Analysis)

		if processAnalysis != "" {
			err = result.Analysis.WriteReport(processAnalysis)
			if err != nil {
				return err
			}
			fmt.Printf("Gap analysis saved at: %s\n", processAnalysis)
		}
	} else if processAnalysis != "" {
		fmt.Println("Warning: no job description digest was available, gap analysis skipped")
	}

	printAudit(r, result.Resume)

	if processRender {
		pdfPath := defaultOutputPath(outDir, result.Resume.PersonalInfo.Name, "resume", ".pdf")
		renderAndReport(ctx, result.Resume, pdfPath, pdfOptions(s.cfg), processKeepMarkdown)
	}

	fmt.Printf("Run %s  %s\n", result.RunID, result.Usage.Summary())

	return err
}

// printAudit scores the enriched resume against its source and reports any issues.
func printAudit(original, enriched resume.Resume) {
	s := scorer.NewScorer()
	scores := s.Audit(original, enriched)

	fmt.Printf("Quality score: %d/100 (anti-fabrication %d, accuracy %d, quality %d)\n",
		scores.Overall, scores.AntiFabrication, scores.Accuracy, scores.Quality)

	for _, lesson := range s.ExtractLessons(scores) {
		fmt.Printf("  - %s\n", lesson)
	}

	if getVerbose() {
		for _, v := range scores.Violations {
			fmt.Printf("  [%s] %s at %s: %s\n", v.Severity, v.Rule, v.Location, v.Found)
		}
	}
}

func printAnalysis(analysis pipeline.GapAnalysis) {
	if getVerbose() {
		fmt.Println()
		fmt.Print(analysis.Report())
		fmt.Println()
		return
	}

	fmt.Printf("Matching skills: %d  Missing skills: %d\n", len(analysis.MatchingSkills), len(analysis.MissingSkills))
}

// renderAndReport renders a PDF and reports the outcome; failures are warnings
// since the enriched JSON has already been written.
func renderAndReport(ctx context.Context, r resume.Resume, pdfPath string, opts renderer.PDFOptions, keep bool) {
	if getVerbose() {
		fmt.Println("Rendering PDF...")
	}

	mdPath, err := renderer.RenderResume(ctx, r, pdfPath, opts, keep)
	if err != nil {
		fmt.Printf("Warning: Failed to render resume PDF: %v\n", err)
		if mdPath != "" {
			fmt.Printf("Resume markdown saved at: %s\n", mdPath)
		}
		return
	}

	fmt.Printf("Resume PDF saved at: %s\n", pdfPath)
	if mdPath != "" {
		fmt.Printf("Resume markdown saved at: %s\n", mdPath)
	}
}
