package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/resume-forge/pkg/config"
	"github.com/nikogura/resume-forge/pkg/renderer"
	"github.com/nikogura/resume-forge/pkg/resume"
)

//nolint:gochecknoglobals // Cobra boilerplate
var renderOut string

//nolint:gochecknoglobals // Cobra boilerplate
var renderOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var renderKeepMarkdown bool

//nolint:gochecknoglobals // Cobra boilerplate
var renderMarkdownOnly bool

//nolint:gochecknoglobals // Cobra boilerplate
var renderCmd = &cobra.Command{
	Use:   "render <resume.json>",
	Short: "Render a resume to PDF with pandoc",
	Long: `Render a structured resume (typically the output of 'process') to markdown
and then to PDF using the pandoc template from the config.

Example:
  resume-forge render resumes/jane-doe-enhanced.json
  resume-forge render resume.json --markdown-only --out resume.md`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderOut, "out", "", "Output path (default <output-dir>/<name>-resume.pdf)")
	renderCmd.Flags().StringVar(&renderOutputDir, "output-dir", "", "Output directory (default from config)")
	renderCmd.Flags().BoolVar(&renderKeepMarkdown, "keep-markdown", true, "Keep markdown files after PDF generation")
	renderCmd.Flags().BoolVar(&renderMarkdownOnly, "markdown-only", false, "Write markdown and skip pandoc")
}

func runRender(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	var r resume.Resume
	r, err = resume.Load(args[0])
	if err != nil {
		return err
	}

	outDir := getOutputDir(renderOutputDir, cfg.Defaults.OutputDir)

	if renderMarkdownOnly {
		mdPath := renderOut
		if mdPath == "" {
			mdPath = defaultOutputPath(outDir, r.PersonalInfo.Name, "resume", ".md")
		}

		err = renderer.WriteMarkdown(renderer.Markdown(r), mdPath)
		if err != nil {
			return err
		}
		fmt.Printf("Resume markdown saved at: %s\n", mdPath)
		return err
	}

	err = cfg.ValidatePandoc()
	if err != nil {
		return err
	}

	pdfPath := renderOut
	if pdfPath == "" {
		pdfPath = defaultOutputPath(outDir, r.PersonalInfo.Name, "resume", ".pdf")
	}

	var mdPath string
	mdPath, err = renderer.RenderResume(ctx, r, pdfPath, pdfOptions(cfg), renderKeepMarkdown)
	if err != nil {
		if mdPath != "" {
			fmt.Printf("Resume markdown saved at: %s\n", mdPath)
		}
		err = errors.Wrap(err, "failed to render resume PDF")
		return err
	}

	fmt.Printf("Resume PDF saved at: %s\n", pdfPath)
	if mdPath != "" && getVerbose() {
		fmt.Printf("Resume markdown saved at: %s\n", mdPath)
	}

	return err
}
