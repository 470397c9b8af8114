package renderer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/nikogura/resume-forge/pkg/resume"
)

const defaultPandoc = "pandoc"

// PDFOptions names the LaTeX template and document class a resume is typeset with.
type PDFOptions struct {
	TemplatePath string
	ClassPath    string
	// Binary overrides the pandoc executable looked up on PATH.
	Binary string
}

func (o PDFOptions) binary() (name string) {
	name = o.Binary
	if name == "" {
		name = defaultPandoc
	}
	return name
}

// RenderResume writes the resume as markdown next to outputPath and typesets it.
// The markdown is left in place when typesetting fails, and removed after a
// successful render unless keepMarkdown is set.
func RenderResume(ctx context.Context, r resume.Resume, outputPath string, opts PDFOptions, keepMarkdown bool) (markdownPath string, err error) {
	markdownPath = strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".md"

	err = WriteMarkdown(Markdown(r), markdownPath)
	if err != nil {
		return markdownPath, err
	}

	err = RenderPDF(ctx, markdownPath, outputPath, opts)
	if err != nil {
		return markdownPath, err
	}

	if !keepMarkdown {
		err = CleanupMarkdown(markdownPath)
		markdownPath = ""
	}

	return markdownPath, err
}

// RenderPDF typesets a markdown file into outputPath.
func RenderPDF(ctx context.Context, markdownPath, outputPath string, opts PDFOptions) (err error) {
	err = checkPandoc(ctx, opts.binary())
	if err != nil {
		return err
	}

	err = missingInputs(markdownPath, opts.TemplatePath, opts.ClassPath)
	if err != nil {
		return err
	}

	err = ensureDir(outputPath)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, opts.binary(), pandocArgs(markdownPath, outputPath, opts.TemplatePath)...)
	cmd.Env = append(os.Environ(), "TEXINPUTS="+texInputs(opts.ClassPath, os.Getenv("TEXINPUTS")))

	var output []byte
	output, err = cmd.CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "pandoc failed: %s", strings.TrimSpace(string(output)))
		return err
	}

	return err
}

func pandocArgs(markdownPath, outputPath, templatePath string) (args []string) {
	args = []string{
		"--from", "markdown",
		"--to", "pdf",
		"--output", outputPath,
		"--template", templatePath,
		"--number-sections=false",
		markdownPath,
	}
	return args
}

// texInputs puts the document class directory ahead of the caller's TEXINPUTS.
// The trailing separator keeps TeX's built-in search path.
func texInputs(classPath, current string) (value string) {
	sep := string(os.PathListSeparator)
	value = filepath.Dir(classPath) + sep
	if current != "" {
		value += strings.TrimSuffix(current, sep) + sep
	}
	return value
}

func checkPandoc(ctx context.Context, binary string) (err error) {
	_, err = exec.LookPath(binary)
	if err != nil {
		err = errors.Errorf("%s not found in PATH (install pandoc to generate PDFs)", binary)
		return err
	}

	err = exec.CommandContext(ctx, binary, "--version").Run()
	if err != nil {
		err = errors.Wrapf(err, "%s --version failed", binary)
		return err
	}

	return err
}

// missingInputs reports every path that does not exist, not just the first.
func missingInputs(paths ...string) (err error) {
	missing := make([]string, 0)
	for _, path := range paths {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			missing = append(missing, path)
		}
	}

	if len(missing) > 0 {
		err = errors.Errorf("file not found: %s", strings.Join(missing, ", "))
	}

	return err
}

func ensureDir(path string) (err error) {
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", dir)
	}
	return err
}

// WriteMarkdown writes rendered markdown to outputPath, creating its directory.
func WriteMarkdown(content, outputPath string) (err error) {
	err = ensureDir(outputPath)
	if err != nil {
		return err
	}

	err = os.WriteFile(outputPath, []byte(content), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write markdown file: %s", outputPath)
	}

	return err
}

// CleanupMarkdown removes intermediate markdown files.
func CleanupMarkdown(paths ...string) (err error) {
	for _, path := range paths {
		err = os.Remove(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to remove markdown file: %s", path)
			return err
		}
	}
	return err
}
