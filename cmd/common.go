package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/nikogura/resume-forge/pkg/cache"
	"github.com/nikogura/resume-forge/pkg/config"
	"github.com/nikogura/resume-forge/pkg/jd"
	"github.com/nikogura/resume-forge/pkg/llm"
	"github.com/nikogura/resume-forge/pkg/pipeline"
	"github.com/nikogura/resume-forge/pkg/renderer"
	"github.com/nikogura/resume-forge/pkg/resume"
)

// session bundles what every pipeline command needs.
type session struct {
	cfg      config.Config
	logger   zerolog.Logger
	pipeline *pipeline.Pipeline
	close    func()
}

// newSession loads config and wires the generator, cache and equivalence table.
func newSession(ctx context.Context) (s session, err error) {
	s.logger = newLogger()
	s.close = func() {}

	s.cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return s, err
	}

	var gen llm.Generator
	gen, err = buildGenerator(ctx, s.cfg)
	if err != nil {
		return s, err
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(s.logger),
		pipeline.WithTemperatures(pipeline.Temperatures{
			Normalize:  s.cfg.Temperatures.Normalize,
			Extract:    s.cfg.Temperatures.Extract,
			Categorize: s.cfg.Temperatures.Categorize,
			Expand:     s.cfg.Temperatures.Expand,
			Enhance:    s.cfg.Temperatures.Enhance,
		}),
	}

	if s.cfg.EquivalenceFile != "" {
		var table pipeline.Equivalence
		table, err = pipeline.LoadEquivalence(s.cfg.EquivalenceFile)
		if err != nil {
			return s, err
		}
		opts = append(opts, pipeline.WithEquivalence(table))
	}

	var digestCache cache.DigestCache
	digestCache, s.close = buildCache(ctx, s.cfg, s.logger)
	opts = append(opts, pipeline.WithCache(digestCache))

	s.pipeline = pipeline.New(gen, opts...)

	if getVerbose() {
		fmt.Printf("Provider: %s\n", s.cfg.Provider)
	}

	return s, err
}

// buildGenerator returns the generator for the configured provider.
func buildGenerator(ctx context.Context, cfg config.Config) (gen llm.Generator, err error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		gen, err = llm.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GetGenerationModel())
	default:
		gen, err = llm.NewClaudeGenerator(cfg.AnthropicAPIKey, cfg.GetGenerationModel())
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to create %s generator", cfg.Provider)
		return gen, err
	}
	return gen, err
}

// buildCache returns Redis when an address is configured, otherwise an in-memory cache.
func buildCache(ctx context.Context, cfg config.Config, logger zerolog.Logger) (c cache.DigestCache, closeFn func()) {
	if cfg.Cache.RedisAddr == "" {
		c = cache.NewMemory()
		closeFn = func() {}
		return c, closeFn
	}

	r := cache.NewRedis(ctx, cfg.Cache.RedisAddr, cfg.CacheTTL(), logger)
	if getVerbose() && r.Available() {
		fmt.Printf("Using Redis digest cache at %s\n", cfg.Cache.RedisAddr)
	}

	c = r
	closeFn = func() {
		_ = r.Close()
	}
	return c, closeFn
}

// loadResume reads the resume and, when jdInput is set, attaches the job description.
func loadResume(path, jdInput string) (r resume.Resume, err error) {
	if getVerbose() {
		fmt.Printf("Loading resume from: %s\n", path)
	}

	r, err = resume.Load(path)
	if err != nil {
		return r, err
	}

	if jdInput == "" {
		return r, err
	}

	r.JobDescription, err = fetchAndLogJD(jdInput)
	return r, err
}

// fetchAndLogJD loads a job description from a file or URL. When a URL cannot be
// fetched the user is offered to paste the text instead.
func fetchAndLogJD(jdInput string) (jobDescription string, err error) {
	if getVerbose() {
		fmt.Printf("Loading job description from: %s\n", jdInput)
	}

	jobDescription, err = jd.Fetch(jdInput)
	if err != nil {
		if !isURL(jdInput) {
			return jobDescription, err
		}

		fmt.Printf("\nWarning: Failed to fetch job description from URL: %v\n", err)
		fmt.Println("This often happens with JavaScript-rendered pages (Lever, Workable, etc.)")
		fmt.Println("\nPlease paste the job description text below.")
		fmt.Println("When finished, press Ctrl+D (Unix/Mac) or Ctrl+Z then Enter (Windows):")
		fmt.Println()

		jobDescription, err = readStdin()
		if err != nil {
			return jobDescription, err
		}

		fmt.Printf("\nJob description received (%d characters)\n", len(jobDescription))
		return jobDescription, err
	}

	if getVerbose() {
		fmt.Printf("Job description loaded (%d characters)\n", len(jobDescription))
	}

	return jobDescription, err
}

func readStdin() (text string, err error) {
	scanner := bufio.NewScanner(os.Stdin)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if scanner.Err() != nil {
		err = errors.Wrap(scanner.Err(), "failed to read job description from stdin")
		return text, err
	}

	text = strings.TrimSpace(strings.Join(lines, "\n"))
	if text == "" {
		err = errors.New("no job description provided")
		return text, err
	}

	return text, err
}

func isURL(input string) (ok bool) {
	ok = strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
	return ok
}

func pdfOptions(cfg config.Config) (opts renderer.PDFOptions) {
	opts = renderer.PDFOptions{
		TemplatePath: cfg.Pandoc.TemplatePath,
		ClassPath:    cfg.Pandoc.ClassFile,
	}
	return opts
}

func getOutputDir(flagValue, configValue string) (outDir string) {
	outDir = flagValue
	if outDir == "" {
		outDir = configValue
	}
	return outDir
}

// defaultOutputPath builds <dir>/<name>-<suffix><ext> from the candidate's name.
func defaultOutputPath(dir, name, suffix, ext string) (path string) {
	base := sanitizeFilename(name)
	if base == "" {
		base = "resume"
	}
	path = filepath.Join(dir, base+"-"+suffix+ext)
	return path
}

// withSpinner runs fn behind a spinner unless verbose output is on.
func withSpinner(message string, fn func()) {
	if getVerbose() {
		fmt.Println(message)
		fn()
		return
	}

	s := newSpinner(message)
	s.start()
	fn()
	s.stopSpinner()
}

// spinner provides a simple text-based progress indicator.
type spinner struct {
	message string
	stop    chan bool
	done    chan bool
	mu      sync.Mutex
	active  bool
}

func newSpinner(message string) (s *spinner) {
	s = &spinner{
		message: message,
		stop:    make(chan bool),
		done:    make(chan bool),
	}
	return s
}

func (s *spinner) start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		chars := []string{"|", "/", "-", "\\"}
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		fmt.Printf("%s ", s.message)
		for {
			select {
			case <-s.stop:
				// Clear the line and ensure cursor is at start of new line
				fmt.Printf("\r%s\r", strings.Repeat(" ", len(s.message)+2))
				s.done <- true
				return
			case <-ticker.C:
				fmt.Printf("\r%s %s", s.message, chars[i%len(chars)])
				i++
			}
		}
	}()
}

func (s *spinner) stopSpinner() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.stop <- true
	<-s.done

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

// sanitizeFilename lowercases name and reduces it to [a-z0-9-].
func sanitizeFilename(name string) (sanitized string) {
	sanitized = strings.ToLower(name)

	// Replace spaces and special chars with hyphens
	sanitized = strings.Map(func(r rune) (result rune) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result = r
			return result
		}
		result = '-'
		return result
	}, sanitized)

	// Remove consecutive hyphens
	for strings.Contains(sanitized, "--") {
		sanitized = strings.ReplaceAll(sanitized, "--", "-")
	}

	// Trim hyphens from ends
	sanitized = strings.Trim(sanitized, "-")

	return sanitized
}
