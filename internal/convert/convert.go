// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the AMA to MDPI conversion pipeline: locate both main
// files, extract and transform the manuscript body, inject it into a copy of
// the template, migrate images and references, and persist a report.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/texport/internal/bibliography"
	"github.com/pdiddy/texport/internal/extract"
	"github.com/pdiddy/texport/internal/files"
	"github.com/pdiddy/texport/internal/inject"
	"github.com/pdiddy/texport/internal/locate"
	"github.com/pdiddy/texport/internal/report"
	"github.com/pdiddy/texport/internal/transform"
	"github.com/pdiddy/texport/pkg/types"
)

// Compiler builds the converted document to check that it compiles.
type Compiler interface {
	// Compile builds mainTex inside dir and returns an error describing
	// the failure when the build does not succeed.
	Compile(ctx context.Context, dir, mainTex string) error
}

// Recorder persists the outcome of a run.
type Recorder interface {
	Record(ctx context.Context, r *types.Report, cfg types.ConversionConfig) error
}

// Option configures a Converter.
type Option func(*Converter)

// WithCompiler enables the compile check.
func WithCompiler(c Compiler) Option {
	return func(cv *Converter) { cv.compiler = c }
}

// WithRecorder records every run, successful or not.
func WithRecorder(r Recorder) Option {
	return func(cv *Converter) { cv.recorder = r }
}

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(cv *Converter) { cv.log = l }
}

// Converter runs one conversion. Progress lines go to the writer given to
// New; diagnostics accumulate in the returned report.
type Converter struct {
	cfg      types.ConversionConfig
	w        io.Writer
	log      *slog.Logger
	compiler Compiler
	recorder Recorder
	newID    func() string
}

// New creates a Converter for cfg. Empty config fields take their defaults.
func New(cfg types.ConversionConfig, w io.Writer, opts ...Option) *Converter {
	c := &Converter{
		cfg:   cfg.WithDefaults(),
		w:     w,
		log:   slog.Default(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the pipeline and returns its report. Fatal problems stop the
// pipeline and are recorded in the report's errors; everything else is a
// warning. The report is written to the output directory, and recorded when
// a Recorder is set, on every exit path.
func (c *Converter) Run(ctx context.Context) *types.Report {
	cfg := c.cfg
	r := types.NewReport(c.newID())
	log := c.log.With("run_id", r.RunID)
	log.Info("conversion started", "source_dir", cfg.SourceDir, "template_dir", cfg.TemplateDir, "out_dir", cfg.OutDir)

	defer c.finish(ctx, r, log)

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		r.Failf("Cannot create out_dir %s: %v", cfg.OutDir, err)
		return r
	}

	if !files.IsDir(cfg.SourceDir) {
		r.Failf("source_dir does not exist: %s", cfg.SourceDir)
	}
	if !files.IsDir(cfg.TemplateDir) {
		r.Failf("template_dir does not exist: %s", cfg.TemplateDir)
	}
	if !r.OK() {
		return r
	}

	src, tmpl, ok := c.locateMains(r)
	if !ok {
		return r
	}
	fmt.Fprintf(c.w, "located: %s (source), %s (template)\n", src.Rel, tmpl.Rel)

	if err := files.CopyTree(cfg.TemplateDir, cfg.OutDir); err != nil {
		r.Failf("Copying the MDPI template into %s failed: %v", cfg.OutDir, err)
		return r
	}

	body, meta, ok := c.extractBody(src, r)
	if !ok {
		return r
	}
	fmt.Fprintf(c.w, "extracted: %d body lines\n", r.BodyLines)

	templatePath := filepath.Join(cfg.OutDir, filepath.FromSlash(tmpl.Rel))
	templateText, err := files.ReadText(templatePath)
	if err != nil {
		r.Failf("Reading the copied MDPI template main file failed: %v", err)
		return r
	}
	res, err := inject.Inject(templateText, body, meta, cfg.BibName)
	if err != nil {
		if errors.Is(err, inject.ErrTemplateStructure) {
			r.Failf("MDPI template main file is malformed; cannot locate begin/end document (%v).", err)
		} else {
			r.Failf("Injecting the body into the MDPI template failed: %v", err)
		}
		return r
	}
	r.Warn(res.Warnings...)
	fmt.Fprintf(c.w, "injected: %s\n", tmpl.Rel)

	c.copyImages(r)
	fmt.Fprintf(c.w, "copied: %d images\n", len(r.CopiedImages))

	c.mergeBibliography(r)
	if r.MergedBib != "" {
		fmt.Fprintf(c.w, "merged: %s\n", r.MergedBib)
	}

	outMain := filepath.Join(cfg.OutDir, cfg.OutMainTex)
	if err := files.WriteAtomic(outMain, []byte(res.Text)); err != nil {
		r.Failf("Writing %s failed: %v", outMain, err)
		return r
	}
	fmt.Fprintf(c.w, "wrote: %s\n", outMain)

	if c.compiler != nil {
		c.compile(ctx, r, log)
	}
	return r
}

func (c *Converter) finish(ctx context.Context, r *types.Report, log *slog.Logger) {
	r.FinishedAt = time.Now().UTC()

	if err := report.Save(c.cfg.OutDir, c.cfg.ReportName, r); err != nil {
		log.Error("saving report", "error", err)
	}
	if c.recorder != nil {
		if err := c.recorder.Record(ctx, r, c.cfg); err != nil {
			log.Error("recording run", "error", err)
		}
	}

	log.Info("conversion finished",
		"ok", r.OK(), "warnings", len(r.Warnings), "errors", len(r.Errors),
		"duration", r.FinishedAt.Sub(r.StartedAt))
}

// locateMains finds the main file in each root, recording every failure.
func (c *Converter) locateMains(r *types.Report) (src, tmpl types.CandidateFile, ok bool) {
	src, err := locate.Scan(c.cfg.SourceDir, c.cfg.PriorityNames)
	switch {
	case errors.Is(err, locate.ErrNotFound):
		r.Fail(`AMA main tex not found (missing \documentclass or \begin{document}).`)
	case err != nil:
		r.Failf("Scanning source_dir failed: %v", err)
	default:
		r.SourceMain = src.Rel
	}

	tmpl, err = locate.Scan(c.cfg.TemplateDir, c.cfg.PriorityNames)
	switch {
	case errors.Is(err, locate.ErrNotFound):
		r.Fail(`MDPI template main tex not found (missing \documentclass or \begin{document}).`)
	case err != nil:
		r.Failf("Scanning template_dir failed: %v", err)
	default:
		r.TemplateMain = tmpl.Rel
	}
	return src, tmpl, r.OK()
}

// extractBody pulls the body and metadata out of the source main file and
// runs the transformer pipeline over the body.
func (c *Converter) extractBody(src types.CandidateFile, r *types.Report) (string, types.Metadata, bool) {
	body, ok := extract.Body(src.Content)
	if !ok || body == "" {
		r.Fail("Cannot extract the body of the AMA main file (begin/end document not found).")
		return "", types.Metadata{}, false
	}

	meta, body := extract.Metadata(src.Content, body)
	if !meta.HasTitle {
		r.Warn(`\title{} not found; the MDPI title keeps its default.`)
	}
	if meta.HasAbstract {
		r.Warn(`Abstract extracted from the body and injected into the MDPI \abstract{} command.`)
	} else {
		r.Warn("Abstract section not found; the MDPI abstract keeps its default.")
	}

	body = transform.Apply(body, transform.Context{FiguresDir: c.cfg.FiguresDir}, r)
	r.BodyLines = countLines(body)
	return body, meta, true
}

// copyImages creates the figures directory and copies every image under the
// source root into it by base name. A failed copy is a warning.
func (c *Converter) copyImages(r *types.Report) {
	figDir := filepath.Join(c.cfg.OutDir, c.cfg.FiguresDir)
	if err := os.MkdirAll(figDir, 0o755); err != nil {
		r.Warnf("Cannot create figures directory %s: %v", figDir, err)
	}

	images, err := files.Collect(c.cfg.SourceDir, c.cfg.ImageExts)
	if err != nil {
		r.Warnf("Collecting images failed: %v", err)
		return
	}

	for _, img := range images {
		dst := filepath.Join(figDir, filepath.Base(img))
		if err := files.Copy(img, dst); err != nil {
			r.Warnf("Failed to copy image %s -> %s: %v", img, dst, err)
			continue
		}
		r.CopiedImages = append(r.CopiedImages, filepath.ToSlash(filepath.Join(c.cfg.FiguresDir, filepath.Base(img))))
	}
}

// mergeBibliography merges every .bib file under the source root into the
// output bibliography.
func (c *Converter) mergeBibliography(r *types.Report) {
	bibs, err := files.Collect(c.cfg.SourceDir, c.cfg.BibExts)
	if err != nil {
		r.Warnf("Collecting bibliography files failed: %v", err)
		return
	}
	if len(bibs) == 0 {
		r.Warn("No .bib files found; citations may not compile.")
		return
	}

	ok, warns, err := bibliography.MergeFiles(bibs, filepath.Join(c.cfg.OutDir, c.cfg.BibName))
	r.Warn(warns...)
	switch {
	case err != nil:
		r.Warnf("Bibliography merge failed: %v", err)
	case ok:
		r.MergedBib = filepath.ToSlash(c.cfg.BibName)
	default:
		r.Warnf("Bibliography merge produced no entries; %s was not generated (source .bib files may be empty).", c.cfg.BibName)
	}
}

func (c *Converter) compile(ctx context.Context, r *types.Report, log *slog.Logger) {
	if err := c.compiler.Compile(ctx, c.cfg.OutDir, c.cfg.OutMainTex); err != nil {
		r.Compile = types.CompileFailed
		r.Warnf("Compile check failed: %v", err)
		log.Warn("compile check failed", "error", err)
		fmt.Fprintf(c.w, "compile: failed\n")
		return
	}
	r.Compile = types.CompileOK
	fmt.Fprintf(c.w, "compile: ok\n")
}

// countLines counts lines the way a line splitter would: a trailing newline
// does not start a new line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
