package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/metrics"
	"github.com/germanamz/solveparams/pkg/strictness"
	"github.com/germanamz/solveparams/pkg/translate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// maxConcurrentFiles bounds how many request files are translated at once.
const maxConcurrentFiles = 8

// fileResult is the outcome of translating one request file.
type fileResult struct {
	Path     string
	Backend  backend.Kind
	Settings []backend.Setting
	Warnings []strictness.Warning
	Err      error
}

func newTranslateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "translate FILE...",
		Short: "Translate request files and print the resulting settings",
		Long: `Translates each request file and prints the back-end settings it
produces together with any adjusted parameters. The command fails when any
request is rejected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			var m *metrics.Metrics
			if a.v.GetBool("metrics") {
				m = metrics.New(reg)
			}

			results, err := a.translateFiles(args, m)
			if err != nil {
				return err
			}

			out, err := a.render(results)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)

			if m != nil {
				if err := writeMetrics(cmd.ErrOrStderr(), reg); err != nil {
					return err
				}
			}

			return failures(results)
		},
	}
}

// translateFiles translates paths concurrently. Per-file failures are kept
// in the results; the returned error is for flag problems only.
func (a *app) translateFiles(paths []string, m *metrics.Metrics) ([]fileResult, error) {
	forced, hasForced, err := a.backend()
	if err != nil {
		return nil, err
	}

	results := make([]fileResult, len(paths))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFiles)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = a.translateFile(path, forced, hasForced, m)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (a *app) translateFile(path string, forced backend.Kind, hasForced bool, m *metrics.Metrics) fileResult {
	req, err := translate.LoadRequest(path)
	if err != nil {
		return fileResult{Path: path, Err: err}
	}
	a.applyFlags(&req, forced, hasForced)

	log := a.log.With(zap.String("request_id", uuid.NewString()), zap.String("file", path))
	res, err := translate.New(translate.WithLogger(log), translate.WithMetrics(m)).Translate(req)
	if err != nil {
		return fileResult{Path: path, Backend: req.Backend, Err: err}
	}

	return fileResult{
		Path:     path,
		Backend:  res.Backend,
		Settings: res.Settings.Entries(),
		Warnings: res.Warnings,
	}
}

func (a *app) applyFlags(req *translate.Request, forced backend.Kind, hasForced bool) {
	if hasForced {
		req.Backend = forced
	}
	if a.strict() {
		req.Parameters.Strictness.BadParameter = true
	}
}

// writeMetrics prints every gathered family in the Prometheus text format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// failures joins the errors of all failed results.
func failures(results []fileResult) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}
	return errors.Join(errs...)
}

func (a *app) render(results []fileResult) (string, error) {
	switch a.format() {
	case formatYAML:
		return renderYAML(results)
	case formatMarkdown:
		return renderMarkdown(markdownResults(results), 0) + "\n", nil
	default:
		return renderText(results), nil
	}
}

func renderText(results []fileResult) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s\n", fileStyle.Render(r.Path), dimStyle.Render(r.Backend.String()))

		if r.Err != nil {
			fmt.Fprintf(&b, "  %s\n", errorStyle.Render("rejected: "+r.Err.Error()))
			continue
		}

		if len(r.Settings) == 0 {
			fmt.Fprintf(&b, "  %s\n", dimStyle.Render("(back-end defaults)"))
		}
		width := 0
		for _, s := range r.Settings {
			width = max(width, columnWidth(s.Name))
		}
		for _, s := range r.Settings {
			fmt.Fprintf(&b, "  %s  %s\n", nameStyle.Render(padRight(s.Name, width)), s.Value)
		}
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  %s\n", warningStyle.Render("warning: "+w.String()))
		}
	}
	return b.String()
}

type yamlResult struct {
	File     string            `yaml:"file"`
	Backend  string            `yaml:"backend,omitempty"`
	Settings []backend.Setting `yaml:"settings,omitempty"`
	Warnings []string          `yaml:"warnings,omitempty"`
	Error    string            `yaml:"error,omitempty"`
}

func renderYAML(results []fileResult) (string, error) {
	docs := make([]yamlResult, 0, len(results))
	for _, r := range results {
		doc := yamlResult{File: r.Path, Backend: string(r.Backend), Settings: r.Settings}
		for _, w := range r.Warnings {
			doc.Warnings = append(doc.Warnings, w.String())
		}
		if r.Err != nil {
			doc.Error = r.Err.Error()
		}
		docs = append(docs, doc)
	}

	data, err := yaml.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("render yaml: %w", err)
	}
	return string(data), nil
}

func markdownResults(results []fileResult) string {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "## %s (%s)\n\n", r.Path, r.Backend)
		if r.Err != nil {
			fmt.Fprintf(&b, "**Rejected:** %s\n\n", r.Err)
			continue
		}

		rows := [][]string{{"Setting", "Value"}}
		for _, s := range r.Settings {
			rows = append(rows, []string{"`" + s.Name + "`", s.Value})
		}
		b.WriteString(markdownTable(rows))
		b.WriteByte('\n')

		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		if len(r.Warnings) > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
