package main

import (
	"fmt"
	"strings"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/params/override"
	"github.com/germanamz/solveparams/pkg/translate"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

func newDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff FILE",
		Short: "Show what the request's override changes",
		Long: `Translates the request twice, without and with its override, and prints
a unified diff of the two settings lists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			diff, err := a.overrideDiff(args[0])
			if err != nil {
				return err
			}
			if diff == "" {
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("override changes nothing"))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), colorizeDiff(diff))
			return nil
		},
	}
}

func (a *app) overrideDiff(path string) (string, error) {
	req, err := translate.LoadRequest(path)
	if err != nil {
		return "", err
	}
	forced, hasForced, err := a.backend()
	if err != nil {
		return "", err
	}
	a.applyFlags(&req, forced, hasForced)

	tr := translate.New(translate.WithLogger(a.log))

	base := req
	base.Override = override.None()
	without, err := tr.Translate(base)
	if err != nil {
		return "", fmt.Errorf("without override: %w", err)
	}
	with, err := tr.Translate(req)
	if err != nil {
		return "", fmt.Errorf("with override: %w", err)
	}

	return computeDiff(req.Backend.String(), without.Settings.Entries(), with.Settings.Entries())
}

// computeDiff returns a unified diff of two settings lists, one entry per
// line. It is empty when the lists are equal.
func computeDiff(label string, before, after []backend.Setting) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(settingLines(before)),
		B:        difflib.SplitLines(settingLines(after)),
		FromFile: label + " (without override)",
		ToFile:   label + " (with override)",
		Context:  3,
	}

	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff: %w", err)
	}
	return out, nil
}

func settingLines(list []backend.Setting) string {
	var b strings.Builder
	for _, s := range list {
		b.WriteString(s.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func colorizeDiff(diff string) string {
	lines := strings.SplitAfter(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			lines[i] = dimStyle.Render(strings.TrimSuffix(line, "\n")) + suffixNewline(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = addedStyle.Render(strings.TrimSuffix(line, "\n")) + suffixNewline(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removedStyle.Render(strings.TrimSuffix(line, "\n")) + suffixNewline(line)
		}
	}
	return strings.Join(lines, "")
}

func suffixNewline(line string) string {
	if strings.HasSuffix(line, "\n") {
		return "\n"
	}
	return ""
}
