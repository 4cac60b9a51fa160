package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/translate"
	"github.com/spf13/cobra"
)

func newCapabilitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities [BACKEND]",
		Short: "Show what each back-end supports",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := translate.Backends()
			if len(args) == 1 {
				k, ok := backend.ParseKind(args[0])
				if !ok {
					return fmt.Errorf("unknown backend %q", args[0])
				}
				kinds = []backend.Kind{k}
			}

			rows := capabilityRows(kinds)
			if a.format() == formatMarkdown {
				fmt.Fprintln(cmd.OutOrStdout(), renderMarkdown(markdownTable(rows), 0))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), table(rows, func(s string) string { return headerStyle.Render(s) }))
			return nil
		},
	}
}

// capabilityRows builds one column per back-end and one row per feature.
func capabilityRows(kinds []backend.Kind) [][]string {
	header := []string{"feature"}
	caps := make([]backend.Capabilities, 0, len(kinds))
	for _, k := range kinds {
		c, ok := translate.Capabilities(k)
		if !ok {
			continue
		}
		header = append(header, k.String())
		caps = append(caps, c)
	}

	rows := [][]string{header}
	add := func(feature string, cell func(backend.Capabilities) string) {
		row := []string{feature}
		for _, c := range caps {
			row = append(row, cell(c))
		}
		rows = append(rows, row)
	}

	add("max seed", func(c backend.Capabilities) string { return strconv.FormatInt(c.MaxSeed, 10) })
	add(params.FieldThreads, func(c backend.Capabilities) string {
		switch {
		case c.MaxThreads < 0:
			return "no"
		case c.MaxThreads == 0:
			return "yes"
		default:
			return "max " + strconv.Itoa(c.MaxThreads)
		}
	})
	add(params.FieldTimeLimit, func(c backend.Capabilities) string { return yesNo(c.HasTimeLimit) })
	add(params.FieldEnableOutput, func(c backend.Capabilities) string { return yesNo(c.HasOutput) })
	add(params.FieldLPAlgorithm, func(c backend.Capabilities) string {
		if len(c.LPAlgorithms) == 0 {
			return "no"
		}
		names := make([]string, len(c.LPAlgorithms))
		for i, alg := range c.LPAlgorithms {
			names[i] = strings.TrimSuffix(alg.String(), "_simplex")
		}
		return strings.Join(names, ",")
	})
	for _, field := range params.EmphasisFields {
		add(field, func(c backend.Capabilities) string {
			if c.Supports(field) {
				return "graded"
			}
			return "off only"
		})
	}
	add("settings list", func(c backend.Capabilities) string { return yesNo(c.AcceptsSettings) })

	return rows
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
