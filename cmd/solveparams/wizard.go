package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/params/optional"
	"github.com/germanamz/solveparams/pkg/strictness"
	"github.com/germanamz/solveparams/pkg/translate"
	"github.com/spf13/cobra"
)

// wizardAnswers holds the raw form values. Empty strings mean "unset".
type wizardAnswers struct {
	Backend     string
	Strict      bool
	Output      string // "", "on", "off"
	TimeLimit   string
	Threads     string
	RandomSeed  string
	LPAlgorithm string
	Presolve    string
	Cuts        string
	Heuristics  string
	Scaling     string
}

func newWizardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Build a request file interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}

			answers, err := runWizard()
			if err != nil {
				return err
			}
			req, err := buildRequest(answers)
			if err != nil {
				return err
			}
			data, err := req.Marshal()
			if err != nil {
				return err
			}

			if path == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("write request: %w", err)
			}
			a.log.Debug("request written")
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("wrote "+path))
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "request.yaml", "file to write, - for stdout")

	return cmd
}

func backendOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(backend.Kinds))
	for _, k := range backend.Kinds {
		opts = append(opts, huh.NewOption(k.String(), k.String()))
	}
	return opts
}

func emphasisOptions() []huh.Option[string] {
	opts := []huh.Option[string]{
		huh.NewOption("unspecified", ""),
		huh.NewOption("off", string(params.EmphasisOff)),
	}
	for _, e := range params.GradedEmphasis {
		opts = append(opts, huh.NewOption(e.String(), string(e)))
	}
	return opts
}

func runWizard() (wizardAnswers, error) {
	var w wizardAnswers

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Back-end").Options(backendOptions()...).Value(&w.Backend),
			huh.NewConfirm().Title("Reject unsupported parameters?").Value(&w.Strict),
			huh.NewSelect[string]().Title("Solver output").Options(
				huh.NewOption("default", ""),
				huh.NewOption("on", "on"),
				huh.NewOption("off", "off"),
			).Value(&w.Output),
		),
		huh.NewGroup(
			huh.NewInput().Title("Time limit").Description("e.g. 30s, 5m; empty for none").Value(&w.TimeLimit).Validate(optionalDuration),
			huh.NewInput().Title("Threads").Description("empty for back-end default").Value(&w.Threads).Validate(optionalInt),
			huh.NewInput().Title("Random seed").Description("empty for back-end default").Value(&w.RandomSeed).Validate(optionalInt),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("LP algorithm").Options(
				huh.NewOption("unspecified", ""),
				huh.NewOption("primal simplex", string(params.LPAlgorithmPrimalSimplex)),
				huh.NewOption("dual simplex", string(params.LPAlgorithmDualSimplex)),
				huh.NewOption("barrier", string(params.LPAlgorithmBarrier)),
			).Value(&w.LPAlgorithm),
			huh.NewSelect[string]().Title("Presolve").Options(emphasisOptions()...).Value(&w.Presolve),
			huh.NewSelect[string]().Title("Cuts").Options(emphasisOptions()...).Value(&w.Cuts),
			huh.NewSelect[string]().Title("Heuristics").Options(emphasisOptions()...).Value(&w.Heuristics),
			huh.NewSelect[string]().Title("Scaling").Options(emphasisOptions()...).Value(&w.Scaling),
		),
	)

	if err := form.Run(); err != nil {
		return wizardAnswers{}, err
	}
	return w, nil
}

func optionalDuration(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := time.ParseDuration(strings.TrimSpace(s))
	return err
}

func optionalInt(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err
}

// buildRequest converts form answers into a request. The result is not
// normalized; translate reports invalid values the usual way.
func buildRequest(w wizardAnswers) (translate.Request, error) {
	kind, ok := backend.ParseKind(w.Backend)
	if !ok {
		return translate.Request{}, fmt.Errorf("unknown backend %q", w.Backend)
	}

	req := translate.Request{
		Backend: kind,
		Parameters: params.Common{
			Strictness:  strictness.Policy{BadParameter: w.Strict},
			LPAlgorithm: params.LPAlgorithm(w.LPAlgorithm),
			Presolve:    params.Emphasis(w.Presolve),
			Cuts:        params.Emphasis(w.Cuts),
			Heuristics:  params.Emphasis(w.Heuristics),
			Scaling:     params.Emphasis(w.Scaling),
		},
	}

	switch w.Output {
	case "on":
		req.Parameters.EnableOutput = optional.Some(true)
	case "off":
		req.Parameters.EnableOutput = optional.Some(false)
	}

	if s := strings.TrimSpace(w.TimeLimit); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return translate.Request{}, fmt.Errorf("time limit: %w", err)
		}
		req.Parameters.TimeLimit = optional.Some(d)
	}
	if s := strings.TrimSpace(w.Threads); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return translate.Request{}, fmt.Errorf("threads: %w", err)
		}
		req.Parameters.Threads = optional.Some(n)
	}
	if s := strings.TrimSpace(w.RandomSeed); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return translate.Request{}, fmt.Errorf("random seed: %w", err)
		}
		req.Parameters.RandomSeed = optional.Some(n)
	}

	return req, nil
}
