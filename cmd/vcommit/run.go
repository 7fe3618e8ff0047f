package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vcommit/internal/config"
	"github.com/vango-dev/vcommit/internal/errors"
	"github.com/vango-dev/vcommit/pkg/dom"
	"github.com/vango-dev/vcommit/pkg/runtime"
	"github.com/vango-dev/vcommit/pkg/scenario"
)

func runCmd(flags *globalFlags) *cobra.Command {
	var (
		journalPath string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "run <scenario|pattern>...",
		Short: "Replay a scenario and print each pass",
		Long: `Replay a scenario file and print a summary of each pass.

Scenario names are resolved against the scenario directory from
vcommit.json unless they exist as given. Glob patterns such as
"**/*.yaml" are matched inside the scenario directory. The command
fails when a pass reports structural errors.

Examples:
  vcommit run list.yaml
  vcommit run '**/*.yaml'
  vcommit run list.yaml --json
  vcommit run list.yaml --journal list.vcj`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("E200").WithSuggestion("vcommit run <scenario>")
			}
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			names, err := expandScenarios(cfg, args)
			if err != nil {
				return err
			}
			if journalPath != "" && len(names) > 1 {
				return errors.New("E200").WithDetail("--journal takes a single scenario.")
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())
			metrics := newMetrics(cfg, prometheus.NewRegistry())
			out := cmd.OutOrStdout()

			var results []*scenario.Result
			for _, name := range names {
				res, err := replay(cmd.Context(), cfg, logger, name, metrics)
				if err != nil {
					return err
				}
				results = append(results, res)
				if journalPath != "" {
					if err := writeJournalFile(res, journalPath); err != nil {
						return err
					}
				}
				if !asJSON {
					printResult(out, res)
					if journalPath != "" {
						success(out, "Journal written to %s", journalPath)
					}
				}
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				var v any = results
				if len(results) == 1 {
					v = results[0]
				}
				if err := enc.Encode(v); err != nil {
					return err
				}
			}
			return checkResults(results)
		},
	}

	cmd.Flags().StringVarP(&journalPath, "journal", "j", "", "Write the binary journal to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the passes as JSON")

	return cmd
}

// newMetrics registers the runtime pass metrics with reg, or returns nil
// when metrics are disabled. Collectors register once per registry, so a
// command shares one Metrics across all the scenarios it replays.
func newMetrics(cfg *config.Config, reg prometheus.Registerer) *runtime.Metrics {
	if cfg.Metrics.Disabled {
		return nil
	}
	return runtime.NewMetrics(
		runtime.WithNamespace(cfg.Metrics.Namespace),
		runtime.WithRegistry(reg),
	)
}

// replay loads the named scenario and runs it with the configured document
// and container. Pass metrics go to metrics when it is non-nil.
func replay(ctx context.Context, cfg *config.Config, logger *slog.Logger, name string, metrics *runtime.Metrics, opts ...scenario.Option) (*scenario.Result, error) {
	sc, err := scenario.Load(cfg.ScenarioPath(name))
	if err != nil {
		return nil, err
	}

	rtOpts := []runtime.Option{}
	if metrics != nil {
		rtOpts = append(rtOpts, runtime.WithMetrics(metrics))
	}

	runnerOpts := []scenario.Option{
		scenario.WithLogger(logger),
		scenario.WithRuntimeOptions(rtOpts...),
		scenario.WithContainer(cfg.Scenario.Container),
	}
	if path := cfg.DocumentPath(); path != "" {
		doc, err := loadDocument(path)
		if err != nil {
			return nil, err
		}
		runnerOpts = append(runnerOpts, scenario.WithDocument(doc))
	}
	runnerOpts = append(runnerOpts, opts...)

	if ctx == nil {
		ctx = context.Background()
	}
	return scenario.NewRunner(runnerOpts...).Run(ctx, sc)
}

func loadDocument(path string) (*dom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New("E160").WithNode(path).Wrap(err)
	}
	defer f.Close()
	doc, err := dom.Parse(f)
	if err != nil {
		return nil, errors.New("E160").WithNode(path).Wrap(err)
	}
	return doc, nil
}

func writeJournalFile(res *scenario.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := res.WriteJournal(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printResult(w io.Writer, res *scenario.Result) {
	fmt.Fprintf(w, "%s\n\n", res.Name)
	for _, p := range res.Passes {
		if len(p.Errors) == 0 {
			success(w, "pass %d %s: %d mutations, %d effects (%s)", p.Pass, p.Name, len(p.Mutations), p.Effects, p.Duration)
		} else {
			warn(w, "pass %d %s: %d mutations, %d errors", p.Pass, p.Name, len(p.Mutations), len(p.Errors))
			for _, e := range p.Errors {
				info(w, "%s", e)
			}
		}
		for _, line := range p.Log {
			info(w, "%s", line)
		}
		if len(p.Pending) > 0 {
			info(w, "pending updates: %v", p.Pending)
		}
		info(w, "%s", p.HTML)
	}
	fmt.Fprintln(w)
}

// expandScenarios replaces glob arguments with the scenario files they match.
func expandScenarios(cfg *config.Config, args []string) ([]string, error) {
	var names []string
	for _, arg := range args {
		if !config.IsPattern(arg) {
			names = append(names, arg)
			continue
		}
		matches, err := cfg.MatchScenarios(arg)
		if err != nil {
			return nil, err
		}
		names = append(names, matches...)
	}
	return names, nil
}

// checkResult fails when any pass reported structural errors.
func checkResult(res *scenario.Result) error {
	return checkResults([]*scenario.Result{res})
}

func checkResults(results []*scenario.Result) error {
	failed, total := 0, 0
	for _, res := range results {
		for _, p := range res.Passes {
			total++
			if len(p.Errors) > 0 {
				failed++
			}
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d passes reported structural errors", failed, total)
}
