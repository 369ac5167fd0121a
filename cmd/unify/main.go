package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/charmbracelet/fang"
	"github.com/kr/pretty"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vito/unify/pkg/elab"
	"github.com/vito/unify/pkg/headed"
	"github.com/vito/unify/pkg/ioctx"
	"github.com/vito/unify/pkg/problem"
	"github.com/vito/unify/pkg/report"
)

// Config holds the application configuration
type Config struct {
	Debug   bool
	JSON    bool
	NoColor bool
	Jobs    int
	Dump    bool
}

func main() {
	ctx := context.Background()
	ctx = ioctx.StdoutToContext(ctx, os.Stdout)
	ctx = ioctx.StderrToContext(ctx, os.Stderr)
	if err := fang.Execute(ctx, rootCmd(),
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "unify",
		Short: "Higher-order unification with constructor-headed inversion",
		Long: `unify elaborates definitions and solves unification problems written in
TOML or YAML problem files, reporting the solution of every metavariable or
exactly which ones could not be solved.`,
		Example: `  # Check every definition and problem of a file
  unify check lists.toml

  # Solve only the [[problem]] entries, as JSON
  unify solve --json lists.toml

  # Show which functions are constructor-headed
  unify classify lists.toml`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&cfg.JSON, "json", false, "Print reports as JSON")
	rootCmd.PersistentFlags().BoolVar(&cfg.NoColor, "no-color", false, "Disable styled output")
	rootCmd.PersistentFlags().IntVarP(&cfg.Jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Number of files to check in parallel")
	rootCmd.PersistentFlags().BoolVar(&cfg.Dump, "dump", false, "Dump the raw reports to stderr")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "check FILE...",
			Short: "Check all definitions and problems",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return check(cmd.Context(), cfg, args, func(elab.Report) bool { return true })
			},
		},
		&cobra.Command{
			Use:   "solve FILE...",
			Short: "Solve the problems of a file",
			Long: `Solve the [[problem]] entries of each file. Definitions are still
elaborated so problems can refer to them, but only problems are reported.`,
			Args: cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return check(cmd.Context(), cfg, args, func(r elab.Report) bool {
					return r.Kind == elab.ProblemKind
				})
			},
		},
		&cobra.Command{
			Use:   "classify FILE",
			Short: "Classify each function as constructor-headed or not",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return classify(cmd.Context(), cfg, args[0])
			},
		},
	)

	return rootCmd
}

func setupLogging(ctx context.Context, cfg Config) context.Context {
	// Set up slog with appropriate level
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(ioctx.StderrFromContext(ctx), &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return ioctx.LoggerToContext(ctx, logger)
}

func outputMode(cfg Config, w io.Writer) report.Mode {
	if cfg.NoColor || os.Getenv("NO_COLOR") != "" {
		return report.Plain
	}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return report.Styled
	}
	return report.Plain
}

func projectOptions(ctx context.Context) problem.Options {
	cwd, err := os.Getwd()
	if err != nil {
		return problem.Options{}
	}
	opts, err := problem.FindProjectOptions(cwd)
	if err != nil {
		ioctx.LoggerFromContext(ctx).Warn("ignoring project config", "error", err.Error())
		return problem.Options{}
	}
	return opts
}

func check(ctx context.Context, cfg Config, paths []string, keep func(elab.Report) bool) error {
	ctx = setupLogging(ctx, cfg)
	defaults := projectOptions(ctx)

	results := make([][]elab.Report, len(paths))
	eg, egctx := errgroup.WithContext(ctx)
	if cfg.Jobs > 0 {
		eg.SetLimit(cfg.Jobs)
	}
	for i, path := range paths {
		eg.Go(func() error {
			reports, err := checkFile(egctx, path, defaults)
			if err != nil {
				return err
			}
			results[i] = reports
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	var reports []elab.Report
	for _, rs := range results {
		for _, r := range rs {
			if keep(r) {
				reports = append(reports, r)
			}
		}
	}

	if cfg.Dump {
		pretty.Fprintf(ioctx.StderrFromContext(ctx), "%# v\n", reports)
	}

	stdout := ioctx.StdoutFromContext(ctx)
	var err error
	if cfg.JSON {
		err = report.WriteJSON(stdout, reports)
	} else {
		err = report.Write(stdout, reports, outputMode(cfg, stdout))
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range reports {
		if r.Status() != elab.Accepted {
			failed++
		}
	}
	if failed > 0 {
		return errors.Errorf("%d of %d not accepted", failed, len(reports))
	}
	return nil
}

func checkFile(ctx context.Context, path string, defaults problem.Options) ([]elab.Report, error) {
	mod, err := load(path)
	if err != nil {
		return nil, err
	}
	sess := elab.Open(ctx, mod, defaults)
	return sess.Run(ctx, mod), nil
}

func load(path string) (*problem.Module, error) {
	f, err := problem.Load(path)
	if err != nil {
		return nil, err
	}
	mod, err := f.Build()
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return mod, nil
}

type classification struct {
	Function string   `json:"function"`
	Verdict  string   `json:"verdict"`
	Heads    []string `json:"heads"`
	Reason   string   `json:"reason,omitempty"`
}

func classify(ctx context.Context, cfg Config, path string) error {
	ctx = setupLogging(ctx, cfg)
	mod, err := load(path)
	if err != nil {
		return err
	}
	sigs := elab.Open(ctx, mod, projectOptions(ctx)).Heads().All()

	if cfg.Dump {
		pretty.Fprintf(ioctx.StderrFromContext(ctx), "%# v\n", sigs)
	}

	stdout := ioctx.StdoutFromContext(ctx)
	if cfg.JSON {
		out := make([]classification, len(sigs))
		for i, s := range sigs {
			out[i] = classifyJSON(s)
		}
		return writeJSON(stdout, out)
	}
	for _, s := range sigs {
		if _, err := fmt.Fprintln(stdout, s); err != nil {
			return err
		}
	}
	return nil
}

func classifyJSON(s headed.Signature) classification {
	c := classification{
		Function: s.Function,
		Verdict:  s.Verdict.String(),
		Heads:    []string{},
		Reason:   s.Reason,
	}
	for _, h := range s.Heads {
		c.Heads = append(c.Heads, h.String())
	}
	return c
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
