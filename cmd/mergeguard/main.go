package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fwojciec/mergeguard"
	"github.com/fwojciec/mergeguard/chroma"
	"github.com/fwojciec/mergeguard/config"
	"github.com/fwojciec/mergeguard/fs"
	"github.com/fwojciec/mergeguard/gemini"
	"github.com/fwojciec/mergeguard/git"
	"github.com/fwojciec/mergeguard/gitdiff"
	"github.com/fwojciec/mergeguard/jsonl"
	"github.com/fwojciec/mergeguard/lipgloss"
	"github.com/fwojciec/mergeguard/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// App encapsulates the application logic for testing.
type App struct {
	Git     mergeguard.GitRunner
	Parser  mergeguard.Parser
	Writer  mergeguard.ReportWriter
	Saver   mergeguard.ResultSaver // optional JSONL sidecar
	Printer mergeguard.StatusPrinter

	// NewReasoner is called before any repository access so a missing
	// credential fails fast.
	NewReasoner func(ctx context.Context) (mergeguard.Reasoner, error)

	RepoPath     string
	Remote       string
	TargetBranch string
	Threshold    float64
	Workers      int
	MaxAttempts  int
	BackoffFn    func(attempt int) time.Duration
}

// Run executes the full check and writes the report. On failure the failure
// report is written instead and the error is returned.
func (a *App) Run(ctx context.Context) (*mergeguard.Report, error) {
	report, err := a.check(ctx)
	if err != nil {
		a.fail(err)
		return nil, err
	}

	if err := a.Writer.WriteReport(mergeguard.RenderReport(report)); err != nil {
		err = fmt.Errorf("write report: %w", err)
		a.Printer.PrintFailure(err)
		return nil, err
	}
	if a.Saver != nil {
		if err := a.Saver.Save(report); err != nil {
			err = fmt.Errorf("save results: %w", err)
			a.Printer.PrintFailure(err)
			return nil, err
		}
	}

	a.Printer.PrintReport(report)
	log.Info().
		Str("verdict", string(report.Verdict)).
		Int("conflicts", len(report.Results)).
		Msg("check complete")
	return report, nil
}

func (a *App) check(ctx context.Context) (*mergeguard.Report, error) {
	reasoner, err := a.NewReasoner(ctx)
	if err != nil {
		return nil, err
	}

	loader := &mergeguard.Loader{
		Git:          a.Git,
		RepoPath:     a.RepoPath,
		Remote:       a.Remote,
		TargetBranch: a.TargetBranch,
	}
	state, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	moves, err := (&mergeguard.MoveDetector{
		Git: a.Git, Parser: a.Parser, RepoPath: a.RepoPath, Threshold: a.Threshold,
	}).Detect(ctx, state)
	if err != nil {
		return nil, err
	}

	mods, err := (&mergeguard.ModificationDetector{
		Git: a.Git, Parser: a.Parser, RepoPath: a.RepoPath, Threshold: a.Threshold,
	}).Detect(ctx, state)
	if err != nil {
		return nil, err
	}

	conflicts := mergeguard.BuildConflicts(moves, mods)
	log.Info().
		Int("moves", len(moves)).
		Int("modifications", len(mods)).
		Int("conflicts", len(conflicts)).
		Msg("detection complete")

	analyzer := &mergeguard.Analyzer{
		Reasoner:    reasoner,
		Workers:     a.Workers,
		MaxAttempts: a.MaxAttempts,
		BackoffFn:   a.BackoffFn,
	}
	return analyzer.Analyze(ctx, *state, conflicts)
}

// fail reports err on the console and in the report artifact.
func (a *App) fail(err error) {
	log.Error().Err(err).Str("kind", string(mergeguard.KindOf(err))).Msg("check failed")
	a.Printer.PrintFailure(err)
	if werr := a.Writer.WriteReport(mergeguard.RenderFailureReport(err)); werr != nil {
		log.Error().Err(werr).Msg("failed to write failure report")
	}
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	code := mergeguard.ExitClean
	root := newRootCmd(stdout, stderr, &code)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil && code == mergeguard.ExitClean {
		// Usage errors never reached RunE.
		fmt.Fprintf(stderr, "Error: %v\n", err)
		code = mergeguard.ExitPrecondition
	}
	return code
}

func newRootCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "mergeguard",
		Short:         "Detect files moved on this branch that were modified in place on the target branch",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, configPath, stderr, code)
			if err != nil {
				return err
			}
			report, err := newApp(cfg, stdout).Run(cmd.Context())
			*code = mergeguard.ExitCode(report, err)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default .mergeguard.yaml in the working directory)")
	pf.String("report", config.DefaultReportFile, "report file")
	pf.String("jsonl", "", "JSONL results file (disabled when empty)")
	pf.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.String("log-format", config.DefaultLogFormat, "log format (console, json)")

	f := root.Flags()
	f.String("repo", config.DefaultRepositoryPath, "repository path")
	f.String("remote", config.DefaultRemote, "remote holding the target branch")
	f.String("target", config.DefaultTargetBranch, "target branch")
	f.Float64("threshold", config.DefaultRenameThreshold, "rename similarity threshold (0, 1]")
	f.String("model", config.DefaultModel, "Gemini model")
	f.Int("workers", config.DefaultWorkers, "conflicts analyzed concurrently")
	f.Int("max-attempts", config.DefaultMaxAttempts, "attempts per conflict before giving up")
	f.Duration("timeout", config.DefaultTimeout, "timeout per analysis request")
	f.Duration("backoff", config.DefaultBackoff, "base delay between attempts")
	f.Bool("cache", false, "cache resolutions on disk")
	f.String("cache-dir", "", "resolution cache directory (default $XDG_CACHE_HOME/mergeguard)")
	f.String("theme", config.DefaultTheme, "console theme (dark, light)")

	root.AddCommand(newServeCmd(stderr, code, &configPath))
	return root
}

func newServeCmd(stderr io.Writer, code *int, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest report over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configPath, stderr, code)
			if err != nil {
				return err
			}
			srv := server.NewServer(cfg.ReportPath(), cfg.ResultsPath())
			if err := srv.ListenAndServe(cmd.Context(), cfg.Server.Addr); err != nil {
				log.Error().Err(err).Msg("status server failed")
				*code = mergeguard.ExitFailure
			}
			return nil
		},
	}
	cmd.Flags().String("addr", config.DefaultServerAddr, "listen address")
	return cmd
}

func loadConfig(cmd *cobra.Command, configPath string, stderr io.Writer, code *int) (*config.Config, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		fmt.Fprintf(stderr, "Error (%s): %v\n", mergeguard.KindOf(err), err)
		*code = mergeguard.ExitCode(nil, err)
		return nil, err
	}
	setupLogging(cfg.Logging, stderr)
	return cfg, nil
}

func setupLogging(cfg config.LoggingConfig, w io.Writer) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
}

func newApp(cfg *config.Config, stdout io.Writer) *App {
	writer := fs.NewReportWriter(cfg.ReportPath())
	log.Debug().Str("path", writer.Path()).Msg("report artifact")

	app := &App{
		Git:          git.NewRunner(),
		Parser:       gitdiff.NewParser(),
		Writer:       writer,
		Printer:      lipgloss.NewPrinter(stdout, lipgloss.ThemeByName(cfg.Output.Theme), chroma.NewTokenizer()),
		RepoPath:     cfg.Repository.Path,
		Remote:       cfg.Repository.Remote,
		TargetBranch: cfg.Repository.TargetBranch,
		Threshold:    cfg.Detection.RenameThreshold,
		Workers:      cfg.Analysis.Workers,
		MaxAttempts:  cfg.Analysis.MaxAttempts,
		BackoffFn:    mergeguard.ExponentialBackoff(cfg.Analysis.Backoff),
		NewReasoner: func(ctx context.Context) (mergeguard.Reasoner, error) {
			return newReasoner(ctx, cfg)
		},
	}
	if path := cfg.ResultsPath(); path != "" {
		app.Saver = jsonl.NewSaver(path)
	}
	return app
}

func newReasoner(ctx context.Context, cfg *config.Config) (mergeguard.Reasoner, error) {
	if err := cfg.RequireCredential(); err != nil {
		return nil, err
	}

	client, err := gemini.NewClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("%w: create Gemini client: %w", mergeguard.ErrAIServiceUnavailable, err)
	}

	var reasoner mergeguard.Reasoner = gemini.NewReasoner(client, cfg.Analysis.Model, gemini.WithTimeout(cfg.Analysis.Timeout))
	if cfg.Analysis.Cache {
		dir := fs.CacheDir(cfg.Analysis.CacheDir)
		log.Debug().Str("dir", dir).Msg("resolution cache enabled")
		reasoner = fs.NewReasoner(reasoner, dir, cfg.Analysis.Model)
	}
	return reasoner, nil
}
