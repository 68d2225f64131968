package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forwauzz/section7eval/internal/config"
	"github.com/forwauzz/section7eval/internal/generator"
	"github.com/forwauzz/section7eval/internal/logging"
	"github.com/forwauzz/section7eval/internal/manifest"
	"github.com/forwauzz/section7eval/internal/render"
	"github.com/forwauzz/section7eval/internal/report"
	"github.com/forwauzz/section7eval/internal/review"
	"github.com/forwauzz/section7eval/internal/rules"
	"github.com/forwauzz/section7eval/internal/runner"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

func main() {
	var configPath string

	root := &cobra.Command{
		Use:     "section7eval",
		Short:   "Évaluateur de conformité Section 7 (CNESST, fr-CA)",
		Long:    "section7eval vérifie des Sections 7 produites automatiquement contre les règles de conformité CNESST et mesure leur fidélité au document de référence.",
		Version: version,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Optional YAML config file (env vars SECTION7_* always apply)")

	// --- eval: batch run over a manifest ---
	var manifestPath string
	evalCmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate every case listed in the JSONL manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd.Context(), configPath, manifestPath)
		},
	}
	evalCmd.Flags().StringVar(&manifestPath, "manifest", "eval/validation_manifest.jsonl", "Path to the JSONL case manifest")

	// --- check: evaluate one document file ---
	var goldPath, format string
	checkCmd := &cobra.Command{
		Use:   "check <document>",
		Short: "Evaluate a single document and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0], goldPath, format)
		},
	}
	checkCmd.Flags().StringVar(&goldPath, "gold", "", "Reference text to score similarity against")
	checkCmd.Flags().StringVar(&format, "format", "json", "Output format: json or md")

	// --- review: send a finished report to the manager model ---
	reviewCmd := &cobra.Command{
		Use:   "review <case-id>",
		Short: "Ask the review model for a manager opinion on a case report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd.Context(), configPath, args[0])
		},
	}

	root.AddCommand(evalCmd, checkCmd, reviewCmd)

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

func runEval(ctx context.Context, configPath, manifestPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return codeError(3, "%s", err)
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return codeError(3, "%s", err)
	}
	defer log.Sync() //nolint:errcheck // stderr sync failure is unreportable

	gen, err := generator.New(cfg.Generator.Command,
		time.Duration(cfg.Generator.TimeoutSeconds)*time.Second, log)
	if err != nil {
		return codeError(3, "%s", err)
	}

	// The manifest is the only fatal input of a batch run; every
	// per-case problem lands in that case's report instead.
	cases, err := manifest.Load(manifestPath, log)
	if err != nil {
		return codeError(2, "%s", err)
	}
	log.Info("starting batch", zap.Int("cases", len(cases)))

	r := runner.New(cfg, gen, log, os.Stdout)
	r.RunBatch(ctx, cases)
	return nil
}

func runCheck(docPath, goldPath, format string) error {
	renderer, err := render.NewRenderer(format)
	if err != nil {
		return codeError(3, "%s", err)
	}

	data, err := os.ReadFile(docPath)
	if err != nil {
		return codeError(3, "reading document: %s", err)
	}

	gold := ""
	goldOK := false
	if goldPath != "" {
		goldData, err := os.ReadFile(goldPath)
		if err != nil {
			return codeError(3, "reading gold text: %s", err)
		}
		gold = string(goldData)
		goldOK = true
	}

	id := filepath.Base(docPath)
	rep := runner.Assemble(id, docPath, "", goldPath, string(data), gold, rules.Default())
	if !goldOK {
		rep.Status = report.StatusGoldMissing
		rep.LineSimilarity = 0
	}

	out, err := renderer.Render(rep)
	if err != nil {
		return codeError(3, "rendering report: %s", err)
	}
	if _, err := os.Stdout.Write(out); err != nil {
		return codeError(3, "writing output: %s", err)
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

func runReview(ctx context.Context, configPath, caseID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return codeError(3, "%s", err)
	}

	provider, err := review.NewProvider(cfg.Review.Model)
	if err != nil {
		return codeError(4, "%s", err)
	}

	rep, err := report.Load(filepath.Join(cfg.ReportDir, caseID+".json"))
	if err != nil {
		return codeError(3, "%s", err)
	}

	answer, err := review.Run(ctx, cfg.Review, rep, provider)
	if err != nil {
		return codeError(5, "%s", err)
	}

	fmt.Printf("=== Avis du gestionnaire — %s ===\n%s\n", caseID, answer)
	return nil
}
