// Package runner drives a batch evaluation: for each manifest case it
// assembles the compliance report from the segmenter, extractors, rule
// evaluator and similarity scorer, persists it, and prints the console
// summary.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/forwauzz/section7eval/internal/config"
	"github.com/forwauzz/section7eval/internal/generator"
	"github.com/forwauzz/section7eval/internal/manifest"
	"github.com/forwauzz/section7eval/internal/report"
	"github.com/forwauzz/section7eval/internal/rules"
	"github.com/forwauzz/section7eval/internal/similarity"
)

// Runner evaluates cases sequentially with per-case isolation: no
// failure inside one case aborts the others.
type Runner struct {
	cfg     *config.Config
	gen     *generator.Generator
	ruleSet []rules.Rule
	log     *zap.Logger
	console io.Writer
}

// CaseResult is one row of the batch recap.
type CaseResult struct {
	ID         string
	Similarity float64
	RulesScore float64
	HasOutput  bool
	Status     string
}

// New builds a Runner over the default rule set.
func New(cfg *config.Config, gen *generator.Generator, log *zap.Logger, console io.Writer) *Runner {
	return &Runner{
		cfg:     cfg,
		gen:     gen,
		ruleSet: rules.Default(),
		log:     log,
		console: console,
	}
}

// RunBatch evaluates every case in manifest order, writes one report per
// case, prints a line per case and the final recap, and returns the
// results in the same order.
func (r *Runner) RunBatch(ctx context.Context, cases []manifest.Case) []CaseResult {
	results := make([]CaseResult, 0, len(cases))
	for _, c := range cases {
		rep, hasOutput := r.EvaluateCase(ctx, c)

		reportPath := filepath.Join(r.cfg.ReportDir, c.ID+".json")
		if err := report.Write(reportPath, rep); err != nil {
			r.log.Error("writing report", zap.String("case", c.ID), zap.Error(err))
		}

		res := CaseResult{
			ID:         c.ID,
			Similarity: rep.LineSimilarity,
			RulesScore: rep.RulesScore,
			HasOutput:  hasOutput,
			Status:     rep.Status,
		}
		results = append(results, res)

		fmt.Fprintf(r.console, "%s | sim=%.3f | règles=%.3f | fichier=%s\n",
			c.ID, res.Similarity, res.RulesScore, ouiNon(res.HasOutput))
	}

	r.printSummary(results)
	return results
}

// EvaluateCase produces the report for one case. Degraded states (gold
// missing, output missing, generator failure) are recorded on the
// report, never raised. The second return reports whether the produced
// output file was readable; the report status alone cannot carry it,
// since a missing gold takes precedence there.
func (r *Runner) EvaluateCase(ctx context.Context, c manifest.Case) (*report.Report, bool) {
	outputPath := filepath.Join(r.cfg.OutputDir, c.ID+".md")

	gold, goldOK := readTrimmed(c.GoldPath)
	if !goldOK {
		r.log.Warn("gold reference missing", zap.String("case", c.ID), zap.String("path", c.GoldPath))
	}

	if _, err := os.Stat(outputPath); os.IsNotExist(err) && r.gen.Enabled() {
		r.log.Info("generating output", zap.String("case", c.ID))
		if err := r.gen.Run(ctx, c.ID, c.InputPath, outputPath); err != nil {
			r.log.Warn("generation failed", zap.String("case", c.ID), zap.Error(err))
		}
	}

	produced, producedOK := readTrimmed(outputPath)

	rep := Assemble(c.ID, outputPath, c.InputPath, c.GoldPath, produced, gold, r.ruleSet)
	switch {
	case !goldOK:
		// Without a reference the similarity is meaningless; zero it and
		// flag the case rather than dropping it from the recap.
		rep.Status = report.StatusGoldMissing
		rep.LineSimilarity = 0
	case !producedOK:
		rep.Status = report.StatusNoOutput
	}
	return rep, producedOK
}

// Assemble runs the engine over one produced/gold text pair and packages
// the result. It is pure with respect to the filesystem.
func Assemble(id, outputPath, inputPath, goldPath, produced, gold string, ruleSet []rules.Rule) *report.Report {
	doc := rules.NewDocument(produced)
	outcomes := rules.Evaluate(doc, ruleSet)

	return &report.Report{
		ID:             id,
		OutputPath:     outputPath,
		InputPath:      inputPath,
		GoldPath:       goldPath,
		LineSimilarity: report.Round4(similarity.Lines(produced, gold)),
		RulesScore:     report.Round4(rules.Score(outcomes)),
		Issues:         outcomes,
	}
}

func (r *Runner) printSummary(results []CaseResult) {
	fmt.Fprintln(r.console, "\n=== SOMMAIRE ===")
	tw := tabwriter.NewWriter(r.console, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CAS\tSIM\tRÈGLES\tFICHIER\tÉTAT")
	for _, res := range results {
		status := res.Status
		if status == "" {
			status = "ok"
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%s\t%s\n",
			res.ID, res.Similarity, res.RulesScore, ouiNon(res.HasOutput), status)
	}
	tw.Flush()
	fmt.Fprintf(r.console, "\nRapports JSON écrits dans: %s\n", r.cfg.ReportDir)
}

// readTrimmed loads a text file, trimmed of outer whitespace. The second
// return is false when the file does not exist or cannot be read.
func readTrimmed(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

func ouiNon(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}
