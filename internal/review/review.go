package review

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/forwauzz/section7eval/internal/config"
	"github.com/forwauzz/section7eval/internal/redact"
	"github.com/forwauzz/section7eval/internal/report"
)

// missingOutputMarker replaces the produced-text excerpt when the case
// never generated an output file.
const missingOutputMarker = "[Aucune sortie générée]"

// Run sends the report, its checklist, and capped excerpts of the gold
// and produced texts to the review model and returns the model's answer
// verbatim. The gold file must exist; a missing output file is reported
// to the model, not to the caller.
func Run(ctx context.Context, cfg config.ReviewConfig, rep *report.Report, provider Provider) (string, error) {
	tmpl, err := LoadTemplate(cfg.PromptPath)
	if err != nil {
		return "", err
	}
	checklist, err := LoadChecklist(cfg.ChecklistPath)
	if err != nil {
		return "", err
	}

	gold, err := loadExcerpt(rep.GoldPath, cfg.ExcerptLimit)
	if err != nil {
		return "", fmt.Errorf("loading gold text: %w", err)
	}
	output, err := loadExcerpt(rep.OutputPath, cfg.ExcerptLimit)
	if err != nil {
		output = missingOutputMarker
	}

	issuesJSON, err := json.MarshalIndent(rep.Issues, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling rule outcomes: %w", err)
	}

	prompt := tmpl.Build(Material{
		Gold:      gold,
		Output:    output,
		Report:    string(issuesJSON),
		Checklist: checklist.Format(),
	})

	resp, err := provider.Complete(ctx, &Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   prompt,
		Temperature:  cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("review call failed: %w", err)
	}
	return resp.Content, nil
}

// loadExcerpt reads a text file, scrubs secret-shaped content, and caps
// the result at limit runes.
func loadExcerpt(path string, limit int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return truncate(redact.Scrub(string(data)), limit), nil
}
