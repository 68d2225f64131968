package review

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// systemPrompt frames the model's role for the manager review.
const systemPrompt = "Tu es un évaluateur expert en conformité médicale CNESST."

// defaultTemplate is the built-in French manager prompt, used when no
// prompt file is configured. The four placeholders are the complete
// vocabulary a template may use.
const defaultTemplate = `Tu reçois le rapport d'évaluation automatique d'une Section 7 (« Historique de faits et évolution ») produite par un pipeline de rédaction.

Document de référence (extrait):
<gold>
{gold}
</gold>

Sortie produite (extrait):
<sortie>
{output}
</sortie>

Résultats des règles de conformité (JSON):
{report}

Grille d'évaluation:
{checklist}

Donne ton avis de gestionnaire: conformité globale, écarts importants par rapport à la référence, et corrections prioritaires. Réponds en français, en texte libre.`

// promptPlaceholderRe matches a {name} placeholder in a template.
var promptPlaceholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

var allowedPromptPlaceholders = map[string]bool{
	"gold":      true,
	"output":    true,
	"report":    true,
	"checklist": true,
}

// Template is a validated manager prompt template.
type Template struct {
	text string
}

// LoadTemplate reads the prompt template at path, or returns the
// built-in template when path is empty. Unknown placeholders are
// rejected here so a broken template never reaches the model.
func LoadTemplate(path string) (*Template, error) {
	text := defaultTemplate
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading prompt template: %w", err)
		}
		text = string(data)
	}
	for _, m := range promptPlaceholderRe.FindAllStringSubmatch(text, -1) {
		if !allowedPromptPlaceholders[m[1]] {
			return nil, fmt.Errorf("unknown placeholder %q in prompt template (allowed: {gold}, {output}, {report}, {checklist})", m[0])
		}
	}
	return &Template{text: text}, nil
}

// Material holds the substitution values for one review prompt.
type Material struct {
	Gold      string
	Output    string
	Report    string
	Checklist string
}

// Build substitutes the material into the template.
func (t *Template) Build(m Material) string {
	return strings.NewReplacer(
		"{gold}", m.Gold,
		"{output}", m.Output,
		"{report}", m.Report,
		"{checklist}", m.Checklist,
	).Replace(t.text)
}
