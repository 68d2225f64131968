package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/forwauzz/section7eval/internal/report"
)

type markdownRenderer struct{}

var mdTemplate = template.Must(template.New("report").Parse(`# Rapport d'évaluation — {{ .ID }}
{{ if .Status }}
**État:** {{ .Status }}
{{ end }}
**Similarité (lignes):** {{ printf "%.4f" .LineSimilarity }}
**Conformité (règles):** {{ printf "%.4f" .RulesScore }}

| Règle | OK |
|---|---|
{{ range .Issues }}| {{ .Rule }} | {{ if .OK }}oui{{ else }}non{{ end }} |
{{ end }}
{{ range .Issues }}{{ if not .OK }}### {{ .Rule }}
{{ if .Msg }}{{ .Msg }}
{{ end }}{{ if .BadParagraphs }}Paragraphes fautifs: {{ .BadParagraphs }}
{{ end }}{{ if .MissingQuotes }}Paragraphes radiologiques sans citation: {{ .MissingQuotes }}
{{ end }}{{ if .Examples }}Exemples: {{ range .Examples }}` + "`{{ . }}`" + ` {{ end }}
{{ end }}
{{ end }}{{ end }}---
*sortie: {{ .OutputPath }} | gold: {{ .GoldPath }}*
`))

func (r *markdownRenderer) Render(rep *report.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, rep); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
