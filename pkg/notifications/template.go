package notifications

import (
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nicholas-fedor/imagerefresh/internal/util"
	"github.com/nicholas-fedor/imagerefresh/pkg/types"
)

// summaryTemplate renders the notification body from a refresh report.
//
// Per-state sections are emitted only when non-empty so a clean run produces
// a short message.
const summaryTemplate = `{{- with .Report.Updated}}Updated:
{{- range .}}
- {{.Ref}}{{end}}
{{end}}
{{- with .Report.Failed}}Failed:
{{- range .}}
- {{.Ref}}: {{.Error}}{{end}}
{{end}}
{{- with .Report.SkippedLocal}}{{title "skipped"}} (local builds):
{{- range .}}
- {{.Ref}}{{end}}
{{end}}
{{- len .Report.All}} processed, {{len .Report.Updated}} updated, {{len .Report.Unchanged}} unchanged, {{len .Report.Failed}} failed, {{len .Report.SkippedLocal}} skipped in {{formatDuration .Elapsed}}`

// templateFuncs are the helper functions available to the summary template.
var templateFuncs = template.FuncMap{
	"title":          cases.Title(language.AmericanEnglish).String,
	"formatDuration": util.FormatDuration,
}

// summaryContext is the data handed to the summary template.
type summaryContext struct {
	Report  types.Report
	Elapsed time.Duration
}

// RenderSummary produces the notification body for a completed run.
//
// Parameters:
//   - report: Refresh report to summarize.
//   - elapsed: Wall-clock duration of the run.
//
// Returns:
//   - string: Rendered summary, or a fallback line if rendering fails.
func RenderSummary(report types.Report, elapsed time.Duration) string {
	tpl := template.Must(template.New("summary").Funcs(templateFuncs).Parse(summaryTemplate))

	var builder strings.Builder

	if err := tpl.Execute(&builder, summaryContext{Report: report, Elapsed: elapsed}); err != nil {
		return "imagerefresh run finished (summary rendering failed)"
	}

	return builder.String()
}
