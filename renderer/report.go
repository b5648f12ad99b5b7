package renderer

// RenderReport renders the reconciliation audit report to a markdown string.
func RenderReport(r *Report) string {
	partials := map[string]string{
		"report_title":   "report_title.md",
		"report_table":   "report_table.md",
		"report_verdict": "report_verdict.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}
