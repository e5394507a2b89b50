package output

import (
	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/stats"
)

// document is the structure shared by the JSON and YAML formats.
type document struct {
	GeneratedAt string           `json:"generated_at" yaml:"generated_at"`
	BlogDir     string           `json:"blog_dir,omitempty" yaml:"blog_dir,omitempty"`
	TotalFiles  int              `json:"total_files" yaml:"total_files"`
	TotalLinks  int              `json:"total_links" yaml:"total_links"`
	UniqueHrefs int              `json:"unique_hrefs" yaml:"unique_hrefs"`
	Summary     documentSummary  `json:"summary" yaml:"summary"`
	Results     []documentResult `json:"results" yaml:"results"`
	Ignored     []documentIgnore `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	Stats       *stats.Snapshot  `json:"stats,omitempty" yaml:"stats,omitempty"`
}

type documentSummary struct {
	Rewritten  int `json:"rewritten" yaml:"rewritten"`
	Unchanged  int `json:"unchanged" yaml:"unchanged"`
	Unresolved int `json:"unresolved" yaml:"unresolved"`
	Invalid    int `json:"invalid" yaml:"invalid"`
	Errors     int `json:"errors" yaml:"errors"`
	Ignored    int `json:"ignored,omitempty" yaml:"ignored,omitempty"`
}

type documentResult struct {
	Href     string `json:"href" yaml:"href"`
	FilePath string `json:"file_path" yaml:"file_path"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int    `json:"column,omitempty" yaml:"column,omitempty"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	Status   string `json:"status" yaml:"status"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Target   string `json:"target,omitempty" yaml:"target,omitempty"`
	Slug     string `json:"slug,omitempty" yaml:"slug,omitempty"`
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

type documentIgnore struct {
	Href   string `json:"href" yaml:"href"`
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
	Reason string `json:"reason" yaml:"reason"`
	Rule   string `json:"rule" yaml:"rule"`
}

// statusName returns the machine-readable status of a result.
func statusName(r checker.Result) string {
	switch {
	case r.Ignored:
		return "ignored"
	case r.Error != "":
		return "error"
	default:
		return r.Resolution.Status.String()
	}
}

// newDocument converts a report into its serializable form.
func newDocument(report *Report) document {
	doc := document{
		GeneratedAt: report.GeneratedAt.Format(timeLayout),
		BlogDir:     report.BlogDir,
		TotalFiles:  len(report.Files),
		TotalLinks:  report.TotalLinks,
		UniqueHrefs: report.UniqueHrefs,
		Summary: documentSummary{
			Rewritten:  report.Summary.Rewritten,
			Unchanged:  report.Summary.Unchanged,
			Unresolved: report.Summary.Unresolved,
			Invalid:    report.Summary.Invalid,
			Errors:     report.Summary.Errors,
			Ignored:    len(report.Ignored),
		},
		Results: make([]documentResult, 0, len(report.Results)),
		Stats:   report.Stats,
	}

	for _, r := range report.Results {
		doc.Results = append(doc.Results, documentResult{
			Href:     r.Link.Href,
			FilePath: r.Link.FilePath,
			Line:     r.Link.Line,
			Column:   r.Link.Column,
			Text:     r.Link.Text,
			Status:   statusName(r),
			URL:      r.Resolution.URL,
			Target:   r.Resolution.Target,
			Slug:     r.Resolution.Slug,
			Strategy: r.Resolution.Strategy,
			Reason:   r.Resolution.Reason,
			Error:    r.Error,
		})
	}

	for _, ig := range report.Ignored {
		doc.Ignored = append(doc.Ignored, documentIgnore(ig))
	}

	return doc
}
