package output

import (
	"encoding/xml"

	"github.com/leonardomso/postlink/internal/stats"
)

// XMLFormatter formats reports as generic XML.
type XMLFormatter struct{}

type xmlOutput struct {
	XMLName     xml.Name        `xml:"report"`
	GeneratedAt string          `xml:"generated_at,attr"`
	BlogDir     string          `xml:"blog_dir,attr,omitempty"`
	TotalFiles  int             `xml:"total_files,attr"`
	TotalLinks  int             `xml:"total_links,attr"`
	UniqueHrefs int             `xml:"unique_hrefs,attr"`
	Summary     xmlSummary      `xml:"summary"`
	Results     xmlResults      `xml:"results"`
	Ignored     *xmlIgnored     `xml:"ignored,omitempty"`
	Stats       *stats.Snapshot `xml:"stats,omitempty"`
}

type xmlSummary struct {
	Rewritten  int `xml:"rewritten"`
	Unchanged  int `xml:"unchanged"`
	Unresolved int `xml:"unresolved"`
	Invalid    int `xml:"invalid"`
	Errors     int `xml:"errors"`
	Ignored    int `xml:"ignored,omitempty"`
}

type xmlResults struct {
	Results []xmlResult `xml:"result"`
}

type xmlResult struct {
	Status   string `xml:"status,attr"`
	Line     int    `xml:"line,attr,omitempty"`
	Column   int    `xml:"column,attr,omitempty"`
	Href     string `xml:"href"`
	FilePath string `xml:"file"`
	Text     string `xml:"text,omitempty"`
	URL      string `xml:"url,omitempty"`
	Target   string `xml:"target,omitempty"`
	Slug     string `xml:"slug,omitempty"`
	Strategy string `xml:"strategy,omitempty"`
	Reason   string `xml:"reason,omitempty"`
	Error    string `xml:"error,omitempty"`
}

type xmlIgnored struct {
	Items []xmlIgnoredItem `xml:"item"`
}

type xmlIgnoredItem struct {
	Href   string `xml:"href"`
	File   string `xml:"file"`
	Line   int    `xml:"line,omitempty"`
	Reason string `xml:"reason"`
	Rule   string `xml:"rule"`
}

// Format implements Formatter.
func (*XMLFormatter) Format(report *Report) ([]byte, error) {
	doc := newDocument(report)

	output := xmlOutput{
		GeneratedAt: doc.GeneratedAt,
		BlogDir:     doc.BlogDir,
		TotalFiles:  doc.TotalFiles,
		TotalLinks:  doc.TotalLinks,
		UniqueHrefs: doc.UniqueHrefs,
		Summary:     xmlSummary(doc.Summary),
		Results:     xmlResults{Results: make([]xmlResult, 0, len(doc.Results))},
		Stats:       doc.Stats,
	}

	for _, r := range doc.Results {
		output.Results.Results = append(output.Results.Results, xmlResult{
			Status:   r.Status,
			Line:     r.Line,
			Column:   r.Column,
			Href:     r.Href,
			FilePath: r.FilePath,
			Text:     r.Text,
			URL:      r.URL,
			Target:   r.Target,
			Slug:     r.Slug,
			Strategy: r.Strategy,
			Reason:   r.Reason,
			Error:    r.Error,
		})
	}

	if len(doc.Ignored) > 0 {
		output.Ignored = &xmlIgnored{Items: make([]xmlIgnoredItem, len(doc.Ignored))}
		for i, ig := range doc.Ignored {
			output.Ignored.Items[i] = xmlIgnoredItem(ig)
		}
	}

	data, err := xml.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), data...), nil
}
