package output

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/helpers"
)

// JUnitFormatter formats reports as JUnit XML for CI/CD integration.
// Only links that need attention are included as test cases.
type JUnitFormatter struct{}

type junitTestSuites struct {
	XMLName   xml.Name         `xml:"testsuites"`
	Name      string           `xml:"name,attr"`
	Tests     int              `xml:"tests,attr"`
	Failures  int              `xml:"failures,attr"`
	Errors    int              `xml:"errors,attr"`
	TestSuite []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	TestCases []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Failure   *junitProblem `xml:"failure,omitempty"`
	Error     *junitProblem `xml:"error,omitempty"`
}

type junitProblem struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// Format implements Formatter.
// Unresolved and invalid links are failures; canceled checks are errors.
// Suites are one per file, sorted by path.
func (*JUnitFormatter) Format(report *Report) ([]byte, error) {
	byFile := map[string][]checker.Result{}
	for _, r := range report.Results {
		if r.IsProblem() {
			byFile[r.Link.FilePath] = append(byFile[r.Link.FilePath], r)
		}
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	suites := junitTestSuites{Name: "postlink-check"}

	for _, file := range files {
		suite := junitTestSuite{Name: file}

		for _, r := range byFile[file] {
			suite.Tests++
			tc := junitTestCase{
				Name:      r.Link.Href,
				ClassName: fmt.Sprintf("%s:%d", r.Link.FilePath, r.Link.Line),
			}

			problem := &junitProblem{
				Message: helpers.TruncateText(problemMessage(r), 200),
				Type:    statusName(r),
				Content: problemContent(r),
			}
			if r.Error != "" {
				suite.Errors++
				tc.Error = problem
			} else {
				suite.Failures++
				tc.Failure = problem
			}

			suite.TestCases = append(suite.TestCases, tc)
		}

		suites.Tests += suite.Tests
		suites.Failures += suite.Failures
		suites.Errors += suite.Errors
		suites.TestSuite = append(suites.TestSuite, suite)
	}

	// An empty suite signals success.
	if len(suites.TestSuite) == 0 {
		suites.TestSuite = append(suites.TestSuite, junitTestSuite{Name: "all-links"})
	}

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), data...), nil
}

// problemMessage creates a short message for a problem result.
func problemMessage(r checker.Result) string {
	if r.Error != "" {
		return r.Error
	}
	if r.Resolution.Reason != "" {
		return r.Resolution.Reason
	}
	return r.Resolution.Status.Description()
}

// problemContent creates the detailed body of a problem result.
func problemContent(r checker.Result) string {
	var b strings.Builder
	if text := helpers.TruncateText(r.Link.Text, 100); text != "" {
		fmt.Fprintf(&b, "Link text: %q\n", text)
	}
	fmt.Fprintf(&b, "Href: %s\n", r.Link.Href)
	fmt.Fprintf(&b, "Status: %s\n", statusName(r))
	if r.Resolution.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", r.Resolution.Reason)
	}
	return b.String()
}
