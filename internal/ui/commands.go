package ui

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/helpers"
	"github.com/leonardomso/postlink/internal/parser"
	"github.com/leonardomso/postlink/internal/scanner"
)

// ScanFilesCmd returns a command that finds the posts to check.
func ScanFilesCmd(opts scanner.ScanOptions) tea.Cmd {
	return func() tea.Msg {
		files, err := scanner.FindFilesWithOptions(opts)
		return FilesFoundMsg{Files: files, Err: err}
	}
}

// ExtractLinksCmd extracts links from the given files.
func ExtractLinksCmd(files []string) tea.Cmd {
	return func() tea.Msg {
		parserLinks, err := parser.ExtractLinksFromMultipleFiles(files)
		if err != nil {
			return LinksExtractedMsg{Err: err}
		}

		// Absolute paths so links resolve the same from any working directory.
		links := make([]checker.Link, len(parserLinks))
		hrefs := make([]string, len(parserLinks))
		for i, pl := range parserLinks {
			path := pl.FilePath
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			links[i] = checker.Link{
				Href:     pl.Href,
				FilePath: path,
				Text:     pl.Text,
				Line:     pl.Line,
				Column:   pl.Column,
			}
			hrefs[i] = pl.Href
		}

		return LinksExtractedMsg{
			Links:       links,
			UniqueHrefs: helpers.CountUniqueStrings(hrefs),
		}
	}
}

// CheckerState holds the state needed for resolving links.
// This allows the commands to be stateless functions.
type CheckerState struct {
	ResultsChan <-chan checker.Result
	CancelFunc  context.CancelFunc
}

// StartCheckingCmd starts resolving links with c and returns the first result.
func StartCheckingCmd(c *checker.Checker, links []checker.Link, state *CheckerState) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		state.CancelFunc = cancel

		state.ResultsChan = c.Check(ctx, links)

		result, ok := <-state.ResultsChan
		if !ok {
			return AllChecksCompleteMsg{}
		}
		return LinkCheckedMsg{Result: result}
	}
}

// WaitForNextResultCmd waits for the next result from the channel.
func WaitForNextResultCmd(state *CheckerState) tea.Cmd {
	return func() tea.Msg {
		if state.ResultsChan == nil {
			return AllChecksCompleteMsg{}
		}

		result, ok := <-state.ResultsChan
		if !ok {
			return AllChecksCompleteMsg{}
		}
		return LinkCheckedMsg{Result: result}
	}
}
