// Package ui is the interactive browser for link resolution results.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/resolver"
	"github.com/leonardomso/postlink/internal/scanner"
)

// =============================================================================
// STATE MACHINE
// =============================================================================

type appState int

const (
	stateScanning   appState = iota // Finding posts
	stateExtracting                 // Extracting links from posts
	stateChecking                   // Resolving links
	stateResults                    // Showing results (list view)
)

// =============================================================================
// FILTER TYPES
// =============================================================================

type filterType int

const (
	filterProblems  filterType = iota // Unresolved, invalid and errored
	filterRewritten                   // Links that get a post URL
	filterIgnored                     // Links matched by an ignore rule
	filterAll                         // Everything
)

const filterCount = 4

func (f filterType) String() string {
	switch f {
	case filterProblems:
		return "Problems"
	case filterRewritten:
		return "Rewritten"
	case filterIgnored:
		return "Ignored"
	case filterAll:
		return "All"
	default:
		return "Unknown"
	}
}

func (f filterType) Next() filterType {
	return (f + 1) % filterCount
}

func (f filterType) Prev() filterType {
	return (f + filterCount - 1) % filterCount
}

func (f filterType) matches(r checker.Result) bool {
	switch f {
	case filterProblems:
		return r.IsProblem()
	case filterRewritten:
		return !r.Ignored && r.Error == "" && r.Resolution.Status == resolver.StatusRewritten
	case filterIgnored:
		return r.Ignored
	case filterAll:
		return true
	default:
		return false
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the main application model.
type Model struct {
	// State
	state    appState
	quitting bool
	err      error

	// Pipeline
	scan    scanner.ScanOptions
	checker *checker.Checker

	// Data
	files       []string
	links       []checker.Link
	results     []checker.Result
	uniqueHrefs int

	// Filter
	filter filterType

	// Components
	spinner spinner.Model
	list    list.Model
	help    help.Model
	keys    KeyMap

	// Shared with the commands that drain the checker.
	checkerState *CheckerState

	// UI state
	width       int
	height      int
	showHelp    bool
	showDetails bool
}

// New creates a Model that scans with opts and resolves links with c.
func New(opts scanner.ScanOptions, c *checker.Checker) Model {
	if opts.Root == "" {
		opts.Root = "."
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = SelectedStyle
	delegate.Styles.SelectedDesc = StatusStyle

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Links"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false) // We use our own help
	l.Styles.Title = TitleStyle

	return Model{
		state:        stateScanning,
		scan:         opts,
		checker:      c,
		spinner:      s,
		list:         l,
		help:         help.New(),
		keys:         DefaultKeyMap(),
		filter:       filterProblems,
		checkerState: &CheckerState{},
		showDetails:  true,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, ScanFilesCmd(m.scan))
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve space for header, summary, and detail panel
		m.list.SetSize(msg.Width, max(msg.Height-14, 5))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case FilesFoundMsg:
		return m.handleFilesFound(msg)

	case LinksExtractedMsg:
		return m.handleLinksExtracted(msg)

	case LinkCheckedMsg:
		m.results = append(m.results, msg.Result)
		return m, WaitForNextResultCmd(m.checkerState)

	case AllChecksCompleteMsg:
		return m.handleAllChecksComplete()
	}

	if m.state == stateResults {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list filter input is open every key belongs to it.
	if m.state == stateResults && m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.checkerState.CancelFunc != nil {
			m.checkerState.CancelFunc()
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.state != stateResults {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextFilter):
		m.filter = m.filter.Next()
		m.updateListItems()
		return m, nil

	case key.Matches(msg, m.keys.PrevFilter):
		m.filter = m.filter.Prev()
		m.updateListItems()
		return m, nil

	case key.Matches(msg, m.keys.Details):
		m.showDetails = !m.showDetails
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleFilesFound(msg FilesFoundMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.state = stateResults
		return m, nil
	}
	m.files = msg.Files
	m.state = stateExtracting
	return m, ExtractLinksCmd(msg.Files)
}

func (m Model) handleLinksExtracted(msg LinksExtractedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.state = stateResults
		return m, nil
	}
	m.links = msg.Links
	m.uniqueHrefs = msg.UniqueHrefs

	if len(m.links) == 0 || m.checker == nil {
		m.state = stateResults
		return m, nil
	}
	m.state = stateChecking
	return m, StartCheckingCmd(m.checker, m.links, m.checkerState)
}

func (m Model) handleAllChecksComplete() (tea.Model, tea.Cmd) {
	m.state = stateResults
	m.checkerState.ResultsChan = nil
	checker.SortResults(m.results)
	m.updateListItems()
	return m, nil
}

// updateListItems updates the list with filtered results.
func (m *Model) updateListItems() {
	filtered := m.filteredResults()
	items := make([]list.Item, len(filtered))
	for i, r := range filtered {
		items[i] = ResultItem{Result: r}
	}
	m.list.SetItems(items)
}

// filteredResults returns results based on current filter.
func (m Model) filteredResults() []checker.Result {
	var out []checker.Result
	for _, r := range m.results {
		if m.filter.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render("postlink - Link Resolver"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("Press q to quit"))
		return b.String()
	}

	switch m.state {
	case stateScanning:
		b.WriteString(m.spinner.View() + " Scanning for posts...")

	case stateExtracting:
		b.WriteString(m.spinner.View() + fmt.Sprintf(" Found %d file(s), extracting links...", len(m.files)))

	case stateChecking:
		b.WriteString(m.spinner.View() + fmt.Sprintf(" Resolving links... %d/%d", len(m.results), len(m.links)))
		b.WriteString("\n\n  ")
		b.WriteString(m.renderCounts(checker.Summarize(m.results)))

	case stateResults:
		b.WriteString(m.renderResults())
	}

	if m.showHelp {
		b.WriteString("\n\n" + m.help.View(m.keys))
	} else {
		b.WriteString("\n\n" + HelpStyle.Render("↑/↓ navigate • f filter • d details • ? help • q quit"))
	}

	return b.String()
}

func (Model) renderCounts(s checker.Summary) string {
	return strings.Join([]string{
		SuccessStyle.Render(fmt.Sprintf("✓ %d rewritten", s.Rewritten)),
		MutedStyle.Render(fmt.Sprintf("· %d unchanged", s.Unchanged)),
		ErrorStyle.Render(fmt.Sprintf("✗ %d problems", s.Problems())),
		WarningStyle.Render(fmt.Sprintf("⊘ %d ignored", s.Ignored)),
	}, " | ")
}

func (m Model) renderResults() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Scanned %d file(s), resolved %d link(s) (%d unique)\n\n",
		len(m.files), len(m.links), m.uniqueHrefs)

	if len(m.links) == 0 {
		b.WriteString(MutedStyle.Render("No links found."))
		return b.String()
	}

	summary := checker.Summarize(m.results)
	b.WriteString(m.renderCounts(summary))
	b.WriteString("\n\n")

	if !summary.HasProblems() {
		b.WriteString(SuccessStyle.Render("Every local link resolves."))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Filter: %s (%d/%d)\n\n",
		SelectedStyle.Render(m.filter.String()),
		len(m.list.Items()),
		len(m.results))

	b.WriteString(m.list.View())

	if m.showDetails {
		if item, ok := m.list.SelectedItem().(ResultItem); ok {
			b.WriteString("\n" + item.DetailView())
		}
	}

	return b.String()
}
