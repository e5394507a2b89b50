// Package stats tracks timings and counts for a run over a set of posts:
// how long scanning, parsing and resolving took, and how much memory it used.
package stats

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Stats holds performance metrics for a single run.
type Stats struct {
	ScanStart    time.Time
	ScanEnd      time.Time
	ParseStart   time.Time
	ParseEnd     time.Time
	ResolveStart time.Time
	ResolveEnd   time.Time

	FilesScanned int
	LinksFound   int
	UniqueHrefs  int
	Ignored      int

	// Captured when the resolve phase ends.
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	NumGoroutine int
}

// Snapshot is the serializable form of Stats used in reports.
type Snapshot struct {
	ScanMS         int64   `json:"scan_ms" yaml:"scan_ms" xml:"scan_ms"`
	ParseMS        int64   `json:"parse_ms" yaml:"parse_ms" xml:"parse_ms"`
	ResolveMS      int64   `json:"resolve_ms" yaml:"resolve_ms" xml:"resolve_ms"`
	TotalMS        int64   `json:"total_ms" yaml:"total_ms" xml:"total_ms"`
	FilesScanned   int     `json:"files_scanned" yaml:"files_scanned" xml:"files_scanned"`
	LinksFound     int     `json:"links_found" yaml:"links_found" xml:"links_found"`
	UniqueHrefs    int     `json:"unique_hrefs" yaml:"unique_hrefs" xml:"unique_hrefs"`
	Ignored        int     `json:"ignored" yaml:"ignored" xml:"ignored"`
	LinksPerSecond float64 `json:"links_per_second" yaml:"links_per_second" xml:"links_per_second"`
	HeapBytes      uint64  `json:"heap_bytes" yaml:"heap_bytes" xml:"heap_bytes"`
	GCCycles       uint32  `json:"gc_cycles" yaml:"gc_cycles" xml:"gc_cycles"`
}

// New creates a new Stats instance.
func New() *Stats {
	return &Stats{}
}

// StartScan marks the beginning of the file scanning phase.
func (s *Stats) StartScan() {
	s.ScanStart = time.Now()
}

// EndScan marks the end of the file scanning phase.
func (s *Stats) EndScan(filesFound int) {
	s.ScanEnd = time.Now()
	s.FilesScanned = filesFound
}

// StartParse marks the beginning of link extraction.
func (s *Stats) StartParse() {
	s.ParseStart = time.Now()
}

// EndParse marks the end of link extraction.
func (s *Stats) EndParse(linksFound, uniqueHrefs int) {
	s.ParseEnd = time.Now()
	s.LinksFound = linksFound
	s.UniqueHrefs = uniqueHrefs
}

// StartResolve marks the beginning of link resolution.
func (s *Stats) StartResolve() {
	s.ResolveStart = time.Now()
}

// EndResolve marks the end of link resolution and captures memory stats.
func (s *Stats) EndResolve(ignored int) {
	s.ResolveEnd = time.Now()
	s.Ignored = ignored

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.HeapAlloc = m.HeapAlloc
	s.TotalAlloc = m.TotalAlloc
	s.NumGC = m.NumGC
	s.NumGoroutine = runtime.NumGoroutine()
}

// phase returns end - start, or 0 if the phase has not finished.
func phase(start, end time.Time) time.Duration {
	if end.IsZero() || start.IsZero() {
		return 0
	}
	return end.Sub(start)
}

// ScanDuration returns the time spent scanning for files.
func (s *Stats) ScanDuration() time.Duration { return phase(s.ScanStart, s.ScanEnd) }

// ParseDuration returns the time spent extracting links.
func (s *Stats) ParseDuration() time.Duration { return phase(s.ParseStart, s.ParseEnd) }

// ResolveDuration returns the time spent resolving links.
func (s *Stats) ResolveDuration() time.Duration { return phase(s.ResolveStart, s.ResolveEnd) }

// TotalDuration returns the time from scan start to resolve end.
func (s *Stats) TotalDuration() time.Duration { return phase(s.ScanStart, s.ResolveEnd) }

// LinksPerSecond returns resolution throughput.
func (s *Stats) LinksPerSecond() float64 {
	d := s.ResolveDuration()
	if d == 0 || s.LinksFound == 0 {
		return 0
	}
	return float64(s.LinksFound) / d.Seconds()
}

// Snapshot returns the serializable form of s.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		ScanMS:         s.ScanDuration().Milliseconds(),
		ParseMS:        s.ParseDuration().Milliseconds(),
		ResolveMS:      s.ResolveDuration().Milliseconds(),
		TotalMS:        s.TotalDuration().Milliseconds(),
		FilesScanned:   s.FilesScanned,
		LinksFound:     s.LinksFound,
		UniqueHrefs:    s.UniqueHrefs,
		Ignored:        s.Ignored,
		LinksPerSecond: s.LinksPerSecond(),
		HeapBytes:      s.HeapAlloc,
		GCCycles:       s.NumGC,
	}
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		m := int(d.Minutes())
		return fmt.Sprintf("%dm%.1fs", m, (d - time.Duration(m)*time.Minute).Seconds())
	}
}

// FormatBytes formats bytes for human-readable display.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMG"[exp])
}

// String returns a formatted report of the stats.
func (s *Stats) String() string {
	var b strings.Builder
	total := s.TotalDuration()

	share := func(d time.Duration) string {
		if total == 0 {
			return ""
		}
		return fmt.Sprintf("  (%4.1f%%)", float64(d)/float64(total)*100)
	}

	b.WriteString("\n=== Performance Statistics ===\n\n")

	b.WriteString("Timing:\n")
	fmt.Fprintf(&b, "  Scan files:     %8s%s\n", FormatDuration(s.ScanDuration()), share(s.ScanDuration()))
	fmt.Fprintf(&b, "  Parse links:    %8s%s\n", FormatDuration(s.ParseDuration()), share(s.ParseDuration()))
	fmt.Fprintf(&b, "  Resolve links:  %8s%s\n", FormatDuration(s.ResolveDuration()), share(s.ResolveDuration()))
	b.WriteString("  ──────────────────────────\n")
	fmt.Fprintf(&b, "  Total:          %8s\n", FormatDuration(total))

	b.WriteString("\nThroughput:\n")
	fmt.Fprintf(&b, "  Files scanned:  %8d\n", s.FilesScanned)
	fmt.Fprintf(&b, "  Links found:    %8d\n", s.LinksFound)
	fmt.Fprintf(&b, "  Unique hrefs:   %8d\n", s.UniqueHrefs)
	if s.Ignored > 0 {
		fmt.Fprintf(&b, "  Ignored:        %8d\n", s.Ignored)
	}
	fmt.Fprintf(&b, "  Links/second:   %8.1f\n", s.LinksPerSecond())

	b.WriteString("\nMemory:\n")
	fmt.Fprintf(&b, "  Heap in use:    %8s\n", FormatBytes(s.HeapAlloc))
	fmt.Fprintf(&b, "  Total alloc:    %8s\n", FormatBytes(s.TotalAlloc))
	fmt.Fprintf(&b, "  GC cycles:      %8d\n", s.NumGC)
	fmt.Fprintf(&b, "  Goroutines:     %8d\n", s.NumGoroutine)

	return b.String()
}
