package checker

import (
	"context"
	"strconv"
	"testing"

	"github.com/leonardomso/postlink/internal/resolver"
)

// BenchmarkSummarize_Statuses measures summary counting over a large result set.
func BenchmarkSummarize_Statuses(b *testing.B) {
	statuses := []resolver.Status{
		resolver.StatusRewritten,
		resolver.StatusPassThrough,
		resolver.StatusUnresolved,
	}
	results := make([]Result, 1000)
	for i := range results {
		results[i] = Result{Resolution: resolver.Resolution{Status: statuses[i%len(statuses)]}}
	}

	b.ResetTimer()
	for b.Loop() {
		_ = Summarize(results)
	}
}

// BenchmarkCheckAll measures the worker pool overhead with a stub resolver.
func BenchmarkCheckAll(b *testing.B) {
	links := make([]Link, 200)
	for i := range links {
		links[i] = Link{Href: "post-" + strconv.Itoa(i) + ".md", FilePath: "index.md", Line: i + 1}
	}
	c := New(&countingResolver{}, nil, DefaultOptions())

	b.ResetTimer()
	for b.Loop() {
		_ = c.CheckAll(context.Background(), links)
	}
}
