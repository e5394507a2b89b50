// Package checker resolves every link found in a set of posts and reports
// which ones point at posts that do not exist.
// It uses a worker pool pattern for bounded concurrency.
package checker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/leonardomso/postlink/internal/filter"
	"github.com/leonardomso/postlink/internal/resolver"
)

// Resolver resolves an href found in fileContext.
// *resolver.Resolver implements it.
type Resolver interface {
	Resolve(href, fileContext string) resolver.Resolution
}

// Checker performs concurrent link resolution with configurable options.
type Checker struct {
	opts     Options
	resolver Resolver
	filter   *filter.Filter
	log      zerolog.Logger
}

// New creates a new Checker. A nil filter ignores nothing.
func New(r Resolver, f *filter.Filter, opts Options) *Checker {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &Checker{
		opts:     opts,
		resolver: r,
		filter:   f,
		log:      log,
	}
}

// CheckAll checks all links and returns results sorted by position.
// This is a blocking operation.
func (c *Checker) CheckAll(ctx context.Context, links []Link) []Result {
	results := make([]Result, 0, len(links))
	for result := range c.Check(ctx, links) {
		results = append(results, result)
	}
	SortResults(results)
	return results
}

// Check checks links concurrently using a worker pool and streams results.
// The returned channel will be closed when all links have been checked.
// Use the context to cancel ongoing checks.
func (c *Checker) Check(ctx context.Context, links []Link) <-chan Result {
	results := make(chan Result, c.opts.Concurrency)

	go func() {
		defer close(results)

		jobs := make(chan Link, len(links))

		var wg sync.WaitGroup
		for range c.opts.Concurrency {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.worker(ctx, jobs, results)
			}()
		}

	sendLoop:
		for _, link := range links {
			select {
			case jobs <- link:
			case <-ctx.Done():
				break sendLoop
			}
		}
		close(jobs)

		wg.Wait()
	}()

	return results
}

// worker processes links from the jobs channel and sends results.
func (c *Checker) worker(ctx context.Context, jobs <-chan Link, results chan<- Result) {
	for link := range jobs {
		select {
		case <-ctx.Done():
			results <- Result{
				Link:  link,
				Error: "check canceled",
			}
		default:
			results <- c.checkSingle(link)
		}
	}
}

// checkSingle resolves one link, honoring ignore rules.
func (c *Checker) checkSingle(link Link) Result {
	if ruleType, rule, ok := c.filter.Match(link.Href); ok {
		c.filter.ShouldIgnore(link.Href, link.FilePath, link.Line)
		c.log.Debug().
			Str("href", link.Href).
			Str("file", link.FilePath).
			Str(ruleType, rule).
			Msg("link ignored")
		return Result{Link: link, Ignored: true, IgnoreRule: rule}
	}

	res := c.resolver.Resolve(link.Href, link.FilePath)
	if res.Status == resolver.StatusUnresolved {
		c.log.Debug().
			Str("href", link.Href).
			Str("file", link.FilePath).
			Int("line", link.Line).
			Msg("link unresolved")
	}

	return Result{Link: link, Resolution: res}
}
