package crawler

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/nao1215/fragnav/internal/fragment"
	"github.com/nao1215/fragnav/internal/model"
)

const (
	// DefaultMaxDepth is the number of link levels followed from the start fragment.
	DefaultMaxDepth = 5

	// DefaultMaxPages is the maximum number of fragments resolved by one crawl.
	DefaultMaxPages = 100
)

// Resolver resolves fragments in fresh windows.
// navigator.BatchResolver implements it.
type Resolver interface {
	Resolve(ctx context.Context, fragments []string) ([]*model.Resolution, error)
}

// Spider walks an application by following the fragment links its pages render.
//
// Design decision: We call it "Spider" rather than "Crawler" to keep
// crawler.NewSpider() distinct from the package name.
type Spider struct {
	// resolver renders each fragment in a fresh window.
	resolver Resolver

	// parser extracts fragment links from rendered content.
	parser *Parser

	// codec normalizes fragments for deduplication.
	codec *fragment.Codec

	// maxDepth limits how many link levels are followed from the start.
	// 0 means only the start fragment, 1 means one level of links, etc.
	maxDepth int

	// maxPages limits the total number of fragments resolved.
	maxPages int

	// ignorePatterns are fragment patterns to skip.
	// Patterns use glob syntax (e.g., "Admin/*", "*/debug").
	ignorePatterns []string

	// followPatterns are fragment patterns to follow.
	// Empty means all fragments are allowed (subject to ignorePatterns).
	followPatterns []string

	// crawlableOnly restricts the crawl to links carrying the "!" marker.
	crawlableOnly bool

	// visited tracks normalized fragments already queued.
	visited map[string]bool

	// mutex protects visited and pageCount.
	mutex sync.Mutex

	// pageCount tracks fragments resolved.
	pageCount int

	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the maximum crawl depth.
// 0 = only the start fragment, 1 = start plus linked fragments, etc.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithMaxPages sets the maximum number of fragments to resolve.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithIgnorePatterns sets fragment patterns to skip during crawling.
// The crawlable marker is stripped before matching.
func WithIgnorePatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.ignorePatterns = patterns
	}
}

// WithFollowPatterns sets fragment patterns to follow during crawling.
// If set, only fragments matching at least one pattern are crawled.
func WithFollowPatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.followPatterns = patterns
	}
}

// WithCrawlableOnly follows only links marked crawlable with "!".
func WithCrawlableOnly(only bool) SpiderOption {
	return func(s *Spider) {
		s.crawlableOnly = only
	}
}

// WithCodec sets the codec used to read and normalize fragments.
func WithCodec(codec *fragment.Codec) SpiderOption {
	return func(s *Spider) {
		s.codec = codec
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider resolving fragments through resolver.
func NewSpider(resolver Resolver, opts ...SpiderOption) *Spider {
	s := &Spider{
		resolver: resolver,
		maxDepth: DefaultMaxDepth,
		maxPages: DefaultMaxPages,
		visited:  make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.codec == nil {
		s.codec = fragment.Default()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.parser = NewParser(s.codec)

	return s
}

// Crawl resolves start, then every fragment linked from the rendered
// content, level by level, and returns the resolutions in discovery order.
// Each Resolution carries its Depth and the Links found in its content.
//
// Fragments of one level are resolved together so the resolver can run them
// concurrently. The crawl stops at maxDepth, at maxPages, or when ctx is
// done; in the last case the resolutions gathered so far are returned with
// the context error.
func (s *Spider) Crawl(ctx context.Context, start string) ([]*model.Resolution, error) {
	start = Normalize(s.codec, start)
	s.markVisited(start)

	results := make([]*model.Resolution, 0)
	level := []string{start}

	for depth := 0; len(level) > 0; depth++ {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		if remaining := s.remaining(); len(level) > remaining {
			level = level[:remaining]
		}
		if len(level) == 0 {
			break
		}

		s.logger.Debug("crawling level",
			"depth", depth,
			"fragments", len(level),
		)

		resolved, err := s.resolver.Resolve(ctx, level)

		var next []string
		for _, res := range resolved {
			if res == nil {
				continue
			}
			res.Depth = depth
			res.Links = s.links(res)
			results = append(results, res)
			s.countPage()

			if depth >= s.maxDepth {
				continue
			}
			for _, link := range res.Links {
				if s.shouldCrawl(link) && s.markVisited(link) {
					next = append(next, link)
				}
			}
		}

		if err != nil {
			return results, err
		}
		level = next
	}

	s.logger.Info("crawl complete",
		"start", start,
		"pages", len(results),
	)

	return results, nil
}

// links extracts the fragment links of a resolution's content.
// Content that does not parse contributes no links.
func (s *Spider) links(res *model.Resolution) []string {
	if res.Content == "" {
		return nil
	}
	parsed, err := s.parser.ParseString(res.Content)
	if err != nil {
		s.logger.Warn("failed to parse page content",
			"fragment", res.Fragment,
			"error", err,
		)
		return nil
	}
	return parsed.Fragments
}

func (s *Spider) remaining() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return max(s.maxPages-s.pageCount, 0)
}

func (s *Spider) countPage() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pageCount++
}

// markVisited records fragment and reports whether it was new.
func (s *Spider) markVisited(f string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	key := s.visitKey(f)
	if s.visited[key] {
		return false
	}
	s.visited[key] = true
	return true
}

// visitKey identifies a fragment for deduplication. Page names are
// case-insensitive, so "Ticket/1" and "ticket/1" share a key. The
// crawlable marker does not change the page either.
func (s *Spider) visitKey(f string) string {
	split := s.codec.Parse(f)
	key := cases.Fold().String(split.PageName)
	if !split.Params.IsEmpty() {
		key += s.codec.ParamSeparator() + split.Params.String()
	}
	return key
}

// Reset clears the spider's state, allowing it to be reused.
func (s *Spider) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.visited = make(map[string]bool)
	s.pageCount = 0
}

// Stats returns current crawl statistics.
func (s *Spider) Stats() SpiderStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return SpiderStats{
		PagesVisited:    s.pageCount,
		FragmentsQueued: len(s.visited),
	}
}

// SpiderStats contains crawl statistics.
type SpiderStats struct {
	// PagesVisited is the number of fragments resolved.
	PagesVisited int

	// FragmentsQueued is the number of unique fragments encountered.
	FragmentsQueued int
}

// shouldCrawl checks a link against the crawlable restriction and the
// ignore/follow patterns.
//
// Logic:
//  1. With crawlableOnly, links without "!" are skipped
//  2. If the fragment matches any ignorePattern, skip it
//  3. If followPatterns is set and the fragment matches none, skip it
//  4. Otherwise, crawl it
func (s *Spider) shouldCrawl(link string) bool {
	split := s.codec.Parse(link)
	if s.crawlableOnly && !split.Crawlable {
		return false
	}

	target := strings.TrimPrefix(link, fragment.CrawlableMarker)

	for _, pattern := range s.ignorePatterns {
		if matchPattern(pattern, target) {
			return false
		}
	}

	if len(s.followPatterns) > 0 {
		for _, pattern := range s.followPatterns {
			if matchPattern(pattern, target) {
				return true
			}
		}
		return false
	}

	return true
}

// matchPattern checks if a fragment matches a glob pattern.
// Page names compare case-insensitively. Patterns can use:
//   - * to match any sequence of non-separator characters
//   - ? to match any single character
//
// Examples:
//   - "Ticket/*" matches "Ticket/ABC" and "Ticket"
//   - "*/debug=true" matches "Report/debug=true"
//   - "Rep?rt" matches "Report"
func matchPattern(pattern, target string) bool {
	pattern = strings.ToLower(pattern)
	target = strings.ToLower(target)

	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		if strings.HasPrefix(target, prefix+"/") || target == prefix {
			return true
		}
	}

	matched, err := path.Match(pattern, target)
	if err != nil {
		return false
	}
	return matched
}
