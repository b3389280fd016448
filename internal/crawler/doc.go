// Package crawler walks a fragment-navigated application by following the
// links its pages render.
//
// # Architecture
//
// The Spider starts from one fragment, resolves it through a Resolver
// (navigator.BatchResolver in practice), extracts the fragment links of the
// rendered content with the Parser, and repeats level by level. Fragments
// are deduplicated case-insensitively on the page name, so "Ticket/1" and
// "!ticket/1" are resolved once.
//
// # Components
//
//   - Spider: breadth-first walk with depth, page count and pattern limits
//   - Parser: HTML parser that extracts fragment links and external links
//
// Links are recognized in three shapes:
//
//	<a href="#Ticket/ABC">             fragment link
//	<a href="#!About">                 crawlable fragment link
//	<a href="?_escaped_fragment_=About"> crawler form of "#!About"
//
// # Usage
//
//	batch := navigator.NewBatchResolver(app)
//	spider := crawler.NewSpider(batch, crawler.WithMaxDepth(3))
//	resolutions, err := spider.Crawl(ctx, "")
package crawler
