package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/fragnav/internal/fragment"
)

// escapedFragmentKey is the query key crawlers use in place of "#!".
const escapedFragmentKey = "_escaped_fragment_"

// Parser extracts fragment links from rendered HTML.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because rendered pages and hand-written HTML files are often
// malformed, and the tokenizer already handles entities in attribute values.
type Parser struct {
	// codec normalizes the fragments found in links.
	codec *fragment.Codec

	// baseURL, when set, makes absolute links to the same document count as
	// fragment links.
	baseURL *url.URL
}

// ParseResult contains the links found in one document.
type ParseResult struct {
	// Title is the page title from the <title> tag.
	Title string

	// Fragments are the normalized fragment links, without "#", in document
	// order and without duplicates. "" addresses the home page.
	Fragments []string

	// ExternalLinks are links leaving the application.
	ExternalLinks []string
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithBaseURL sets the URL of the application document.
func WithBaseURL(u *url.URL) ParserOption {
	return func(p *Parser) {
		p.baseURL = u
	}
}

// NewParser creates a Parser normalizing fragments with codec.
func NewParser(codec *fragment.Codec, opts ...ParserOption) *Parser {
	p := &Parser{codec: codec}
	for _, opt := range opts {
		opt(p)
	}
	if p.codec == nil {
		p.codec = fragment.Default()
	}
	return p
}

// Parse parses HTML content and extracts its links.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Fragments:     make([]string, 0),
		ExternalLinks: make([]string, 0),
	}
	c := &collector{
		result:   result,
		seen:     make(map[string]bool),
		external: make(map[string]bool),
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					result.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "a", "area":
				p.classify(getAttr(n, "href"), c)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return result, nil
}

// ParseString is Parse over a string.
func (p *Parser) ParseString(content string) (*ParseResult, error) {
	return p.Parse(strings.NewReader(content))
}

// collector accumulates links without duplicates.
type collector struct {
	result   *ParseResult
	seen     map[string]bool
	external map[string]bool
}

// classify records href as a fragment link or an external link.
func (p *Parser) classify(href string, c *collector) {
	href = strings.TrimSpace(href)
	if href == "" || isScriptLink(href) {
		return
	}

	if raw, ok := strings.CutPrefix(href, fragment.Hash); ok {
		p.addFragment(raw, c)
		return
	}

	u, err := url.Parse(href)
	if err != nil {
		return
	}

	query := u.Query()
	if query.Has(escapedFragmentKey) && p.sameDocument(u) {
		escaped := query.Get(escapedFragmentKey)
		p.addFragment(fragment.CrawlableMarker+escaped, c)
		return
	}
	if u.Fragment != "" && p.sameDocument(u) {
		p.addFragment(u.Fragment, c)
		return
	}

	if !c.external[href] {
		c.external[href] = true
		c.result.ExternalLinks = append(c.result.ExternalLinks, href)
	}
}

func (p *Parser) addFragment(raw string, c *collector) {
	f := Normalize(p.codec, raw)
	if c.seen[f] {
		return
	}
	c.seen[f] = true
	c.result.Fragments = append(c.result.Fragments, f)
}

// sameDocument reports whether u points at the application document.
// Relative links without a path are always local; absolute links are local
// only when they match the base URL.
func (p *Parser) sameDocument(u *url.URL) bool {
	if u.Scheme == "" && u.Host == "" && u.Path == "" {
		return true
	}
	if p.baseURL == nil {
		return false
	}
	resolved := p.baseURL.ResolveReference(u)
	return strings.EqualFold(resolved.Host, p.baseURL.Host) && resolved.Path == p.baseURL.Path
}

// Normalize rewrites a fragment in its canonical form: no "#", the
// crawlable marker kept, no trailing parameter separator.
func Normalize(codec *fragment.Codec, raw string) string {
	split := codec.Parse(raw)

	var sb strings.Builder
	if split.Crawlable {
		sb.WriteString(fragment.CrawlableMarker)
	}
	sb.WriteString(split.PageName)
	if !split.Params.IsEmpty() {
		sb.WriteString(codec.ParamSeparator())
		sb.WriteString(split.Params.String())
	}
	return sb.String()
}

func isScriptLink(href string) bool {
	lower := strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
