// Package search answers [SEARCH:...] directives against the DuckDuckGo
// HTML endpoint. Best effort: the caller degrades gracefully when it fails.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const endpoint = "https://html.duckduckgo.com/html/"

// Client queries DuckDuckGo and renders the top results as prompt context.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxResults int
}

// New creates a search client returning at most maxResults results per query.
func New(maxResults int) *Client {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		userAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		maxResults: maxResults,
	}
}

// Result is one search hit.
type Result struct {
	Title   string
	Snippet string
}

// Search runs the query and returns a "title: snippet" block per result,
// separated by blank lines, or a no-results message.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	slog.Debug("web search", "query", query)

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("search %q: status %d", query, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse search results: %w", err)
	}

	results := parseResults(doc, c.maxResults)
	if len(results) == 0 {
		return "No se encontraron resultados relevantes.", nil
	}

	var blocks []string
	for _, r := range results {
		blocks = append(blocks, r.Title+": "+r.Snippet)
	}
	return strings.Join(blocks, "\n\n"), nil
}

// parseResults walks the document for .result nodes and pulls their
// .result__title / .result__snippet text.
func parseResults(doc *html.Node, max int) []Result {
	var results []Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= max {
			return
		}
		if n.Type == html.ElementNode && hasClass(n, "result") {
			title := textOfClass(n, "result__title")
			snippet := textOfClass(n, "result__snippet")
			if title != "" && snippet != "" {
				results = append(results, Result{Title: title, Snippet: snippet})
			}
			return // don't descend into a matched result
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// textOfClass returns the trimmed text content of the first descendant
// carrying the given class, or "".
func textOfClass(n *html.Node, class string) string {
	var found *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && hasClass(n, class) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(n)
	if found == nil {
		return ""
	}
	return strings.Join(strings.Fields(textContent(found)), " ")
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
