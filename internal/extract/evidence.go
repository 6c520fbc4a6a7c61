package extract

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Link is a citation found in analysis text
type Link struct {
	Title   string
	URL     string
	Ordinal int // Reliability ordinal 1-5 signalled next to the link, 0 when none
}

var (
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\s)]+)\)`)
	bareURLPattern      = regexp.MustCompile(`https?://[^\s\)\]>"']+`)
	htmlHintPattern     = regexp.MustCompile(`(?i)<a\s[^>]*href=`)
)

// LooksLikeHTML reports whether text carries HTML anchors
func LooksLikeHTML(text string) bool {
	return htmlHintPattern.MatchString(text)
}

// AnchorLinks extracts http(s) anchors from an HTML fragment
func AnchorLinks(fragment string) []Link {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := ""
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = strings.TrimSpace(attr.Val)
				}
			}
			if resolved := absoluteHTTP(href); resolved != "" {
				title := strings.TrimSpace(nodeText(n))
				if title == "" {
					title = HostTitle(resolved)
				}
				links = append(links, Link{Title: title, URL: resolved})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return DedupeLinks(links)
}

// VisibleText returns the text nodes of an HTML fragment, skipping scripts and styles
func VisibleText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "p", "br", "li", "div", "h1", "h2", "h3", "h4", "tr":
				buf.WriteString("\n")
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// absoluteHTTP keeps only absolute http(s) URLs
func absoluteHTTP(href string) string {
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return parsed.String()
}

// HostTitle derives a display title from a URL host
func HostTitle(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}

// NormalizeURL returns the deduplication key of a URL: lower-case scheme and host,
// no "www.", fragment, tracking parameters or trailing slash
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return strings.TrimSpace(rawURL)
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	parsed.Fragment = ""

	if parsed.RawQuery != "" {
		q := parsed.Query()
		for _, param := range []string{
			"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
			"fbclid", "gclid", "msclkid",
		} {
			q.Del(param)
		}
		parsed.RawQuery = q.Encode()
	}

	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	return parsed.String()
}

// DedupeLinks removes links whose normalized URL was already seen; the first one wins
func DedupeLinks(links []Link) []Link {
	seen := make(map[string]bool)
	unique := make([]Link, 0, len(links))

	for _, l := range links {
		key := NormalizeURL(l.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, l)
	}

	return unique
}
