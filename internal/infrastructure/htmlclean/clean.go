// Package htmlclean strips page source down to the markup worth keeping in
// failure evidence.
package htmlclean

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

type Config struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// DropAttrPrefixes removes attributes such as inline event handlers.
	DropAttrPrefixes []string
	MaxOutputSize    int
}

func DefaultConfig() Config {
	return Config{
		TagsToRemove: []string{
			"script", "style", "noscript", "svg", "iframe", "link", "meta",
		},
		AttrsToRemove: []string{
			"style", "srcset", "sizes", "loading", "decoding", "fetchpriority",
		},
		DropAttrPrefixes: []string{"on"},
		MaxOutputSize:    256_000,
	}
}

// Clean parses rawHTML and renders the whole document back without noise
// tags, comments and dropped attributes.
func Clean(rawHTML string, cfg Config) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	cleanNode(doc, cfg)

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return truncate(sb.String(), cfg.MaxOutputSize), nil
}

// Title returns the text of the first <title> element.
func Title(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	n := find(doc, "title")
	if n == nil || n.FirstChild == nil {
		return ""
	}
	return strings.TrimSpace(n.FirstChild.Data)
}

func find(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := find(c, tag); f != nil {
			return f
		}
	}
	return nil
}

func cleanNode(n *html.Node, cfg Config) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && slices.Contains(cfg.TagsToRemove, c.Data):
			n.RemoveChild(c)
		case c.Type == html.ElementNode:
			c.Attr = filterAttributes(c.Attr, cfg)
			cleanNode(c, cfg)
		default:
			cleanNode(c, cfg)
		}
		c = next
	}
}

func filterAttributes(attrs []html.Attribute, cfg Config) []html.Attribute {
	kept := attrs[:0]
	for _, attr := range attrs {
		if shouldRemoveAttr(attr.Key, cfg) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func shouldRemoveAttr(key string, cfg Config) bool {
	if slices.Contains(cfg.AttrsToRemove, key) {
		return true
	}
	for _, p := range cfg.DropAttrPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func truncate(s string, maxSize int) string {
	if maxSize > 0 && len(s) > maxSize {
		return s[:maxSize] + "\n<!-- truncated -->"
	}
	return s
}
