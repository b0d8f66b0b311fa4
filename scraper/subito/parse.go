package subito

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"subito-tracker/models"
)

// ParseCards extracts every result card from a search results page.
func ParseCards(r io.Reader) ([]models.Card, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("subito: parse html: %w", err)
	}

	var cards []models.Card
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if isElement(n, "div") && hasClass(n, "item-card") {
			cards = append(cards, parseCard(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return cards, nil
}

func parseCard(card *html.Node) models.Card {
	var c models.Card

	if h := find(card, func(n *html.Node) bool { return isElement(n, "h2") }); h != nil {
		c.Title = textContent(h)
	}
	if p := find(card, func(n *html.Node) bool { return isElement(n, "p") && hasClass(n, "price") }); p != nil && p.FirstChild != nil {
		// Only the leading amount: the shipping badge lives in a later child.
		c.Price = textContent(p.FirstChild)
	}
	if a := find(card, func(n *html.Node) bool { return isElement(n, "a") }); a != nil {
		c.URL = attr(a, "href")
	}
	if s := find(card, spanWithClass("town")); s != nil {
		c.Town = textContent(s)
	}
	if s := find(card, spanWithClass("city")); s != nil {
		c.City = textContent(s)
	}
	c.Sold = find(card, spanWithClass("item-sold-badge")) != nil

	return c
}

func spanWithClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return isElement(n, "span") && hasClass(n, class)
	}
}

// find returns the first descendant of n, in document order, matching match.
func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// hasClass reports whether any class token of n contains fragment. Site
// classes carry generated suffixes, e.g. "index-module_price__N7M2x".
func hasClass(n *html.Node, fragment string) bool {
	for _, tok := range strings.Fields(attr(n, "class")) {
		if strings.Contains(tok, fragment) {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return n.Data
	case html.CommentNode:
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
