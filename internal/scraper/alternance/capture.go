package alternance

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go-alternance-automation/internal/models"
	"go-alternance-automation/internal/normalizer"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// cardSelectors are tried in order; the first one matching anything wins.
var cardSelectors = []string{
	".fr-card",
	"[data-testid*='result-card']",
	"[class*='ResultCard']",
	"[role='listitem']",
}

var blockElements = map[string]bool{
	"address": true, "article": true, "div": true, "dd": true, "dl": true, "dt": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "li": true, "ol": true, "p": true, "section": true, "ul": true, "tr": true,
}

// ParseCapturedHTML extracts raw cards from a saved results page.
func ParseCapturedHTML(r io.Reader) ([]models.RawCard, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	root := doc.Find("#result-list-content").First()
	if root.Length() == 0 {
		root = doc.Find("body")
	}

	var cards []models.RawCard
	for _, sel := range cardSelectors {
		found := root.Find(sel)
		if found.Length() == 0 {
			continue
		}
		found.Each(func(_ int, s *goquery.Selection) {
			text := VisibleText(s)
			if text == "" {
				return
			}
			href, _ := s.Find("a[href]").First().Attr("href")
			if href == "" {
				href, _ = s.Attr("href")
			}
			cards = append(cards, models.RawCard{
				Text:        text,
				Link:        href,
				SourceIndex: len(cards),
			})
		})
		break
	}
	return cards, nil
}

// VisibleText renders the text of a selection one block per line, the way
// a browser's innerText does.
func VisibleText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(" ")
			b.WriteString(strings.Join(strings.Fields(n.Data), " "))
			b.WriteString(" ")
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" || n.Data == "noscript" {
				return
			}
			if n.Data == "br" {
				b.WriteString("\n")
				return
			}
			block := blockElements[n.Data]
			if block {
				b.WriteString("\n")
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
			if block {
				b.WriteString("\n")
			}
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(normalizer.Lines(b.String()), "\n")
}

// ParseCardsJSON reads a JSON array of raw cards. Cards without an explicit
// index get their array position.
func ParseCardsJSON(r io.Reader) ([]models.RawCard, error) {
	var raw []struct {
		Text        string `json:"text"`
		Link        string `json:"link"`
		SourceIndex *int   `json:"source_index"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode cards: %w", err)
	}
	cards := make([]models.RawCard, len(raw))
	for i, c := range raw {
		idx := i
		if c.SourceIndex != nil {
			idx = *c.SourceIndex
		}
		cards[i] = models.RawCard{Text: c.Text, Link: c.Link, SourceIndex: idx}
	}
	return cards, nil
}
