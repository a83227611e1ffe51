package website

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/custodia-labs/bizassist/internal/core/domain"
)

// boilerplate lists elements that never carry page content.
const boilerplate = "script, style, nav, footer, noscript, template, svg, head"

// blockSep separates block-level elements in extracted text.
const blockSep = "\n\n"

// blockTags are elements rendered as their own paragraph.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"figure": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "td": true, "th": true, "tr": true,
	"ul": true,
}

// extraction is the text and outbound links found on a page.
type extraction struct {
	Text  string
	Links []string
}

// extract parses an HTML page. Links are collected from the full document,
// including navigation; text excludes boilerplate elements.
func extract(body []byte, pageURL *url.URL, mode domain.ExtractionMode) (*extraction, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	links := extractLinks(doc, pageURL)

	if mode == domain.ExtractionReadability {
		article, err := readability.FromReader(bytes.NewReader(body), pageURL)
		if err != nil {
			return nil, fmt.Errorf("readability: %w", err)
		}
		doc, err = goquery.NewDocumentFromReader(strings.NewReader(article.Content))
		if err != nil {
			return nil, fmt.Errorf("parse article: %w", err)
		}
	}

	doc.Find(boilerplate).Remove()

	var sb strings.Builder
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	walk(root, &sb)

	return &extraction{
		Text:  collapseBlocks(sb.String()),
		Links: links,
	}, nil
}

// extractLinks resolves every a[href] against the page URL.
// Only http and https links are returned.
func extractLinks(doc *goquery.Document, pageURL *url.URL) []string {
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		ref, err := pageURL.Parse(href)
		if err != nil {
			return
		}
		if ref.Scheme != "http" && ref.Scheme != "https" {
			return
		}
		ref.Fragment = ""
		ref.RawFragment = ""
		links = append(links, ref.String())
	})
	return links
}

// walk writes the visible text under s, separating block elements by blank lines.
func walk(s *goquery.Selection, sb *strings.Builder) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		switch {
		case name == "#text":
			sb.WriteString(c.Text())
		case name == "#comment":
		case name == "br":
			sb.WriteString("\n")
		case blockTags[name]:
			sb.WriteString(blockSep)
			walk(c, sb)
			sb.WriteString(blockSep)
		default:
			walk(c, sb)
		}
	})
}

// collapseBlocks normalises whitespace inside each block and joins
// non-empty blocks with a single blank line.
func collapseBlocks(raw string) string {
	parts := strings.Split(raw, blockSep)
	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		words := strings.Fields(p)
		if len(words) == 0 {
			continue
		}
		blocks = append(blocks, strings.Join(words, " "))
	}
	return strings.Join(blocks, blockSep)
}
