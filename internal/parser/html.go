package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/coverdoc/internal/document"
)

// HTMLParser handles HTML files as a single page. h1-h3 become markdown
// headings so the segmenter can see them; tables, images, and links set
// layout hints.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &document.Document{Title: titleFrom(filename)}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	var page document.Page
	var blocks []string
	add := func(s string) {
		if s != "" {
			blocks = append(blocks, s)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "head":
				return
			case "img":
				page.Layout.HasImage = true
			case "a":
				if attr(n, "href") != "" {
					page.Layout.HasLinks = true
				}
			case "table":
				page.Layout.HasTable = true
			}

			if level := headingLevel(n.Data); level > 0 {
				if t := textContent(n); t != "" {
					if level <= 3 {
						t = strings.Repeat("#", level) + " " + t
					}
					add(t)
				}
				noteHints(n, &page.Layout)
				return
			}
			switch n.Data {
			case "p", "li", "blockquote":
				add(textContent(n))
				noteHints(n, &page.Layout)
				return
			case "tr":
				add(rowText(n))
				noteHints(n, &page.Layout)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	page.Text = strings.Join(blocks, "\n\n")
	if page.Text != "" || page.Layout != (document.LayoutHints{}) {
		doc.Pages = []document.Page{page}
	}
	return doc, nil
}

// noteHints records images and links nested inside a block that is not
// walked element by element.
func noteHints(n *html.Node, h *document.LayoutHints) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch {
			case c.Data == "img":
				h.HasImage = true
			case c.Data == "a" && attr(c, "href") != "":
				h.HasLinks = true
			}
		}
		noteHints(c, h)
	}
}

func rowText(tr *html.Node) string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, textContent(c))
		}
	}
	return strings.TrimSpace(strings.Join(cells, "\t"))
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
