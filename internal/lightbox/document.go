package lightbox

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const byteOrderMark = "\ufeff"

// documentTag matches the markup only a full page carries. The name must end
// at whitespace, '>' or '/', so <header> and <bodytext> do not count.
var documentTag = regexp.MustCompile(`(?i)<(?:!doctype|html|head|body)[\s>/]`)

// Document is parsed HTML ready to be rewritten and rendered back.
type Document struct {
	// Root is a document node. For a fragment its children are the
	// fragment's top-level nodes.
	Root *html.Node
	// Fragment is true when the input had no page structure of its own.
	Fragment bool

	// prolog is a leading byte order mark and XML declaration, kept
	// verbatim because the parser would drop or comment them out.
	prolog string
}

// ParseHTML parses a page or a fragment.
//
// Content is a full page as soon as it contains a doctype, html, head or body
// tag anywhere, so generator comments, a byte order mark or an XML
// declaration in front of <!DOCTYPE> keep the page structure intact. Anything
// else is parsed in <body> context and renders back without the <html><body>
// wrapper the parser would otherwise add.
func ParseHTML(content string) (*Document, error) {
	prolog, body := splitProlog(content)

	if documentTag.MatchString(body) {
		root, err := html.Parse(strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		return &Document{Root: root, prolog: prolog}, nil
	}

	context := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(body), context)
	if err != nil {
		return nil, err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Document{Root: root, Fragment: true, prolog: prolog}, nil
}

// Render serializes the document, prolog first.
func (d *Document) Render() (string, error) {
	var buf strings.Builder
	buf.WriteString(d.prolog)

	if !d.Fragment {
		if err := html.Render(&buf, d.Root); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := d.Root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// RewriteHTML parses htmlContent, rewrites its images and renders it back.
// Content with nothing to wrap, or a disabled rewrite, comes back unchanged.
func RewriteHTML(htmlContent string, enabled bool) (string, Stats, error) {
	if !enabled {
		return htmlContent, Stats{}, nil
	}

	doc, err := ParseHTML(htmlContent)
	if err != nil {
		return "", Stats{}, err
	}

	stats := Rewrite(doc.Root, true)
	if stats.Wrapped == 0 {
		return htmlContent, stats, nil
	}

	out, err := doc.Render()
	if err != nil {
		return "", stats, err
	}
	return out, stats, nil
}

// splitProlog cuts a leading byte order mark and XML declaration off content.
func splitProlog(content string) (prolog, rest string) {
	n := 0
	if strings.HasPrefix(content, byteOrderMark) {
		n = len(byteOrderMark)
	}

	trimmed := strings.TrimLeft(content[n:], " \t\r\n")
	if len(trimmed) >= 5 && strings.EqualFold(trimmed[:5], "<?xml") {
		if end := strings.Index(trimmed, "?>"); end >= 0 {
			n = len(content) - len(trimmed) + end + len("?>")
		}
	}
	return content[:n], content[n:]
}
