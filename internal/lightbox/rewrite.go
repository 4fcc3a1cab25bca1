package lightbox

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Class names and attributes shared with the client script and stylesheet.
const (
	WrapperClass  = "lightbox-wrapper"
	ImageClass    = "lightbox-image"
	ModalClass    = "lightbox-modal"
	MarkerAttr    = "data-lightbox"
	DataSrcAttr   = "data-src"
	DataAltAttr   = "data-alt"
	LoadingAttr   = "loading"
	LoadingLazy   = "lazy"
	markerAttrVal = "true"
)

// Stats counts what a rewrite pass did.
type Stats struct {
	Wrapped        int // images wrapped in this pass
	Skipped        int // images left alone because src is missing or empty
	AlreadyWrapped int // images already inside a wrapper
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Wrapped += other.Wrapped
	s.Skipped += other.Skipped
	s.AlreadyWrapped += other.AlreadyWrapped
}

// Rewrite wraps every qualifying <img> under root in a lightbox wrapper.
// The tree is mutated in place. If enabled is false, the tree is untouched.
//
// Images without a src are skipped silently. Images that already sit inside a
// wrapper are left as they are, so rewriting twice is a no-op.
func Rewrite(root *html.Node, enabled bool) Stats {
	var stats Stats
	if !enabled || root == nil {
		return stats
	}
	rewriteChildren(root, &stats)
	return stats
}

// rewriteChildren visits the children of parent. The child list is
// snapshotted first so replacing a child never disturbs the walk.
func rewriteChildren(parent *html.Node, stats *Stats) {
	var children []*html.Node
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}

	for _, c := range children {
		if c.Type == html.ElementNode && c.Data == "img" {
			rewriteImage(parent, c, stats)
			continue
		}
		rewriteChildren(c, stats)
	}
}

// rewriteImage annotates img and moves it into a new wrapper in its slot.
func rewriteImage(parent, img *html.Node, stats *Stats) {
	src, ok := getAttr(img, "src")
	if !ok || src == "" {
		stats.Skipped++
		return
	}
	if isWrapper(parent) {
		stats.AlreadyWrapped++
		return
	}

	alt, _ := getAttr(img, "alt")

	addClass(img, ImageClass)
	setAttr(img, DataSrcAttr, src)
	setAttr(img, DataAltAttr, alt)
	setAttr(img, LoadingAttr, LoadingLazy)

	wrapper := newWrapper()
	parent.InsertBefore(wrapper, img)
	parent.RemoveChild(img)
	wrapper.AppendChild(img)

	stats.Wrapped++
}

// newWrapper creates <div class="lightbox-wrapper" data-lightbox="true">.
func newWrapper() *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr: []html.Attribute{
			{Key: "class", Val: WrapperClass},
			{Key: MarkerAttr, Val: markerAttrVal},
		},
	}
}

// isWrapper reports whether n is a wrapper produced by this package: a div
// with data-lightbox="true" and the wrapper class. Host markup that reuses
// data-lightbox for its own galleries does not count.
func isWrapper(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode || n.Data != "div" {
		return false
	}
	if marker, _ := getAttr(n, MarkerAttr); marker != markerAttrVal {
		return false
	}
	class, _ := getAttr(n, "class")
	return slices.Contains(strings.Fields(class), WrapperClass)
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// setAttr sets key to val, replacing an existing value.
func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// addClass appends class to the class attribute, keeping existing tokens.
func addClass(n *html.Node, class string) {
	existing, ok := getAttr(n, "class")
	if !ok || strings.TrimSpace(existing) == "" {
		setAttr(n, "class", class)
		return
	}
	setAttr(n, "class", strings.Join(append(strings.Fields(existing), class), " "))
}
