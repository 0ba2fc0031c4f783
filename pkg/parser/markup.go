package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Mode selects how forgiving tree construction is.
type Mode int

const (
	// ModeLenient runs the HTML5 tree construction algorithm. Unclosed and
	// misnested tags are repaired and implied elements (html, body, tbody)
	// are inserted, so the tree can differ from the source nesting.
	ModeLenient Mode = iota
	// ModeLiteral builds the tree exactly as the tags nest in the source,
	// with only minimal recovery. See parseLiteral.
	ModeLiteral
)

func (m Mode) String() string {
	switch m {
	case ModeLenient:
		return "lenient"
	case ModeLiteral:
		return "literal"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMarkup parses markup into a navigable document using the given mode.
func ParseMarkup(markup string, mode Mode) (*goquery.Document, error) {
	switch mode {
	case ModeLenient:
		return goquery.NewDocumentFromReader(strings.NewReader(markup))
	case ModeLiteral:
		root, err := parseLiteral(strings.NewReader(markup))
		if err != nil {
			return nil, err
		}
		return goquery.NewDocumentFromNode(root), nil
	default:
		return nil, fmt.Errorf("unknown parse mode: %v", mode)
	}
}

// parseLiteral builds a tree straight from the token stream:
//   - no implied elements and no foster parenting
//   - void elements (meta, br, img, input ...) never take children
//   - an end tag closes the nearest open element with the same name, along
//     with everything opened inside it
//   - an end tag with no matching open element is dropped
//   - anything still open at EOF is closed
func parseLiteral(r io.Reader) (*html.Node, error) {
	doc := &html.Node{Type: html.DocumentNode}
	open := []*html.Node{doc}

	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("failed to tokenize HTML: %w", err)
			}
			return doc, nil
		}

		tok := z.Token()
		current := open[len(open)-1]

		switch tt {
		case html.TextToken:
			current.AppendChild(&html.Node{Type: html.TextNode, Data: tok.Data})
		case html.CommentToken:
			current.AppendChild(&html.Node{Type: html.CommentNode, Data: tok.Data})
		case html.DoctypeToken:
			current.AppendChild(&html.Node{Type: html.DoctypeNode, Data: tok.Data})
		case html.StartTagToken, html.SelfClosingTagToken:
			n := &html.Node{
				Type:     html.ElementNode,
				Data:     tok.Data,
				DataAtom: tok.DataAtom,
				Attr:     tok.Attr,
			}
			current.AppendChild(n)
			if tt == html.StartTagToken && !isVoid(tok.DataAtom) {
				open = append(open, n)
			}
		case html.EndTagToken:
			for i := len(open) - 1; i > 0; i-- {
				if open[i].Data == tok.Data {
					open = open[:i]
					break
				}
			}
		}
	}
}

var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

func isVoid(a atom.Atom) bool {
	return voidElements[a]
}
