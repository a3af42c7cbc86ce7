// Package prefix adds vendor-prefixed copies of CSS declarations for the
// browsers a site needs to support.
package prefix

import (
	"bytes"
	"io"
	"strings"

	"github.com/tdewolff/parse/css"
)

// A Prefixer adds vendor prefixes to CSS
type Prefixer struct {
	vendors Vendors
}

// New creates a Prefixer for the given browser queries
func New(browsers []string) (*Prefixer, error) {
	vs, err := ParseBrowsers(browsers)
	if err != nil {
		return nil, err
	}

	return &Prefixer{vendors: vs}, nil
}

type token struct {
	tt   css.TokenType
	data []byte
}

type prefixer struct {
	vendors Vendors
	out     bytes.Buffer
	stmt    []token
	blocks  []map[string]bool // Declarations in each block, in order of "{"
	open    []int             // Indexes into blocks
}

// Prefix returns src with prefixed declarations inserted before each
// declaration that needs them. Declarations already present anywhere in a
// block (eg. a hand-written -webkit-transform) are not duplicated.
func (p *Prefixer) Prefix(src []byte) ([]byte, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}

	pr := prefixer{
		vendors: p.vendors,
		blocks:  declared(toks),
		open:    []int{0},
	}

	next := 1
	for _, tok := range toks {
		switch tok.tt {
		case css.LeftBraceToken:
			pr.flush()
			pr.out.Write(tok.data)
			pr.open = append(pr.open, next)
			next++

		case css.SemicolonToken:
			pr.decl()
			pr.out.Write(tok.data)

		case css.RightBraceToken:
			pr.decl()
			pr.out.Write(tok.data)
			if len(pr.open) > 1 {
				pr.open = pr.open[:len(pr.open)-1]
			}

		default:
			pr.stmt = append(pr.stmt, tok)
		}
	}

	pr.decl()
	return pr.out.Bytes(), nil
}

func lex(src []byte) ([]token, error) {
	var toks []token
	l := css.NewLexer(bytes.NewReader(src))

	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if l.Err() != io.EOF {
				return nil, l.Err()
			}

			return toks, nil
		}

		toks = append(toks, token{
			tt:   tt,
			data: append([]byte(nil), data...),
		})
	}
}

// declared collects what each block declares, with index 0 being the top
// level. A display declaration is also recorded with its value.
func declared(toks []token) []map[string]bool {
	blocks := []map[string]bool{{}}
	open := []int{0}

	var stmt []token
	end := func() {
		_, prop, value, ok := splitDecl(stmt)
		if ok {
			block := blocks[open[len(open)-1]]
			block[prop] = true
			if prop == "display" {
				block[displayKey(value)] = true
			}
		}

		stmt = stmt[:0]
	}

	for _, tok := range toks {
		switch tok.tt {
		case css.LeftBraceToken:
			stmt = stmt[:0]
			open = append(open, len(blocks))
			blocks = append(blocks, map[string]bool{})

		case css.SemicolonToken:
			end()

		case css.RightBraceToken:
			end()
			if len(open) > 1 {
				open = open[:len(open)-1]
			}

		default:
			stmt = append(stmt, tok)
		}
	}

	return blocks
}

func displayKey(value string) string {
	return "display:" + strings.ToLower(strings.TrimSpace(value))
}

func (pr *prefixer) flush() {
	for _, tok := range pr.stmt {
		pr.out.Write(tok.data)
	}

	pr.stmt = pr.stmt[:0]
}

// decl handles a statement terminated by ";" or "}": if it's a declaration,
// its prefixed copies are written before it.
func (pr *prefixer) decl() {
	defer pr.flush()

	lead, prop, value, ok := splitDecl(pr.stmt)
	if !ok {
		return
	}

	seen := pr.blocks[pr.open[len(pr.open)-1]]

	if strings.HasPrefix(prop, "-") {
		return
	}

	for _, v := range props[prop] {
		name := string(v) + prop
		if !pr.vendors.Has(v) || seen[name] {
			continue
		}

		pr.out.WriteString(lead)
		pr.out.WriteString(name)
		pr.out.WriteString(":")
		pr.out.WriteString(value)
		pr.out.WriteString(";")
	}

	if prop == "display" {
		for _, vp := range displays[strings.ToLower(strings.TrimSpace(value))] {
			if !pr.vendors.Has(vp.vendor) || seen[displayKey(vp.value)] {
				continue
			}

			pr.out.WriteString(lead)
			pr.out.WriteString("display:")
			pr.out.WriteString(vp.value)
			pr.out.WriteString(";")
		}
	}
}

// splitDecl splits "<ws>prop<ws>:value" into its parts
func splitDecl(stmt []token) (lead, prop, value string, ok bool) {
	i := 0
	for i < len(stmt) && isSpace(stmt[i]) {
		lead += string(stmt[i].data)
		i++
	}

	if i >= len(stmt) || stmt[i].tt != css.IdentToken {
		return
	}

	prop = strings.ToLower(string(stmt[i].data))
	i++

	for i < len(stmt) && isSpace(stmt[i]) {
		i++
	}

	if i >= len(stmt) || stmt[i].tt != css.ColonToken {
		return
	}
	i++

	var b strings.Builder
	for _, tok := range stmt[i:] {
		b.Write(tok.data)
	}

	return lead, prop, b.String(), true
}

func isSpace(tok token) bool {
	return tok.tt == css.WhitespaceToken || tok.tt == css.CommentToken
}
