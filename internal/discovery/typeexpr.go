package discovery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/dtogen/internal/model"
)

// ErrTypeSyntax marks a field type that does not follow the declaration
// grammar.
var ErrTypeSyntax = errors.New("type syntax")

// ParseTypeExpr parses a declared field type into a shape tree:
//
//	type  := qname [ "<" type { "," type } ">" ] { "[" "]" }
//	qname := ident { "." ident }
//
// A wildcard argument ("?", "? extends T") cannot be mirrored; it is kept as
// an invalid shape so the failure belongs to the type that declares it.
func ParseTypeExpr(text string) (*model.Shape, error) {
	p := &typeParser{src: text}
	shape, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return shape, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return errors.Wrapf(ErrTypeSyntax, "%q at %d: "+format, append([]any{p.src, p.pos}, args...)...)
}

func (p *typeParser) eof() bool {
	return p.pos >= len(p.src)
}

// next decodes the rune at the current position without consuming it.
func (p *typeParser) next() (rune, int) {
	return utf8.DecodeRuneInString(p.src[p.pos:])
}

func (p *typeParser) skipSpace() {
	for !p.eof() {
		r, size := p.next()
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

// peek returns the next non-space byte, or 0 at the end.
func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) expect(c byte) error {
	if p.peek() != c {
		if p.eof() {
			return p.errorf("expected %q, got end of input", c)
		}
		r, _ := p.next()
		return p.errorf("expected %q, got %q", c, r)
	}
	p.pos++
	return nil
}

func (p *typeParser) parseType() (*model.Shape, error) {
	if p.peek() == '?' {
		return p.parseWildcard(), nil
	}

	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	shape := model.Simple(model.ParseTypeRef(name))

	if p.peek() == '<' {
		p.pos++
		var args []*model.Shape
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek() != ',' {
				break
			}
			p.pos++
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		shape = model.Parameterized(shape.Ref, args...)
	}

	dims := 0
	for p.peek() == '[' {
		p.pos++
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		dims++
	}
	if dims > 0 {
		shape = model.Array(shape, dims)
	}
	return shape, nil
}

// parseWildcard consumes a wildcard up to the end of its type argument.
func (p *typeParser) parseWildcard() *model.Shape {
	start, depth := p.pos, 0
	for ; !p.eof(); p.pos++ {
		switch p.src[p.pos] {
		case '<':
			depth++
		case '>':
			if depth == 0 {
				return model.Invalid(strings.TrimSpace(p.src[start:p.pos]))
			}
			depth--
		case ',':
			if depth == 0 {
				return model.Invalid(strings.TrimSpace(p.src[start:p.pos]))
			}
		}
	}
	return model.Invalid(strings.TrimSpace(p.src[start:]))
}

func (p *typeParser) parseQualifiedName() (string, error) {
	var parts []string
	for {
		p.skipSpace()
		start := p.pos
		for !p.eof() {
			r, size := p.next()
			if !isIdentChar(r, p.pos == start) {
				break
			}
			p.pos += size
		}
		if p.pos == start {
			if p.eof() {
				return "", p.errorf("expected identifier, got end of input")
			}
			r, _ := p.next()
			return "", p.errorf("expected identifier, got %q", r)
		}
		parts = append(parts, p.src[start:p.pos])
		if p.peek() != '.' {
			return strings.Join(parts, "."), nil
		}
		p.pos++
	}
}

func isIdentChar(r rune, first bool) bool {
	if r == '_' || r == '$' || unicode.IsLetter(r) {
		return true
	}
	return !first && unicode.IsDigit(r)
}

// isIdentifier reports whether s is a single identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !isIdentChar(r, i == 0) {
			return false
		}
	}
	return true
}

// isQualifiedName reports whether s is a dotted sequence of identifiers.
func isQualifiedName(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if !isIdentifier(part) {
			return false
		}
	}
	return true
}
