package grammar

import (
	"fmt"
	goparser "go/parser"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"
)

const (
	keywordLazy = "lazy"
	keywordEnum = "enum"
)

// Parse parses .props source. Errors are reported as scanner.ErrorList, the first structural
// mismatch stops parsing and no partial result is returned.
func Parse(fset *token.FileSet, filename string, src []byte) (_ *File, err error) {
	toks, err := Lex(fset, filename, src)
	if err != nil {
		return nil, err
	}

	p := &parser{
		fset: fset,
		src:  src,
		toks: toks,
	}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
		}
		if len(p.errs) > 0 {
			p.errs.Sort()
			err = p.errs
		}
	}()

	res := p.parseFile()
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return res, nil
}

type bailout struct{}

type parser struct {
	fset *token.FileSet
	src  []byte
	toks []Token
	pos  int
	errs scanner.ErrorList
}

func (p *parser) parseFile() *File {
	res := &File{}
	for p.at(token.IMPORT) {
		p.next()
		if !p.match(token.LPAREN) {
			res.Imports = append(res.Imports, p.parseImport())
			continue
		}
		for {
			for p.peek().Tok == token.SEMICOLON {
				p.next()
			}
			if p.at(token.RPAREN) {
				break
			}
			res.Imports = append(res.Imports, p.parseImport())
		}
		p.expect(token.RPAREN, ") closing imports")
	}

	for {
		for p.peek().Tok == token.SEMICOLON {
			p.next()
		}
		if p.at(token.EOF) {
			break
		}
		res.Enums = append(res.Enums, p.parseEnum())
	}

	if len(res.Enums) == 0 {
		p.fail(p.peek().Pos, "no enums found")
	}
	seen := map[string]*Enum{}
	for _, e := range res.Enums {
		if prev, ok := seen[e.Name]; ok {
			p.report(e.Pos, "duplicate enum %s, the previous one was declared at %s", e.Name, prev.Pos)
			continue
		}
		seen[e.Name] = e
	}

	return res
}

func (p *parser) parseImport() *Import {
	res := &Import{
		Pos: p.position(p.peek().Pos),
	}
	switch t := p.peek(); t.Tok {
	case token.IDENT, token.PERIOD:
		p.next()
		res.Name = t.Text()
	}

	t := p.expect(token.STRING, "import path")
	path, err := strconv.Unquote(t.Lit)
	if err != nil || path == "" {
		p.fail(t.Pos, "malformed import path %s", t.Lit)
	}
	res.Path = path

	return res
}

func (p *parser) parseEnum() *Enum {
	doc := p.doc()

	res := &Enum{
		Doc: doc,
		Pos: p.position(p.peek().Pos),
	}
	if p.isIdent(keywordLazy) {
		p.next()
		res.Lazy = true
	}
	if !p.isIdent(keywordEnum) {
		p.fail(p.peek().Pos, "expected %s, got %s", keywordEnum, p.peek().Text())
	}
	p.next()

	res.Name = p.expectIdent("enum name").Lit
	p.expect(token.COLON, "record type after enum name")
	res.Record = p.expectIdent("record type name").Lit
	p.expect(token.LBRACE, "{ opening enum body")

	if p.trailingDefaultAhead() {
		res.Form = FormTrailing
	}

	seen := map[string]*Variant{}
	for !p.at(token.RBRACE) {
		if res.Form == FormTrailing && p.atDefault() {
			if len(res.Variants) == 0 {
				p.fail(p.peek().Pos, "default record of enum %s must follow its variants", res.Name)
			}
			p.next()
			p.next()
			res.Default = p.parseExpr(fmt.Sprintf("default record of enum %s", res.Name))
			p.match(token.COMMA)
			if !p.at(token.RBRACE) {
				p.fail(p.peek().Pos, "default record must be the last item of enum %s", res.Name)
			}
			break
		}

		v := p.parseVariant(res)
		if prev, ok := seen[v.Name]; ok {
			p.report(v.Pos, "duplicate variant %s.%s, the previous one was declared at %s", res.Name, v.Name, prev.Pos)
		} else {
			seen[v.Name] = v
		}
		res.Variants = append(res.Variants, v)

		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE, ", or } after variant")

	if len(res.Variants) == 0 {
		p.fail(p.prev().Pos, "enum %s has no variants", res.Name)
	}

	return res
}

func (p *parser) parseVariant(e *Enum) *Variant {
	doc := p.doc()
	name := p.expectIdent("variant name")
	res := &Variant{
		Pos:  p.position(name.Pos),
		Doc:  doc,
		Name: name.Lit,
	}

	p.expect(token.LBRACE, fmt.Sprintf("{ opening properties of variant %s", res.Name))
	seen := map[string]*Init{}
	for !p.at(token.RBRACE) {
		if p.atDefault() {
			if e.Form == FormTrailing {
				p.fail(
					p.peek().Pos,
					"default record of variant %s cannot be mixed with the trailing default record of enum %s",
					res.Name,
					e.Name,
				)
			}
			p.next()
			p.next()
			res.Default = p.parseExpr(fmt.Sprintf("default record of variant %s", res.Name))
			p.match(token.COMMA)
			if !p.at(token.RBRACE) {
				p.fail(p.peek().Pos, "default record must be the last item of variant %s properties", res.Name)
			}
			break
		}

		field := p.expectIdent(fmt.Sprintf("property name of variant %s", res.Name))
		p.expect(token.COLON, fmt.Sprintf(": after property %s", field.Lit))
		init := &Init{
			Pos:   p.position(field.Pos),
			Field: field.Lit,
			Value: p.parseExpr(fmt.Sprintf("value of %s.%s", res.Name, field.Lit)),
		}
		if prev, ok := seen[init.Field]; ok {
			p.report(init.Pos, "duplicate property %s of variant %s, the previous one was set at %s", init.Field, res.Name, prev.Pos)
		} else {
			seen[init.Field] = init
		}
		res.Inits = append(res.Inits, init)

		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE, fmt.Sprintf(", or } after property of variant %s", res.Name))

	if p.at(token.LBRACE) {
		res.Payload = p.parseStructPayload(res)
	}
	if p.at(token.LPAREN) {
		pos := p.peek().Pos
		tuple := p.parseTuplePayload(res)
		if res.Payload.Kind != PayloadNone {
			p.report(p.position(pos), "variant %s cannot have both struct and tuple payloads", res.Name)
		} else {
			res.Payload = tuple
		}
	}
	if p.match(token.ASSIGN) {
		res.Discriminant = p.parseExpr(fmt.Sprintf("discriminant of variant %s", res.Name))
	}

	return res
}

func (p *parser) parseStructPayload(v *Variant) Payload {
	res := Payload{Kind: PayloadStruct}
	p.expect(token.LBRACE, "{")

	seen := map[string]*PayloadField{}
	for {
		doc := p.doc()
		if p.at(token.SEMICOLON) {
			p.next()
			continue
		}
		if p.at(token.RBRACE) {
			break
		}

		name := p.expectIdent(fmt.Sprintf("field name of variant %s payload", v.Name))
		field := &PayloadField{
			Pos:  p.position(name.Pos),
			Doc:  doc,
			Name: name.Lit,
		}
		field.Type = p.parseType(fmt.Sprintf("type of %s.%s", v.Name, name.Lit))
		field.Tag = p.parseTag()

		if prev, ok := seen[field.Name]; ok {
			p.report(field.Pos, "duplicate field %s of variant %s payload, the previous one was declared at %s", field.Name, v.Name, prev.Pos)
		} else {
			seen[field.Name] = field
		}
		res.Fields = append(res.Fields, field)

		t := p.rawPeek()
		switch t.Tok {
		case token.SEMICOLON, token.COMMA:
			p.pos++
		case token.RBRACE:
		default:
			p.fail(t.Pos, "expected field separator after %s.%s, got %s", v.Name, name.Lit, t.Text())
		}
	}
	p.expect(token.RBRACE, fmt.Sprintf("} closing variant %s payload", v.Name))

	return res
}

func (p *parser) parseTuplePayload(v *Variant) Payload {
	res := Payload{Kind: PayloadTuple}
	p.expect(token.LPAREN, "(")

	for {
		doc := p.doc()
		if p.at(token.RPAREN) {
			break
		}

		field := &PayloadField{
			Pos: p.position(p.peek().Pos),
			Doc: doc,
		}
		field.Type = p.parseType(fmt.Sprintf("type of %s slot %d", v.Name, len(res.Fields)))
		field.Tag = p.parseTag()
		res.Fields = append(res.Fields, field)

		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN, fmt.Sprintf(", or ) after variant %s payload slot", v.Name))

	if len(res.Fields) == 0 {
		p.report(v.Pos, "variant %s has empty tuple payload", v.Name)
	}

	return res
}

// parseExpr takes Go expression up to the closest top level separator
func (p *parser) parseExpr(what string) *Expr {
	start, end := p.span(false)
	if start == end {
		p.fail(p.toks[start].Pos, "expected %s, got %s", what, p.toks[start].Text())
	}

	text := p.text(start, end)
	if _, err := goparser.ParseExpr(text); err != nil {
		p.fail(p.toks[start].Pos, "invalid %s: %s", what, stripErrorPosition(err))
	}

	return &Expr{
		Pos:  p.position(p.toks[start].Pos),
		Text: text,
	}
}

// parseType takes Go type up to the closest top level separator or struct tag
func (p *parser) parseType(what string) string {
	start, end := p.span(true)
	if start == end {
		p.fail(p.toks[start].Pos, "expected %s, got %s", what, p.toks[start].Text())
	}

	text := p.text(start, end)
	if _, err := goparser.ParseExpr("struct{ _ " + text + " }"); err != nil {
		p.fail(p.toks[start].Pos, "invalid %s: %s", what, stripErrorPosition(err))
	}

	return text
}

func (p *parser) parseTag() string {
	t := p.rawPeek()
	if t.Tok != token.STRING {
		return ""
	}
	p.pos++
	if _, err := strconv.Unquote(t.Lit); err != nil {
		p.fail(t.Pos, "malformed struct tag %s", t.Lit)
	}
	return t.Lit
}

// span looks for a token range of an expression or a type starting at the current position.
// The range stops at the top level comma, semicolon (line breaks included), unbalanced closing bracket
// and, for types, at a top level string literal.
func (p *parser) span(stopAtString bool) (int, int) {
	p.skip()
	start := p.pos
	depth := 0

loop:
	for ; p.pos < len(p.toks); p.pos++ {
		t := p.toks[p.pos]
		switch t.Tok {
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			if depth == 0 {
				break loop
			}
			depth--
		case token.COMMA, token.SEMICOLON:
			if depth == 0 {
				break loop
			}
		case token.STRING:
			if stopAtString && depth == 0 && p.pos > start {
				break loop
			}
		case token.EOF:
			break loop
		}
	}

	end := p.pos
	for end > start && p.toks[end-1].Tok == token.COMMENT {
		end--
	}
	return start, end
}

func (p *parser) text(start, end int) string {
	return string(p.src[p.toks[start].Offset:p.toks[end-1].End])
}

// trailingDefaultAhead looks through the rest of enum body for a top level .. marker
func (p *parser) trailingDefaultAhead() bool {
	depth := 0
	for i := p.pos; i < len(p.toks)-1; i++ {
		switch p.toks[i].Tok {
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			if depth == 0 {
				return false
			}
			depth--
		case token.PERIOD:
			if depth == 0 && p.adjacentPeriods(i) {
				return true
			}
		case token.EOF:
			return false
		}
	}
	return false
}

// atDefault checks if the current position is at .. marker
func (p *parser) atDefault() bool {
	t := p.peek()
	if t.Tok == token.ELLIPSIS {
		p.fail(t.Pos, "default records are introduced with .., not ...")
	}
	return t.Tok == token.PERIOD && p.adjacentPeriods(p.ahead())
}

func (p *parser) adjacentPeriods(i int) bool {
	if i+1 >= len(p.toks) {
		return false
	}
	a, b := p.toks[i], p.toks[i+1]
	return a.Tok == token.PERIOD && b.Tok == token.PERIOD && a.End == b.Offset
}

// doc collects comments standing right before the next significant token. Trailing comments of
// previous lines and comment groups separated with an empty line are not taken.
func (p *parser) doc() []string {
	var res []string
	prevLine := -1
	for i := p.pos - 1; i >= 0; i-- {
		if t := p.toks[i]; t.Tok != token.COMMENT && !t.LineBreak() {
			prevLine = p.position(t.Pos).Line
			break
		}
	}

	lastEnd := -1
	for ; p.pos < len(p.toks); p.pos++ {
		t := p.toks[p.pos]
		if t.LineBreak() {
			continue
		}
		line := p.position(t.Pos).Line
		if t.Tok != token.COMMENT {
			if lastEnd >= 0 && line > lastEnd+1 {
				res = nil
			}
			break
		}

		if line == prevLine {
			// trailing comment of the previous token
			continue
		}
		if lastEnd >= 0 && line > lastEnd+1 {
			res = nil
		}
		res = append(res, t.Lit)
		lastEnd = line + commentLines(t.Lit) - 1
	}

	return res
}

// skip moves past comments and line breaks
func (p *parser) skip() {
	p.pos = p.ahead()
}

// ahead returns index of the next token which is neither a comment nor a line break
func (p *parser) ahead() int {
	i := p.pos
	for i < len(p.toks)-1 {
		t := p.toks[i]
		if t.Tok != token.COMMENT && !t.LineBreak() {
			break
		}
		i++
	}
	return i
}

// rawPeek returns the next token, line breaks included
func (p *parser) rawPeek() Token {
	for p.pos < len(p.toks)-1 && p.toks[p.pos].Tok == token.COMMENT {
		p.pos++
	}
	return p.toks[p.pos]
}

// peek returns the next significant token, comments before it are kept for doc
func (p *parser) peek() Token {
	return p.toks[p.ahead()]
}

func (p *parser) prev() Token {
	for i := p.pos - 1; i >= 0; i-- {
		t := p.toks[i]
		if t.Tok != token.COMMENT && !t.LineBreak() {
			return t
		}
	}
	return p.toks[0]
}

func (p *parser) next() Token {
	p.skip()
	t := p.toks[p.pos]
	if t.Tok != token.EOF {
		p.pos++
	}
	return t
}

func (p *parser) at(tok token.Token) bool {
	return p.peek().Tok == tok
}

func (p *parser) isIdent(name string) bool {
	t := p.peek()
	return t.Tok == token.IDENT && t.Lit == name
}

func (p *parser) match(tok token.Token) bool {
	if p.at(tok) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(tok token.Token, what string) Token {
	if !p.at(tok) {
		p.fail(p.peek().Pos, "expected %s, got %s", what, p.peek().Text())
	}
	return p.next()
}

func (p *parser) expectIdent(what string) Token {
	t := p.peek()
	if t.Tok != token.IDENT {
		p.fail(t.Pos, "expected %s, got %s", what, t.Text())
	}
	return p.next()
}

func (p *parser) position(pos token.Pos) token.Position {
	return p.fset.Position(pos)
}

func (p *parser) report(pos token.Position, format string, a ...interface{}) {
	p.errs.Add(pos, fmt.Sprintf(format, a...))
}

func (p *parser) fail(pos token.Pos, format string, a ...interface{}) {
	p.report(p.position(pos), format, a...)
	panic(bailout{})
}

// stripErrorPosition removes position prefix go/parser puts into error messages about
// synthetic sources, it means nothing to users
func stripErrorPosition(err error) string {
	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		return list[0].Msg
	}
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
