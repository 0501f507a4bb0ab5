package grammar

import (
	"bytes"
	"go/scanner"
	"go/token"
	"strings"
)

// Token a scanned token with its source span
type Token struct {
	Tok    token.Token
	Lit    string
	Pos    token.Pos
	Offset int
	End    int
}

// LineBreak checks if the token is a semicolon inserted by the scanner at the end of line
func (t Token) LineBreak() bool {
	return t.Tok == token.SEMICOLON && t.Lit == "\n"
}

// Text returns source representation of the token
func (t Token) Text() string {
	if t.Lit != "" && !t.LineBreak() {
		return t.Lit
	}
	return t.Tok.String()
}

// Lex splits source into Go tokens, comments included. Scanning errors are returned as scanner.ErrorList
func Lex(fset *token.FileSet, filename string, src []byte) ([]Token, error) {
	file := fset.AddFile(filename, -1, len(src))

	var errs scanner.ErrorList
	var s scanner.Scanner
	s.Init(file, src, func(pos token.Position, msg string) {
		errs.Add(pos, msg)
	}, scanner.ScanComments)

	var res []Token
	for {
		pos, tok, lit := s.Scan()
		offset := file.Offset(pos)
		t := Token{
			Tok:    tok,
			Lit:    lit,
			Pos:    pos,
			Offset: offset,
		}
		switch {
		case tok == token.EOF:
			t.End = offset
		case t.LineBreak():
			t.End = offset + 1
		default:
			t.End = literalEnd(src, offset, t.Text())
		}
		if t.End > len(src) {
			t.End = len(src)
		}
		res = append(res, t)
		if tok == token.EOF {
			break
		}
	}

	if len(errs) > 0 {
		errs.Sort()
		return nil, errs
	}
	return res, nil
}

// literalEnd returns offset right after the token. The scanner drops carriage returns out of raw strings
// and general comments, so their ends are looked up in the source.
func literalEnd(src []byte, offset int, text string) int {
	switch {
	case strings.HasPrefix(text, "`"):
		if i := bytes.IndexByte(src[offset+1:], '`'); i >= 0 {
			return offset + i + 2
		}
	case strings.HasPrefix(text, "/*"):
		if i := bytes.Index(src[offset+2:], []byte("*/")); i >= 0 {
			return offset + i + 4
		}
	}
	return offset + len(text)
}

// commentLines returns how many lines the comment spans
func commentLines(lit string) int {
	return strings.Count(lit, "\n") + 1
}
