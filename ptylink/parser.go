package ptylink

import "strings"

type TokenKind int

const (
	TokenText TokenKind = iota
	TokenBell
)

type Token struct {
	Kind TokenKind
	Text string
}

// Parse splits decoded child output into text runs and bells. Every other
// byte, escape sequences included, passes through untouched.
func Parse(s string) []Token {
	var toks []Token
	for {
		i := strings.IndexByte(s, '\a')
		if i < 0 {
			break
		}
		if i > 0 {
			toks = append(toks, Token{Kind: TokenText, Text: s[:i]})
		}
		toks = append(toks, Token{Kind: TokenBell})
		s = s[i+1:]
	}
	if s != "" {
		toks = append(toks, Token{Kind: TokenText, Text: s})
	}
	return toks
}
