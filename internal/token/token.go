// Package token adapts lexical tokens produced by an external tokenizer so
// callers can test them against expected values.
//
// An expected value is one of three shapes: a literal string, a set of
// candidate strings, or a token kind. Nothing richer (regular expressions,
// sequences) is supported.
package token

import (
	"fmt"

	"git.home.luguber.info/inful/docsetgen/internal/foundation"
)

// Kind classifies a token. The set is open; tokenizers may define their own.
type Kind string

const (
	KindWord       Kind = "word"
	KindSymbol     Kind = "symbol"
	KindQuoted     Kind = "quoted"
	KindNumber     Kind = "number"
	KindComment    Kind = "comment"
	KindWhitespace Kind = "whitespace"
)

// Location is the 1-based line and column where a token starts.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Token is a single lexical token.
type Token struct {
	Value    string
	Kind     Kind
	Location Location
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %s", t.Kind, t.Value, t.Location)
}

// Matches reports whether t satisfies expected.
func (t Token) Matches(expected Pattern) bool {
	return t.MatchResult(expected).IsSome()
}

// MatchResult returns the index of the matched alternative: always 0 for a
// literal or kind pattern, the candidate position for OneOf. A token that does
// not satisfy expected, or a nil pattern, yields None.
func (t Token) MatchResult(expected Pattern) foundation.Option[int] {
	if expected == nil {
		return foundation.None[int]()
	}
	return expected.match(t)
}
