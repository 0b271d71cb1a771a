package token

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsetgen/internal/foundation"
	"git.home.luguber.info/inful/docsetgen/internal/util/sliceutil"
)

// Pattern is an expected token value. Use Literal, OneOf or OfKind to build one.
type Pattern interface {
	match(t Token) foundation.Option[int]
	fmt.Stringer
}

type literal string

// Literal matches a token whose value equals s exactly.
func Literal(s string) Pattern { return literal(s) }

func (p literal) match(t Token) foundation.Option[int] {
	if t.Value == string(p) {
		return foundation.Some(0)
	}
	return foundation.None[int]()
}

func (p literal) String() string { return fmt.Sprintf("%q", string(p)) }

type oneOf []string

// OneOf matches a token whose value equals any candidate.
func OneOf(candidates ...string) Pattern { return oneOf(candidates) }

func (p oneOf) match(t Token) foundation.Option[int] {
	return sliceutil.IndexOfWithValue([]string(p), t.Value, func(s string) string { return s })
}

func (p oneOf) String() string {
	quoted := make([]string, len(p))
	for i, s := range p {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "one of [" + strings.Join(quoted, ", ") + "]"
}

type ofKind Kind

// OfKind matches any token of kind k.
func OfKind(k Kind) Pattern { return ofKind(k) }

func (p ofKind) match(t Token) foundation.Option[int] {
	if t.Kind == Kind(p) {
		return foundation.Some(0)
	}
	return foundation.None[int]()
}

func (p ofKind) String() string { return "any " + string(p) }

// Expect returns nil when t matches expected and otherwise a diagnostic that
// names the token location.
func Expect(t Token, expected Pattern) error {
	if t.Matches(expected) {
		return nil
	}
	want := "<nothing>"
	if expected != nil {
		want = expected.String()
	}
	return fmt.Errorf("%s: expected %s, found %q", t.Location, want, t.Value)
}
