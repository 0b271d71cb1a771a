// Package strutil holds string predicates and identifier helpers.
package strutil

import (
	"unicode"

	"git.home.luguber.info/inful/docsetgen/internal/util/sets"
)

// CharacterSet is a membership test over runes.
type CharacterSet interface {
	Contains(r rune) bool
}

type runeSet sets.Set[rune]

func (s runeSet) Contains(r rune) bool { return sets.Set[rune](s).Has(r) }

// RunesOf returns the set of runes appearing in chars.
func RunesOf(chars string) CharacterSet {
	s := sets.New[rune]()
	for _, r := range chars {
		s.Add(r)
	}
	return runeSet(s)
}

type rangeSet []*unicode.RangeTable

func (s rangeSet) Contains(r rune) bool { return unicode.IsOneOf(s, r) }

// RangesOf returns a set backed by unicode range tables, e.g. RangesOf(unicode.Letter).
func RangesOf(tables ...*unicode.RangeTable) CharacterSet {
	return rangeSet(tables)
}

type unionSet []CharacterSet

func (s unionSet) Contains(r rune) bool {
	for _, member := range s {
		if member != nil && member.Contains(r) {
			return true
		}
	}
	return false
}

// Union returns a set containing every rune of any of the given sets.
func Union(members ...CharacterSet) CharacterSet {
	return unionSet(members)
}

var asciiAlphanumeric = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: '0', Hi: '9', Stride: 1},
		{Lo: 'A', Hi: 'Z', Stride: 1},
		{Lo: 'a', Hi: 'z', Stride: 1},
	},
	LatinOffset: 3,
}

// IdentifierCharacters are the runes allowed in a hierarchical namespace
// identifier such as a reverse-DNS company ID: ASCII letters and digits plus
// '.', '-' and '_'.
var IdentifierCharacters = Union(RangesOf(asciiAlphanumeric), RunesOf(".-_"))

// ContainsOnlyCharactersFromSet reports whether every rune of s is in set.
// It is true for the empty string regardless of set.
func ContainsOnlyCharactersFromSet(s string, set CharacterSet) bool {
	if s == "" {
		return true
	}
	if set == nil {
		return false
	}
	for _, r := range s {
		if !set.Contains(r) {
			return false
		}
	}
	return true
}
