package strutil

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slug turns display text into a lower-case ASCII identifier fragment:
// "Café Tools" becomes "cafe-tools". Characters outside IdentifierCharacters
// are dropped after diacritics are folded away.
func Slug(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	kebab := strcase.ToKebab(folded)

	var b strings.Builder
	for _, r := range kebab {
		if r < unicode.MaxASCII && IdentifierCharacters.Contains(r) && r != '.' && r != '_' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(collapseDashes(b.String()), "-")
}

func collapseDashes(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}
