package recommend

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenizeBio reduces a free-text bio to a keyword set: lowercase, strip
// everything that is not a Latin or Hangul letter or whitespace, split on
// whitespace, drop tokens of one rune or less. Deliberately naive; this is
// not an NLP pipeline.
func TokenizeBio(bio string) map[string]struct{} {
	if bio == "" {
		return nil
	}
	var b strings.Builder
	b.Grow(len(bio))
	for _, r := range strings.ToLower(bio) {
		if keepRune(r) {
			b.WriteRune(r)
		}
	}
	tokens := strings.Fields(b.String())
	if len(tokens) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) <= 1 {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

func keepRune(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	if !unicode.IsLetter(r) {
		return false
	}
	return unicode.Is(unicode.Latin, r) || unicode.Is(unicode.Hangul, r)
}
