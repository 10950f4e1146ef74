// Package names canonicalizes player display names into lookup keys.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var suffixes = map[string]struct{}{
	"jr":  {},
	"sr":  {},
	"ii":  {},
	"iii": {},
	"iv":  {},
	"v":   {},
}

// Letters that carry no combining mark under NFD and would otherwise be lost.
var transliterations = map[rune]string{
	'ł': "l",
	'ø': "o",
	'đ': "d",
	'ß': "ss",
	'æ': "ae",
	'œ': "oe",
	'ı': "i",
	'þ': "th",
}

// Normalize converts a display name into a canonical key: diacritics are
// stripped, the result is lowercased, every non-letter becomes a separator,
// generational suffixes are dropped, and a leading run of single-letter
// initials is collapsed into one token ("P. J. Tucker" and "PJ Tucker" both
// yield "pj tucker").
//
// The output only contains ASCII lowercase letters and single spaces, so
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	tokens := tokenize(fold(raw))
	tokens = dropSuffixes(tokens)
	tokens = collapseInitials(tokens)
	return strings.Join(tokens, " ")
}

// LastToken returns the final whitespace-separated token of a key.
func LastToken(key string) string {
	fields := strings.Fields(key)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func fold(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, raw)
	if err != nil {
		stripped = raw
	}
	return strings.ToLower(stripped)
}

func tokenize(s string) []string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			sb.WriteRune(r)
		default:
			if repl, ok := transliterations[r]; ok {
				sb.WriteString(repl)
				continue
			}
			sb.WriteByte(' ')
		}
	}
	return strings.Fields(sb.String())
}

// dropSuffixes removes suffix tokens anywhere except the first position, so a
// name whose leading token happens to spell a suffix survives intact.
func dropSuffixes(tokens []string) []string {
	out := tokens[:0:0]
	for i, tok := range tokens {
		if _, ok := suffixes[tok]; ok && i > 0 {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func collapseInitials(tokens []string) []string {
	run := 0
	for run < len(tokens) && len(tokens[run]) == 1 {
		run++
	}
	if run < 2 {
		return tokens
	}
	merged := strings.Join(tokens[:run], "")
	return append([]string{merged}, tokens[run:]...)
}
