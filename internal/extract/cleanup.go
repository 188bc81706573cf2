package extract

import (
	"strings"
	"unicode"
)

// bracketReplacer removes the bracket characters episode titles and
// descriptions decorate names with
var bracketReplacer = strings.NewReplacer(
	"【", " ", "】", " ",
	"[", " ", "]", " ",
	"(", " ", ")", " ",
	"（", " ", "）", " ",
	"「", " ", "」", " ",
	"『", " ", "』", " ",
)

// verbSuffixes are common trailing verb/particle fragments that rules
// with loose character classes drag along ("ラーメン屋に行ってきた" →
// "ラーメン屋"). Ordered longest-first so the most specific strip wins.
var verbSuffixes = []string{
	"に行ってきました",
	"へ行ってきました",
	"に行ってきた",
	"へ行ってきた",
	"行ってきた",
	"に行きました",
	"に行った",
	"へ行った",
	"行った",
	"を食べました",
	"を食べた",
	"食べた",
	"を買いました",
	"を買った",
	"買った",
	"を購入",
	"購入した",
	"購入",
	"してきた",
	"しました",
}

// CleanName runs the extraction cleanup pass: strips brackets,
// collapses internal whitespace, trims edge punctuation, and strips
// trailing verb/particle suffixes. Returns "" when nothing survives.
func CleanName(match string) string {
	s := bracketReplacer.Replace(match)
	s = strings.Join(strings.Fields(s), " ")
	s = trimEdgePunct(s)

	for _, suffix := range verbSuffixes {
		if stripped := strings.TrimSuffix(s, suffix); stripped != s {
			s = trimEdgePunct(stripped)
			break
		}
	}

	return strings.TrimSpace(s)
}

// trimEdgePunct trims leading/trailing punctuation and symbols while
// leaving interior characters (ドン・キホーテ keeps its middle dot)
func trimEdgePunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
	})
}
