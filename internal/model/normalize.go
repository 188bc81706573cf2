package model

import "strings"

// NormalizeName folds a candidate name into its deduplication key:
// lowercase, internal whitespace collapsed to single spaces, edges
// trimmed. The folding is deterministic; two candidates with equal
// normalized names must be merged before a result is emitted.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
