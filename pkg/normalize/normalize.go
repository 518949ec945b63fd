// Package normalize prepares raw registry drug names for comparison:
// case folding, accent stripping, dosage/strength removal, and splitting
// of combination products into individual active ingredients.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	// Strength expressions like "500mg", "0.5 %", "10 mg/ml", "5mcg".
	strengthExpr = regexp.MustCompile(`\b\d+(\.\d+)?\s*(mg|mcg|µg|ug|g|kg|ml|l|iu|%)(/(mg|mcg|ml|l|kg|dose|day))?\b`)
	// Bare numbers left behind after strength stripping ("tablets 500").
	numberExpr  = regexp.MustCompile(`\b\d+(\.\d+)?\b`)
	nonWordExpr = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	spaceExpr   = regexp.MustCompile(`\s+`)
)

// Dosage-form descriptors carry no identity information and are removed
// so "metformin hydrochloride 500mg tablet" and "metformin hydrochloride"
// compare as equals.
var formTokens = map[string]struct{}{
	"tablet": {}, "tablets": {}, "tab": {}, "tabs": {},
	"capsule": {}, "capsules": {}, "cap": {}, "caps": {},
	"injection": {}, "injectable": {}, "inj": {},
	"syrup": {}, "suspension": {}, "solution": {}, "drops": {},
	"cream": {}, "ointment": {}, "gel": {}, "lotion": {},
	"spray": {}, "inhaler": {}, "patch": {}, "suppository": {},
	"oral": {}, "topical": {}, "nasal": {}, "ophthalmic": {},
	"er": {}, "sr": {}, "xr": {}, "cr": {}, "la": {},
}

// Name reduces a raw registry entry to its canonical comparison form.
// The result is lowercase ASCII-folded text with strengths, dosage forms
// and punctuation removed and whitespace collapsed.
func Name(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	if folded, _, err := transform.String(stripAccents, s); err == nil {
		s = folded
	}

	s = strengthExpr.ReplaceAllString(s, " ")
	s = nonWordExpr.ReplaceAllString(s, " ")
	s = numberExpr.ReplaceAllString(s, " ")

	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if _, drop := formTokens[f]; drop {
			continue
		}
		kept = append(kept, f)
	}

	return strings.TrimSpace(spaceExpr.ReplaceAllString(strings.Join(kept, " "), " "))
}

var combinationExpr = regexp.MustCompile(`\s*(\+|/| with | and )\s*`)

// Split explodes a combination product ("amlodipine + atenolol") into its
// individual active ingredients. Single-ingredient names come back as a
// one-element slice; empty components are dropped.
func Split(raw string) []string {
	parts := combinationExpr.Split(raw, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{strings.TrimSpace(raw)}
	}
	return out
}

// Tokens returns the whitespace-delimited token set of an already
// canonical name.
func Tokens(canonical string) []string {
	return strings.Fields(canonical)
}
