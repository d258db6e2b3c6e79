package petfood

import (
	"regexp"
	"strconv"
	"strings"
)

// Normalization of noisy page text into canonical values. All functions
// are pure and report absence through their second return value rather
// than an error: a value that cannot be normalized is simply not there.

var (
	priceCharRE   = regexp.MustCompile(`[^\d.,]`)
	numberTokenRE = regexp.MustCompile(`\d+(?:\.\d+)*`)
	countTokenRE  = regexp.MustCompile(`[\d.,]+`)
	ratingTextRE  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s+out of\s+\d+`)
	starClassRE   = regexp.MustCompile(`^(?:a-)?star(?:-small|-mini)?-(\d)(?:-(\d))?$`)
)

// ParsePrice normalizes a visible price string to a float value.
// Currency symbols and whitespace are stripped, a comma decimal separator
// is normalized to a dot, and the first integer-or-decimal token is
// parsed. Text with no digits reports absence.
//
//	"€1.234,56" -> 1234.56
//	"$19.99"    -> 19.99
func ParsePrice(text string) (float64, bool) {
	cleaned := priceCharRE.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	token := numberTokenRE.FindString(cleaned)
	if token == "" {
		return 0, false
	}
	// "1.234.56" from European thousands grouping: the decimal part is
	// the final group, everything before it is the integer part.
	if parts := strings.Split(token, "."); len(parts) > 2 {
		token = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseCount normalizes a count like "1,234 ratings" to an integer.
// Thousands separators (comma or dot) are stripped before parsing.
func ParseCount(text string) (int, bool) {
	token := countTokenRE.FindString(text)
	if token == "" {
		return 0, false
	}
	token = strings.NewReplacer(",", "", ".", "").Replace(token)
	if token == "" {
		return 0, false
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseRatingText extracts a star rating from "X out of Y stars" text.
// Values outside [0,5] are rejected.
func ParseRatingText(text string) (float64, bool) {
	m := ratingTextRE.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v < 0 || v > 5 {
		return 0, false
	}
	return v, true
}

// ParseStarClass decodes a star rating from a structural class token.
// Both whole and half star forms are understood, the second numeral
// group meaning tenths:
//
//	"a-star-4"   -> 4.0
//	"a-star-4-5" -> 4.5
func ParseStarClass(class string) (float64, bool) {
	m := starClassRE.FindStringSubmatch(class)
	if m == nil {
		return 0, false
	}
	whole, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] != "" {
		tenths, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, false
		}
		whole += tenths / 10
	}
	if whole < 0 || whole > 5 {
		return 0, false
	}
	return whole, true
}

// CollapseSpace trims a string and collapses internal whitespace runs
// (including newlines from pretty-printed markup) to single spaces.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
