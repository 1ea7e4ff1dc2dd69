package render

import (
	"fmt"
	"strings"
	"unicode"
)

// Lines splits a multi-line field into its non-blank, trimmed lines. Each
// returned line is one logical list item.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// StripListMarker removes a leading list marker ("-", "*", "•" or "1.", "2)")
// from a line, so the target format can re-add its own marker without
// doubling up.
func StripListMarker(line string) string {
	s := strings.TrimSpace(line)
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "*") || strings.HasPrefix(s, "•") {
		return strings.TrimSpace(strings.TrimLeft(s, "-*• "))
	}
	// Digits followed by "." or ")".
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

// StartsWithDigit reports whether the line already carries its own numbering.
func StartsWithDigit(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	return unicode.IsDigit(rune(line[0]))
}

// DisplayValue substitutes the placeholder for blank values; every renderer
// goes through this so a missing cell looks the same in all formats.
func DisplayValue(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// FormatPercent renders a percentage with one decimal, e.g. "95.8%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatCountPercent renders "69 (95.8%)", the form used in the summary rows.
func FormatCountPercent(count int, pct float64) string {
	return fmt.Sprintf("%d (%s)", count, FormatPercent(pct))
}
