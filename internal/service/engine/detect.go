package engine

import "unicode"

// scriptLanguages maps a Unicode script to the supported language written in
// it. Latin-script languages cannot be told apart this way and fall back to
// English, like the original classifier did for unsupported codes.
var scriptLanguages = []struct {
	script *unicode.RangeTable
	code   string
}{
	{unicode.Devanagari, "hi"},
	{unicode.Tamil, "ta"},
	{unicode.Telugu, "te"},
	{unicode.Bengali, "bn"},
	{unicode.Gujarati, "gu"},
	{unicode.Kannada, "kn"},
	{unicode.Malayalam, "ml"},
	{unicode.Gurmukhi, "pa"},
	{unicode.Arabic, "ur"},
}

// DetectLanguage guesses the language of text from its dominant script.
// Returns "en" when nothing conclusive is found.
func DetectLanguage(text string) string {
	counts := make(map[string]int)
	for _, r := range text {
		for _, sl := range scriptLanguages {
			if unicode.Is(sl.script, r) {
				counts[sl.code]++
				break
			}
		}
	}

	best, bestCount := "en", 0
	for code, n := range counts {
		if n > bestCount {
			best, bestCount = code, n
		}
	}
	return best
}
