package keyboard

// AdditionalProximityChars is the per-locale table of extra confusable
// codes appended to a candidate list after the grid-derived neighbors.
// Lookups are keyed by (locale, primary code); locales without a table
// resolve to nothing.
type AdditionalProximityChars struct {
	table map[string]map[int32][]int32
}

// English vowels are confusable with each other regardless of key
// distance, so each one lists the remaining four.
var englishVowels = map[int32][]int32{
	'a': {'e', 'i', 'o', 'u'},
	'e': {'a', 'i', 'o', 'u'},
	'i': {'a', 'e', 'o', 'u'},
	'o': {'a', 'e', 'i', 'u'},
	'u': {'a', 'e', 'i', 'o'},
}

// DefaultAdditionalProximityChars returns the builtin table, currently the
// English vowel confusables.
func DefaultAdditionalProximityChars() *AdditionalProximityChars {
	return &AdditionalProximityChars{
		table: map[string]map[int32][]int32{
			"en": englishVowels,
		},
	}
}

// NewAdditionalProximityChars builds a table from caller data; per-locale
// maps are used as-is and must not be mutated afterwards.
func NewAdditionalProximityChars(table map[string]map[int32][]int32) *AdditionalProximityChars {
	return &AdditionalProximityChars{table: table}
}

// Size reports how many additional codes exist for (locale, code).
func (a *AdditionalProximityChars) Size(locale string, code int32) int {
	return len(a.Chars(locale, code))
}

// Chars returns the ordered additional codes for (locale, code), nil when
// none exist. The returned slice must not be modified.
func (a *AdditionalProximityChars) Chars(locale string, code int32) []int32 {
	if a == nil {
		return nil
	}
	byCode, ok := a.table[locale]
	if !ok {
		return nil
	}
	return byCode[BaseLowerCode(code)]
}
