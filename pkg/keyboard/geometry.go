/*
Package keyboard models the spatial side of fuzzy touch input: per-key
geometry, the precomputed proximity grid over keyboard pixel space, and the
resolver that turns a raw touch point into an ordered list of plausible
character codes.

A [ProximityInfo] is built once per keyboard layout and is read-only
afterwards; concurrent suggestion requests may share it freely.
*/
package keyboard

const (
	// MaxKeyCount caps how many keys a single layout may carry. Layouts
	// with more keys are truncated at construction.
	MaxKeyCount = 64

	// MaxCharCode is the highest character code covered by the
	// code-to-key index. Codes above it never resolve to a key.
	MaxCharCode = 127

	// KeycodeSpace is the space character code. Grid cells may contain it;
	// candidate resolution skips anything below it as reserved.
	KeycodeSpace = int32(' ')

	// NotACode pads candidate code lists past their last real entry.
	NotACode = int32(-1)

	// NotAnIndex marks a failed code-to-key lookup.
	NotAnIndex = -1

	// AdditionalProximityCharDelimiter separates grid-derived candidates
	// from locale confusable codes inside a candidate list.
	AdditionalProximityCharDelimiter = int32(2)

	// DefaultMaxProximityCharsSize is the fixed width of a candidate code
	// list unless the layout overrides it.
	DefaultMaxProximityCharsSize = 16
)

// Layout carries the raw per-keyboard data a ProximityInfo is built from.
// The sweet-spot slices are optional; when any of the per-key slices is
// absent the layout has no touch-correction data and the corresponding
// arrays are treated as all-zero.
type Layout struct {
	Locale string

	KeyboardWidth  int
	KeyboardHeight int
	GridWidth      int
	GridHeight     int

	// MostCommonKeyWidth feeds the squared-distance admission threshold.
	MostCommonKeyWidth int

	// ProximityListWidth overrides DefaultMaxProximityCharsSize when
	// positive.
	ProximityListWidth int

	KeyXCoordinates []int32
	KeyYCoordinates []int32
	KeyWidths       []int32
	KeyHeights      []int32
	KeyCharCodes    []int32

	SweetSpotCenterXs []float32
	SweetSpotCenterYs []float32
	SweetSpotRadii    []float32

	// ProximityChars is the precomputed grid: GridWidth*GridHeight cells of
	// maxProximityCharsSize codes each, NotACode padded. Leave nil to have
	// the grid derived from the key rectangles.
	ProximityChars []int32
}

// copyOrZero returns a copy of src sized to n, zero filled where src is
// absent or short.
func copyOrZero[T int32 | float32](src []T, n int) []T {
	dst := make([]T, n)
	copy(dst, src)
	return dst
}

// BaseLowerCode folds a character code to its base lowercase form: ASCII
// uppercase is lowered and common Latin-1 accented letters collapse to
// their unaccented base. Codes without a mapping pass through unchanged.
func BaseLowerCode(c int32) int32 {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	// Latin-1 uppercase block, excluding the multiplication sign.
	if c >= 0xC0 && c <= 0xDE && c != 0xD7 {
		c += 0x20
	}
	switch {
	case c >= 0xE0 && c <= 0xE5: // à..å
		return 'a'
	case c == 0xE7: // ç
		return 'c'
	case c >= 0xE8 && c <= 0xEB: // è..ë
		return 'e'
	case c >= 0xEC && c <= 0xEF: // ì..ï
		return 'i'
	case c == 0xF1: // ñ
		return 'n'
	case c >= 0xF2 && c <= 0xF6: // ò..ö
		return 'o'
	case c >= 0xF9 && c <= 0xFC: // ù..ü
		return 'u'
	case c == 0xFD || c == 0xFF: // ý ÿ
		return 'y'
	}
	return c
}
