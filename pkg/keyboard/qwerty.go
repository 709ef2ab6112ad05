package keyboard

const (
	qwertyKeyWidth  = 60
	qwertyKeyHeight = 80
)

var qwertyRows = []struct {
	chars   string
	xOffset int32
}{
	{"qwertyuiop", 0},
	{"asdfghjkl", 30},
	{"zxcvbnm", 90},
}

// Qwerty returns a synthetic QWERTY layout with uniform 60x80 keys, a
// full-width space bar on the bottom row and a 32x16 proximity grid. It
// backs the debug CLI and tests; production hosts supply their real
// geometry instead.
func Qwerty(locale string) Layout {
	l := Layout{
		Locale:             locale,
		KeyboardWidth:      10 * qwertyKeyWidth,
		KeyboardHeight:     4 * qwertyKeyHeight,
		GridWidth:          32,
		GridHeight:         16,
		MostCommonKeyWidth: qwertyKeyWidth,
	}
	for row, r := range qwertyRows {
		y := int32(row * qwertyKeyHeight)
		for i, ch := range r.chars {
			l.KeyXCoordinates = append(l.KeyXCoordinates, r.xOffset+int32(i*qwertyKeyWidth))
			l.KeyYCoordinates = append(l.KeyYCoordinates, y)
			l.KeyWidths = append(l.KeyWidths, qwertyKeyWidth)
			l.KeyHeights = append(l.KeyHeights, qwertyKeyHeight)
			l.KeyCharCodes = append(l.KeyCharCodes, ch)
		}
	}
	// Space bar spans the middle of the bottom row.
	l.KeyXCoordinates = append(l.KeyXCoordinates, 2*qwertyKeyWidth)
	l.KeyYCoordinates = append(l.KeyYCoordinates, int32(3*qwertyKeyHeight))
	l.KeyWidths = append(l.KeyWidths, 6*qwertyKeyWidth)
	l.KeyHeights = append(l.KeyHeights, qwertyKeyHeight)
	l.KeyCharCodes = append(l.KeyCharCodes, KeycodeSpace)
	return l
}

// KeyCenter returns the center point of the key carrying code, or (-1, -1)
// when the layout has no such key. Callers synthesizing touch traces from
// typed text use it to place their points.
func (l Layout) KeyCenter(code int32) (x, y int) {
	base := BaseLowerCode(code)
	for i, c := range l.KeyCharCodes {
		if c == base {
			return int(l.KeyXCoordinates[i] + l.KeyWidths[i]/2),
				int(l.KeyYCoordinates[i] + l.KeyHeights[i]/2)
		}
	}
	return -1, -1
}
