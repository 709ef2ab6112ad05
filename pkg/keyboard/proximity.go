package keyboard

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// ProximityInfo resolves touch points to candidate character codes using a
// keyboard layout's key geometry and its proximity grid. Instances are
// immutable after construction; rebuild one whenever the layout changes.
type ProximityInfo struct {
	locale                string
	maxProximityCharsSize int

	keyboardWidth  int
	keyboardHeight int
	gridWidth      int
	gridHeight     int
	cellWidth      int
	cellHeight     int

	mostCommonKeyWidthSquare int

	keyCount     int
	keyX         []int32
	keyY         []int32
	keyWidths    []int32
	keyHeights   []int32
	keyCharCodes []int32

	sweetSpotCenterXs []float32
	sweetSpotCenterYs []float32
	sweetSpotRadii    []float32

	hasTouchPositionCorrectionData bool

	proximityChars []int32
	codeToKeyIndex [MaxCharCode + 1]int

	additional *AdditionalProximityChars

	// debug gates the assertion-style diagnostics for conditions that are
	// truncated or defaulted in normal operation.
	debug bool
}

// NewProximityInfo builds a resolver from a layout. A nil additional table
// disables locale confusables. The debug flag surfaces unexpectedly dense
// proximity data and invalid coordinates at warn level instead of silently
// applying the safe default.
func NewProximityInfo(l Layout, additional *AdditionalProximityChars, debug bool) (*ProximityInfo, error) {
	if l.GridWidth <= 0 || l.GridHeight <= 0 {
		return nil, fmt.Errorf("keyboard: invalid grid dimensions %dx%d", l.GridWidth, l.GridHeight)
	}
	if l.KeyboardWidth <= 0 || l.KeyboardHeight <= 0 {
		return nil, fmt.Errorf("keyboard: invalid keyboard dimensions %dx%d", l.KeyboardWidth, l.KeyboardHeight)
	}

	maxProx := DefaultMaxProximityCharsSize
	if l.ProximityListWidth > 0 {
		maxProx = l.ProximityListWidth
	}
	keyCount := min(len(l.KeyCharCodes), MaxKeyCount)

	p := &ProximityInfo{
		locale:                   l.Locale,
		maxProximityCharsSize:    maxProx,
		keyboardWidth:            l.KeyboardWidth,
		keyboardHeight:           l.KeyboardHeight,
		gridWidth:                l.GridWidth,
		gridHeight:               l.GridHeight,
		cellWidth:                (l.KeyboardWidth + l.GridWidth - 1) / l.GridWidth,
		cellHeight:               (l.KeyboardHeight + l.GridHeight - 1) / l.GridHeight,
		mostCommonKeyWidthSquare: l.MostCommonKeyWidth * l.MostCommonKeyWidth,
		keyCount:                 keyCount,
		keyX:                     copyOrZero(l.KeyXCoordinates, keyCount),
		keyY:                     copyOrZero(l.KeyYCoordinates, keyCount),
		keyWidths:                copyOrZero(l.KeyWidths, keyCount),
		keyHeights:               copyOrZero(l.KeyHeights, keyCount),
		keyCharCodes:             copyOrZero(l.KeyCharCodes, keyCount),
		sweetSpotCenterXs:        copyOrZero(l.SweetSpotCenterXs, keyCount),
		sweetSpotCenterYs:        copyOrZero(l.SweetSpotCenterYs, keyCount),
		sweetSpotRadii:           copyOrZero(l.SweetSpotRadii, keyCount),
		hasTouchPositionCorrectionData: keyCount > 0 &&
			len(l.KeyXCoordinates) > 0 && len(l.KeyYCoordinates) > 0 &&
			len(l.KeyWidths) > 0 && len(l.KeyHeights) > 0 &&
			len(l.KeyCharCodes) > 0 && len(l.SweetSpotCenterXs) > 0 &&
			len(l.SweetSpotCenterYs) > 0 && len(l.SweetSpotRadii) > 0,
		additional: additional,
		debug:      debug,
	}

	if l.ProximityChars != nil {
		want := l.GridWidth * l.GridHeight * maxProx
		if len(l.ProximityChars) != want {
			return nil, fmt.Errorf("keyboard: proximity grid has %d entries, want %d", len(l.ProximityChars), want)
		}
		p.proximityChars = append([]int32(nil), l.ProximityChars...)
	} else {
		p.proximityChars = BuildProximityGrid(l, maxProx)
	}

	p.initCodeToKeyIndex()
	return p, nil
}

// initCodeToKeyIndex builds the reverse lookup from a base lowercase char
// code to its index in the key arrays.
func (p *ProximityInfo) initCodeToKeyIndex() {
	for i := range p.codeToKeyIndex {
		p.codeToKeyIndex[i] = NotAnIndex
	}
	for i := 0; i < p.keyCount; i++ {
		code := p.keyCharCodes[i]
		if code >= 0 && code <= MaxCharCode {
			p.codeToKeyIndex[code] = i
		}
	}
}

// MaxProximityCharsSize is the fixed width of candidate code lists this
// resolver produces.
func (p *ProximityInfo) MaxProximityCharsSize() int { return p.maxProximityCharsSize }

// Locale reports the layout locale the resolver was built for.
func (p *ProximityInfo) Locale() string { return p.locale }

// HasTouchPositionCorrectionData reports whether the layout supplied
// complete sweet-spot geometry.
func (p *ProximityInfo) HasTouchPositionCorrectionData() bool {
	return p.hasTouchPositionCorrectionData
}

func (p *ProximityInfo) startIndexFromCoordinates(x, y int) int {
	return ((y/p.cellHeight)*p.gridWidth + x/p.cellWidth) * p.maxProximityCharsSize
}

// HasSpaceProximity reports whether the grid cell under the touch point
// lists the space code. Negative coordinates are invalid input: a
// diagnostic is logged and false returned.
func (p *ProximityInfo) HasSpaceProximity(x, y int) bool {
	if x < 0 || y < 0 {
		log.Warnf("HasSpaceProximity: illegal coordinates (%d, %d)", x, y)
		return false
	}
	start := p.startIndexFromCoordinates(x, y)
	if start < 0 || start+p.maxProximityCharsSize > len(p.proximityChars) {
		return false
	}
	for i := 0; i < p.maxProximityCharsSize; i++ {
		if p.proximityChars[start+i] == KeycodeSpace {
			return true
		}
	}
	return false
}

// SquaredDistanceToEdge returns the squared distance from a point to the
// key's rectangle, zero when the point lies inside it. A negative key id
// reports zero so absent geometry never penalizes a candidate.
func (p *ProximityInfo) SquaredDistanceToEdge(keyID, x, y int) int {
	if keyID < 0 {
		return 0
	}
	left := int(p.keyX[keyID])
	top := int(p.keyY[keyID])
	right := left + int(p.keyWidths[keyID])
	bottom := top + int(p.keyHeights[keyID])
	edgeX := clamp(x, left, right)
	edgeY := clamp(y, top, bottom)
	dx := x - edgeX
	dy := y - edgeY
	return dx*dx + dy*dy
}

// IsOnKey reports rectangle containment for a key id; negative ids are
// always on key.
func (p *ProximityInfo) IsOnKey(keyID, x, y int) bool {
	if keyID < 0 {
		return true
	}
	left := int(p.keyX[keyID])
	top := int(p.keyY[keyID])
	right := left + int(p.keyWidths[keyID])
	bottom := top + int(p.keyHeights[keyID])
	return left <= x && x <= right && top <= y && y <= bottom
}

// KeyIndexOf resolves a char code to its key index after base lowercase
// folding, NotAnIndex when the layout has no coordinate data or the code
// is unknown.
func (p *ProximityInfo) KeyIndexOf(c int32) int {
	if p.keyCount == 0 {
		return NotAnIndex
	}
	base := BaseLowerCode(c)
	if base < 0 || base > MaxCharCode {
		return NotAnIndex
	}
	return p.codeToKeyIndex[base]
}

// CalculateNearbyKeyCodes fills out with the candidate code list for one
// touch point: the primary code first, then grid-derived codes that pass
// either the on-key test or the squared-edge-distance threshold, then a
// delimiter and the locale's deduplicated confusable codes, NotACode
// padded. out must be MaxProximityCharsSize long. The list truncates
// rather than overflowing when proximity data is unexpectedly dense.
func (p *ProximityInfo) CalculateNearbyKeyCodes(x, y int, primary int32, out []int32) {
	insertPos := 0
	out[insertPos] = primary
	insertPos++

	if x < 0 || y < 0 {
		// Typed-only input carries no usable touch point; resolve to the
		// primary code alone instead of computing on garbage.
		log.Debugf("CalculateNearbyKeyCodes: no touch point for code %d", primary)
		for i := insertPos; i < p.maxProximityCharsSize; i++ {
			out[i] = NotACode
		}
		return
	}

	start := p.startIndexFromCoordinates(x, y)
	if start >= 0 && start+p.maxProximityCharsSize <= len(p.proximityChars) {
		for i := 0; i < p.maxProximityCharsSize; i++ {
			c := p.proximityChars[start+i]
			if c < KeycodeSpace || c == primary {
				continue
			}
			keyIndex := p.KeyIndexOf(c)
			onKey := p.IsOnKey(keyIndex, x, y)
			distance := p.SquaredDistanceToEdge(keyIndex, x, y)
			if onKey || distance < p.mostCommonKeyWidthSquare {
				out[insertPos] = c
				insertPos++
				if insertPos >= p.maxProximityCharsSize {
					if p.debug {
						log.Warnf("candidate list truncated at (%d, %d): proximity data too dense", x, y)
					}
					return
				}
			}
		}
		if size := p.additional.Size(p.locale, primary); size > 0 {
			out[insertPos] = AdditionalProximityCharDelimiter
			insertPos++
			if insertPos >= p.maxProximityCharsSize {
				if p.debug {
					log.Warnf("candidate list truncated at (%d, %d): proximity data too dense", x, y)
				}
				return
			}
			for _, ac := range p.additional.Chars(p.locale, primary) {
				if containsCode(out[:insertPos], ac) {
					continue
				}
				out[insertPos] = ac
				insertPos++
				if insertPos >= p.maxProximityCharsSize {
					if p.debug {
						log.Warnf("candidate list truncated at (%d, %d): proximity data too dense", x, y)
					}
					return
				}
			}
		}
	}

	for i := insertPos; i < p.maxProximityCharsSize; i++ {
		out[i] = NotACode
	}
}

func containsCode(codes []int32, c int32) bool {
	for _, v := range codes {
		if v == c {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
