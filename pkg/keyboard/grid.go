package keyboard

// BuildProximityGrid derives a proximity grid from a layout's key
// rectangles for callers that have no precomputed grid. Every key
// contributes its code to each cell its rectangle overlaps, with the
// rectangle inflated by the most common key width so neighboring keys land
// in adjacent cells; the resolver's admission tests (on-key, squared edge
// distance) then filter per touch point.
//
// The result is GridWidth*GridHeight cells of maxProximityCharsSize codes
// each, NotACode padded.
func BuildProximityGrid(l Layout, maxProximityCharsSize int) []int32 {
	cellWidth := (l.KeyboardWidth + l.GridWidth - 1) / l.GridWidth
	cellHeight := (l.KeyboardHeight + l.GridHeight - 1) / l.GridHeight

	grid := make([]int32, l.GridWidth*l.GridHeight*maxProximityCharsSize)
	for i := range grid {
		grid[i] = NotACode
	}

	// Geometry slices may be absent or short; treat the missing entries
	// as all-zero rather than indexing past them.
	keyCount := min(len(l.KeyCharCodes), MaxKeyCount)
	codes := copyOrZero(l.KeyCharCodes, keyCount)
	xs := copyOrZero(l.KeyXCoordinates, keyCount)
	ys := copyOrZero(l.KeyYCoordinates, keyCount)
	widths := copyOrZero(l.KeyWidths, keyCount)
	heights := copyOrZero(l.KeyHeights, keyCount)
	for k := 0; k < keyCount; k++ {
		code := codes[k]
		left := int(xs[k]) - l.MostCommonKeyWidth
		top := int(ys[k]) - l.MostCommonKeyWidth
		right := int(xs[k]+widths[k]) + l.MostCommonKeyWidth
		bottom := int(ys[k]+heights[k]) + l.MostCommonKeyWidth

		firstCol := max(left/cellWidth, 0)
		lastCol := min(right/cellWidth, l.GridWidth-1)
		firstRow := max(top/cellHeight, 0)
		lastRow := min(bottom/cellHeight, l.GridHeight-1)

		for row := firstRow; row <= lastRow; row++ {
			for col := firstCol; col <= lastCol; col++ {
				appendToCell(grid, (row*l.GridWidth+col)*maxProximityCharsSize,
					maxProximityCharsSize, code)
			}
		}
	}
	return grid
}

// appendToCell inserts code at the first free slot of a fixed-size cell,
// skipping duplicates. A full cell drops the code silently; the candidate
// list width bounds what a resolver could use from it anyway.
func appendToCell(grid []int32, start, width int, code int32) {
	for i := 0; i < width; i++ {
		switch grid[start+i] {
		case code:
			return
		case NotACode:
			grid[start+i] = code
			return
		}
	}
}
